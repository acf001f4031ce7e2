package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/abrezinsky/classbet/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

const ctrlC = 0x03

// console maps single key presses to operator actions
type console struct {
	boardURL string
	adminURL string
	log      *logger.SlogLogger
	open     func(url string) error
	out      io.Writer
	quit     chan<- struct{}
}

// run reads keys from r until r fails or a quit key is pressed
func (c *console) run(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if c.handleKey(buf[0]) {
			select {
			case c.quit <- struct{}{}:
			default:
			}
			return
		}
	}
}

// handleKey performs the action bound to key and reports whether it was a quit key
func (c *console) handleKey(key byte) bool {
	switch unicode.ToLower(rune(key)) {
	case 'b':
		c.openURL("board", c.boardURL)
	case 'a':
		c.openURL("admin page", c.adminURL)
	case 'h':
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging enabled%s\n", green, reset)
		}
	case 'l':
		next := logger.NextLevel(c.log.GetLevel())
		c.log.SetLevel(next)
		fmt.Fprintf(c.out, "%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case '?':
		printKeyboardHelp(c.out)
	case 'q', ctrlC:
		fmt.Fprintf(c.out, "%sShutting down server...%s\n", yellow, reset)
		return true
	}
	return false
}

func (c *console) openURL(what, url string) {
	fmt.Fprintf(c.out, "%sOpening %s in browser...%s\n", cyan, what, reset)
	if err := c.open(url); err != nil {
		fmt.Fprintf(c.out, "%sError opening browser: %v%s\n", red, err, reset)
	}
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Fprintf(w, "    %sb%s      - Open board in browser\n", cyan, reset)
	fmt.Fprintf(w, "    %sa%s      - Open admin page in browser\n", cyan, reset)
	fmt.Fprintf(w, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(w, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(w, "    %sq%s      - Quit server\n", cyan, reset)
	fmt.Fprintf(w, "    %s?%s      - Show this help\n\n", cyan, reset)
}

// showLogo prints the startup banner
func showLogo(w io.Writer) {
	logo := []string{
		`   ____ _               ____       _    `,
		`  / ___| | __ _ ___ ___| __ )  ___| |_  `,
		` | |   | |/ _' / __/ __|  _ \ / _ \ __| `,
		` | |___| | (_| \__ \__ \ |_) |  __/ |_  `,
		`  \____|_|\__,_|___/___/____/ \___|\__| `,
	}
	width := 46
	border := strings.Repeat("═", width)

	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Fprintf(w, "  %s║%s   %-*s%s║%s\n", cyan, yellow, width-3, line, cyan, reset)
	}
	fmt.Fprintf(w, "  %s╚%s╝%s\n\n", cyan, border, reset)
}

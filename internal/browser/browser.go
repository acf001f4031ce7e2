// Package browser opens the scoreboard in the desktop's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Commander starts an external program without waiting for it
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander executes actual commands
type RealCommander struct{}

// Start executes a command and starts it
func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener launches URLs with the platform's URL handler
type Opener struct {
	cmd  Commander
	goos string
}

// NewOpener returns an Opener for the running platform
func NewOpener() *Opener {
	return &Opener{cmd: RealCommander{}, goos: runtime.GOOS}
}

// NewOpenerFor returns an Opener using cmd as if running on goos
func NewOpenerFor(cmd Commander, goos string) *Opener {
	return &Opener{cmd: cmd, goos: goos}
}

// Open opens an http or https URL. Other schemes are refused so a stored
// value can never launch a local file or program.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	name, args, err := command(o.goos, u.String())
	if err != nil {
		return err
	}
	return o.cmd.Start(name, args...)
}

// Open opens rawURL with the platform's default browser
func Open(rawURL string) error {
	return NewOpener().Open(rawURL)
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

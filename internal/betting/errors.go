package betting

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Bet validation sentinels. A *BetValidationError unwraps to exactly one of them.
var (
	ErrMissingBet          = errors.New("missing bet")
	ErrDuplicateBet        = errors.New("duplicate bet")
	ErrAmountOutOfRange    = errors.New("bet amount out of range")
	ErrCrossCategoryTarget = errors.New("bet target outside bettor's category")
)

// UnknownClassError is returned when a class id is not in the registry
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class: %q", e.Class)
}

// UnknownCategoryError is returned when a category name is not in the registry
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: %q", e.Category)
}

// IntegrityError reports classes that have no points record
type IntegrityError struct {
	Missing []string
}

func (e *IntegrityError) Error() string {
	missing := append([]string(nil), e.Missing...)
	sort.Strings(missing)
	return fmt.Sprintf("points missing for classes: %s", strings.Join(missing, ", "))
}

// MissingWinnerError is returned when a category has no declared winner
type MissingWinnerError struct {
	Category string
}

func (e *MissingWinnerError) Error() string {
	return fmt.Sprintf("no winner declared for %s", e.Category)
}

// InvalidWinnerError is returned when the declared winner is not a member of the category
type InvalidWinnerError struct {
	Category string
	Winner   string
}

func (e *InvalidWinnerError) Error() string {
	return fmt.Sprintf("winner %q is not a member of %s", e.Winner, e.Category)
}

// BetValidationError describes a rejected bet
type BetValidationError struct {
	Class  string
	Reason error
	Detail string
}

func (e *BetValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("bet for %s: %v (%s)", e.Class, e.Reason, e.Detail)
	}
	return fmt.Sprintf("bet for %s: %v", e.Class, e.Reason)
}

func (e *BetValidationError) Unwrap() error {
	return e.Reason
}

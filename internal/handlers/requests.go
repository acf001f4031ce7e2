package handlers

import (
	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/errors"
)

// SettleRequest is one round: a bet from every class and a winner per category
type SettleRequest struct {
	Bets    []betting.Bet     `json:"bets"`
	Winners map[string]string `json:"winners"`
}

// Validate checks the request shape; bet and winner rules are enforced by the service
func (r SettleRequest) Validate() error {
	if len(r.Bets) == 0 {
		return errors.Validation("bets are required")
	}
	if len(r.Winners) == 0 {
		return errors.Validation("winners are required")
	}
	return nil
}

// OverridePointsRequest sets absolute points for some classes
type OverridePointsRequest struct {
	Points map[string]int `json:"points"`
}

// Validate checks the request shape
func (r OverridePointsRequest) Validate() error {
	if len(r.Points) == 0 {
		return errors.Validation("points are required")
	}
	return nil
}

// BaseURLRequest changes the URL encoded in the board QR code
type BaseURLRequest struct {
	BaseURL string `json:"base_url"`
}

// Validate checks the request shape
func (r BaseURLRequest) Validate() error {
	if r.BaseURL == "" {
		return errors.Validation("base_url is required")
	}
	return nil
}

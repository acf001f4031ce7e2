package models

import "time"

// RoundSummary describes the most recently settled round.
// Only the latest one is kept; it is not a bet history.
type RoundSummary struct {
	ID        string            `json:"id"`
	SettledAt time.Time         `json:"settled_at"`
	Winners   map[string]string `json:"winners"` // category -> class
	Won       int               `json:"won"`
	Lost      int               `json:"lost"`
	NoBet     int               `json:"no_bet"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket message types
const (
	MessageBoard      = "board"
	MessageSettlement = "settlement"
)

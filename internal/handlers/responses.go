package handlers

import "github.com/abrezinsky/classbet/internal/services"

// OverridePointsResponse lists the values stored after clamping
type OverridePointsResponse struct {
	Points map[string]int `json:"points"`
}

// BaseURLResponse is the response for base URL changes
type BaseURLResponse struct {
	BaseURL string `json:"base_url"`
}

// HealthResponse is the response for health checks
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// IndexPageData holds data for the board page
type IndexPageData struct {
	Board *services.Board
}

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
	Board     *services.Board
	BaseURL   string
}

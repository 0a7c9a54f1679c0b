// Package responses defines the JSON bodies written by the HTTP handlers.
package responses

import "time"

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VerifyResponse is returned by POST /api/verify-password.
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// UpdateResponse is returned by a successful POST /api/config.
type UpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadyResponse reports whether the document can be served.
type ReadyResponse struct {
	Status   string `json:"status"`
	Document string `json:"document"`
	Error    string `json:"error,omitempty"`
}

// BrokenLink is one failed link in a LinksResponse.
type BrokenLink struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// LinksResponse is the latest link check report.
type LinksResponse struct {
	Status    string       `json:"status"`
	CheckedAt *time.Time   `json:"checked_at,omitempty"`
	Duration  float64      `json:"duration_seconds"`
	Checked   int          `json:"checked"`
	Broken    []BrokenLink `json:"broken"`
}

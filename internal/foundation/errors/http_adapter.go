package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination for HTTP handlers.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
// If logger is nil, the default package logger will be used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload. It deliberately carries no
// cause, context or path so that storage internals never reach clients.
type HTTPErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if c, ok := AsClassified(err); ok {
		switch c.Category() {
		case CategoryValidation, CategoryConfig:
			return http.StatusBadRequest
		case CategoryAuth:
			return http.StatusUnauthorized
		case CategoryNotFound:
			return http.StatusNotFound
		case CategoryNetwork:
			return http.StatusBadGateway
		case CategoryRuntime:
			return http.StatusServiceUnavailable
		case CategoryStorage, CategoryInternal:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// WriteErrorResponse writes a JSON error response and logs with appropriate level.
// The full error (including cause) only goes to the log.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	a.WriteStatus(w, r, a.StatusCodeFor(err), a.FormatErrorResponse(err), err)
}

// WriteStatus writes payload with an explicit status and logs err. Handlers use it
// when the wire contract fixes both status and body.
func (a *HTTPErrorAdapter) WriteStatus(w http.ResponseWriter, r *http.Request, status int, payload any, err error) {
	b, jerr := json.Marshal(payload)
	if jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{\"error\":\"internal error\"}"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)

	if err == nil {
		return
	}
	attrs := []any{"status", status, "path", r.URL.Path}
	if c, ok := AsClassified(err); ok {
		a.logger.Log(r.Context(), a.slogLevelFromSeverity(c.Severity()), c.Error(), attrs...)
		return
	}
	a.logger.Error(err.Error(), attrs...)
}

// FormatErrorResponse converts known errors into a canonical error payload.
// Unclassified errors are reported generically.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	if c, ok := AsClassified(err); ok {
		return HTTPErrorResponse{Error: c.Message(), Code: string(c.Category())}
	}
	return HTTPErrorResponse{Error: "internal server error", Code: string(CategoryInternal)}
}

func (a *HTTPErrorAdapter) slogLevelFromSeverity(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError, SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

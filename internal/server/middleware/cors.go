package middleware

import (
	"net/http"
	"slices"
)

const corsAllowMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"

// CORSConfig controls cross-origin access. An empty AllowedOrigins list, or
// one containing "*", allows every origin.
type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string
}

func (c CORSConfig) allowAll() bool {
	return len(c.AllowedOrigins) == 0 || slices.Contains(c.AllowedOrigins, "*")
}

func corsMiddleware(cfg CORSConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()
		switch {
		case cfg.allowAll():
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		default:
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.Set("Access-Control-Expose-Headers", HeaderRequestID)
		next.ServeHTTP(w, r)
	})
}

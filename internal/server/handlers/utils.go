package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
)

// writeJSON serializes the provided value to JSON and writes it with the given
// status code. Encoding is performed into an intermediate buffer so that we
// don't send partial responses if serialization fails.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeRaw(w, status, buf.Bytes())
}

// writeRaw writes already-encoded JSON.
func writeRaw(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// writeJSONPretty optionally pretty prints when pretty=true via query parameter.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if r != nil {
		if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
			b, err := json.MarshalIndent(v, "", "  ")
			if err == nil {
				return writeRaw(w, status, append(b, '\n'))
			}
			slog.Warn("pretty JSON marshal failed, falling back to standard encode", logfields.Error(err))
		}
	}
	return writeJSON(w, status, v)
}

// methodNotAllowed answers 405 with an Allow header.
func methodNotAllowed(w http.ResponseWriter, r *http.Request, adapter *derrors.HTTPErrorAdapter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	err := derrors.ValidationError("method not allowed").
		WithContext("method", r.Method).
		WithContext("allowed_method", strings.Join(allowed, ", ")).
		Build()
	adapter.WriteStatus(w, r, http.StatusMethodNotAllowed, derrors.HTTPErrorResponse{Error: "method not allowed"}, err)
}

var (
	errBodyTooLarge = derrors.ValidationError("request body too large").Build()
	errInvalidBody  = derrors.ValidationError("invalid request body").Build()
)

// requestFields is a decoded JSON request body. A body that is valid JSON but
// not an object decodes to no fields.
type requestFields map[string]json.RawMessage

// str returns the named member when it is a JSON string.
func (f requestFields) str(name string) string {
	raw, ok := f[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// decodeBody reads at most limit bytes of JSON. An empty body is an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (requestFields, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, derrors.ValidationError("invalid request body").WithCause(err).Build()
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return requestFields{}, nil
	}
	if !json.Valid(data) {
		return nil, errInvalidBody
	}
	fields := requestFields{}
	if data[0] == '{' {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, derrors.ValidationError("invalid request body").WithCause(err).Build()
		}
	}
	return fields, nil
}

// writeBodyError maps a decodeBody failure to 413 or 400.
func writeBodyError(w http.ResponseWriter, r *http.Request, adapter *derrors.HTTPErrorAdapter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		adapter.WriteStatus(w, r, http.StatusRequestEntityTooLarge, derrors.HTTPErrorResponse{Error: "request body too large"}, err)
		return
	}
	adapter.WriteStatus(w, r, http.StatusBadRequest, derrors.HTTPErrorResponse{Error: "invalid request body"}, err)
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyRequestID  = "request_id"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyURL        = "url"
	KeySection    = "section"
	KeyOutcome    = "outcome"
	KeyState      = "state"
	KeySize       = "size_bytes"
	KeyDigest     = "content_sha256"
	KeyJobName    = "job_name"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Size(n int) slog.Attr            { return slog.Int(KeySize, n) }
func Digest(d string) slog.Attr       { return slog.String(KeyDigest, d) }
func JobName(n string) slog.Attr      { return slog.String(KeyJobName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/audit"
	"git.home.luguber.info/inful/aboutme/internal/auth"
	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	"git.home.luguber.info/inful/aboutme/internal/notify"
	"git.home.luguber.info/inful/aboutme/internal/server/middleware"
	"git.home.luguber.info/inful/aboutme/internal/server/responses"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// Wire messages of the configuration API.
const (
	MsgReadFailed      = "Failed to read config"
	MsgWriteFailed     = "Failed to write config"
	MsgUnauthorized    = "Unauthorized"
	MsgInvalidPassword = "Invalid password"
	MsgUpdated         = "Config updated successfully"
)

const sideEffectTimeout = 5 * time.Second

// Acknowledger is told about documents the API wrote itself, so a file
// watcher does not report them as external edits.
type Acknowledger interface {
	Acknowledge(digest string)
}

// ConfigHandlers serves /api/config and /api/verify-password.
type ConfigHandlers struct {
	store        store.Store
	gate         *auth.Gate
	recorder     metrics.Recorder
	audit        audit.Recorder
	publisher    notify.Publisher
	ack          Acknowledger
	maxBody      int64
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter
}

// Option configures ConfigHandlers.
type Option func(*ConfigHandlers)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(h *ConfigHandlers) {
		if r != nil {
			h.recorder = r
		}
	}
}

// WithAudit records admin actions.
func WithAudit(a audit.Recorder) Option {
	return func(h *ConfigHandlers) {
		if a != nil {
			h.audit = a
		}
	}
}

// WithPublisher announces persisted documents.
func WithPublisher(p notify.Publisher) Option {
	return func(h *ConfigHandlers) {
		if p != nil {
			h.publisher = p
		}
	}
}

// WithAcknowledger registers the digest of every persisted document.
func WithAcknowledger(a Acknowledger) Option {
	return func(h *ConfigHandlers) { h.ack = a }
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(h *ConfigHandlers) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *ConfigHandlers) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewConfigHandlers creates the configuration API handlers.
func NewConfigHandlers(st store.Store, gate *auth.Gate, opts ...Option) *ConfigHandlers {
	h := &ConfigHandlers{
		store:     st,
		gate:      gate,
		recorder:  metrics.NoopRecorder{},
		audit:     audit.Noop{},
		publisher: notify.Noop{},
		maxBody:   1 << 20,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.errorAdapter = derrors.NewHTTPErrorAdapter(h.logger)
	return h
}

// HandleConfig dispatches GET (fetch) and POST (update) on /api/config.
func (h *ConfigHandlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.HandleGetConfig(w, r)
	case http.MethodPost:
		h.HandleUpdateConfig(w, r)
	default:
		methodNotAllowed(w, r, h.errorAdapter, http.MethodGet, http.MethodHead, http.MethodPost)
	}
}

// HandleGetConfig returns the stored document unchanged.
func (h *ConfigHandlers) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(r.Context())
	if err != nil {
		h.errorAdapter.WriteStatus(w, r, http.StatusInternalServerError, responses.ErrorResponse{Error: MsgReadFailed}, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	_ = writeRaw(w, http.StatusOK, append(doc, '\n'))
}

// HandleVerify checks a candidate admin secret.
func (h *ConfigHandlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.errorAdapter, http.MethodPost)
		return
	}
	fields, err := decodeBody(w, r, h.maxBody)
	if err != nil {
		writeBodyError(w, r, h.errorAdapter, err)
		return
	}

	valid := h.gate.Verify(fields.str("password"))
	h.recorder.IncAuthAttempt(valid)
	if !valid {
		h.recordAudit(r, audit.Event{Type: audit.EventAuthRejected, Outcome: "rejected"})
		h.logger.Warn("admin secret rejected",
			logfields.RemoteAddr(r.RemoteAddr),
			logfields.RequestID(middleware.RequestIDFrom(r.Context())))
		_ = writeJSON(w, http.StatusUnauthorized, responses.VerifyResponse{Valid: false, Error: MsgInvalidPassword})
		return
	}
	h.recordAudit(r, audit.Event{Type: audit.EventAuthVerified, Outcome: "verified"})
	_ = writeJSON(w, http.StatusOK, responses.VerifyResponse{Valid: true})
}

// HandleUpdateConfig authenticates and replaces the whole document.
func (h *ConfigHandlers) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r, h.maxBody)
	if err != nil {
		writeBodyError(w, r, h.errorAdapter, err)
		return
	}

	reqID := middleware.RequestIDFrom(r.Context())
	run := newUpdateRun(r.Context(), h.logger, reqID)
	run.to(StateAuthenticating)

	valid := h.gate.Verify(fields.str("password"))
	h.recorder.IncAuthAttempt(valid)
	if !valid {
		run.to(StateRejected)
		h.recorder.IncConfigUpdate(metrics.UpdateRejected)
		h.recordAudit(r, audit.Event{Type: audit.EventAuthRejected, Outcome: string(StateRejected)})
		_ = writeJSON(w, http.StatusUnauthorized, responses.ErrorResponse{Error: MsgUnauthorized})
		return
	}

	run.to(StateWriting)
	doc, ok := fields["config"]
	if !ok {
		err = derrors.ValidationError("missing config member").Build()
	} else {
		err = h.store.Set(r.Context(), doc)
	}
	if err != nil {
		run.to(StateWriteFailed)
		h.recorder.IncConfigUpdate(metrics.UpdateWriteFailed)
		h.recordAudit(r, audit.Event{Type: audit.EventConfigWriteFailed, Outcome: string(StateWriteFailed)})
		h.errorAdapter.WriteStatus(w, r, http.StatusInternalServerError, responses.ErrorResponse{Error: MsgWriteFailed}, err)
		return
	}

	run.to(StatePersisted)
	digest := store.Digest(doc)
	if h.ack != nil {
		h.ack.Acknowledge(digest)
	}
	h.recorder.IncConfigUpdate(metrics.UpdatePersisted)
	h.recordAudit(r, audit.Event{
		Type:          audit.EventConfigUpdated,
		Outcome:       string(StatePersisted),
		ContentSHA256: digest,
		SizeBytes:     int64(len(doc)),
	})
	h.announce(r, notify.ChangeEvent{
		Source:        notify.SourceAPI,
		ContentSHA256: digest,
		SizeBytes:     len(doc),
		Valid:         json.Valid(doc),
		RequestID:     reqID,
	})
	_ = writeJSON(w, http.StatusOK, responses.UpdateResponse{Success: true, Message: MsgUpdated})
}

func (h *ConfigHandlers) recordAudit(r *http.Request, e audit.Event) {
	e.RemoteAddr = r.RemoteAddr
	e.RequestID = middleware.RequestIDFrom(r.Context())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sideEffectTimeout)
	defer cancel()
	if err := h.audit.Record(ctx, e); err != nil {
		h.logger.Warn("audit record failed", logfields.Error(err), slog.String("event_type", string(e.Type)))
	}
}

// announce publishes the change. The document is already persisted, so a
// failed publish is only logged.
func (h *ConfigHandlers) announce(r *http.Request, e notify.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sideEffectTimeout)
	defer cancel()
	if err := h.publisher.ConfigChanged(ctx, e); err != nil {
		h.logger.Warn("change notification failed", logfields.Error(err), logfields.Digest(e.ContentSHA256))
	}
}

package handlers

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/aboutme/internal/logfields"
)

// UpdateState is a step of a single POST /api/config request.
type UpdateState string

const (
	StateIdle           UpdateState = "idle"
	StateAuthenticating UpdateState = "authenticating"
	StateRejected       UpdateState = "rejected"
	StateWriting        UpdateState = "writing"
	StatePersisted      UpdateState = "persisted"
	StateWriteFailed    UpdateState = "write_failed"
)

var updateTransitions = map[UpdateState][]UpdateState{
	StateIdle:           {StateAuthenticating},
	StateAuthenticating: {StateRejected, StateWriting},
	StateWriting:        {StatePersisted, StateWriteFailed},
}

// CanTransition reports whether next may follow s.
func (s UpdateState) CanTransition(next UpdateState) bool {
	for _, allowed := range updateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the request.
func (s UpdateState) Terminal() bool {
	return s == StateRejected || s == StatePersisted || s == StateWriteFailed
}

// updateRun tracks one request through the states and logs every step.
type updateRun struct {
	ctx    context.Context
	logger *slog.Logger
	state  UpdateState
	reqID  string
}

func newUpdateRun(ctx context.Context, logger *slog.Logger, reqID string) *updateRun {
	return &updateRun{ctx: ctx, logger: logger, state: StateIdle, reqID: reqID}
}

func (u *updateRun) to(next UpdateState) {
	if !u.state.CanTransition(next) {
		u.logger.Error("illegal config update transition",
			slog.String("from", string(u.state)),
			logfields.State(string(next)),
			logfields.RequestID(u.reqID))
	}
	level := slog.LevelDebug
	if next.Terminal() {
		level = slog.LevelInfo
	}
	u.logger.Log(u.ctx, level, "config update",
		slog.String("from", string(u.state)),
		logfields.State(string(next)),
		logfields.RequestID(u.reqID))
	u.state = next
}

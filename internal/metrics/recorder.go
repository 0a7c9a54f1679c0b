package metrics

import "time"

// ResultLabel enumerates outcome labels for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// UpdateOutcome labels the terminal state of a config update.
type UpdateOutcome string

const (
	UpdatePersisted   UpdateOutcome = "persisted"
	UpdateRejected    UpdateOutcome = "rejected"
	UpdateWriteFailed UpdateOutcome = "write_failed"
)

// Recorder defines observability hooks for the service. All methods must be
// safe to call on NoopRecorder, which is the default when metrics are off.
type Recorder interface {
	ObserveHTTPRequest(route, method string, status int, d time.Duration)
	IncConfigUpdate(outcome UpdateOutcome)
	IncAuthAttempt(valid bool)
	SetDocumentValid(valid bool)
	ObserveLinkCheck(d time.Duration, checked, broken int)
	IncNotifyPublish(kind string, result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (NoopRecorder) IncConfigUpdate(UpdateOutcome)                         {}
func (NoopRecorder) IncAuthAttempt(bool)                                   {}
func (NoopRecorder) SetDocumentValid(bool)                                 {}
func (NoopRecorder) ObserveLinkCheck(time.Duration, int, int)              {}
func (NoopRecorder) IncNotifyPublish(string, ResultLabel)                  {}

func resultOf(ok bool) ResultLabel {
	if ok {
		return ResultSuccess
	}
	return ResultFailed
}

package telemetry

import (
	"fmt"
)

// API is how components report what happens to them. Production code logs
// through SlogAPI, tests swap in a Recorder and assert on the reports.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a failure that needs an operator, like a cursor
	// write that did not persist.
	//
	// `id` names the component, not the failing line: a failed store write
	// inside the tracker is `tracker.write`, the key and error go into params.
	//
	// ids are lowercase, underscores separate words of a component and dashes
	// separate a component from one of its methods (`engine.login-all`).
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that was handled but may be worth a
	// look, like a single account failing to log in. `id` follows ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only useful while developing.
	ReportDebug(msg string, params ...any)

	// ReportCount reports a gauge-like count at the current time, values are
	// samples and should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace before passing it on.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s:%s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

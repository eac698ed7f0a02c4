package telemetry

import (
	"fmt"
)

// API is where components send their logs and counts instead of calling a
// logger directly, so tests can record and assert on what was reported.
//
// Report ids name the component and the operation, never a finer step:
//   - all lowercase
//   - underscores inside a component name (myclinic_scraper)
//   - dots between a component and its operation (agenda.detail)
//   - dashes inside an operation name (client.refresh-csrf)
//
// Details such as which request failed go in params or in a wrapped error.
type API interface {
	// ReportBroken is for failures someone should fix: the upstream markup
	// changed, a response stopped decoding.
	ReportBroken(id string, params ...any)

	// ReportWarning is for failures that were absorbed, like a detail request
	// that left an entry without a phone.
	ReportWarning(id string, params ...any)

	// ReportDebug is dropped unless running verbose.
	ReportDebug(msg string, params ...any)

	// ReportCount is a point-in-time value, consecutive counts are not summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace before passing it to the
// wrapped API.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

// NopAPI drops everything.
type NopAPI struct{}

func (NopAPI) ReportBroken(string, ...any)  {}
func (NopAPI) ReportWarning(string, ...any) {}
func (NopAPI) ReportDebug(string, ...any)   {}
func (NopAPI) ReportCount(string, int64)    {}

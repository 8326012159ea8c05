package sink

import (
	"log"

	apperrors "github.com/louisbranch/blueprintcatalog/internal/platform/errors"
)

// Reporter receives faults recovered at the registration boundary.
// Implementations must not panic and have no way to fail.
type Reporter interface {
	Report(err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error)

// Report calls f(err).
func (f ReporterFunc) Report(err error) { f(err) }

// LogReporter writes faults through the standard logger.
type LogReporter struct {
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Report logs err with its code and metadata. Registration fault codes are
// logged as faults, anything else as an error.
func (r LogReporter) Report(err error) {
	if err == nil {
		return
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	var meta map[string]string
	if e, ok := err.(*apperrors.Error); ok {
		meta = e.Metadata
	}
	code := apperrors.GetCode(err)
	kind := "fault"
	if !code.Fault() {
		kind = "error"
	}
	logger.Printf("blueprint registration %s %s: %v %v", kind, code, err, meta)
}

package compiler

import (
	"go.uber.org/zap"

	"github.com/websharper/wsc/errors"
)

// DefaultErrorLimit caps diagnostics per compile invocation when the
// caller does not configure one.
const DefaultErrorLimit = 20

// Diagnostics is the bounded diagnostics sink threaded through every
// pipeline stage. Error-priority diagnostics flip the invocation's
// success flag; warnings never do. Once the error count reaches the
// configured limit, Error returns errors.ErrorLimit, which collaborators
// propagate to abort the remaining stages.
type Diagnostics struct {
	module string
	limit  int
	count  int
	failed bool
	logger *zap.Logger
}

func newDiagnostics(module string, limit int, logger *zap.Logger) *Diagnostics {
	if limit <= 0 {
		limit = DefaultErrorLimit
	}
	if logger == nil {
		logger = Logger()
	}
	return &Diagnostics{module: module, limit: limit, logger: logger}
}

// Error records an error-priority diagnostic. The returned error is nil
// while the invocation is under its diagnostic limit and errors.ErrorLimit
// once the limit is reached; callers must stop and propagate it.
func (d *Diagnostics) Error(msg string, fields ...zap.Field) error {
	d.failed = true
	d.count++
	d.logger.Error(msg, append(fields, zap.String("module", d.module))...)
	if d.count >= d.limit {
		return errors.ErrorLimit
	}
	return nil
}

// Warn records a warning diagnostic. Warnings never affect the success
// flag or count toward the diagnostic limit.
func (d *Diagnostics) Warn(msg string, fields ...zap.Field) {
	d.logger.Warn(msg, append(fields, zap.String("module", d.module))...)
}

// Failed reports whether any error-priority diagnostic was recorded.
func (d *Diagnostics) Failed() bool {
	return d.failed
}

// Count returns the number of error-priority diagnostics recorded.
func (d *Diagnostics) Count() int {
	return d.count
}

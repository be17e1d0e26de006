package observability

import (
	"time"

	"go.uber.org/zap"
)

// Field constructors re-exported so callers only import this package.
//
//nolint:gochecknoglobals // aliases of zap constructors
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Float64  = zap.Float64
	Error    = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
)

// Elapsed returns the duration since start as a field.
func Elapsed(start time.Time) zap.Field {
	return zap.Duration("elapsed", time.Since(start))
}

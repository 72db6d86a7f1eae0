package log

import "go.uber.org/zap"

// re-exported field constructors so callers don't need to import zap
var (
	String     = zap.String
	Bool       = zap.Bool
	Int        = zap.Int
	Int32      = zap.Int32
	Int64      = zap.Int64
	Uint32     = zap.Uint32
	Float32    = zap.Float32
	Float64    = zap.Float64
	Duration   = zap.Duration
	Time       = zap.Time
	Any        = zap.Any
	ErrorField = zap.Error
)

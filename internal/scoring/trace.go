package scoring

import "github.com/rs/zerolog"

// TokenTrace holds the intermediate values of one per-token calculation.
type TokenTrace struct {
	Symbol              string
	Balance             float64
	Normalized          float64
	LogBalance          float64
	BasePoints          float64
	TierWeight          float64
	BagSizeMultiplier   float64
	ThresholdMultiplier float64
	Points              int64
}

// Tracer receives diagnostic traces from the engine.
// Implementations must not retain or mutate engine state.
type Tracer interface {
	TraceToken(TokenTrace)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(TokenTrace)

// TraceToken calls f(t).
func (f TracerFunc) TraceToken(t TokenTrace) { f(t) }

type nopTracer struct{}

func (nopTracer) TraceToken(TokenTrace) {}

// LogTracer writes token traces as structured debug events.
type LogTracer struct {
	log zerolog.Logger
}

// NewLogTracer creates a tracer backed by a zerolog logger.
func NewLogTracer(log zerolog.Logger) *LogTracer {
	return &LogTracer{log: log.With().Str("component", "scoring").Logger()}
}

// TraceToken logs the calculation for a token.
func (t *LogTracer) TraceToken(tr TokenTrace) {
	t.log.Debug().
		Str("token", tr.Symbol).
		Float64("original_balance", tr.Balance).
		Float64("normalized_balance", tr.Normalized).
		Float64("log_balance", tr.LogBalance).
		Float64("base_points", tr.BasePoints).
		Float64("tier_weight", tr.TierWeight).
		Float64("bag_size_multiplier", tr.BagSizeMultiplier).
		Float64("threshold_multiplier", tr.ThresholdMultiplier).
		Int64("final_points", tr.Points).
		Msg("calculated token points")
}

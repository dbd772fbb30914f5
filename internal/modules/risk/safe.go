package risk

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SafeEvaluate runs calc and never fails: an error or panic degrades to the
// all-zero record, and non-finite fields of a successful result become 0.
func SafeEvaluate(log zerolog.Logger, calc func() (Metrics, error)) (m Metrics) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Msg("Risk metric computation panicked, returning empty metrics")
			m = Metrics{}
		}
	}()

	out, err := calc()
	if err != nil {
		log.Error().Err(err).Msg("Risk metric computation failed, returning empty metrics")
		return Metrics{}
	}

	return out.Sanitized()
}

// Evaluate is SafeEvaluate over Calculate.
func Evaluate(log zerolog.Logger, pf, bench []float64, dates []time.Time) Metrics {
	return SafeEvaluate(log, func() (Metrics, error) {
		return Calculate(pf, bench, dates)
	})
}

// Guard runs fn and returns fallback if it panics. Chart series use it so
// one failing series does not take down the rest of a response.
func Guard[T any](log zerolog.Logger, name string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("series", name).Str("panic", fmt.Sprint(r)).Msg("Series computation panicked")
			out = fallback
		}
	}()
	return fn()
}

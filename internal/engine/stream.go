package engine

// Stream is the engine's only randomness source: a linear congruential
// generator carried as an explicit value. Advancing the stream returns the
// next state instead of mutating in place, so a draw sequence is fully
// determined by the seed it started from.
type Stream struct {
	Seed int64
}

// LCG parameters. The small modulus is intentional: the stream only has to be
// reproducible and roughly uniform, not cryptographic.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// NewStream derives a stream from a trend identifier by folding its bytes
// into a seed. Collisions between ids are tolerable; identical ids must
// always produce identical streams.
func NewStream(trendID string) Stream {
	var seed int64
	for _, c := range trendID {
		seed += int64(c)
	}
	return Stream{Seed: seed % lcgModulus}
}

// Next advances the generator and returns one uniform draw in [0, 1).
func (s Stream) Next() (float64, Stream) {
	seed := (s.Seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(seed) / lcgModulus, Stream{Seed: seed}
}

// NextInt draws an integer in [lo, hi] inclusive.
func (s Stream) NextInt(lo, hi int) (int, Stream) {
	if hi <= lo {
		return lo, s
	}
	r, next := s.Next()
	return lo + int(r*float64(hi-lo+1)), next
}

// NextStep draws a value from lo to hi in fixed increments, for half-point
// lines and totals.
func (s Stream) NextStep(lo, hi, step float64) (float64, Stream) {
	if step <= 0 || hi <= lo {
		return lo, s
	}
	steps := int((hi-lo)/step) + 1
	n, next := s.NextInt(0, steps-1)
	return lo + float64(n)*step, next
}

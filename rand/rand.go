package rand

import (
	mrand "math/rand/v2"

	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
)

// A Stream is a single lane's private source of randomness. The generator is
// a 64-bit Mersenne Twister (period 2^19937-1) seeded with the canonical
// init-by-array routine, so every lane can share one user seed and still get
// a statistically independent sequence from its lane index. Streams stay
// valid across phases: warm-up advances them in place and later stages keep
// drawing without reseeding.
type Stream struct {
	mt  *mt19937.MT19937
	src *mrand.Rand
}

// StreamFromKey creates a stream from a raw init-by-array key.
func StreamFromKey(key []uint64) (*Stream, error) {
	if len(key) < 1 {
		return nil, errors.Errorf("An init key with at least one value is required")
	}

	mt := mt19937.New()
	mt.SeedFromSlice(key)

	return &Stream{
		mt:  mt,
		src: mrand.New(mt),
	}, nil
}

// NewStream creates the stream for a single lane: the run seed plus the
// lane's sequence index is the entire key.
func NewStream(seed uint64, lane uint64) (*Stream, error) {
	return StreamFromKey([]uint64{seed, lane})
}

// SeedStreams creates one stream per lane from a single run seed.
func SeedStreams(seed uint64, lanes int) ([]*Stream, error) {
	if lanes < 1 {
		return nil, errors.Errorf("Lane count must be >= 1 (found %d)", lanes)
	}

	streams := make([]*Stream, lanes)
	for t := range streams {
		s, err := NewStream(seed, uint64(t))
		if err != nil {
			return nil, errors.Wrapf(err, "Could not seed the stream for lane %d", t)
		}
		streams[t] = s
	}

	return streams, nil
}

// Uint64 returns the next raw value from the lane's sequence. This is also
// what makes a Stream a math/rand/v2 Source (and so a gonum distuv Src).
func (s *Stream) Uint64() uint64 {
	return s.mt.Uint64()
}

// Int63 provides the same interface as Go's math/rand.
func (s *Stream) Int63() int64 {
	return s.mt.Int63()
}

// Float64 returns a uniform draw from [0, 1).
func (s *Stream) Float64() float64 {
	return s.src.Float64()
}

// NormFloat64 returns a standard normal draw.
func (s *Stream) NormFloat64() float64 {
	return s.src.NormFloat64()
}

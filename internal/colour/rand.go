package colour

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness used to seed clustering and diversity sampling.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- clustering seeds are not security sensitive
}

// orTimeSeeded returns r, or a freshly time-seeded source when r is nil.
func orTimeSeeded(r Rand) Rand {
	if r != nil {
		return r
	}
	return NewRand(time.Now().UnixNano())
}

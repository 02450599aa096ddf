// Package dice provides the core randomness abstraction for the battle
// engine: stat rolls over inclusive ranges and percent-chance draws.
package dice

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for all battle and loot rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniform integer in [min, max] inclusive.
// min == max is valid and returns min deterministically.
//
// Precondition: min <= max; src must be non-nil.
func Between(src Source, min, max int) int {
	if min > max {
		panic("dice: Between called with min > max")
	}
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Percent returns a uniform draw in the half-open interval [0, 100).
// A chance of c percent succeeds when Percent(src) < c.
func Percent(src Source) int {
	return src.Intn(100)
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: all values produced are uniformly distributed in [0, n).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

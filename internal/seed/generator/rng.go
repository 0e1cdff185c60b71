package generator

import (
	"fmt"
	"math/rand"
	"os"
	"time"
)

// NewSeededRNG creates a seeded random number generator. A zero seed
// falls back to the current time; the chosen seed is printed so a run
// can be reproduced.
func NewSeededRNG(seed int64, verbose bool) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
		if verbose {
			fmt.Fprintf(os.Stderr, "Using seed: %d\n", seed)
		}
	}
	return rand.New(rand.NewSource(seed))
}

package sampler

import (
	"math/rand/v2"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
)

// Shuffle returns a uniformly permuted copy of qs. qs is not modified.
func Shuffle(qs []bank.Question, rng *rand.Rand) []bank.Question {
	out := make([]bank.Question, len(qs))
	copy(out, qs)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SampleSize is the number of items a draw yields: the smallest of the
// tier cap, the requested count and the pool size. A requested count of
// zero or less means "as many as the cap allows".
func SampleSize(poolSize, tierCap, requested int) int {
	n := poolSize
	if tierCap != catalog.Unbounded && tierCap < n {
		n = tierCap
	}
	if requested > 0 && requested < n {
		n = requested
	}
	return n
}

// Sample shuffles pool and truncates it to SampleSize. It never pads and
// never repeats a question ID.
func Sample(pool []bank.Question, tierCap, requested int, rng *rand.Rand) []bank.Question {
	shuffled := Shuffle(dedupe(pool), rng)
	return shuffled[:SampleSize(len(shuffled), tierCap, requested)]
}

func dedupe(qs []bank.Question) []bank.Question {
	seen := make(map[string]bool, len(qs))
	out := make([]bank.Question, 0, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

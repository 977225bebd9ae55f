package quota

import (
	"math/rand/v2"
	"sort"
)

// SampleUniform draws k items from pool uniformly without replacement using a
// partial Fisher-Yates shuffle. pool is not modified. If k >= len(pool) every
// item is returned. The result is sorted ascending.
func SampleUniform(pool []string, k int, rng *rand.Rand) []string {
	if k <= 0 || len(pool) == 0 {
		return []string{}
	}
	if k > len(pool) {
		k = len(pool)
	}

	work := make([]string, len(pool))
	copy(work, pool)

	for i := 0; i < k; i++ {
		var j int
		if rng != nil {
			j = i + rng.IntN(len(work)-i)
		} else {
			j = i + rand.IntN(len(work)-i)
		}
		work[i], work[j] = work[j], work[i]
	}

	out := work[:k]
	sort.Strings(out)
	return out
}

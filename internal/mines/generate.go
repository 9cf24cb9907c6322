package mines

import (
	"hash/maphash"
	"math/rand/v2"
)

// NewRand returns a generator seeded from the runtime's random hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Generate places exactly d.MineCount mines, uniformly at random and
// without replacement. If exclude is set, that single square never
// receives a mine.
func Generate(d Difficulty, exclude *Point, r *rand.Rand) (*Board, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}

	skip := -1
	if exclude != nil && d.InBounds(exclude.Row, exclude.Col) {
		skip = d.index(exclude.Row, exclude.Col)
	}

	/*
	 * Write down the list of possible mine locations, then pick n off
	 * the list at random.
	 */
	candidates := make([]int, 0, d.Cells())
	for i := range d.Cells() {
		if i != skip {
			candidates = append(candidates, i)
		}
	}

	mined := make([]bool, d.Cells())
	k := len(candidates)
	for range d.MineCount {
		i := r.IntN(k)
		mined[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return newBoard(d, mined), nil
}

package engine

import (
	"math/rand"
	"slices"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// newRandomCandidate draws a uniformly random image count in [min, max]
// (clamped to the corpus size) and a random subset of that size.
func newRandomCandidate(rng *rand.Rand, c *corpus.Corpus, minImages, maxImages int) model.Candidate {
	count := minImages
	if maxImages > minImages {
		count += rng.Intn(maxImages - minImages + 1)
	}
	if count > c.Len() {
		count = c.Len()
	}

	ids := c.IDs()
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return model.Candidate{ImageIDs: ids[:count]}
}

// enforceImageLimits repairs an id set so its size lands in [min, max].
// Below min it appends random not-yet-included ids, stopping early when the
// corpus is exhausted; above max it removes random ids. Called after every
// crossover and mutation.
func enforceImageLimits(rng *rand.Rand, ids []uint32, c *corpus.Corpus, minImages, maxImages int) []uint32 {
	for len(ids) < minImages {
		available := availableIDs(c, ids)
		if len(available) == 0 {
			break
		}
		ids = append(ids, available[rng.Intn(len(available))])
	}

	for len(ids) > maxImages {
		i := rng.Intn(len(ids))
		ids = append(ids[:i], ids[i+1:]...)
	}
	return ids
}

// crossover produces a child from a random prefix of parent1 and a random
// suffix of parent2. The union is sorted and deduplicated to canonicalize it
// before limit enforcement.
func crossover(rng *rand.Rand, parent1, parent2 model.Candidate, c *corpus.Corpus, minImages, maxImages int) model.Candidate {
	if len(parent1.ImageIDs) == 0 && len(parent2.ImageIDs) == 0 {
		return model.Candidate{}
	}

	cut1 := rng.Intn(len(parent1.ImageIDs) + 1)
	cut2 := rng.Intn(len(parent2.ImageIDs) + 1)

	ids := make([]uint32, 0, cut1+len(parent2.ImageIDs)-cut2)
	ids = append(ids, parent1.ImageIDs[:cut1]...)
	ids = append(ids, parent2.ImageIDs[cut2:]...)

	slices.Sort(ids)
	ids = slices.Compact(ids)

	ids = enforceImageLimits(rng, ids, c, minImages, maxImages)
	return model.Candidate{ImageIDs: ids}
}

// mutate applies exactly one of three moves, chosen by a single uniform roll
// split into equal bands: add a random absent id, remove a random present
// id, or replace one with the other.
func mutate(rng *rand.Rand, cand *model.Candidate, c *corpus.Corpus, minImages, maxImages int) {
	if len(cand.ImageIDs) == 0 {
		return
	}

	roll := rng.Float64()
	switch {
	case roll < 1.0/3 && len(cand.ImageIDs) < maxImages:
		available := availableIDs(c, cand.ImageIDs)
		if len(available) > 0 {
			cand.ImageIDs = append(cand.ImageIDs, available[rng.Intn(len(available))])
		}

	case roll < 2.0/3 && len(cand.ImageIDs) > minImages:
		i := rng.Intn(len(cand.ImageIDs))
		cand.ImageIDs = append(cand.ImageIDs[:i], cand.ImageIDs[i+1:]...)

	default:
		if c.Len() > 0 {
			i := rng.Intn(len(cand.ImageIDs))
			available := availableIDs(c, cand.ImageIDs)
			if len(available) > 0 {
				cand.ImageIDs[i] = available[rng.Intn(len(available))]
			}
		}
	}

	cand.ImageIDs = enforceImageLimits(rng, cand.ImageIDs, c, minImages, maxImages)
	cand.Fitness = 0
	cand.Layout = nil
}

// availableIDs returns corpus ids not present in exclude, in load order.
func availableIDs(c *corpus.Corpus, exclude []uint32) []uint32 {
	used := make(map[uint32]bool, len(exclude))
	for _, id := range exclude {
		used[id] = true
	}
	var available []uint32
	for _, id := range c.IDs() {
		if !used[id] {
			available = append(available, id)
		}
	}
	return available
}

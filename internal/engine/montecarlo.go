package engine

import (
	"math"
	"math/rand"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// trialChunkSize bounds how many evaluated layouts are held in memory at
// once during Monte-Carlo search.
const trialChunkSize = 256

// RunTrials samples independent random candidates for a fixed trial budget
// and keeps the single best layout: smaller free area wins, ties broken by
// smaller aspect-ratio deviation. Candidates are drawn sequentially from the
// seeded RNG, evaluated in parallel chunks, and reduced single-threaded, so
// results are deterministic for a fixed seed.
func RunTrials(c *corpus.Corpus, settings model.SearchSettings, progress ProgressFunc) (model.Candidate, error) {
	if c.Len() == 0 {
		return model.Candidate{}, ErrEmptyCorpus
	}

	rng := rand.New(rand.NewSource(settings.Seed))
	eval := &Evaluator{Corpus: c, Settings: settings}

	var best model.Candidate
	haveBest := false
	bestFree := int64(math.MaxInt64)
	bestAspectDiff := math.MaxFloat64

	done := 0
	for done < settings.NumTrials {
		n := settings.NumTrials - done
		if n > trialChunkSize {
			n = trialChunkSize
		}

		chunk := make([]model.Candidate, n)
		for i := range chunk {
			chunk[i] = newRandomCandidate(rng, c, settings.MinImages, settings.MaxImages)
		}
		eval.evaluateAll(chunk)

		// Single-threaded fold over the parallel map keeps the best-so-far
		// state free of locks.
		for _, cand := range chunk {
			if cand.Layout == nil {
				continue
			}
			free := cand.Layout.FreeArea()
			aspectDiff := math.Abs(cand.Layout.AspectRatio() - settings.DesiredAspectRatio)
			if free < bestFree || (free == bestFree && aspectDiff < bestAspectDiff) {
				best = cand
				haveBest = true
				bestFree = free
				bestAspectDiff = aspectDiff
			}
		}

		done += n
		if progress != nil {
			progress(done, best.Fitness)
		}
	}

	if !haveBest {
		return model.Candidate{}, ErrNoLayout
	}
	return best, nil
}

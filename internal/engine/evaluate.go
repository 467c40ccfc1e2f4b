package engine

import (
	"errors"
	"math"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

var (
	// ErrEmptyCorpus is returned when a search is started with no images.
	ErrEmptyCorpus = errors.New("corpus contains no images")

	// ErrNoLayout is returned when the full search budget produced no
	// non-empty layout.
	ErrNoLayout = errors.New("no suitable layout found")
)

// Evaluator scores candidates by packing their image set and measuring
// wasted background area and aspect-ratio drift. Evaluation reads only the
// immutable corpus and writes only to the candidate passed in, so distinct
// candidates can be evaluated concurrently without locking.
type Evaluator struct {
	Corpus   *corpus.Corpus
	Settings model.SearchSettings
}

// Evaluate packs the candidate and stores fitness and layout in place.
// Candidates whose images cannot be packed even after budget growth get
// fitness 0 and no layout; they lose to everything but never fail the run.
func (e *Evaluator) Evaluate(cand *model.Candidate) {
	budgetW, budgetH := estimateBudget(
		e.Corpus.TotalArea(cand.ImageIDs),
		e.Settings.DesiredAspectRatio,
		e.Settings.MinCanvas,
	)
	layout := PackAll(e.Corpus, cand.ImageIDs, budgetW, budgetH,
		e.Settings.Padding, e.Settings.GrowthFactor, e.Settings.MaxPackAttempts)

	if layout.Empty() {
		cand.Fitness = 0
		cand.Layout = nil
		return
	}

	cand.Fitness = e.fitness(len(cand.ImageIDs), layout)
	cand.Layout = &layout
}

// fitness rewards packing more images tightly. Aspect-ratio drift is
// weighted AspectWeight times per unit against background waste.
func (e *Evaluator) fitness(imageCount int, layout model.PackedLayout) float64 {
	freePct := layout.FreePercent()
	aspectDiff := math.Abs(layout.AspectRatio() - e.Settings.DesiredAspectRatio)
	return float64(imageCount) / (1 + freePct + e.Settings.AspectWeight*aspectDiff)
}

// evaluateAll evaluates a batch of candidates on a bounded worker pool.
// Each worker writes only to its own slice element, so the map phase is
// lock-free; callers do any reduction single-threaded after Wait.
func (e *Evaluator) evaluateAll(cands []model.Candidate) {
	p := pool.New().WithMaxGoroutines(e.workers())
	for i := range cands {
		i := i
		p.Go(func() {
			e.Evaluate(&cands[i])
		})
	}
	p.Wait()
}

func (e *Evaluator) workers() int {
	if e.Settings.Workers > 0 {
		return e.Settings.Workers
	}
	return runtime.NumCPU()
}

package engine

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

func searchTestSettings() model.SearchSettings {
	s := model.DefaultSettings()
	s.MinImages = 2
	s.MaxImages = 4
	s.PopulationSize = 12
	s.Generations = 6
	s.NumTrials = 100
	s.MinCanvas = 0
	s.Padding = 2
	s.Workers = 2
	s.Seed = 99
	return s
}

func searchTestCorpus() *corpus.Corpus {
	return testCorpus(
		[2]int{100, 100}, [2]int{150, 100}, [2]int{100, 150},
		[2]int{200, 200}, [2]int{120, 80}, [2]int{80, 120},
	)
}

func TestEvaluate_UnpackableCandidateGetsZeroFitness(t *testing.T) {
	c := testCorpus([2]int{100, 100})
	eval := &Evaluator{Corpus: c, Settings: searchTestSettings()}

	cand := model.Candidate{ImageIDs: []uint32{99}} // not in the corpus
	eval.Evaluate(&cand)

	assert.Equal(t, 0.0, cand.Fitness)
	assert.Nil(t, cand.Layout)
}

func TestEvaluate_EmptyCandidateGetsZeroFitness(t *testing.T) {
	c := testCorpus([2]int{100, 100})
	eval := &Evaluator{Corpus: c, Settings: searchTestSettings()}

	cand := model.Candidate{}
	eval.Evaluate(&cand)

	assert.Equal(t, 0.0, cand.Fitness)
	assert.Nil(t, cand.Layout)
}

func TestEvaluate_SetsFitnessAndLayout(t *testing.T) {
	c := searchTestCorpus()
	eval := &Evaluator{Corpus: c, Settings: searchTestSettings()}

	cand := model.Candidate{ImageIDs: []uint32{0, 1, 2}}
	eval.Evaluate(&cand)

	require.NotNil(t, cand.Layout)
	assert.Greater(t, cand.Fitness, 0.0)
	assert.Len(t, cand.Layout.Placements, 3)
}

func TestFitness_MonotonicInFreeArea(t *testing.T) {
	eval := &Evaluator{Settings: searchTestSettings()}

	// Identical image count and aspect ratio; only the free-area share
	// differs. The tighter layout must score strictly higher.
	loose := model.PackedLayout{
		Width: 100, Height: 100,
		Placements: []model.Placement{{ImageID: 0, Rect: model.Rect{Width: 80, Height: 80}}},
	}
	tight := model.PackedLayout{
		Width: 100, Height: 100,
		Placements: []model.Placement{{ImageID: 0, Rect: model.Rect{Width: 90, Height: 90}}},
	}

	assert.Greater(t, eval.fitness(1, tight), eval.fitness(1, loose))
}

func TestFitness_RewardsImageCount(t *testing.T) {
	eval := &Evaluator{Settings: searchTestSettings()}

	layout := model.PackedLayout{
		Width: 100, Height: 100,
		Placements: []model.Placement{{ImageID: 0, Rect: model.Rect{Width: 90, Height: 90}}},
	}

	assert.Greater(t, eval.fitness(4, layout), eval.fitness(2, layout))
}

func TestRunGenetic_FindsLayout(t *testing.T) {
	c := searchTestCorpus()

	winner, err := RunGenetic(c, searchTestSettings(), nil)

	require.NoError(t, err)
	require.NotNil(t, winner.Layout)
	assert.Greater(t, winner.Fitness, 0.0)
	assert.GreaterOrEqual(t, len(winner.ImageIDs), 2)
	assert.LessOrEqual(t, len(winner.ImageIDs), 4)
	layoutIsValid(t, *winner.Layout)
}

func TestRunGenetic_ElitismNeverRegresses(t *testing.T) {
	c := searchTestCorpus()
	settings := searchTestSettings()
	settings.Generations = 10

	var bestPerGen []float64
	_, err := RunGenetic(c, settings, func(gen int, best float64) {
		bestPerGen = append(bestPerGen, best)
	})

	require.NoError(t, err)
	require.Len(t, bestPerGen, settings.Generations)
	for i := 1; i < len(bestPerGen); i++ {
		assert.GreaterOrEqual(t, bestPerGen[i], bestPerGen[i-1],
			"best fitness regressed between generation %d and %d", i-1, i)
	}
}

func TestRunGenetic_DeterministicUnderFixedSeed(t *testing.T) {
	c := searchTestCorpus()
	settings := searchTestSettings()

	first, err := RunGenetic(c, settings, nil)
	require.NoError(t, err)
	second, err := RunGenetic(c, settings, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ImageIDs, second.ImageIDs)
	assert.Equal(t, first.Fitness, second.Fitness)
	assert.Equal(t, first.Layout, second.Layout)
}

func TestRunGenetic_EmptyCorpus(t *testing.T) {
	c := corpus.NewFromImages(nil)

	_, err := RunGenetic(c, searchTestSettings(), nil)

	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestRunTrials_FindsLayout(t *testing.T) {
	c := searchTestCorpus()
	settings := searchTestSettings()
	settings.Mode = model.ModeRandom

	winner, err := RunTrials(c, settings, nil)

	require.NoError(t, err)
	require.NotNil(t, winner.Layout)
	layoutIsValid(t, *winner.Layout)
}

func TestRunTrials_DeterministicUnderFixedSeed(t *testing.T) {
	c := searchTestCorpus()
	settings := searchTestSettings()
	settings.Mode = model.ModeRandom

	first, err := RunTrials(c, settings, nil)
	require.NoError(t, err)
	second, err := RunTrials(c, settings, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ImageIDs, second.ImageIDs)
	assert.Equal(t, first.Layout, second.Layout)
}

func TestRunTrials_EmptyCorpus(t *testing.T) {
	c := corpus.NewFromImages(nil)

	_, err := RunTrials(c, searchTestSettings(), nil)

	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestRunTrials_NoPackableLayout(t *testing.T) {
	// Padding larger than the growth headroom makes every candidate
	// unpackable within a single attempt, so the whole trial budget yields
	// nothing.
	c := testCorpus([2]int{100, 100}, [2]int{100, 100})
	settings := searchTestSettings()
	settings.MinImages = 1
	settings.MaxImages = 2
	settings.NumTrials = 20
	settings.Padding = 50
	settings.MaxPackAttempts = 1

	_, err := RunTrials(c, settings, nil)

	assert.ErrorIs(t, err, ErrNoLayout)
}

func TestSearch_DispatchesOnMode(t *testing.T) {
	c := searchTestCorpus()

	settings := searchTestSettings()
	settings.Mode = model.ModeGenetic
	winner, err := Search(c, settings, nil)
	require.NoError(t, err)
	require.NotNil(t, winner.Layout)

	settings.Mode = model.ModeRandom
	winner, err = Search(c, settings, nil)
	require.NoError(t, err)
	require.NotNil(t, winner.Layout)
}

// NewFromImages assigns ids in slice order; pin that here since candidate
// sampling depends on it.
func TestCorpusIDsSequential(t *testing.T) {
	c := corpus.NewFromImages([]image.Image{
		image.NewRGBA(image.Rect(0, 0, 10, 10)),
		image.NewRGBA(image.Rect(0, 0, 20, 20)),
	})
	assert.Equal(t, []uint32{0, 1}, c.IDs())
}

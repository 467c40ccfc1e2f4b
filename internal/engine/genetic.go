package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// ProgressFunc receives progress updates during a search: the number of
// completed rounds (generations or trials) and the best fitness seen so far.
type ProgressFunc func(round int, bestFitness float64)

// Search runs the strategy selected by the settings and returns the fittest
// candidate found.
func Search(c *corpus.Corpus, settings model.SearchSettings, progress ProgressFunc) (model.Candidate, error) {
	if settings.Mode == model.ModeRandom {
		return RunTrials(c, settings, progress)
	}
	return RunGenetic(c, settings, progress)
}

// geneticSearcher drives the generational search over image subsets.
type geneticSearcher struct {
	corpus   *corpus.Corpus
	settings model.SearchSettings
	eval     *Evaluator
	rng      *rand.Rand
	progress ProgressFunc
}

// RunGenetic evolves a fixed-size population over a fixed number of
// generations and returns the fittest candidate of the final population.
// Generation count is the sole termination condition.
func RunGenetic(c *corpus.Corpus, settings model.SearchSettings, progress ProgressFunc) (model.Candidate, error) {
	if c.Len() == 0 {
		return model.Candidate{}, ErrEmptyCorpus
	}

	g := &geneticSearcher{
		corpus:   c,
		settings: settings,
		eval:     &Evaluator{Corpus: c, Settings: settings},
		rng:      rand.New(rand.NewSource(settings.Seed)),
		progress: progress,
	}
	return g.run()
}

func (g *geneticSearcher) run() (model.Candidate, error) {
	population := g.initPopulation()
	g.eval.evaluateAll(population)

	for gen := 0; gen < g.settings.Generations; gen++ {
		sortByFitness(population)
		if g.progress != nil {
			g.progress(gen, population[0].Fitness)
		}

		// The top half survives unchanged; their cached fitness and layout
		// stay valid, so the best fitness never regresses between
		// generations.
		eliteCount := len(population) / 2
		if eliteCount < 1 {
			eliteCount = 1
		}
		elites := population[:eliteCount]

		newPop := make([]model.Candidate, 0, g.settings.PopulationSize)
		for _, e := range elites {
			newPop = append(newPop, e.Clone())
		}

		offspringStart := len(newPop)
		for len(newPop) < g.settings.PopulationSize {
			newPop = append(newPop, g.reproduce(elites))
		}

		g.eval.evaluateAll(newPop[offspringStart:])
		population = newPop
	}

	sortByFitness(population)
	best := population[0]
	if best.Layout == nil {
		return model.Candidate{}, ErrNoLayout
	}
	return best, nil
}

// initPopulation fills the population with independently generated random
// candidates.
func (g *geneticSearcher) initPopulation() []model.Candidate {
	population := make([]model.Candidate, g.settings.PopulationSize)
	for i := range population {
		population[i] = newRandomCandidate(g.rng, g.corpus, g.settings.MinImages, g.settings.MaxImages)
	}
	return population
}

// reproduce draws two elites uniformly at random (with replacement) and
// produces one child via crossover or cloning, then optionally mutates it.
func (g *geneticSearcher) reproduce(elites []model.Candidate) model.Candidate {
	parent1 := elites[g.rng.Intn(len(elites))]
	parent2 := elites[g.rng.Intn(len(elites))]

	var child model.Candidate
	if g.rng.Float64() < g.settings.CrossoverRate {
		child = crossover(g.rng, parent1, parent2, g.corpus, g.settings.MinImages, g.settings.MaxImages)
	} else {
		child = parent1.Clone()
		child.Fitness = 0
		child.Layout = nil
	}

	if g.rng.Float64() < g.settings.MutationRate {
		mutate(g.rng, &child, g.corpus, g.settings.MinImages, g.settings.MaxImages)
	}
	return child
}

// sortByFitness orders a population by descending fitness. The sort is
// stable so runs with a fixed seed stay deterministic when fitness ties.
func sortByFitness(population []model.Candidate) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})
}

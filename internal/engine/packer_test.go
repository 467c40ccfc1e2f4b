package engine

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// testCorpus builds a corpus of blank images with the given sizes, ids
// assigned sequentially from 0.
func testCorpus(sizes ...[2]int) *corpus.Corpus {
	images := make([]image.Image, len(sizes))
	for i, s := range sizes {
		images[i] = image.NewRGBA(image.Rect(0, 0, s[0], s[1]))
	}
	return corpus.NewFromImages(images)
}

func layoutIsValid(t *testing.T, layout model.PackedLayout) {
	t.Helper()
	for i, a := range layout.Placements {
		assert.GreaterOrEqual(t, a.Rect.X, 0)
		assert.GreaterOrEqual(t, a.Rect.Y, 0)
		assert.LessOrEqual(t, a.Rect.Right(), layout.Width)
		assert.LessOrEqual(t, a.Rect.Bottom(), layout.Height)
		for _, b := range layout.Placements[i+1:] {
			assert.False(t, a.Rect.Intersects(b.Rect),
				"placements %v and %v overlap", a, b)
		}
	}
}

func TestPack_SingleImage(t *testing.T) {
	c := testCorpus([2]int{100, 80})

	layout := Pack(c, []uint32{0}, 500, 500, 0)

	require.Len(t, layout.Placements, 1)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 100, Height: 80}, layout.Placements[0].Rect)
	assert.Equal(t, 100, layout.Width)
	assert.Equal(t, 80, layout.Height)
}

func TestPack_NoOverlapAndContainment(t *testing.T) {
	sizes := [][2]int{
		{100, 100}, {150, 100}, {100, 150}, {200, 200},
		{80, 120}, {60, 60}, {240, 90}, {90, 240},
	}
	c := testCorpus(sizes...)

	ids := c.IDs()
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		layout := Pack(c, ids, 600, 600, 5)
		require.NotEmpty(t, layout.Placements)
		layoutIsValid(t, layout)
	}
}

func TestPack_CanvasIsTightBoundingBox(t *testing.T) {
	c := testCorpus([2]int{100, 100}, [2]int{100, 100})

	layout := Pack(c, []uint32{0, 1}, 1000, 1000, 0)

	require.Len(t, layout.Placements, 2)
	// Both images sit on the bottom row; the canvas is their bounding box,
	// not the 1000x1000 budget.
	assert.Equal(t, 200, layout.Width)
	assert.Equal(t, 100, layout.Height)
}

func TestPack_DropsImagesThatDoNotFit(t *testing.T) {
	c := testCorpus([2]int{100, 100}, [2]int{500, 500})

	layout := Pack(c, []uint32{0, 1}, 200, 200, 0)

	require.Len(t, layout.Placements, 1)
	assert.Equal(t, uint32(0), layout.Placements[0].ImageID)
}

func TestPack_PreservesCallerOrder(t *testing.T) {
	c := testCorpus([2]int{50, 50}, [2]int{200, 200}, [2]int{50, 50})

	layout := Pack(c, []uint32{2, 1, 0}, 600, 600, 0)

	require.Len(t, layout.Placements, 3)
	assert.Equal(t, uint32(2), layout.Placements[0].ImageID)
	assert.Equal(t, uint32(1), layout.Placements[1].ImageID)
	assert.Equal(t, uint32(0), layout.Placements[2].ImageID)
	// First-placed image anchors bottom-left.
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 50, Height: 50}, layout.Placements[0].Rect)
}

func TestPackAll_GrowsBudgetUntilEverythingFits(t *testing.T) {
	c := testCorpus([2]int{100, 100}, [2]int{100, 100}, [2]int{100, 100})

	// 150x150 holds one image; growth at 1.2 reaches 216x216 on the third
	// attempt, which holds all three.
	layout := PackAll(c, []uint32{0, 1, 2}, 150, 150, 0, 1.2, 5)

	require.Len(t, layout.Placements, 3)
	layoutIsValid(t, layout)
}

func TestPackAll_ExhaustedGrowthYieldsEmptyLayout(t *testing.T) {
	c := testCorpus([2]int{100, 100})

	// 50x50 grows to at most ~103x103; with 5px padding a 100x100 image
	// never fits.
	layout := PackAll(c, []uint32{0}, 50, 50, 5, 1.2, 5)

	assert.True(t, layout.Empty())
	assert.Equal(t, 0, layout.Width)
	assert.Equal(t, 0, layout.Height)
	assert.Empty(t, layout.Placements)
}

func TestPackAll_EmptyInput(t *testing.T) {
	c := testCorpus([2]int{100, 100})

	layout := PackAll(c, nil, 500, 500, 0, 1.2, 5)

	assert.True(t, layout.Empty())
}

func TestEstimateBudget_SquareFromTotalArea(t *testing.T) {
	// 85000 px^2 at square aspect: ~292x292 seed.
	w, h := estimateBudget(85000, 1.0, 0)
	assert.InDelta(t, 292, w, 2)
	assert.InDelta(t, 292, h, 2)
}

func TestEstimateBudget_MinimumCanvasBound(t *testing.T) {
	w, h := estimateBudget(85000, 1.0, 1500)
	assert.Equal(t, 1500, w)
	assert.Equal(t, 1500, h)
}

func TestEstimateBudget_RespectsAspectRatio(t *testing.T) {
	w, h := estimateBudget(2_000_000, 2.0, 0)
	assert.Greater(t, w, h)
	assert.InDelta(t, 2.0, float64(w)/float64(h), 0.05)
}

func TestPack_FourImageScenarioReachesSquareAspect(t *testing.T) {
	c := testCorpus([2]int{100, 100}, [2]int{150, 100}, [2]int{100, 150}, [2]int{200, 200})
	budgetW, budgetH := estimateBudget(c.TotalArea(c.IDs()), 1.0, 0)

	found := false
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		ids := c.IDs()
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

		layout := PackAll(c, ids, budgetW, budgetH, 0, 1.2, 5)
		if len(layout.Placements) != 4 {
			continue
		}
		layoutIsValid(t, layout)
		if diff := layout.AspectRatio() - 1.0; diff >= -0.3 && diff <= 0.3 {
			found = true
			break
		}
	}
	assert.True(t, found, "no seed out of 50 produced a 4-image layout within 0.3 of square")
}

package engine

import (
	"math"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// skylineNode is one horizontal segment of the packer's occupied-region
// boundary. Nodes are kept sorted by x and never overlap.
type skylineNode struct {
	x, y, width int
}

// skylinePacker places rectangles bottom-left against a growing skyline.
// Instances are cheap and single-use: one packer per packing attempt.
type skylinePacker struct {
	width   int
	height  int
	padding int
	skyline []skylineNode
}

func newSkylinePacker(width, height, padding int) *skylinePacker {
	return &skylinePacker{
		width:   width,
		height:  height,
		padding: padding,
		skyline: []skylineNode{{x: 0, y: 0, width: width}},
	}
}

// insert places a w x h rectangle at the position that yields the lowest
// resulting top edge, ties broken by the narrowest skyline node. The padding
// is reserved around the rectangle inside the budget but excluded from the
// returned geometry.
func (sp *skylinePacker) insert(w, h int) (model.Rect, bool) {
	pw := w + sp.padding
	ph := h + sp.padding

	bestTop := math.MaxInt
	bestWidth := math.MaxInt
	bestIndex := -1
	bestX, bestY := 0, 0

	for i := range sp.skyline {
		y, ok := sp.fits(i, pw, ph)
		if !ok {
			continue
		}
		if y+ph < bestTop || (y+ph == bestTop && sp.skyline[i].width < bestWidth) {
			bestTop = y + ph
			bestWidth = sp.skyline[i].width
			bestIndex = i
			bestX = sp.skyline[i].x
			bestY = y
		}
	}

	if bestIndex < 0 {
		return model.Rect{}, false
	}

	sp.addLevel(bestIndex, bestX, bestY, pw, ph)
	return model.Rect{X: bestX, Y: bestY, Width: w, Height: h}, true
}

// fits tests whether a padded rectangle can sit at skyline node index,
// returning the y it would rest at.
func (sp *skylinePacker) fits(index, w, h int) (int, bool) {
	x := sp.skyline[index].x
	if x+w > sp.width {
		return 0, false
	}

	y := sp.skyline[index].y
	remaining := w
	for i := index; remaining > 0; i++ {
		if i >= len(sp.skyline) {
			return 0, false
		}
		if sp.skyline[i].y > y {
			y = sp.skyline[i].y
		}
		if y+h > sp.height {
			return 0, false
		}
		remaining -= sp.skyline[i].width
	}
	return y, true
}

// addLevel raises the skyline over the footprint of a placed rectangle.
func (sp *skylinePacker) addLevel(index, x, y, w, h int) {
	node := skylineNode{x: x, y: y + h, width: w}
	sp.skyline = append(sp.skyline, skylineNode{})
	copy(sp.skyline[index+1:], sp.skyline[index:])
	sp.skyline[index] = node

	// Shrink or drop nodes the new level shadows.
	for i := index + 1; i < len(sp.skyline); i++ {
		prev := sp.skyline[i-1]
		if sp.skyline[i].x >= prev.x+prev.width {
			break
		}
		shrink := prev.x + prev.width - sp.skyline[i].x
		sp.skyline[i].x += shrink
		sp.skyline[i].width -= shrink
		if sp.skyline[i].width > 0 {
			break
		}
		sp.skyline = append(sp.skyline[:i], sp.skyline[i+1:]...)
		i--
	}

	// Merge neighbors at equal height.
	for i := 0; i < len(sp.skyline)-1; i++ {
		if sp.skyline[i].y == sp.skyline[i+1].y {
			sp.skyline[i].width += sp.skyline[i+1].width
			sp.skyline = append(sp.skyline[:i+1], sp.skyline[i+2:]...)
			i--
		}
	}
}

// Pack places the given images in input order onto a canvas budget. Images
// that do not fit are dropped from the result. The caller controls ordering;
// packing quality is sensitive to insertion order and no re-sorting happens
// here. Canvas dimensions of the result are the tight bounding box of the
// placements, not the budget.
func Pack(c *corpus.Corpus, ids []uint32, budgetWidth, budgetHeight, padding int) model.PackedLayout {
	layout, _ := packOnce(c, ids, budgetWidth, budgetHeight, padding)
	return layout
}

// PackAll packs all images or nothing. The budget grows by growthFactor on
// each failed attempt, up to maxAttempts; if the images still do not fit the
// returned layout is empty with a zero canvas.
func PackAll(c *corpus.Corpus, ids []uint32, budgetWidth, budgetHeight, padding int, growthFactor float64, maxAttempts int) model.PackedLayout {
	if len(ids) == 0 {
		return model.PackedLayout{}
	}

	scale := 1.0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		w := int(float64(budgetWidth) * scale)
		h := int(float64(budgetHeight) * scale)
		layout, all := packOnce(c, ids, w, h, padding)
		if all {
			return layout
		}
		scale *= growthFactor
	}
	return model.PackedLayout{}
}

func packOnce(c *corpus.Corpus, ids []uint32, budgetWidth, budgetHeight, padding int) (model.PackedLayout, bool) {
	packer := newSkylinePacker(budgetWidth, budgetHeight, padding)

	layout := model.PackedLayout{}
	allPlaced := true
	for _, id := range ids {
		img, ok := c.Get(id)
		if !ok {
			allPlaced = false
			continue
		}
		rect, ok := packer.insert(img.Width(), img.Height())
		if !ok {
			allPlaced = false
			continue
		}
		layout.Placements = append(layout.Placements, model.Placement{ImageID: id, Rect: rect})
		if rect.Right() > layout.Width {
			layout.Width = rect.Right()
		}
		if rect.Bottom() > layout.Height {
			layout.Height = rect.Bottom()
		}
	}
	return layout, allPlaced
}

// estimateBudget derives a square-ish packing budget from the total pixel
// area of the selected images and the target aspect ratio. The minimum
// canvas bound keeps small corpora from churning through growth retries.
func estimateBudget(totalArea uint64, aspect float64, minCanvas int) (int, int) {
	height := int(math.Sqrt(float64(totalArea) / aspect))
	width := int(aspect * float64(height))
	if width < minCanvas {
		width = minCanvas
	}
	if height < minCanvas {
		height = minCanvas
	}
	return width, height
}

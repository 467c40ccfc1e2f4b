// Package collage renders a packed layout into a final image.
package collage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/piwi3910/CollagePack/internal/corpus"
	"github.com/piwi3910/CollagePack/internal/model"
)

// Options controls composition.
type Options struct {
	// Background fills the canvas before any image is placed.
	// Defaults to white.
	Background color.Color

	// MinWidth and MinHeight enlarge the canvas beyond the layout's bounding
	// box; the packed cluster is centered inside the extra space.
	MinWidth  int
	MinHeight int

	// Observer, when set, is invoked after each placement has been copied to
	// the canvas. The canvas must not be mutated by the observer.
	Observer func(p model.Placement, canvas *image.RGBA)
}

// Compose renders the layout onto a freshly allocated canvas. The packed
// cluster is translated so its bounding box is centered on the canvas. Copy
// order is irrelevant because placements never overlap.
func Compose(c *corpus.Corpus, layout model.PackedLayout, opts Options) (*image.RGBA, error) {
	if layout.Empty() {
		return nil, fmt.Errorf("cannot compose an empty layout")
	}

	minX, minY := layout.Placements[0].Rect.X, layout.Placements[0].Rect.Y
	maxX, maxY := 0, 0
	for _, p := range layout.Placements {
		if p.Rect.X < minX {
			minX = p.Rect.X
		}
		if p.Rect.Y < minY {
			minY = p.Rect.Y
		}
		if p.Rect.Right() > maxX {
			maxX = p.Rect.Right()
		}
		if p.Rect.Bottom() > maxY {
			maxY = p.Rect.Bottom()
		}
	}
	boundW := maxX - minX
	boundH := maxY - minY

	canvasW := layout.Width
	if opts.MinWidth > canvasW {
		canvasW = opts.MinWidth
	}
	canvasH := layout.Height
	if opts.MinHeight > canvasH {
		canvasH = opts.MinHeight
	}

	background := opts.Background
	if background == nil {
		background = color.White
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	offsetX := (canvasW - boundW) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	offsetY := (canvasH - boundH) / 2
	if offsetY < 0 {
		offsetY = 0
	}

	for _, p := range layout.Placements {
		img, ok := c.Get(p.ImageID)
		if !ok {
			return nil, fmt.Errorf("image %d referenced by layout is not in the corpus", p.ImageID)
		}
		target := image.Rect(
			offsetX+p.Rect.X-minX,
			offsetY+p.Rect.Y-minY,
			offsetX+p.Rect.X-minX+p.Rect.Width,
			offsetY+p.Rect.Y-minY+p.Rect.Height,
		)
		draw.Draw(canvas, target, img.Pixels, img.Pixels.Bounds().Min, draw.Src)

		if opts.Observer != nil {
			opts.Observer(p, canvas)
		}
	}

	return canvas, nil
}

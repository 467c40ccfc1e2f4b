// Package corpus loads and holds the set of source images a collage is
// built from. The corpus is immutable after Load and safe to share across
// evaluation workers.
package corpus

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Image is a single decoded corpus entry. Pixels are always stored as RGBA
// so the compositor can copy them without per-format conversion.
type Image struct {
	ID     uint32
	Name   string
	Pixels *image.RGBA
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.Pixels.Bounds().Dx() }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.Pixels.Bounds().Dy() }

// Area returns width*height in square pixels.
func (im *Image) Area() int64 { return int64(im.Width()) * int64(im.Height()) }

// Corpus maps image ids to decoded images. Ids are assigned sequentially
// from 0 in directory-listing order at load time.
type Corpus struct {
	images map[uint32]*Image
	ids    []uint32
}

// Options controls corpus loading.
type Options struct {
	// Filter restricts which files are loaded. A value starting with a dot
	// matches the file extension (case-insensitive); any other value matches
	// as a filename substring. Empty loads everything decodable.
	Filter string

	// StandardWidth, when positive, rescales every image to this width,
	// preserving aspect ratio.
	StandardWidth int

	// Warn, when set, is called for files that were skipped because they
	// could not be decoded. Load does not fail on individual bad files.
	Warn func(path string, err error)
}

// Load reads all matching images from dir.
func Load(dir string, opts Options) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	c := &Corpus{images: make(map[uint32]*Image)}
	var id uint32

	for _, entry := range entries {
		if entry.IsDir() || !matchesFilter(entry.Name(), opts.Filter) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		img, err := decodeFile(path)
		if err != nil {
			if opts.Warn != nil {
				opts.Warn(path, err)
			}
			continue
		}
		rgba := toRGBA(img)
		if opts.StandardWidth > 0 {
			rgba = scaleToWidth(rgba, opts.StandardWidth)
		}
		c.images[id] = &Image{ID: id, Name: entry.Name(), Pixels: rgba}
		c.ids = append(c.ids, id)
		id++
	}

	return c, nil
}

// NewFromImages builds a corpus directly from decoded images, assigning
// sequential ids in slice order. Used by tests and embedding callers.
func NewFromImages(images []image.Image) *Corpus {
	c := &Corpus{images: make(map[uint32]*Image, len(images))}
	for i, img := range images {
		id := uint32(i)
		c.images[id] = &Image{ID: id, Pixels: toRGBA(img)}
		c.ids = append(c.ids, id)
	}
	return c
}

// Get returns the image with the given id.
func (c *Corpus) Get(id uint32) (*Image, bool) {
	im, ok := c.images[id]
	return im, ok
}

// Len returns the number of images in the corpus.
func (c *Corpus) Len() int { return len(c.images) }

// IDs returns a copy of all image ids in load order.
func (c *Corpus) IDs() []uint32 {
	ids := make([]uint32, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// TotalArea sums the pixel area of the given ids. Unknown ids contribute
// nothing.
func (c *Corpus) TotalArea(ids []uint32) uint64 {
	var total uint64
	for _, id := range ids {
		if im, ok := c.images[id]; ok {
			total += uint64(im.Area())
		}
	}
	return total
}

func matchesFilter(name, filter string) bool {
	if filter == "" {
		return true
	}
	if strings.HasPrefix(filter, ".") {
		return strings.EqualFold(filepath.Ext(name), filter)
	}
	return strings.Contains(name, filter)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	return rgba
}

// scaleToWidth resizes to the target width, preserving aspect ratio.
func scaleToWidth(img *image.RGBA, width int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width || b.Dx() == 0 {
		return img
	}
	height := int(float64(width) / float64(b.Dx()) * float64(b.Dy()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

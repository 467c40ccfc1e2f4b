package model

import "fmt"

// WorstAspectRatio is the aspect ratio assigned to degenerate layouts with
// zero height, large enough to dominate any real aspect deviation penalty.
const WorstAspectRatio = 9999.9

// Rect represents an axis-aligned rectangle in packer coordinates (pixels).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Right returns the exclusive right edge coordinate.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge coordinate.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Intersects reports whether two rectangles share any interior area.
// Touching edges do not count as an intersection.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Placement ties an image id to its packed position.
type Placement struct {
	ImageID uint32 `json:"image_id"`
	Rect    Rect   `json:"rect"`
}

// PackedLayout is the result of one packing run. Width and Height are the
// tight bounding box of all placements, not the packing budget that produced
// them. Placements never overlap and each image id appears at most once.
type PackedLayout struct {
	Placements []Placement `json:"placements"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
}

// Empty reports whether the layout contains no placements or a zero canvas.
func (l PackedLayout) Empty() bool {
	return len(l.Placements) == 0 || l.Width == 0 || l.Height == 0
}

// Area returns the canvas area in square pixels.
func (l PackedLayout) Area() int64 {
	return int64(l.Width) * int64(l.Height)
}

// UsedArea returns the total area covered by placed images.
func (l PackedLayout) UsedArea() int64 {
	var used int64
	for _, p := range l.Placements {
		used += p.Rect.Area()
	}
	return used
}

// FreeArea returns the canvas area not covered by any placed image.
func (l PackedLayout) FreeArea() int64 {
	free := l.Area() - l.UsedArea()
	if free < 0 {
		return 0
	}
	return free
}

// FreePercent returns the free area as a percentage of the canvas area.
func (l PackedLayout) FreePercent() float64 {
	area := l.Area()
	if area == 0 {
		return 0
	}
	return 100 * float64(l.FreeArea()) / float64(area)
}

// AspectRatio returns width/height of the canvas. Zero-height layouts get
// WorstAspectRatio so they are penalized rather than dividing by zero.
func (l PackedLayout) AspectRatio() float64 {
	if l.Height == 0 {
		return WorstAspectRatio
	}
	return float64(l.Width) / float64(l.Height)
}

// Candidate is one proposed subset of corpus images. ImageIDs is semantically
// a set but kept as an ordered slice so crossover cut points are well defined.
// Fitness is 0 until the candidate has been evaluated; Layout is nil until
// evaluation succeeds.
type Candidate struct {
	ImageIDs []uint32
	Fitness  float64
	Layout   *PackedLayout
}

// Clone returns a copy of the candidate with its own id slice. The layout is
// shared; it is immutable once produced.
func (c Candidate) Clone() Candidate {
	ids := make([]uint32, len(c.ImageIDs))
	copy(ids, c.ImageIDs)
	return Candidate{ImageIDs: ids, Fitness: c.Fitness, Layout: c.Layout}
}

// SearchMode selects the search strategy.
type SearchMode int

const (
	ModeGenetic SearchMode = iota // generational population with crossover and mutation
	ModeRandom                    // independent Monte-Carlo trials
)

func (m SearchMode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	default:
		return "genetic"
	}
}

// ParseSearchMode converts a mode name from the CLI or a config file.
func ParseSearchMode(s string) (SearchMode, error) {
	switch s {
	case "genetic", "ga":
		return ModeGenetic, nil
	case "random", "trials":
		return ModeRandom, nil
	default:
		return ModeGenetic, fmt.Errorf("unknown search mode %q", s)
	}
}

// SearchSettings holds the full configuration surface of the search engine.
type SearchSettings struct {
	Mode SearchMode `json:"mode"`

	MinImages int `json:"min_images"`
	MaxImages int `json:"max_images"`

	// Monte-Carlo mode
	NumTrials int `json:"num_trials"`

	// Genetic mode
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	MutationRate   float64 `json:"mutation_rate"`
	CrossoverRate  float64 `json:"crossover_rate"`

	// Packing
	Padding            int     `json:"padding"`              // pixels between images
	DesiredAspectRatio float64 `json:"desired_aspect_ratio"` // 1.0 = square
	AspectWeight       float64 `json:"aspect_weight"`        // fitness penalty multiplier
	MinCanvas          int     `json:"min_canvas"`           // floor for the first packing budget
	GrowthFactor       float64 `json:"growth_factor"`        // budget scale per retry
	MaxPackAttempts    int     `json:"max_pack_attempts"`

	// Workers is the evaluation pool size; 0 means one per CPU.
	Workers int   `json:"workers"`
	Seed    int64 `json:"seed"`
}

// DefaultSettings returns sensible default search parameters.
func DefaultSettings() SearchSettings {
	return SearchSettings{
		Mode:               ModeGenetic,
		MinImages:          2,
		MaxImages:          10,
		NumTrials:          5000,
		PopulationSize:     50,
		Generations:        100,
		MutationRate:       0.2,
		CrossoverRate:      0.8,
		Padding:            5,
		DesiredAspectRatio: 1.0,
		AspectWeight:       10.0,
		MinCanvas:          1500,
		GrowthFactor:       1.2,
		MaxPackAttempts:    5,
		Workers:            0,
		Seed:               42,
	}
}

// Validate checks the settings for internal consistency.
func (s SearchSettings) Validate() error {
	if s.MinImages < 0 {
		return fmt.Errorf("min_images must be non-negative, got %d", s.MinImages)
	}
	if s.MaxImages < s.MinImages {
		return fmt.Errorf("max_images (%d) must be >= min_images (%d)", s.MaxImages, s.MinImages)
	}
	if s.MutationRate < 0 || s.MutationRate > 1 {
		return fmt.Errorf("mutation_rate must be in [0,1], got %g", s.MutationRate)
	}
	if s.CrossoverRate < 0 || s.CrossoverRate > 1 {
		return fmt.Errorf("crossover_rate must be in [0,1], got %g", s.CrossoverRate)
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding must be non-negative, got %d", s.Padding)
	}
	if s.DesiredAspectRatio <= 0 {
		return fmt.Errorf("desired_aspect_ratio must be positive, got %g", s.DesiredAspectRatio)
	}
	if s.GrowthFactor <= 1 {
		return fmt.Errorf("growth_factor must be > 1, got %g", s.GrowthFactor)
	}
	if s.MaxPackAttempts < 1 {
		return fmt.Errorf("max_pack_attempts must be >= 1, got %d", s.MaxPackAttempts)
	}
	switch s.Mode {
	case ModeRandom:
		if s.NumTrials < 1 {
			return fmt.Errorf("num_trials must be >= 1, got %d", s.NumTrials)
		}
	case ModeGenetic:
		if s.PopulationSize < 2 {
			return fmt.Errorf("population_size must be >= 2, got %d", s.PopulationSize)
		}
		if s.Generations < 1 {
			return fmt.Errorf("generations must be >= 1, got %d", s.Generations)
		}
	default:
		return fmt.Errorf("unknown search mode %d", s.Mode)
	}
	return nil
}

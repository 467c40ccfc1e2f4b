package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/CollagePack/internal/model"
)

// Manifest is the durable record of one finished search run: what was
// searched, with which settings, and the layout that won.
type Manifest struct {
	RunID     string               `json:"run_id"`
	CreatedAt time.Time            `json:"created_at"`
	SourceDir string               `json:"source_dir"`
	Settings  model.SearchSettings `json:"settings"`
	Layout    model.PackedLayout   `json:"layout"`
	Fitness   float64              `json:"fitness"`
}

// NewManifest builds a manifest for a finished run with a fresh run id.
func NewManifest(sourceDir string, settings model.SearchSettings, winner model.Candidate) Manifest {
	m := Manifest{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		SourceDir: sourceDir,
		Settings:  settings,
		Fitness:   winner.Fitness,
	}
	if winner.Layout != nil {
		m.Layout = *winner.Layout
	}
	return m
}

// SaveManifest writes the manifest to path as indented JSON, creating
// missing parent directories.
func SaveManifest(path string, m Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadManifest reads a manifest back from path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

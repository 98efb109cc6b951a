// Package config provides YAML preset loading for the extraction CLI.
// Presets bundle the extraction knobs so experiment configurations can be
// versioned alongside datasets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset represents an extraction configuration loaded from YAML
type Preset struct {
	Extraction struct {
		// BinsPerChannel is the per-channel bin count; the vector length
		// is 2*bins^3
		BinsPerChannel int `yaml:"binsPerChannel"`

		// SmoothingWindow is the box filter size, odd
		SmoothingWindow int `yaml:"smoothingWindow"`

		// CoherenceFraction scales the area threshold:
		// tau = floor(width*height*coherenceFraction)
		CoherenceFraction float64 `yaml:"coherenceFraction"`

		// Grouping selects "legacy" or "unionfind"
		Grouping string `yaml:"grouping"`
	} `yaml:"extraction"`

	Runtime struct {
		// UseWorkerPool enables parallel per-label analysis
		UseWorkerPool bool `yaml:"useWorkerPool"`

		// MaxWorkers caps the pool size; 0 means all CPU cores
		MaxWorkers int `yaml:"maxWorkers"`
	} `yaml:"runtime"`
}

// Default returns the reference preset
func Default() *Preset {
	p := &Preset{}
	p.Extraction.BinsPerChannel = 2
	p.Extraction.SmoothingWindow = 3
	p.Extraction.CoherenceFraction = 0.01
	p.Extraction.Grouping = "legacy"
	p.Runtime.UseWorkerPool = true
	p.Runtime.MaxWorkers = 0
	return p
}

// Load reads a preset from a YAML file, filling omitted fields with defaults
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	preset := Default()
	if err := yaml.Unmarshal(data, preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	if preset.Extraction.BinsPerChannel <= 0 {
		return nil, fmt.Errorf("binsPerChannel must be positive, got %d", preset.Extraction.BinsPerChannel)
	}
	if preset.Extraction.SmoothingWindow <= 0 || preset.Extraction.SmoothingWindow%2 == 0 {
		return nil, fmt.Errorf("smoothingWindow must be odd and positive, got %d", preset.Extraction.SmoothingWindow)
	}
	if preset.Extraction.CoherenceFraction < 0 || preset.Extraction.CoherenceFraction > 1 {
		return nil, fmt.Errorf("coherenceFraction must be in [0,1], got %g", preset.Extraction.CoherenceFraction)
	}
	return preset, nil
}

// Save writes the preset to a YAML file
func (p *Preset) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}
	return nil
}

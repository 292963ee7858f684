package reel

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SceneSpan is one row of the scene table: a registered scene name and how
// many frames it lasts.
type SceneSpan struct {
	Name   string `yaml:"name" json:"name" validate:"required"`
	Length int    `yaml:"length" json:"length" validate:"gte=0"`
}

// Marker is a named, externally authored frame position.
type Marker struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Frame int    `yaml:"frame" json:"frame" validate:"gte=0"`
}

// Timeline is the authored timeline file: the scene table and the markers.
type Timeline struct {
	Scenes  []SceneSpan `yaml:"scenes" json:"scenes" validate:"dive"`
	Markers []Marker    `yaml:"markers" json:"markers" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseTimeline decodes and validates a YAML timeline.
func ParseTimeline(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return &tl, nil
}

// LoadTimeline reads and parses a timeline file.
func LoadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load timeline: %w", err)
	}
	return ParseTimeline(data)
}

// Validate checks field constraints and that scene names are unique.
func (t *Timeline) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("validate timeline: %w", err)
	}
	seen := make(map[string]bool, len(t.Scenes))
	for _, s := range t.Scenes {
		if seen[s.Name] {
			return fmt.Errorf("validate timeline: duplicate scene %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Length returns the total number of frames in the scene table.
func (t *Timeline) Length() int {
	total := 0
	for _, s := range t.Scenes {
		total += s.Length
	}
	return total
}

// Options returns the engine options that apply this timeline.
func (t *Timeline) Options() []Option {
	return []Option{WithScenes(t.Scenes), WithMarkers(t.Markers)}
}

// Package config holds the editor's UI constants and the JSON record used
// to save and load an IFS together with its image and evaluation settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// ErrParse wraps every failure to turn a payload into a Config.
var ErrParse = errors.New("config parse error")

type ImageSettings struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Path   string `json:"path"`
}

type EvaluationSettings struct {
	NumIterations uint32 `json:"num_iterations"`
	NumPoints     uint32 `json:"num_points"`
}

// Config is the serialization boundary object. It is not kept after
// being applied to a session.
type Config struct {
	Image      ImageSettings         `json:"image_settings"`
	Evaluation EvaluationSettings    `json:"evaluation_settings"`
	Transforms *transform.Collection `json:"transforms"`
	// Target is the optional second keyframe. When absent the session's
	// target policy decides what keyframe 1 becomes.
	Target *transform.Collection `json:"target_transforms,omitempty"`
}

// Default returns the settings a fresh session starts with.
func Default() (ImageSettings, EvaluationSettings) {
	return ImageSettings{Width: 1024, Height: 1024, Path: "ifs.png"},
		EvaluationSettings{NumIterations: 1000, NumPoints: 1000}
}

// Parse decodes and validates a payload.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	switch {
	case c.Image.Width == 0 || c.Image.Height == 0:
		return fmt.Errorf("%w: image_settings width and height must be positive", ErrParse)
	case c.Evaluation.NumPoints == 0 || c.Evaluation.NumIterations == 0:
		return fmt.Errorf("%w: evaluation_settings num_points and num_iterations must be positive", ErrParse)
	case c.Transforms == nil:
		return fmt.Errorf("%w: transforms missing", ErrParse)
	}
	return nil
}

// Marshal encodes cfg as indented JSON.
func Marshal(cfg *Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(cfg, "", "  ")
}

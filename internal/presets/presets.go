// Package presets loads named workout configurations from YAML.
package presets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"interval_timer/internal/engine"
	"interval_timer/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultName is the preset that is always available.
const DefaultName = "tabata"

type yamlFile struct {
	Presets []models.Preset `yaml:"presets"`
}

// Builtin returns the presets available without a presets file.
func Builtin() []models.Preset {
	cfg := engine.DefaultConfig()
	return []models.Preset{{
		Name:         DefaultName,
		SetupSeconds: cfg.SetupSeconds,
		WorkSeconds:  cfg.WorkSeconds,
		RestSeconds:  cfg.RestSeconds,
		Rounds:       cfg.TotalRounds,
	}}
}

// Load reads presets from path. A missing file, or an empty path, yields the
// built-in presets. The built-in tabata preset is added when the file does
// not define one.
func Load(path string) ([]models.Preset, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Builtin(), nil
		}
		return nil, fmt.Errorf("read presets file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a presets document.
func Parse(raw []byte) ([]models.Preset, error) {
	var file yamlFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse presets yaml: %w", err)
	}

	out := make([]models.Preset, 0, len(file.Presets)+1)
	seen := make(map[string]bool, len(file.Presets))
	for i, p := range file.Presets {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("preset #%d: name is required", i+1)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("preset %q: duplicate name", p.Name)
		}
		if err := p.Config().Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		seen[key] = true
		out = append(out, p)
	}
	if !seen[DefaultName] {
		out = append(Builtin(), out...)
	}
	return out, nil
}

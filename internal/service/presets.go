package service

import (
	"errors"
	"fmt"
	"strings"

	"interval_timer/internal/models"
)

// ErrPresetNotFound is returned by Find for unknown names.
var ErrPresetNotFound = errors.New("preset not found")

type PresetService struct {
	presets []models.Preset
}

func NewPresetService(presets []models.Preset) *PresetService {
	return &PresetService{presets: append([]models.Preset(nil), presets...)}
}

// All returns a copy of the presets in file order.
func (s *PresetService) All() []models.Preset {
	return append([]models.Preset(nil), s.presets...)
}

// Find looks a preset up by name, ignoring case and surrounding spaces.
func (s *PresetService) Find(name string) (models.Preset, error) {
	want := strings.TrimSpace(name)
	for _, p := range s.presets {
		if strings.EqualFold(p.Name, want) {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, want)
}

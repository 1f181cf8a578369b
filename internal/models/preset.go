package models

import "interval_timer/internal/engine"

// Preset is a named workout configuration.
type Preset struct {
	Name         string `json:"name" yaml:"name"`
	SetupSeconds int    `json:"setup_seconds" yaml:"setup_seconds"`
	WorkSeconds  int    `json:"work_seconds" yaml:"work_seconds"`
	RestSeconds  int    `json:"rest_seconds" yaml:"rest_seconds"`
	Rounds       int    `json:"rounds" yaml:"rounds"`
}

// Config converts the preset into an engine configuration.
func (p Preset) Config() engine.Config {
	return engine.Config{
		SetupSeconds: p.SetupSeconds,
		WorkSeconds:  p.WorkSeconds,
		RestSeconds:  p.RestSeconds,
		TotalRounds:  p.Rounds,
	}
}

package model

import "fmt"

const (
	MinTargetPct  = 0.0
	MaxTargetPct  = 5.0
	TargetPctStep = 0.1
)

// TargetConfig operator targets
type TargetConfig struct {
	TargetPct                float64 `json:"targetPct" toml:"target_pct"`                                // global loss target, percent
	AreaCeiling              float64 `json:"areaCeiling" toml:"area_ceiling"`                            // m² ceiling for the selected reason
	AreaCeilingEnabled       bool    `json:"areaCeilingEnabled" toml:"area_ceiling_enabled"`             // toggle for AreaCeiling
	OccurrenceCeiling        int     `json:"occurrenceCeiling" toml:"occurrence_ceiling"`                // occurrence ceiling for the selected reason
	OccurrenceCeilingEnabled bool    `json:"occurrenceCeilingEnabled" toml:"occurrence_ceiling_enabled"` // toggle for OccurrenceCeiling
}

// DefaultTargetConfig values shown before the operator changes anything
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		TargetPct:                0.5,
		AreaCeiling:              100.0,
		AreaCeilingEnabled:       true,
		OccurrenceCeiling:        10,
		OccurrenceCeilingEnabled: false,
	}
}

// Validate checks the ranges accepted by the configuration surface
func (c TargetConfig) Validate() error {
	if c.TargetPct < MinTargetPct || c.TargetPct > MaxTargetPct {
		return fmt.Errorf("meta percentual deve estar entre %.1f e %.1f: %v", MinTargetPct, MaxTargetPct, c.TargetPct)
	}
	if c.AreaCeiling < 0 {
		return fmt.Errorf("limite de m² não pode ser negativo: %v", c.AreaCeiling)
	}
	if c.OccurrenceCeiling < 0 {
		return fmt.Errorf("limite de ocorrências não pode ser negativo: %d", c.OccurrenceCeiling)
	}
	return nil
}

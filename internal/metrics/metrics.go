// Package metrics provides per-step observers for creature replays.
package metrics

import (
	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
)

// Default returns the metric set the CLI reports for every replay.
func Default(cfg *config.Config) []creature.Metric {
	return []creature.Metric{
		NewNetDisplacement(),
		NewCenterDisplacement(cfg.Environment.MassPower),
		NewKineticEnergy(),
		NewSpread(),
		NewCohesion(cfg.Generation.CreatureSize),
	}
}

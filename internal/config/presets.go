package config

import "sort"

// Presets are applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Generation.MaxAttraction = 0.03
		c.Environment.Friction = 0.1
	},
	"lively": func(c *Config) {
		c.Generation.MaxAttraction = 0.3
		c.Generation.VelocityRange = 2.0
		c.Environment.Friction = 0.02
	},
	"crowded": func(c *Config) {
		c.Generation.MinParticles = 6
		c.Generation.MaxParticles = 16
		c.Generation.PositionRange = 80
		c.Mutation.AdditionProb = 0.2
	},
	"sticky": func(c *Config) {
		c.Generation.RadiusMax = 40
		c.Mutation.RadiusStep = 4
		c.Environment.Friction = 0.2
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

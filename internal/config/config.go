package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMinParticles  = 2
	DefaultMaxParticles  = 8
	DefaultCreatureSize  = 200.0
	DefaultDomain        = 1.0
	DefaultPositionRange = 50.0
	DefaultVelocityRange = 1.0
	DefaultRadiusMin     = 0.0
	DefaultRadiusMax     = 100.0
	DefaultMaxAttraction = 0.1
	DefaultDeletionProb  = 0.1
	DefaultAdditionProb  = 0.1
	DefaultForceProb     = 0.2
	DefaultRadiusStep    = 10.0
	DefaultAttractStep   = 0.02
	DefaultFriction      = 0.05
	DefaultMassPower     = 0.5
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Generation  GenerationConfig  `yaml:"generation"`
	Mutation    MutationConfig    `yaml:"mutation"`
	Environment EnvironmentConfig `yaml:"environment"`
}

// GenerationConfig bounds the random construction of particles and forces.
type GenerationConfig struct {
	MinParticles  int     `yaml:"min_particles"`
	MaxParticles  int     `yaml:"max_particles"`
	CreatureSize  float64 `yaml:"creature_size"`
	Domain        float64 `yaml:"domain"`
	PositionRange float64 `yaml:"position_range"`
	VelocityRange float64 `yaml:"velocity_range"`
	RadiusMin     float64 `yaml:"radius_min"`
	RadiusMax     float64 `yaml:"radius_max"`
	MaxAttraction float64 `yaml:"max_attraction"`
}

type MutationConfig struct {
	DeletionProb   float64 `yaml:"deletion_prob"`
	AdditionProb   float64 `yaml:"addition_prob"`
	ForceProb      float64 `yaml:"force_prob"`
	RadiusStep     float64 `yaml:"radius_step"`
	AttractionStep float64 `yaml:"attraction_step"`
}

type EnvironmentConfig struct {
	Friction  float64 `yaml:"friction"`
	MassPower float64 `yaml:"mass_power"`
}

func DefaultConfig() *Config {
	return &Config{
		Generation: GenerationConfig{
			MinParticles:  DefaultMinParticles,
			MaxParticles:  DefaultMaxParticles,
			CreatureSize:  DefaultCreatureSize,
			Domain:        DefaultDomain,
			PositionRange: DefaultPositionRange,
			VelocityRange: DefaultVelocityRange,
			RadiusMin:     DefaultRadiusMin,
			RadiusMax:     DefaultRadiusMax,
			MaxAttraction: DefaultMaxAttraction,
		},
		Mutation: MutationConfig{
			DeletionProb:   DefaultDeletionProb,
			AdditionProb:   DefaultAdditionProb,
			ForceProb:      DefaultForceProb,
			RadiusStep:     DefaultRadiusStep,
			AttractionStep: DefaultAttractStep,
		},
		Environment: EnvironmentConfig{
			Friction:  DefaultFriction,
			MassPower: DefaultMassPower,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the file at path on a copy of base. Fields the file
// omits keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the documented ranges. The simulation core never calls it;
// degenerate values are tolerated there and only rejected at the CLI.
func (c *Config) Validate() error {
	g, m, e := c.Generation, c.Mutation, c.Environment
	switch {
	case g.MinParticles < 1:
		return fmt.Errorf("%w: min_particles must be at least 1, got %d", ErrInvalidConfig, g.MinParticles)
	case g.MaxParticles < g.MinParticles:
		return fmt.Errorf("%w: max_particles (%d) below min_particles (%d)", ErrInvalidConfig, g.MaxParticles, g.MinParticles)
	case g.CreatureSize <= 0:
		return fmt.Errorf("%w: creature_size must be positive, got %f", ErrInvalidConfig, g.CreatureSize)
	case g.RadiusMin < 0 || g.RadiusMax <= g.RadiusMin:
		return fmt.Errorf("%w: radius band [%f, %f] must satisfy 0 <= min < max", ErrInvalidConfig, g.RadiusMin, g.RadiusMax)
	case g.PositionRange < 0 || g.VelocityRange < 0 || g.MaxAttraction < 0:
		return fmt.Errorf("%w: generation ranges must be non-negative", ErrInvalidConfig)
	}
	probs := []struct {
		name  string
		value float64
	}{
		{"deletion_prob", m.DeletionProb},
		{"addition_prob", m.AdditionProb},
		{"force_prob", m.ForceProb},
		{"friction", e.Friction},
	}
	for _, p := range probs {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, p.name, p.value)
		}
	}
	if m.RadiusStep < 0 || m.AttractionStep < 0 {
		return fmt.Errorf("%w: mutation steps must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Package sweep measures how configuration parameters shape the fitness of
// random creatures. It reports every grid point; it never keeps or discards
// creatures.
package sweep

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
)

// setters maps a parameter name to the config field it overrides.
var setters = map[string]func(*config.Config, float64){
	"friction":        func(c *config.Config, v float64) { c.Environment.Friction = v },
	"max_attraction":  func(c *config.Config, v float64) { c.Generation.MaxAttraction = v },
	"radius_max":      func(c *config.Config, v float64) { c.Generation.RadiusMax = v },
	"radius_min":      func(c *config.Config, v float64) { c.Generation.RadiusMin = v },
	"position_range":  func(c *config.Config, v float64) { c.Generation.PositionRange = v },
	"velocity_range":  func(c *config.Config, v float64) { c.Generation.VelocityRange = v },
	"min_particles":   func(c *config.Config, v float64) { c.Generation.MinParticles = int(v) },
	"max_particles":   func(c *config.Config, v float64) { c.Generation.MaxParticles = int(v) },
	"radius_step":     func(c *config.Config, v float64) { c.Mutation.RadiusStep = v },
	"attraction_step": func(c *config.Config, v float64) { c.Mutation.AttractionStep = v },
}

// Params lists the names accepted by NewGrid.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Grid struct {
	paramNames []string
	ranges     [][]float64
}

func NewGrid(params []string, ranges [][]float64) (*Grid, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("sweep: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("sweep: unknown parameter %q (available: %v)", name, Params())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("sweep: parameter %q has no values", name)
		}
	}
	return &Grid{paramNames: params, ranges: ranges}, nil
}

// ParseAxis parses "name=v1,v2,...".
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("sweep: axis %q is not name=v1,v2", s)
	}
	var vals []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("sweep: axis %s: %w", name, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

// Point is one grid cell's fitness summary.
type Point struct {
	Params      map[string]float64
	MeanFitness float64
	MaxFitness  float64
	MeanSize    float64
}

// Size is the number of grid points.
func (g *Grid) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Run evaluates samples random creatures at every grid point. Every point
// uses the same seed so differences come from the parameters alone.
func (g *Grid) Run(ctx context.Context, base *config.Config, seed uint64, samples, workers int) ([]Point, error) {
	points := make([]Point, 0, g.Size())
	err := g.runRecursive(ctx, 0, map[string]float64{}, base, seed, samples, workers, &points)
	return points, err
}

func (g *Grid) runRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	seed uint64,
	samples, workers int,
	points *[]Point,
) error {
	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			setters[name](&cfg, v)
		}
		batch, err := creature.SpawnRandom(ctx, &cfg, seed, samples, workers)
		if err != nil {
			return err
		}
		*points = append(*points, summarize(current, batch))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.runRecursive(ctx, depth+1, next, base, seed, samples, workers, points); err != nil {
			return err
		}
	}
	return nil
}

func summarize(params map[string]float64, batch []*creature.Creature) Point {
	p := Point{Params: params}
	if len(batch) == 0 {
		return p
	}
	for _, c := range batch {
		p.MeanFitness += c.Fitness()
		p.MeanSize += float64(c.Len())
		p.MaxFitness = max(p.MaxFitness, c.Fitness())
	}
	p.MeanFitness /= float64(len(batch))
	p.MeanSize /= float64(len(batch))
	return p
}

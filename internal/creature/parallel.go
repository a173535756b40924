package creature

import (
	"context"
	"math/rand/v2"

	"github.com/san-kum/creatures/internal/config"
	"github.com/sourcegraph/conc/pool"
)

// BuildFunc produces the idx-th creature of a batch from a private breeder.
type BuildFunc func(b *Breeder, idx int) *Creature

// Spawn builds count creatures concurrently on at most workers goroutines.
// Creature idx gets its own breeder seeded with seed+idx, so the batch is
// reproducible regardless of scheduling. Cancelling ctx stops creatures that
// have not started yet.
func Spawn(ctx context.Context, cfg *config.Config, seed uint64, count, workers int, build BuildFunc) ([]*Creature, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]*Creature, count)

	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers).WithCancelOnError().WithFirstError()
	for i := 0; i < count; i++ {
		idx := i
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := seed + uint64(idx)
			out[idx] = build(NewBreeder(cfg, rand.New(rand.NewPCG(s, s))), idx)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SpawnRandom is Spawn with Breeder.Random at the configured domain.
func SpawnRandom(ctx context.Context, cfg *config.Config, seed uint64, count, workers int) ([]*Creature, error) {
	return Spawn(ctx, cfg, seed, count, workers, func(b *Breeder, _ int) *Creature {
		return b.Random(cfg.Generation.Domain)
	})
}

// SpawnMutants derives count independent mutants of parent in parallel.
func SpawnMutants(ctx context.Context, cfg *config.Config, parent *Creature, seed uint64, count, workers int) ([]*Creature, error) {
	return Spawn(ctx, cfg, seed, count, workers, func(b *Breeder, _ int) *Creature {
		return b.Mutate(parent)
	})
}

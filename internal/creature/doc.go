// Package creature evaluates particle configurations.
//
// A [Creature] owns a baseline particle set and a working trial copy. On
// construction it runs [Steps] integration steps over the trial copy, records
// the net displacement of the whole configuration as its fitness, and resets
// the trial copy back to the baseline:
//
//	b := creature.NewBreeder(cfg, rand.New(rand.NewPCG(seed, seed)))
//	parent := b.Random(cfg.Generation.Domain)
//	child := b.Mutate(parent)
//	fmt.Println(parent.Fitness(), child.Fitness())
//
// # Display
//
// A freshly built creature displays its baseline, not the settled state its
// fitness was measured on. Use [Creature.Simulate] or [Creature.Replay] to
// advance the trial copy for display; neither touches the fitness.
//
// # Thread Safety
//
// A Creature is NOT safe for concurrent mutation of its trial state, and a
// [Breeder] shares one rand.Rand. Use [Spawn] to build creatures in parallel.
package creature

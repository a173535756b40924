package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/export"
	"github.com/san-kum/creatures/internal/metrics"
	"github.com/san-kum/creatures/internal/storage"
	"github.com/san-kum/creatures/internal/sweep"
	"github.com/san-kum/creatures/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	domain     float64
	save       bool
	count      int
	workers    int
	children   int
	steps      int
	frameRate  int
	size       float64
	deleted    bool
	settled    bool
	trail      bool
	outFile    string
	axes       []string
	samples    int
)

// newRootCmd registers every command and binds its flags to the package
// variables. Commands that share a variable share its default.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "creatures",
		Short:         "evolve particle creatures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".creatures", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "random seed")

	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "build and evaluate one random creature",
		Args:  cobra.NoArgs,
		RunE:  runRandom,
	}
	randomCmd.Flags().Float64Var(&domain, "domain", 0, "creature domain (0 uses config)")
	randomCmd.Flags().BoolVar(&save, "save", false, "store the creature")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "build and evaluate random creatures in parallel",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&count, "count", 16, "number of creatures")
	batchCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")
	batchCmd.Flags().BoolVar(&save, "save", false, "store every creature")

	mutateCmd := &cobra.Command{
		Use:   "mutate [run_id]",
		Short: "derive mutants of a stored creature",
		Args:  cobra.ExactArgs(1),
		RunE:  runMutate,
	}
	mutateCmd.Flags().IntVar(&children, "children", 8, "number of mutants")
	mutateCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")
	mutateCmd.Flags().BoolVar(&save, "save", false, "store every mutant")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored creatures",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored creature and plot its settling run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a stored creature in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&steps, "steps", creature.Steps, "steps to replay")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored creature's layout to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&size, "size", 400, "image size in pixels")
	exportSVGCmd.Flags().BoolVar(&deleted, "deleted", false, "draw with deleted styling")
	exportSVGCmd.Flags().BoolVar(&settled, "settled", false, "draw the settled state instead of the baseline")
	exportSVGCmd.Flags().BoolVar(&trail, "trail", false, "draw particle trajectories instead of the layout")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure mean fitness of random creatures across a parameter grid",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&axes, "param", nil, "grid axis as name=v1,v2 (repeatable)")
	sweepCmd.Flags().IntVar(&samples, "samples", 8, "random creatures per grid point")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored creature to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the active configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(randomCmd, batchCmd, mutateCmd, sweepCmd, listCmd, showCmd, liveCmd, exportSVGCmd, exportJSONCmd, presetsCmd, configCmd)
	return rootCmd
}

// main runs the root command, exiting with status 1 on error. Ctrl-C cancels
// in-flight batches.
func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}

// loadConfig builds the active configuration: defaults, then the preset,
// then the config file overlaid on both.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("init data dir: %w", err)
	}
	return st, nil
}

// store replays c for its metrics, resets it and saves it.
func store(st *storage.Store, cfg *config.Config, c *creature.Creature, meta storage.RunMetadata) (string, error) {
	result := c.Replay(creature.Steps, metrics.Default(cfg))
	c.Reset()
	return st.Save(meta, cfg, c, result)
}

func runRandom(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d := domain
	if d == 0 {
		d = cfg.Generation.Domain
	}

	b := creature.NewBreeder(cfg, rand.New(rand.NewPCG(seed, seed)))
	c := b.Random(d)

	fmt.Println(viz.Title.Render("random creature"))
	fmt.Println(viz.Metric("seed", fmt.Sprintf("%d", seed)))
	fmt.Println(viz.Metric("particles", fmt.Sprintf("%d", c.Len())))
	fmt.Println(viz.Metric("fitness", fmt.Sprintf("%.4f", c.Fitness())))

	if !save {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := store(st, cfg, c, storage.RunMetadata{Seed: seed, Preset: preset})
	if err != nil {
		return err
	}
	fmt.Println(viz.Metric("saved", runID))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	batch, err := creature.SpawnRandom(cmd.Context(), cfg, seed, count, workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var st *storage.Store
	if save {
		if st, err = openStore(); err != nil {
			return err
		}
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%d random creatures", len(batch))))
	printCreatures(batch, func(i int) (string, error) {
		if st == nil {
			return "", nil
		}
		return store(st, cfg, batch[i], storage.RunMetadata{Seed: seed + uint64(i), Preset: preset})
	})
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("evaluated in %v on %d workers", elapsed.Round(time.Millisecond), workers)))
	return nil
}

func runMutate(cmd *cobra.Command, args []string) error {
	parentID := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	parent, meta, err := st.LoadCreature(parentID, cfg)
	if err != nil {
		return err
	}

	kids, err := creature.SpawnMutants(cmd.Context(), cfg, parent, seed, children, workers)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("mutants of " + parentID))
	fmt.Println(viz.Metric("parent fitness", fmt.Sprintf("%.4f (%d particles)", parent.Fitness(), parent.Len())))
	if note := fitnessDrift(meta, parent); note != "" {
		fmt.Println(viz.Subtle.Render(note))
	}
	if stored, err := st.LoadConfig(parentID); err == nil && *stored != *cfg {
		fmt.Println(viz.Subtle.Render("parent was evaluated under its stored config; mutants use the active one"))
	}
	printCreatures(kids, func(i int) (string, error) {
		if !save {
			return "", nil
		}
		return store(st, cfg, kids[i], storage.RunMetadata{Parent: parentID, Seed: seed + uint64(i), Preset: preset})
	})
	return nil
}

// fitnessDrift explains a reloaded creature whose fitness differs from the
// value recorded when it was saved.
func fitnessDrift(meta *storage.RunMetadata, c *creature.Creature) string {
	if meta.Fitness == c.Fitness() {
		return ""
	}
	return fmt.Sprintf("fitness %.4f differs from the stored %.4f; the run was saved without its config and the active one differs",
		c.Fitness(), meta.Fitness)
}

// printCreatures prints a batch in build order; saveFn may store each one
// and return its run id.
func printCreatures(cs []*creature.Creature, saveFn func(i int) (string, error)) {
	best := 0.0
	for _, c := range cs {
		best = max(best, c.Fitness())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPARTICLES\tFITNESS\t\tRUN")
	for i, c := range cs {
		runID, err := saveFn(i)
		if err != nil {
			runID = viz.ErrorText.Render(err.Error())
		}
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%s\t%s\n", i, c.Len(), c.Fitness(), viz.FitnessBar(c.Fitness(), best, 20), runID)
	}
	w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", sweep.Params())
	}

	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, axis := range axes {
		name, vals, err := sweep.ParseAxis(axis)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	grid, err := sweep.NewGrid(names, ranges)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("sweep: %d points x %d creatures", grid.Size(), samples)))
	points, err := grid.Run(cmd.Context(), cfg, seed, samples, workers)
	if err != nil {
		return err
	}

	best := 0.0
	for _, p := range points {
		best = max(best, p.MeanFitness)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\tSIZE\tMEAN\tMAX\t")
	for _, p := range points {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", p.Params[name])
		}
		fmt.Fprintf(w, "%.1f\t%.4f\t%.4f\t%s\n", p.MeanSize, p.MeanFitness, p.MaxFitness, viz.FitnessBar(p.MeanFitness, best, 20))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tDOMAIN\tFITNESS\tPARENT")

	for _, run := range runs {
		parent := run.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.4f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Domain,
			run.Fitness,
			parent,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("run " + meta.ID))
	fmt.Println(viz.Metric("created", meta.Timestamp.Format("2006-01-02 15:04:05")))
	if meta.Parent != "" {
		fmt.Println(viz.Metric("parent", meta.Parent))
	}
	if meta.Preset != "" {
		fmt.Println(viz.Metric("preset", meta.Preset))
	}
	fmt.Println(viz.Metric("seed", fmt.Sprintf("%d", meta.Seed)))
	fmt.Println(viz.Metric("particles", fmt.Sprintf("%d", meta.Particles)))
	fmt.Println(viz.Metric("domain", fmt.Sprintf("%.2f", meta.Domain)))
	fmt.Println(viz.Metric("fitness", fmt.Sprintf("%.4f", meta.Fitness)))

	disp, _, err := st.LoadTrajectory(runID)
	if errors.Is(err, storage.ErrRunNotFound) {
		// saved without a trajectory; replay it under its stored config when
		// there is one
		cfg, cerr := loadConfig()
		if cerr != nil {
			return cerr
		}
		if stored, lerr := st.LoadConfig(runID); lerr == nil {
			cfg = stored
		}
		c, _, cerr := st.LoadCreature(runID, cfg)
		if cerr != nil {
			return cerr
		}
		if note := fitnessDrift(meta, c); note != "" {
			fmt.Println(viz.Subtle.Render(note))
		}
		result := c.Replay(creature.Steps, metrics.Default(cfg))
		disp, meta.Metrics = result.Displacement, result.Metrics
	} else if err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Println(viz.Separator(40))
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(viz.Metric(name, fmt.Sprintf("%.4f", meta.Metrics[name])))
		}
	}

	if len(disp) > 0 {
		fmt.Println(viz.Separator(40))
		graph := asciigraph.Plot(disp,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("net displacement vs step"),
		)
		fmt.Println(graph)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, meta, err := storage.New(dataDir).LoadCreature(args[0], cfg)
	if err != nil {
		return err
	}
	if note := fitnessDrift(meta, c); note != "" {
		fmt.Fprintln(os.Stderr, viz.Subtle.Render(note))
	}
	return viz.Run(c, args[0], steps, frameRate)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	c, meta, err := st.LoadCreature(args[0], cfg)
	if err != nil {
		return err
	}
	if note := fitnessDrift(meta, c); note != "" {
		fmt.Fprintln(os.Stderr, viz.Subtle.Render(note))
	}

	px := int(size)
	var svg string
	if trail {
		_, frames, err := st.LoadTrajectory(args[0])
		if err != nil {
			frames = c.Replay(creature.Steps, nil).Positions
		}
		svg = export.TrajectoryToSVG(frames, px, px, "#00ff88")
	} else {
		if settled {
			c.Simulate(creature.Steps)
		}
		svg = export.CreatureToSVG(c.Display(size/2, size/2, size, deleted), px, px)
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

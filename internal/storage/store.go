package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

var (
	// ErrRunNotFound indicates no stored run has the requested id.
	ErrRunNotFound = errors.New("storage: run not found")

	// ErrMalformedGenome indicates a stored particle set whose force matrix
	// is not square.
	ErrMalformedGenome = errors.New("storage: malformed genome")
)

const (
	metadataFile   = "metadata.json"
	genomeFile     = "genome.json"
	trajectoryFile = "trajectory.csv"
	configFile     = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Parent    string             `json:"parent,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Preset    string             `json:"preset,omitempty"`
	Domain    float64            `json:"domain"`
	Particles int                `json:"particles"`
	Fitness   float64            `json:"fitness"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunID returns a sortable, collision-resistant run id.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.Must(uuid.NewV4()).String()[:8])
}

// Save writes the creature's genome and the run metadata. When cfg is
// non-nil it is stored as the configuration c was evaluated under, and when
// result is non-nil the replayed trajectory is written too. meta.ID is
// generated when empty.
func (s *Store) Save(meta RunMetadata, cfg *config.Config, c *creature.Creature, result *creature.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Timestamp)
	}
	meta.Domain = c.Domain()
	meta.Particles = c.Len()
	meta.Fitness = c.Fitness()
	if result != nil {
		meta.Metrics = result.Metrics
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, genomeFile), c.Particles()); err != nil {
		return "", err
	}
	if cfg != nil {
		if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
			return "", err
		}
	}
	if result == nil {
		return meta.ID, nil
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, result *creature.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(result.Positions) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"step", "displacement"}
	for i := range result.Positions[0] {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for step, frame := range result.Positions {
		row := []string{strconv.Itoa(step), "0"}
		if step < len(result.Displacement) {
			row[1] = strconv.FormatFloat(result.Displacement[step], 'f', 6, 64)
		}
		for _, p := range frame {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first. Unreadable runs are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadGenome returns the stored baseline particles, rejecting sets whose
// force matrix is not square.
func (s *Store) LoadGenome(runID string) ([]particle.Particle, error) {
	data, err := s.read(runID, genomeFile)
	if err != nil {
		return nil, err
	}

	var ps []particle.Particle
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("%w: run %s: %v", ErrMalformedGenome, runID, err)
	}
	for i, p := range ps {
		if len(p.Forces) != len(ps) {
			return nil, fmt.Errorf("%w: run %s: particle %d has %d forces, want %d",
				ErrMalformedGenome, runID, i, len(p.Forces), len(ps))
		}
		if !geom.IsFinite(p.Pos) || !geom.IsFinite(p.Vel) {
			return nil, fmt.Errorf("%w: run %s: particle %d has non-finite state", ErrMalformedGenome, runID, i)
		}
	}
	return ps, nil
}

// LoadConfig returns the configuration a run was evaluated under. Runs saved
// without one report ErrRunNotFound.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, configFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no config", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return config.Load(path)
}

// LoadCreature rebuilds and re-evaluates a stored creature under the
// configuration it was saved with, or under fallback when the run has none.
func (s *Store) LoadCreature(runID string, fallback *config.Config) (*creature.Creature, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	ps, err := s.LoadGenome(runID)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := s.LoadConfig(runID)
	if errors.Is(err, ErrRunNotFound) {
		cfg = fallback
	} else if err != nil {
		return nil, nil, err
	}
	return creature.New(ps, meta.Domain, cfg), meta, nil
}

// LoadTrajectory returns the per-step displacement and particle positions.
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]geom.Vec, error) {
	path := filepath.Join(s.baseDir, runID, trajectoryFile)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s has no trajectory", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]geom.Vec{}, nil
	}

	disp := make([]float64, 0, len(records)-1)
	frames := make([][]geom.Vec, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		d, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		frame := make([]geom.Vec, 0, (len(record)-2)/2)
		for j := 2; j+1 < len(record); j += 2 {
			x, errX := strconv.ParseFloat(record[j], 64)
			y, errY := strconv.ParseFloat(record[j+1], 64)
			if errX != nil || errY != nil {
				continue
			}
			frame = append(frame, geom.Vec{X: x, Y: y})
		}
		disp = append(disp, d)
		frames = append(frames, frame)
	}
	return disp, frames, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return data, nil
}

// ExportData is the single-document JSON form of a stored run.
type ExportData struct {
	Meta       RunMetadata         `json:"meta"`
	Genome     []particle.Particle `json:"genome"`
	Trajectory []float64           `json:"displacement,omitempty"`
}

// ExportJSON writes the run's metadata, genome and displacement curve to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	genome, err := s.LoadGenome(runID)
	if err != nil {
		return err
	}
	data := ExportData{Meta: *meta, Genome: genome}
	if disp, _, err := s.LoadTrajectory(runID); err == nil {
		data.Trajectory = disp
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/boxlight/internal/config"
	"github.com/san-kum/boxlight/internal/sim"
)

const DefaultDir = ".boxlight"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Framerate float64            `json:"framerate"`
	Length    float64            `json:"length"`
	Frames    int                `json:"frames"`
	Objects   int                `json:"objects"`
	Blended   bool               `json:"blended"`
	Output    string             `json:"output,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the scene fields of a run record from cfg.
func NewRunMetadata(source string, cfg *config.Config, frames int) RunMetadata {
	return RunMetadata{
		Source:    source,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Framerate: cfg.Framerate,
		Length:    cfg.AnimationLength,
		Frames:    frames,
		Objects:   len(cfg.Objects),
	}
}

// Save writes meta and the trace under a new run directory and returns the
// run id. ID and Timestamp are assigned here.
func (s *Store) Save(meta RunMetadata, trace *sim.Trace) (string, error) {
	now := time.Now()
	runID, err := s.newRunDir(runName(meta.Source), now)
	if err != nil {
		return "", err
	}
	runDir := filepath.Join(s.baseDir, runID)

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if trace != nil {
		if err := w.Write(trace.Header()); err != nil {
			return "", err
		}
		for _, row := range trace.Rows() {
			rec := make([]string, len(row))
			for i, v := range row {
				rec[i] = strconv.FormatFloat(v, 'f', 6, 64)
			}
			if err := w.Write(rec); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(name string, now time.Time) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			return runID, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// runName turns a config path or preset ref into a directory-safe name.
func runName(source string) string {
	name := strings.TrimPrefix(source, config.PresetPrefix)
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || strings.Trim(name, "_") == "" {
		return "run"
	}
	return name
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrace reads a run's trace back as its header and numeric rows.
// Cells that do not parse are skipped.
func (s *Store) LoadTrace(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return []string{}, [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}

// Column extracts the named column from rows read by LoadTrace.
func Column(header []string, rows [][]float64, name string) ([]float64, error) {
	idx := -1
	for i, h := range header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("no column %q", name)
	}
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, nil
}

package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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

// RunInfo describes how a run was configured.
type RunInfo struct {
	Plant      string             `json:"plant"`
	Law        string             `json:"law"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Params     map[string]float64 `json:"params,omitempty"`
}

type RunMetadata struct {
	RunInfo
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	StepsTaken int                `json:"steps_taken"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run id. Both files are replaced atomically; when either write
// fails the run directory is removed again.
func (s *Store) Save(info RunInfo, result *harness.Result) (runID string, err error) {
	now := time.Now()
	runID = fmt.Sprintf("%s_%s_%d", info.Plant, info.Law, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(runDir)
			runID = ""
		}
	}()

	meta := RunMetadata{
		RunInfo:    info,
		ID:         runID,
		Timestamp:  now,
		StepsTaken: result.StepsTaken,
		Metrics:    result.Metrics,
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	var metaBuf bytes.Buffer
	enc := json.NewEncoder(&metaBuf)
	enc.SetIndent("", "  ")
	if err = enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encoding metadata of %s: %w", runID, err)
	}
	if err = atomic.WriteFile(filepath.Join(runDir, metadataFile), &metaBuf); err != nil {
		return "", err
	}

	var csvBuf bytes.Buffer
	if err = WriteCSV(&csvBuf, result); err != nil {
		return "", err
	}
	if err = atomic.WriteFile(filepath.Join(runDir, statesFile), &csvBuf); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every stored run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// StatesPath is the location of a run's states.csv.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

type table struct {
	times    []float64
	states   [][]float64
	controls [][]float64
}

func (s *Store) readTable(runID string) (*table, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tab := &table{
		times:    []float64{},
		states:   [][]float64{},
		controls: [][]float64{},
	}
	if len(records) < 2 {
		return tab, nil
	}

	stateCols, controlCols := 0, 0
	for _, name := range records[0] {
		switch {
		case strings.HasPrefix(name, "x"):
			stateCols++
		case strings.HasPrefix(name, "u"):
			controlCols++
		}
	}

	parse := func(row int, fields []string) ([]float64, error) {
		out := make([]float64, 0, len(fields))
		for _, f := range fields {
			val, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, row, err)
			}
			out = append(out, val)
		}
		return out, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 1+stateCols+controlCols {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		state, err := parse(i, record[1:1+stateCols])
		if err != nil {
			return nil, err
		}
		control, err := parse(i, record[1+stateCols:1+stateCols+controlCols])
		if err != nil {
			return nil, err
		}

		tab.times = append(tab.times, t)
		tab.states = append(tab.states, state)
		tab.controls = append(tab.controls, control)
	}

	return tab, nil
}

// LoadStates reads back the plant states and their times. Control columns
// are skipped.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	tab, err := s.readTable(runID)
	if err != nil {
		return nil, nil, err
	}
	return tab.states, tab.times, nil
}

// LoadResult rebuilds a run's result from disk. The padding row after the
// final state carries no command and is dropped from Controls.
func (s *Store) LoadResult(runID string) (*RunMetadata, *harness.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tab, err := s.readTable(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &harness.Result{
		States:     make([]dynamo.State, len(tab.states)),
		Controls:   make([]dynamo.Control, 0, len(tab.controls)),
		Times:      tab.times,
		Ticks:      make([]int, 0, meta.StepsTaken),
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
	}
	for i, x := range tab.states {
		result.States[i] = x
	}
	for i := 0; i < meta.StepsTaken && i < len(tab.controls); i++ {
		result.Controls = append(result.Controls, tab.controls[i])
		result.Ticks = append(result.Ticks, i)
	}
	return meta, result, nil
}

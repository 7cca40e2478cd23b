package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
)

func sampleResult() *harness.Result {
	return &harness.Result{
		States: []dynamo.State{
			{2.0, 0.0},
			{1.9, -0.1},
		},
		Controls: []dynamo.Control{
			{-14.01},
		},
		Times:      []float64{0.0, 0.01},
		Ticks:      []int{0},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"control_effort": 14.01,
		},
	}
}

func sampleInfo() RunInfo {
	return RunInfo{
		Plant:      "axis",
		Law:        "pid",
		Integrator: "rk4",
		Dt:         0.01,
		Duration:   0.01,
		Params:     map[string]float64{"Kp": 7},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "axis_pid_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Plant != "axis" || meta.Law != "pid" {
		t.Errorf("expected axis/pid, got %s/%s", meta.Plant, meta.Law)
	}

	if meta.Params["Kp"] != 7 {
		t.Errorf("expected Kp 7, got %f", meta.Params["Kp"])
	}

	if meta.Metrics["control_effort"] != 14.01 {
		t.Errorf("expected control_effort 14.01, got %f", meta.Metrics["control_effort"])
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}

	if len(states[0]) != 2 {
		t.Errorf("expected control columns to be skipped, got %v", states[0])
	}

	if states[1][0] != 1.9 {
		t.Errorf("expected x0 1.9, got %f", states[1][0])
	}

	if len(times) != 2 {
		t.Errorf("expected 2 times, got %d", len(times))
	}
}

func TestStoreSaveRecordsErrors(t *testing.T) {
	st := New(t.TempDir())
	result := sampleResult()
	result.Errors = []error{errors.New("state went non-finite")}

	runID, err := st.Save(sampleInfo(), result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(meta.Errors) != 1 || meta.Errors[0] != "state went non-finite" {
		t.Errorf("unexpected errors %v", meta.Errors)
	}
}

func TestStoreSaveFailureLeavesNoRunDir(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := sampleResult()
	result.Metrics["abs_error"] = math.NaN()

	runID, err := st.Save(sampleInfo(), result)
	if err == nil {
		t.Fatal("expected an error for a NaN metric")
	}
	if runID != "" {
		t.Errorf("expected empty run id, got %q", runID)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories, found %d", len(entries))
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// stray files are ignored
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs in save order, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, metadataFile)); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	if _, err := os.Stat(filepath.Join(runDir, statesFile)); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "time,x0,x1,u0\n" +
		"0.000000,2.000000,0.000000,-14.010000\n" +
		"0.010000,1.900000,-0.100000,0\n"
	if buf.String() != want {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, sampleInfo(), sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if data.Law != "pid" || data.Steps != 1 || len(data.States) != 2 {
		t.Errorf("unexpected export %+v", data)
	}
}

func TestStoreLoadResult(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.Save(sampleInfo(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, result, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}

	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}

	if len(result.States) != 2 || len(result.Controls) != 1 {
		t.Fatalf("expected 2 states and 1 control, got %d and %d", len(result.States), len(result.Controls))
	}

	if result.Controls[0][0] != -14.01 {
		t.Errorf("expected u0 -14.01, got %f", result.Controls[0][0])
	}

	if result.Ticks[0] != 0 {
		t.Errorf("expected tick 0, got %d", result.Ticks[0])
	}
}

func TestStoreLoadStates_Missing(t *testing.T) {
	st := New(t.TempDir())

	if _, _, err := st.LoadStates("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/natefinch/atomic"

	"github.com/san-kum/autopilot/internal/harness"
)

type ExportData struct {
	RunInfo
	Steps    int                `json:"steps"`
	Ticks    []int              `json:"ticks"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Controls [][]float64        `json:"controls"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, result *harness.Result) ExportData {
	data := ExportData{
		RunInfo:  info,
		Steps:    result.StepsTaken,
		Ticks:    result.Ticks,
		Times:    result.Times,
		States:   make([][]float64, len(result.States)),
		Controls: make([][]float64, len(result.Controls)),
		Metrics:  result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}
	return data
}

// WriteJSON encodes the full trajectory of a run to w.
func WriteJSON(w io.Writer, info RunInfo, result *harness.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}

func ExportJSON(path string, info RunInfo, result *harness.Result) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, info, result); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

// WriteCSV writes one row per recorded state: time, x0..xn, u0..um. The
// final state has no command and repeats zeros in the control columns.
func WriteCSV(w io.Writer, result *harness.Result) error {
	cw := csv.NewWriter(w)

	if len(result.States) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}

	numControls := 0
	if len(result.Controls) > 0 {
		numControls = len(result.Controls[0])
		for i := 0; i < numControls; i++ {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}

	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}

		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}

		if i < len(result.Controls) {
			for _, val := range result.Controls[i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		} else {
			for j := 0; j < numControls; j++ {
				row = append(row, "0")
			}
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, result *harness.Result) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

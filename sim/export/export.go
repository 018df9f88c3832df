// Package export writes and reads flat snapshots of a finished run: the
// parameters, final metrics, occupancy time series and individual waits.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim"
)

// Parameters echoes the construction parameters of the run.
type Parameters struct {
	Kind    sim.Kind `json:"kind" yaml:"kind"`
	Lambda  float64  `json:"lambda" yaml:"lambda"`
	Mu      float64  `json:"mu" yaml:"mu"`
	C       int      `json:"c" yaml:"c"`
	K       int      `json:"k" yaml:"k"`
	Horizon float64  `json:"horizon" yaml:"horizon"`
	Warmup  float64  `json:"warmup" yaml:"warmup"`
	Seed    int64    `json:"seed" yaml:"seed"`
}

// WaitTimes holds the individual samples behind wq_avg and w_avg.
type WaitTimes struct {
	Queue  []float64 `json:"queue" yaml:"queue"`
	System []float64 `json:"system" yaml:"system"`
}

// Record is the persisted form of one run.
type Record struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at"`
	Parameters Parameters     `json:"parameters" yaml:"parameters"`
	Metrics    sim.Snapshot   `json:"metrics" yaml:"metrics"`
	TimeSeries sim.TimeSeries `json:"time_series" yaml:"time_series"`
	WaitTimes  WaitTimes      `json:"wait_times" yaml:"wait_times"`
}

// NewRecord captures the current state of s. Slices are copied, so s may keep
// stepping afterwards.
func NewRecord(s *sim.Simulator) *Record {
	k, c := s.Config.Shape()
	series := s.Series
	return &Record{
		RunID:     xid.New().String(),
		CreatedAt: time.Now().UTC(),
		Parameters: Parameters{
			Kind:    s.Config.Kind,
			Lambda:  s.Config.ArrivalRate,
			Mu:      s.Config.ServiceRate,
			C:       c,
			K:       k,
			Horizon: s.Config.Horizon,
			Warmup:  s.Config.Warmup,
			Seed:    s.Config.Seed,
		},
		Metrics: s.State(),
		TimeSeries: sim.TimeSeries{
			T:        append([]float64{}, series.T...),
			InSystem: append([]int{}, series.InSystem...),
			InQueue:  append([]int{}, series.InQueue...),
		},
		WaitTimes: WaitTimes{
			Queue:  append([]float64{}, s.Metrics.QueueWaits...),
			System: append([]float64{}, s.Metrics.SystemWaits...),
		},
	}
}

// Format selects the textual encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes rec in the given format.
func Marshal(rec *Record, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(rec)
	case FormatJSON:
		return json.MarshalIndent(rec, "", "  ")
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Unmarshal decodes data in the given format. YAML decoding rejects unknown fields.
func Unmarshal(data []byte, format Format) (*Record, error) {
	var rec Record
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode yaml record: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode json record: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	return &rec, nil
}

// Write persists rec at path, choosing the format from the extension.
func Write(path string, rec *Record) error {
	data, err := Marshal(rec, FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Debugf("Exported run %s to '%s'", rec.RunID, path)
	return nil
}

// Read loads a record written by Write.
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data, FormatForPath(path))
}

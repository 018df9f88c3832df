package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queue-sim/queue-sim/sim"
)

// Scenario is one entry of a scenario file.
type Scenario struct {
	Name       string  `yaml:"name"`
	Model      string  `yaml:"model"`
	Lambda     float64 `yaml:"lambda"`
	Mu         float64 `yaml:"mu"`
	Servers    int     `yaml:"servers"`
	Partitions int     `yaml:"partitions"`
}

// ScenarioFile is the top-level structure of a scenario YAML file.
// Fields shared by every scenario live at the top level.
type ScenarioFile struct {
	Horizon   float64    `yaml:"horizon"`
	Warmup    float64    `yaml:"warmup"`
	Seed      int64      `yaml:"seed"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// DefaultScenarios returns the four reference scenarios used when no file is given.
func DefaultScenarios() ScenarioFile {
	return ScenarioFile{
		Horizon: 20000,
		Warmup:  2000,
		Seed:    42,
		Scenarios: []Scenario{
			{Name: "M/M/1", Model: "mm1", Lambda: 0.6, Mu: 2.0},
			{Name: "M/M/c", Model: "mmc", Lambda: 0.7, Mu: 2.5, Servers: 3},
			{Name: "M/M/k/1", Model: "mmk1", Lambda: 0.8, Mu: 2.5, Partitions: 3},
			{Name: "M/M/k/c", Model: "mmkc", Lambda: 0.9, Mu: 2.5, Partitions: 2, Servers: 2},
		},
	}
}

// LoadScenarios parses a scenario file with strict field checking, so
// misspelled keys are rejected instead of silently defaulting.
func LoadScenarios(path string) (ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioFile{}, fmt.Errorf("read scenario file: %w", err)
	}
	var f ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return ScenarioFile{}, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if len(f.Scenarios) == 0 {
		return ScenarioFile{}, fmt.Errorf("scenario file %s lists no scenarios", path)
	}
	return f, nil
}

// Config builds the simulator configuration for scenario i.
func (f ScenarioFile) Config(i int) sim.Config {
	sc := f.Scenarios[i]
	return sim.Config{
		Kind:        sim.Kind(sc.Model),
		ArrivalRate: sc.Lambda,
		ServiceRate: sc.Mu,
		Servers:     sc.Servers,
		Partitions:  sc.Partitions,
		Horizon:     f.Horizon,
		Warmup:      f.Warmup,
		Seed:        f.Seed,
	}
}

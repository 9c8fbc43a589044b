package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// Config holds the settings of a run. Environment variables set the
// defaults and flags override them.
type Config struct {
	Params      string  `env:"SDSIM_PARAMS"`
	Scenario    string  `env:"SDSIM_SCENARIO"`
	Until       float64 `env:"SDSIM_UNTIL" envDefault:"100"`
	StepSize    float64 `env:"SDSIM_DT" envDefault:"1"`
	Seed        uint64  `env:"SDSIM_SEED" envDefault:"0"`
	Record      bool    `env:"SDSIM_RECORD"`
	DB          string  `env:"SDSIM_DB"`
	CSV         string  `env:"SDSIM_CSV"`
	Monitor     bool    `env:"SDSIM_MONITOR"`
	Port        int     `env:"SDSIM_MONITOR_PORT"`
	OpenBrowser bool    `env:"SDSIM_OPEN_BROWSER"`
	LogEvents   bool    `env:"SDSIM_LOG_EVENTS"`
	ParallelIDs bool    `env:"SDSIM_PARALLEL_IDS"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c *Config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Params, "params", c.Params,
		"YAML file with model parameters")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario,
		"YAML file with scenario events")
	fs.Float64Var(&c.Until, "until", c.Until, "time to simulate until")
	fs.Float64Var(&c.StepSize, "dt", c.StepSize, "step size")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed of the random source")
	fs.BoolVar(&c.Record, "record", c.Record,
		"record the run into a SQLite database")
	fs.StringVar(&c.DB, "db", c.DB,
		"database name without extension, generated when empty")
	fs.StringVar(&c.CSV, "csv", c.CSV,
		"write the history as CSV into this file, - for stdout")
	fs.BoolVar(&c.Monitor, "monitor", c.Monitor, "serve the monitor")
	fs.IntVar(&c.Port, "port", c.Port, "port of the monitor, random when 0")
	fs.BoolVar(&c.OpenBrowser, "open-browser", c.OpenBrowser,
		"open the monitor in a browser")
	fs.BoolVar(&c.LogEvents, "log-events", c.LogEvents,
		"log every fired event to stderr")
	fs.BoolVar(&c.ParallelIDs, "parallel-ids", c.ParallelIDs,
		"use globally unique event IDs")
}

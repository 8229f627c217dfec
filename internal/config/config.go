// Package config loads the simulator's tunables, mirroring vrunq's internal/sched/config.go
// shape: defaults, then override from a YAML file if present, then sanity clamps.
package config

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yaml. Fields double as the §6 "Defaults" table.
type Config struct {
	Quantum           int64   `yaml:"quantum"`             // Q, default 100
	FeedbackFactor    int64   `yaml:"feedback_factor"`     // FF, default 50
	AgingIncrement    int     `yaml:"aging_increment"`     // AG, default 1
	AgingMax          int     `yaml:"aging_max"`           // AG_MAX cap, default 20 (§9 redesign)
	MLFQLevels        int     `yaml:"mlfq_levels"`         // L, default 3
	BoostInterval     int64   `yaml:"boost_interval"`      // B, default 500
	CFSBaseWeight     float64 `yaml:"cfs_base_weight"`     // W0, default 1024
	DetectorPeriod    int64   `yaml:"detector_period"`     // default 2
	PreemptionGraceMS int64   `yaml:"preemption_grace_ms"` // default 300
	StackSizeKB       int     `yaml:"stack_size_kb"`       // default 64

	// Carried over from the teacher's own tick-visualization fields. No code sleeps on
	// them: TickMS and Alpha are not read by the simulator, and SliceTicks only sets
	// policy.DefaultWork's yield granularity in ULT mode.
	TickMS     int     `yaml:"tick_ms"`
	SliceTicks int     `yaml:"slice_ticks"`
	Alpha      float64 `yaml:"alpha"`
}

// Default returns the §6 default configuration.
func Default() Config {
	return Config{
		Quantum:           100,
		FeedbackFactor:    50,
		AgingIncrement:    1,
		AgingMax:          20,
		MLFQLevels:        3,
		BoostInterval:     500,
		CFSBaseWeight:     1024,
		DetectorPeriod:    2,
		PreemptionGraceMS: 300,
		StackSizeKB:       64,
		TickMS:            5,
		SliceTicks:        5,
		Alpha:             0.01,
	}
}

// Load reads YAML and overrides defaults; an empty path or unreadable/unparsable file
// just yields defaults, exactly like vrunq's Load.
func Load(path string) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, &cfg)
	clamp(&cfg)
	return cfg
}

func clamp(cfg *Config) {
	if cfg.Quantum <= 0 {
		cfg.Quantum = 100
	}
	if cfg.FeedbackFactor <= 0 {
		cfg.FeedbackFactor = 50
	}
	if cfg.AgingIncrement <= 0 {
		cfg.AgingIncrement = 1
	}
	if cfg.AgingMax <= 0 {
		cfg.AgingMax = 20
	}
	if cfg.MLFQLevels <= 0 {
		cfg.MLFQLevels = 3
	}
	if cfg.BoostInterval <= 0 {
		cfg.BoostInterval = 500
	}
	if cfg.CFSBaseWeight <= 0 {
		cfg.CFSBaseWeight = 1024
	}
	if cfg.DetectorPeriod <= 0 {
		cfg.DetectorPeriod = 2
	}
	if cfg.PreemptionGraceMS <= 0 {
		cfg.PreemptionGraceMS = 300
	}
	if cfg.StackSizeKB <= 0 {
		cfg.StackSizeKB = 64
	}
	if cfg.TickMS <= 0 {
		cfg.TickMS = 5
	}
	if cfg.SliceTicks <= 0 {
		cfg.SliceTicks = 5
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = 0.01
	}
}

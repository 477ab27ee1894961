// Package config implements the configuration surface: YAML-decodable
// with strict unknown-key rejection and range-checked validation.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridefleet-sim/ridefleet/simerr"
)

// Algorithm selects the assignment policy.
type Algorithm string

const (
	Fair    Algorithm = "fair"
	Optimum Algorithm = "optimum"
)

// Config holds every recognized simulation option. All fields are
// required unless noted; Load/Validate reject missing required fields
// and unknown keys with a ConfigError.
type Config struct {
	NumberOfAgents          int       `yaml:"numberOfAgents"`
	ResourceMaximumLifeTime int64     `yaml:"resourceMaximumLifeTime"`
	AssignmentPeriod        int64     `yaml:"assignmentPeriod"`
	AssignmentAlgorithm     Algorithm `yaml:"assignmentAlgorithm"`
	DatasetPath             string    `yaml:"datasetPath"`
	MapPath                 string    `yaml:"mapPath"`
	BoundingPolygonPath     string    `yaml:"boundingPolygonPath,omitempty"`
	AgentPlacementSeed      int64     `yaml:"agentPlacementSeed"`
	SpeedReductionFactor    float64   `yaml:"speedReductionFactor"`
	// FilterInfeasibleByLifetime enables the optional cost-matrix
	// optimization: pairs whose pickup_time would make the pickup happen
	// after expiration are marked infeasible up front. Defaults false,
	// matching the behavior of allowing such pairs through.
	FilterInfeasibleByLifetime bool `yaml:"filterInfeasibleByLifetime,omitempty"`
}

var validAlgorithms = map[Algorithm]bool{Fair: true, Optimum: true}

// Load reads and strictly parses a YAML configuration file, rejecting
// unknown keys, then validates required fields and ranges.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, simerr.Config("reading configuration", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, simerr.Config("parsing configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.NumberOfAgents <= 0 {
		return simerr.Config(fmt.Sprintf("numberOfAgents must be positive, got %d", c.NumberOfAgents), nil)
	}
	if c.ResourceMaximumLifeTime <= 0 {
		return simerr.Config(fmt.Sprintf("resourceMaximumLifeTime must be positive, got %d", c.ResourceMaximumLifeTime), nil)
	}
	if c.AssignmentPeriod <= 0 {
		return simerr.Config(fmt.Sprintf("assignmentPeriod must be positive, got %d", c.AssignmentPeriod), nil)
	}
	if !validAlgorithms[c.AssignmentAlgorithm] {
		return simerr.Config(fmt.Sprintf("unknown assignmentAlgorithm %q; valid options: fair, optimum", c.AssignmentAlgorithm), nil)
	}
	if c.DatasetPath == "" {
		return simerr.Config("datasetPath is required", nil)
	}
	if c.MapPath == "" {
		return simerr.Config("mapPath is required", nil)
	}
	if math.IsNaN(c.SpeedReductionFactor) || math.IsInf(c.SpeedReductionFactor, 0) {
		return simerr.Config(fmt.Sprintf("speedReductionFactor must be finite, got %v", c.SpeedReductionFactor), nil)
	}
	if c.SpeedReductionFactor <= 0 || c.SpeedReductionFactor > 1 {
		return simerr.Config(fmt.Sprintf("speedReductionFactor must be in (0, 1], got %v", c.SpeedReductionFactor), nil)
	}
	return nil
}

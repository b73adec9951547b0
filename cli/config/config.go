// Package config handles the bcoskema.yaml configuration file.
package config

import (
	"fmt"
	"strings"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/semantic"
)

// Config represents a bcoskema.yaml file. All values are optional and act as
// defaults for command flags; flags always override config values.
type Config struct {
	StrictFormats bool         `yaml:"strict_formats"`
	FailFast      bool         `yaml:"fail_fast"`
	Language      string       `yaml:"language"`
	LogLevel      string       `yaml:"log_level"`
	Workers       int          `yaml:"workers"`
	ETagAlgorithm string       `yaml:"etag_algorithm"`
	Decode        DecodeConfig `yaml:"decode"`
	Policy        PolicyConfig `yaml:"policy"`
}

// DecodeConfig holds raw JSON decoding limits.
type DecodeConfig struct {
	MaxDepth      int    `yaml:"max_depth"`
	MaxBytes      int64  `yaml:"max_bytes"`
	DuplicateKeys string `yaml:"duplicate_keys"`
}

// PolicyConfig selects domain constraint checks. Nil means the default.
type PolicyConfig struct {
	RequireContributors *bool `yaml:"require_contributors"`
	StepOrdering        bool  `yaml:"step_ordering"`
	StepReferences      bool  `yaml:"step_references"`
	TemporalOrdering    bool  `yaml:"temporal_ordering"`
	SpecVersion         bool  `yaml:"spec_version"`
	VerifyETag          bool  `yaml:"verify_etag"`
}

// DecodeOpt converts the decode section.
func (c *Config) DecodeOpt() (bcoskema.DecodeOpt, error) {
	sev, err := ParseSeverity(c.Decode.DuplicateKeys)
	if err != nil {
		return bcoskema.DecodeOpt{}, err
	}
	return bcoskema.DecodeOpt{DuplicateKeys: sev, MaxDepth: c.Decode.MaxDepth, MaxBytes: c.Decode.MaxBytes}, nil
}

// SemanticPolicy converts the policy section.
func (c *Config) SemanticPolicy() (semantic.Policy, error) {
	p := semantic.DefaultPolicy()
	if c.Policy.RequireContributors != nil {
		p.RequireContributors = *c.Policy.RequireContributors
	}
	p.StepOrdering = c.Policy.StepOrdering
	p.StepReferences = c.Policy.StepReferences
	p.TemporalOrdering = c.Policy.TemporalOrdering
	p.SpecVersion = c.Policy.SpecVersion
	p.VerifyETag = c.Policy.VerifyETag
	algo, err := codec.ParseAlgorithm(c.ETagAlgorithm)
	if err != nil {
		return p, err
	}
	p.ETagAlgorithm = algo
	return p, nil
}

// ParseSeverity maps error, warn and ignore; empty means error.
func ParseSeverity(s string) (bcoskema.Severity, error) {
	switch strings.ToLower(s) {
	case "", "error":
		return bcoskema.Error, nil
	case "warn", "warning":
		return bcoskema.Warn, nil
	case "ignore":
		return bcoskema.Ignore, nil
	}
	return bcoskema.Error, fmt.Errorf("invalid duplicate_keys %q (must be error, warn or ignore)", s)
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Analyze Analyze `toml:"analyze" yaml:"analyze"`
	Rules   Rules   `toml:"rules" yaml:"rules"`
}

func decodeTOML(path string, cfg *Config) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	merge(cfg, fc, meta.IsDefined("analyze", "max_problems"))
	return nil
}

func decodeYAML(path string, cfg *Config) error {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	var probe struct {
		Analyze map[string]any `yaml:"analyze"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	_, hasMax := probe.Analyze["max_problems"]
	merge(cfg, fc, hasMax)
	return nil
}

// merge lays the file over the defaults. max_problems = 0 is a valid setting
// (unlimited), so it only replaces the default when the file has it.
func merge(cfg *Config, fc fileConfig, hasMaxProblems bool) {
	maxProblems := cfg.Analyze.MaxProblems
	cfg.Analyze = fc.Analyze
	if !hasMaxProblems {
		cfg.Analyze.MaxProblems = maxProblems
	}
	cfg.Rules = fc.Rules
}

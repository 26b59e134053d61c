package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FromFile reads the YAML configuration file at path.
// Fields the file omits keep their Default() value.
func FromFile(path string) (Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}

	cfg, err := Decode(b)
	if err != nil {
		return cfg, fmt.Errorf("read config at %s: %w", path, err)
	}

	return cfg, nil
}

// Decode layers the given YAML document on top of the defaults.
// Unknown fields and out-of-range values are rejected.
func Decode(data []byte) (Configuration, error) {
	cfg := Default()
	m := map[string]any{}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return cfg, err
	}

	// YAML goes through JSON so that the json tags and DisallowUnknownFields apply.
	b, err := json.Marshal(m)
	if err != nil {
		return cfg, fmt.Errorf("marshal config: %w", err)
	}

	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()

	if err := d.Decode(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.validate()
}

func (c *Configuration) validate() error {
	var errs []error

	if c.LabelMode != LabelModeSegment && c.LabelMode != LabelModeFrame {
		errs = append(errs, fmt.Errorf("labelMode: unsupported value %q, supported are %s, %s", c.LabelMode, LabelModeSegment, LabelModeFrame))
	}
	if c.SnippetDuration <= 0 {
		errs = append(errs, fmt.Errorf("snippetDuration: must be positive, got %v", c.SnippetDuration))
	}
	if c.FrameDuration < 0 {
		errs = append(errs, fmt.Errorf("frameDuration: must not be negative, got %v", c.FrameDuration))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency: must not be negative, got %d", c.Concurrency))
	}
	if c.Sampling.Train < 0 || c.Sampling.Val < 0 || c.Sampling.Test < 0 {
		errs = append(errs, fmt.Errorf("sampling: counts must not be negative"))
	}

	return errors.Join(errs...)
}

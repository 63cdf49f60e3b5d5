package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Default values applied when the spec omits a field.
const (
	DefaultTopBlock    = "10.0.0.0/16"
	DefaultNATMode     = NATModeSingle
	DefaultConcurrency = 4
	DefaultRetryMax    = 5
)

// DefaultSpecFile is the file name the CLI looks for in the working directory.
const DefaultSpecFile = "netforge.yaml"

// LoadFile reads and parses the spec from a YAML file.
func LoadFile(path string) (*Spec, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return Load(data)
}

// Load parses the spec from raw YAML, applies defaults, and validates it.
func Load(data []byte) (*Spec, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var spec Spec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode spec: %w", err)
	}

	spec.ApplyDefaults()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return &spec, nil
}

// ApplyDefaults fills omitted fields with their defaults.
func (s *Spec) ApplyDefaults() {
	if s.TopBlock == "" {
		s.TopBlock = DefaultTopBlock
	}
	if s.NATMode == "" {
		s.NATMode = DefaultNATMode
	}
	if s.Apply.Concurrency <= 0 {
		s.Apply.Concurrency = DefaultConcurrency
	}
	if s.Apply.RetryMaxAttempts <= 0 {
		s.Apply.RetryMaxAttempts = DefaultRetryMax
	}
}

// FindSpecFile returns the default spec file if it exists in the working
// directory.
func FindSpecFile() (string, error) {
	if _, err := os.Stat(DefaultSpecFile); err != nil {
		return "", fmt.Errorf("no %s found in current directory (run 'netforge init' to create one)", DefaultSpecFile)
	}
	return DefaultSpecFile, nil
}

// Package catalog loads product CSVs into the vector index: parse,
// embed, upsert, report.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultBatchSize = 100

// Manifest describes one ingestion run: where the CSV lives, how its
// headers map onto product fields, and how work is batched.
type Manifest struct {
	Source    Source            `yaml:"source"`
	Columns   map[string]string `yaml:"columns"`
	Defaults  Defaults          `yaml:"defaults"`
	BatchSize int               `yaml:"batch_size"`
}

// Source points at the CSV, either a local path or an HTTP(S) URL.
// Exactly one should be set; URL wins when both are.
type Source struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// Defaults fills fields the CSV does not carry.
type Defaults struct {
	InStock *bool `yaml:"in_stock"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Source.Path == "" && m.Source.URL == "" {
		return Manifest{}, errors.New("manifest source needs a path or url")
	}
	if m.BatchSize <= 0 {
		m.BatchSize = defaultBatchSize
	}
	return m, nil
}

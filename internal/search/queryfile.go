// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"

	"github.com/rotisserie/eris"
	"go.yaml.in/yaml/v3"
)

// QueryFile is a saved pipeline query: what to search for and what to score
// against. Zero fields mean "use the configured value".
//
//	keywords: [Agent, serve, system]
//	topic: Serving system for agent applications.
//	max_results: 10
//	threshold: 50
type QueryFile struct {
	Keywords   []string `yaml:"keywords"`
	Topic      string   `yaml:"topic,omitempty"`
	MaxResults int      `yaml:"max_results,omitempty"`
	Threshold  *int     `yaml:"threshold,omitempty"`
}

// ReadQueryFile loads a query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "search: reading query file")
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, eris.Wrapf(err, "search: parsing query file %s", path)
	}
	return &qf, nil
}

// WriteQueryFile saves qf as YAML.
func WriteQueryFile(path string, qf QueryFile) error {
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return eris.Wrap(err, "search: marshaling query file")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "search: writing query file %s", path)
	}
	return nil
}

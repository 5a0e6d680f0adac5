// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records persists paper records as the JSON file shared by the
// score and download stages.
package records

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultPath is the records file used when none is configured.
const DefaultPath = "result_score.json"

// Save writes records to path as an indented JSON array, creating the parent
// directory if needed. An existing file is replaced.
func Save(path string, recs []types.PaperRecord) error {
	if recs == nil {
		recs = []types.PaperRecord{}
	}
	data, err := json.MarshalIndent(recs, "", "    ")
	if err != nil {
		return eris.Wrap(err, "records: marshal")
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "records: create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "records: write %s", path)
	}
	return nil
}

// Load reads the records file at path. The file must exist.
func Load(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "records: read %s", path)
	}
	var recs []types.PaperRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, eris.Wrapf(err, "records: parse %s", path)
	}
	return recs, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/pkg/types"
)

func TestReadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	content := `keywords: [Agent, serve, system]
topic: Serving system for agent applications.
max_results: 10
threshold: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Agent", "serve", "system"}, qf.Keywords)
	assert.Equal(t, "Serving system for agent applications.", qf.Topic)
	assert.Equal(t, 10, qf.MaxResults)
	require.NotNil(t, qf.Threshold)
	assert.Equal(t, 60, *qf.Threshold)
}

func TestReadQueryFile_ThresholdOptional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [x]\n"), 0o644))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Nil(t, qf.Threshold)
	assert.Zero(t, qf.MaxResults)
}

func TestReadQueryFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadQueryFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading query file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keywords: [unterminated\n"), 0o644))
	_, err = ReadQueryFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing query file")
}

func TestWriteQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	in := QueryFile{Keywords: []string{"a", "b"}, Topic: "t", Threshold: types.IntPtr(40)}
	require.NoError(t, WriteQueryFile(path, in))

	out, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Equal(t, in.Keywords, out.Keywords)
	assert.Equal(t, 40, *out.Threshold)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscout/pkg/types"
)

func sampleRecords() []types.PaperRecord {
	return []types.PaperRecord{
		{Title: "Serving Agents", Abstract: "a", URL: "http://arxiv.org/pdf/1.pdf", Score: types.IntPtr(87)},
		{Title: strings.Repeat("Long Title ", 10), Abstract: "b", URL: "http://arxiv.org/pdf/2.pdf"},
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleRecords(), &buf)
	out := buf.String()

	assert.Contains(t, out, "Serving Agents")
	assert.Contains(t, out, "87")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "2 results")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestFormatJSON_OmitsAbsentScore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(sampleRecords(), &buf))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.EqualValues(t, 87, raw[0]["score"])
	_, has := raw[1]["score"]
	assert.False(t, has, "unscored record must not carry a score key")
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatYAML(sampleRecords(), &buf))

	var got []types.PaperRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 87, *got[0].Score)
	assert.Nil(t, got[1].Score)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "Agents", 10, "Agents"},
		{"exact", "abcdef", 6, "abcdef"},
		{"ascii cut", "abcdefghij", 8, "abcde..."},
		{"multibyte cut on rune boundary", "Über große Sprachmodelle", 10, "Über gr..."},
		{"cjk", "大規模言語モデルの推論サービング", 8, "大規模言語..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestFormatTable_MultibyteTitleStaysValidUTF8(t *testing.T) {
	title := strings.Repeat("推論", 40)
	var buf bytes.Buffer
	FormatTable([]types.PaperRecord{{Title: title, URL: "http://arxiv.org/pdf/1.pdf"}}, &buf)
	assert.True(t, utf8.ValidString(buf.String()))
	assert.Contains(t, buf.String(), "...")
}

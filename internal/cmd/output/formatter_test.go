package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "json", want: FormatJSON},
		{input: "YAML", want: FormatYAML},
		{input: "", want: Format("")},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)
	err := f.Format(&buf, map[string]string{"template": "outcome/wellbeing"})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "outcome/wellbeing", decoded["template"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatYAML)
	err := f.Format(&buf, map[string]string{"status": "synced"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "status: synced")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)
	err := f.Format(&buf, Data{
		Headers: []string{"template", "sync_status"},
		Rows: [][]string{
			{"baseline/default", "synced"},
			{"outcome/wellbeing", "diverged"},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "baseline/default")
	assert.Contains(t, out, "diverged")
	// Headers are title-cased with underscores expanded.
	assert.Contains(t, strings.ToLower(out), "sync status")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)
	err := f.Format(&buf, []string{"a", "b"})
	require.NoError(t, err)

	var decoded []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded)
}

func TestDetectFormatHonorsExplicitChoice(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("yaml"))
	assert.Equal(t, FormatJSON, DetectFormat("JSON"))
}

package manifesto_test

import (
	"encoding/json"
	"strings"
	"testing"

	"worldbook/internal/manifesto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDocument(t *testing.T) {
	t.Parallel()

	m, err := manifesto.Load()

	require.NoError(t, err)
	assert.Equal(t, manifesto.Motto, m.Motto)
	assert.Equal(t, "THE DUAL PROTOCOL MANIFESTO", m.Title)
	assert.Equal(t, "GO AWAY SKILLS. GO AWAY MCP. WE LIKE CLI.", m.Attitude)
	assert.NotEmpty(t, m.WhyCLI.CLI)
	assert.Len(t, m.Principles, 5)
	assert.Contains(t, m.Text, `"Human uses GUI, We uses CLI."`)
	assert.True(t, strings.HasPrefix(m.Text, "\n"), "text keeps its leading blank line")
}

func TestManifesto_JSONKeys(t *testing.T) {
	t.Parallel()

	m, err := manifesto.Load()
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Human uses GUI, We uses CLI.", decoded["motto"])
	assert.Contains(t, decoded, "why_cli")
	assert.Contains(t, decoded, "call_to_action")
	assert.NotContains(t, decoded, "text", "plain-text rendition is not part of the JSON document")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "malformed yaml", input: "motto: [unterminated", wantErr: "failed to decode manifesto"},
		{name: "unknown field", input: "motto: m\ntext: t\nslogan: s\n", wantErr: "failed to decode manifesto"},
		{name: "missing motto", input: "text: t\n", wantErr: "no motto"},
		{name: "missing text", input: "motto: m\n", wantErr: "no text"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := manifesto.Parse([]byte(tt.input))

			require.Error(t, err)
			assert.Nil(t, m)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

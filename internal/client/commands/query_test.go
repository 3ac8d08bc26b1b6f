package commands_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"worldbook/internal/client/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{"results":[` +
	`{"name":"github","title":"GitHub","description":"Code hosting","votes":42},` +
	`{"name":"gitlab","title":"GitLab"}` +
	`],"total":2}`

func TestNewQueryCmd_Flags(t *testing.T) {
	t.Parallel()

	cmd := findSubcommand(commands.NewRootCmd(), "query")
	require.NotNil(t, cmd)

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"limit", "l", "10"},
		{"offset", "", "0"},
		{"category", "c", ""},
		{"threshold", "t", "50"},
	}

	for _, tt := range tests {
		tt := tt
		flag := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, flag, "--%s flag should be defined", tt.name)
		assert.Equal(t, tt.shorthand, flag.Shorthand, "--%s shorthand", tt.name)
		assert.Equal(t, tt.defValue, flag.DefValue, "--%s default", tt.name)
	}
}

// TestQueryCmd_RequestParameters verifies the query string sent to /api/search.
func TestQueryCmd_RequestParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want url.Values
	}{
		{
			name: "defaults",
			args: []string{"query", "git hub"},
			want: url.Values{"q": {"git hub"}, "limit": {"10"}, "offset": {"0"}, "threshold": {"50"}},
		},
		{
			name: "all options",
			args: []string{"query", "storage", "-l", "5", "--offset", "10", "-c", "cloud", "-t", "70"},
			want: url.Values{
				"q": {"storage"}, "limit": {"5"}, "offset": {"10"}, "threshold": {"70"}, "category": {"cloud"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			queries := make(chan url.Values, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/search", r.URL.Path)
				queries <- r.URL.Query()
				_, _ = w.Write([]byte(`{"results":[]}`))
			}))
			defer server.Close()

			res := run(t, append(tt.args, "--base-url", server.URL)...)

			require.Equal(t, 0, res.code)
			assert.Equal(t, tt.want, <-queries)
		})
	}
}

func TestQueryCmd_PlainResults(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, searchBody, nil)

	res := run(t, "query", "git", "--base-url", server.URL)

	require.Equal(t, 0, res.code)
	assert.Equal(t, "github - GitHub\n"+
		"  Code hosting\n"+
		"  votes: 42\n"+
		"  worldbook get github\n"+
		"-\n"+
		"gitlab - GitLab\n"+
		"  \n"+
		"  votes: 0\n"+
		"  worldbook get gitlab\n"+
		"-\n", res.stdout)
}

func TestQueryCmd_NoResults(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"results":[]}`, `{}`, ``} {
		server := newAPIServer(t, body, nil)

		res := run(t, "query", "nothing here", "--base-url", server.URL)

		assert.Equal(t, "No results for: nothing here\n", res.stdout, "body: %q", body)
	}
}

// TestQueryCmd_JSONReemitsBody verifies that JSON mode keeps every field and
// the key order of the response.
func TestQueryCmd_JSONReemitsBody(t *testing.T) {
	t.Parallel()

	server := newAPIServer(t, `{"total":1,"results":[{"votes":1,"name":"a"}]}`, nil)

	res := run(t, "--json", "query", "a", "--base-url", server.URL)

	require.Equal(t, 0, res.code)
	assert.Equal(t, "{\n"+
		"  \"total\": 1,\n"+
		"  \"results\": [\n"+
		"    {\n"+
		"      \"votes\": 1,\n"+
		"      \"name\": \"a\"\n"+
		"    }\n"+
		"  ]\n"+
		"}\n", res.stdout)
}

func TestQueryCmd_ConnectionFailed(t *testing.T) {
	t.Parallel()

	base := unreachableURL(t)

	res := run(t, "--json", "query", "git", "--base-url", base)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, map[string]interface{}{"error": "connection_failed", "query": "git"}, decodeObject(t, res.stdout))

	res = run(t, "query", "git", "--base-url", base)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "Failed to connect to "+base+"\n", res.stdout)
}

func TestQueryCmd_GenericErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: "API request failed: 500 Internal Server Error",
		},
		{
			name: "not found is not special for search",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: "API request failed: 404 Not Found",
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			want: "failed to decode response",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			res := run(t, "--json", "query", "git", "--base-url", server.URL)
			require.Equal(t, 0, res.code)
			doc := decodeObject(t, res.stdout)
			assert.Len(t, doc, 1, "generic errors carry only the message")
			assert.Contains(t, doc["error"], tt.want)

			res = run(t, "query", "git", "--base-url", server.URL)
			assert.Contains(t, res.stdout, "Error: "+tt.want)
		})
	}
}

// TestQueryCmd_UnexpectedShapes verifies that a well-formed body is printed
// even when its fields do not have the usual types.
func TestQueryCmd_UnexpectedShapes(t *testing.T) {
	t.Parallel()

	const fractional = `{"results":[{"name":"a","title":"A","votes":3.5}]}`
	server := newAPIServer(t, fractional, nil)

	res := run(t, "--json", "query", "x", "--base-url", server.URL)
	require.Equal(t, 0, res.code)
	assert.JSONEq(t, fractional, res.stdout)

	res = run(t, "query", "x", "--base-url", server.URL)
	require.Equal(t, 0, res.code)
	assert.Equal(t, "a - A\n"+
		"  \n"+
		"  votes: 3.5\n"+
		"  worldbook get a\n"+
		"-\n", res.stdout)

	array := newAPIServer(t, `[1,2]`, nil)

	res = run(t, "--json", "query", "x", "--base-url", array.URL)
	require.Equal(t, 0, res.code)
	assert.Equal(t, "[\n  1,\n  2\n]\n", res.stdout)

	res = run(t, "query", "x", "--base-url", array.URL)
	require.Equal(t, 0, res.code)
	assert.Equal(t, "No results for: x\n", res.stdout)
}

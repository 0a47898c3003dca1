package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/analytics"
)

const networkYAML = `
nodes:
  - {id: a, name: Alice, company: Acme, position: Software Engineer}
  - {id: b, name: Bob, company: Acme, position: Software Engineer}
  - {id: c, name: Carol, company: Globex}
  - {id: d, name: Dan}
adjacency:
  a: [b]
  b: [a, c]
  c: [b, d]
  d: [c]
`

func writeNetwork(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(networkYAML), 0o600))
	return path
}

// run executes the CLI in an empty working directory so no stray config file
// is picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "netanalytics dev\n", out)

	out, _, err = run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "netanalytics dev\n", out)
}

func TestInfluence_JSON(t *testing.T) {
	out, _, err := run(t, "", "influence", "--input", writeNetwork(t), "--output", "json", "--top", "2")
	require.NoError(t, err)

	var ranked []algorithms.InfluenceScore
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].NodeID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "c", ranked[1].NodeID)
}

func TestInfluence_Table(t *testing.T) {
	out, _, err := run(t, "", "influence", "-i", writeNetwork(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Influence")
	assert.Contains(t, out, "Carol")
	assert.NotContains(t, out, "\x1b[")
}

func TestCommunities_Stdin(t *testing.T) {
	doc := `{"nodes":[{"id":"a","company":"Acme"},{"id":"b","company":"Acme"}],"adjacency":{"a":["b"],"b":["a"]}}`
	out, _, err := run(t, doc, "communities", "--input", "-", "-o", "json")
	require.NoError(t, err)

	var result algorithms.CommunityDetectionResult
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &result))
	require.Len(t, result.Communities, 1)
	assert.Equal(t, "company:acme", result.Communities[0].ID)
}

func TestAnalyze_JSON(t *testing.T) {
	out, _, err := run(t, "", "analyze", "--input", writeNetwork(t), "--output", "json")
	require.NoError(t, err)

	var r analytics.Report
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &r))
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 4, r.Summary.Nodes)
	assert.Len(t, r.Influence, 4)
	require.NotNil(t, r.Communities)
}

func TestLogsGoToStderr(t *testing.T) {
	out, errOut, err := run(t, "", "influence", "--input", writeNetwork(t), "-o", "json", "--log-level", "debug")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["), "stdout must hold only JSON: %q", out)
	assert.Contains(t, errOut, "configuration loaded")
}

func TestConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "netanalytics.yaml")
	cfg := "analytics:\n  weights:\n    degree: 1\n    betweenness: 0\n    clustering: 0\n    eigenvector: 0\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, _, err := run(t, "", "influence", "-c", cfgPath, "-i", writeNetwork(t), "-o", "json")
	require.NoError(t, err)

	var ranked []algorithms.InfluenceScore
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &ranked))
	for _, s := range ranked {
		assert.InDelta(t, s.Factors.Degree, s.RawScore, 1e-12)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"influence"}, "no network source"},
		{"bad output", []string{"influence", "-o", "xml"}, "unknown output format"},
		{"missing file", []string{"communities", "-i", "/nonexistent/net.json"}, "load document"},
		{"bad workers", []string{"influence", "--workers", "1000"}, "Workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a"},{"id":"a"}],"adjacency":{}}`), 0o600))

	_, _, err := run(t, "", "influence", "-i", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node")
}

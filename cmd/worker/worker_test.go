package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

const doc = `
name: shop
components:
  - id: api
    type: api_service
  - id: db
    type: database
    subtype: document
  - id: cache
    type: cache
    subtype: redis
links:
  - from: api
    to: db
    type: query
  - from: db
    to: cache
    type: sync_call
`

func TestRunEvaluate(t *testing.T) {
	t.Setenv("RULES_FILE", "")
	t.Setenv("WEIGHTS_FILE", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "arch.yaml")
	require.NoError(t, os.WriteFile(in, []byte(doc), 0o600))
	out := filepath.Join(dir, "out")

	var buf bytes.Buffer
	require.NoError(t, RunEvaluate([]string{in, out, "Shop Review"}, &buf))
	assert.Contains(t, buf.String(), "Shop Review: score")
	assert.Contains(t, buf.String(), "[violation] Database db must not call cache cache synchronously")

	b, err := os.ReadFile(filepath.Join(out, "report.json"))
	require.NoError(t, err)
	var r evaluation.Report
	require.NoError(t, json.Unmarshal(b, &r))
	assert.False(t, r.Valid)
	assert.Equal(t, 3, r.ComponentCount)

	for _, name := range []string{"report.yaml", "graph.dot"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	assert.Error(t, RunEvaluate(nil, &buf))
	assert.Error(t, RunEvaluate([]string{filepath.Join(dir, "missing.yaml")}, &buf))
}

func TestRunRules(t *testing.T) {
	t.Setenv("RULES_FILE", "")

	var buf bytes.Buffer
	require.NoError(t, RunRules([]string{"replication"}, &buf))
	parsed, err := rules.Parse(buf.Bytes())
	require.NoError(t, err)
	for _, r := range parsed.AllRules() {
		assert.Equal(t, "REPLICATION", string(r.LinkType))
	}

	assert.Error(t, RunRules([]string{"teleport"}, &buf))
}

func TestRunEvaluate_JSONInput(t *testing.T) {
	t.Setenv("RULES_FILE", "")
	t.Setenv("WEIGHTS_FILE", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "arch.json")
	body := `{"name":"feed","components":[{"id":"api","type":"api_service"},{"id":"db","type":"database","subtype":"relational"}],` +
		`"links":[{"from":"api","to":"db","type":"query"}]}`
	require.NoError(t, os.WriteFile(in, []byte(body), 0o600))

	var buf bytes.Buffer
	require.NoError(t, RunEvaluate([]string{in, filepath.Join(dir, "out")}, &buf))
	assert.Contains(t, buf.String(), "feed: score")
	assert.Contains(t, buf.String(), "valid=true")
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chartpick/internal/compiler"
	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/source"
)

// writeDB creates a SQLite file with a small people table.
func writeDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := source.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.SQL().Exec(`
		CREATE TABLE people (name TEXT, age INTEGER, joined TEXT, tags BLOB);
		INSERT INTO people VALUES ('ann', 23, '2024-01-02T00:00:00Z', x'00');
		INSERT INTO people VALUES ('bob', 41, '2024-03-05T12:30:00Z', x'01');
		INSERT INTO people VALUES ('ann', 47, NULL, NULL);
	`)
	require.NoError(t, err)
	return path
}

func runElementsCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewElementsCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// compileOutput writes CUE output to a file and compiles it back.
func compileOutput(t *testing.T, out string) ir.ChartSpec {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.cue")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))
	specs, err := compiler.CompileFile(path)
	require.NoError(t, err, out)
	require.Len(t, specs, 1)
	return specs[0]
}

func TestElementsDistinctInferred(t *testing.T) {
	db := writeDB(t)
	out, err := runElementsCmd(t, "text", "--db", db, "--table", "people", "--field", "name")
	require.NoError(t, err)

	spec := compileOutput(t, out)
	assert.Equal(t, "name", spec.Name)
	assert.Equal(t, ir.FieldString, spec.Type)
	assert.Equal(t, []string{"ann", "bob"}, spec.Labels())
}

func TestElementsHistogram(t *testing.T) {
	db := writeDB(t)
	out, err := runElementsCmd(t, "text", "--db", db, "--table", "people", "--field", "age", "--bin", "10", "--name", "age_bins")
	require.NoError(t, err)

	spec := compileOutput(t, out)
	assert.Equal(t, "age_bins", spec.Name)
	assert.Equal(t, ir.FieldNumber, spec.Type)
	assert.Equal(t, []string{"20", "40"}, spec.Labels())
	for _, e := range spec.Elements {
		assert.Equal(t, 10.0, e.BinWidth)
	}
}

func TestElementsDates(t *testing.T) {
	db := writeDB(t)
	out, err := runElementsCmd(t, "text", "--db", db, "--table", "people", "--field", "joined", "--type", "date")
	require.NoError(t, err)

	spec := compileOutput(t, out)
	assert.Equal(t, ir.FieldDate, spec.Type)
	require.Len(t, spec.Elements, 2)
	assert.Equal(t, "2024-01-02T00:00:00Z", spec.Elements[0].Value.String())
}

func TestElementsJSON(t *testing.T) {
	db := writeDB(t)
	out, err := runElementsCmd(t, "json", "--db", db, "--table", "people", "--field", "age")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name     string            `json:"name"`
			Type     string            `json:"type"`
			Elements []json.RawMessage `json:"elements"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "number", resp.Data.Type)
	require.Len(t, resp.Data.Elements, 3)
	assert.JSONEq(t, `{"kind":"number","label":"23","value":23}`, string(resp.Data.Elements[0]))
}

func TestElementsErrors(t *testing.T) {
	db := writeDB(t)
	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{
			name:    "missing database",
			args:    []string{"--db", filepath.Join(t.TempDir(), "none.db"), "--table", "people", "--field", "name"},
			wantOut: "database not found",
		},
		{
			name:    "bin on string",
			args:    []string{"--db", db, "--table", "people", "--field", "name", "--bin", "5"},
			wantOut: "--bin requires a number field",
		},
		{
			name:    "negative bin",
			args:    []string{"--db", db, "--table", "people", "--field", "age", "--bin=-1"},
			wantOut: "invalid bin width",
		},
		{
			name:    "unsupported column",
			args:    []string{"--db", db, "--table", "people", "--field", "tags"},
			wantOut: "unsupported field type",
		},
		{
			name:    "bad identifier",
			args:    []string{"--db", db, "--table", "people; DROP TABLE people", "--field", "name"},
			wantOut: "invalid identifier",
		},
		{
			name:    "unknown table",
			args:    []string{"--db", db, "--table", "nobody", "--field", "name", "--type", "string"},
			wantOut: "no such table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runElementsCmd(t, "text", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestCueScalar(t *testing.T) {
	assert.Equal(t, int64(20), cueScalar(ir.Number(20)))
	assert.Equal(t, 2.5, cueScalar(ir.Number(2.5)))
	assert.Equal(t, true, cueScalar(ir.Bool(true)))
	assert.Equal(t, "ann", cueScalar(ir.String("ann")))
	assert.Equal(t, "65920080aaaaaaaaaaaaaaaa", cueScalar(ir.MustObjectID("65920080aaaaaaaaaaaaaaaa")))
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/source"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(ChartSummary{Name: "age", Type: "number", Source: "many", Mode: "range", Elements: 3}))

	var resp struct {
		Status string       `json:"status"`
		Data   ChartSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "age", resp.Data.Name)
	assert.Equal(t, "range", resp.Data.Mode)
	assert.Equal(t, 3, resp.Data.Elements)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("ELEMENT_NOT_FOUND", `chart "age", element "99"`, &ErrorDetails{Chart: "age", Label: "99"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ELEMENT_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, &ErrorDetails{Chart: "age", Label: "99"}, resp.Error.Details)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("2 charts"))
	require.NoError(t, f.Error(ErrCodeNotFound, "specs directory not found: x", nil))

	assert.Equal(t, "2 charts\nError [E005]: specs directory not found: x\n", buf.String())
}

func TestOutputFormatter_TextErrorDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(ErrCodeSource, "no such table: nobody", &ErrorDetails{Table: "nobody", Field: "age"}))
	assert.Equal(t, "Error [E010]: no such table: nobody\n  at table=nobody field=age\n", buf.String())
}

func TestOutputFormatter_FailChartError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	cause := &chart.Error{Code: chart.ErrCodeElementNotFound, Chart: "age", Label: "99"}
	err := f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("click: %w", cause))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, cause)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ELEMENT_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, &ErrorDetails{Chart: "age", Label: "99"}, resp.Error.Details)
}

func TestOutputFormatter_FailSourceError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	cause := &source.Error{Op: "distinct", Table: "people", Field: "nope", Err: errors.New("no such column: nope")}
	err := f.Fail(ExitCommandError, ErrCodeSource, cause)

	assert.Contains(t, err.Error(), ErrCodeSource)
	assert.Contains(t, buf.String(), "Error [E010]: source distinct people.nope: no such column: nope")
	assert.Contains(t, buf.String(), "  at table=people field=nope")
}

func TestDetailsOf_PlainError(t *testing.T) {
	assert.Nil(t, detailsOf(errors.New("plain")))
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		errW    bool
		wantOut string
		wantErr string
	}{
		{name: "quiet", verbose: false},
		{name: "verbose to writer", verbose: true, wantOut: "Validated chart: age\n"},
		{name: "verbose to err writer", verbose: true, errW: true, wantErr: "Validated chart: age\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			f := &OutputFormatter{Format: "json", Writer: out, Verbose: tt.verbose}
			if tt.errW {
				f.ErrWriter = errOut
			}
			f.VerboseLog("Validated chart: %s", "age")
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("no such table: nobody")
	err := WrapExitError(ExitCommandError, "elements failed", cause)

	assert.Equal(t, "elements failed: no such table: nobody", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("run: %w", err)))

	assert.Equal(t, "2 scenario(s) failed", NewExitError(ExitFailure, "2 scenario(s) failed").Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

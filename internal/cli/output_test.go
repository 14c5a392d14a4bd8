package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"length": 7}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_SuccessTextUsesStringer(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Success(IsoReport{Block: "isochronous", Length: 2, Period: 1, Timings: []float64{0, 1}}))
	assert.Contains(t, buf.String(), "generated isochronous sequence")
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeEmpty, "nothing survived", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEmpty, resp.Error.Code)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("loaded %d timestamps", 7)
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON stream")
	assert.Contains(t, errOut.String(), "loaded 7 timestamps")

	f.Verbose = false
	errOut.Reset()
	f.VerboseLog("hidden")
	assert.Empty(t, errOut.String())
}

func TestExitError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := WrapExitError(ExitCommandError, "failed to open session store", cause)

	assert.ErrorContains(t, err, "disk on fire")
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

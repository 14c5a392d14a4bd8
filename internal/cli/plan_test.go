package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planResponse struct {
	Status string `json:"status"`
	Data   struct {
		Seed   int64    `json:"seed"`
		Blocks []string `json:"blocks"`
	} `json:"data"`
}

func TestPlan_JSON(t *testing.T) {
	stdout, _, err := execute(t, "plan", "--blocks", "8", "--seed", "1", "--format", "json")
	require.NoError(t, err)

	var resp planResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.Data.Seed)
	require.Len(t, resp.Data.Blocks, 8)
	assert.Equal(t, "baseline", resp.Data.Blocks[0])
	assert.Equal(t, "synchronous", resp.Data.Blocks[1])

	for g := 0; g+4 <= len(resp.Data.Blocks); g += 4 {
		seen := map[string]bool{}
		for _, b := range resp.Data.Blocks[g : g+4] {
			assert.False(t, seen[b], "block %s repeats within a group", b)
			seen[b] = true
		}
	}
}

func TestPlan_SeedReproducible(t *testing.T) {
	first, _, err := execute(t, "plan", "--blocks", "12", "--seed", "9", "--format", "json")
	require.NoError(t, err)
	second, _, err := execute(t, "plan", "--blocks", "12", "--seed", "9", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlan_Text(t *testing.T) {
	stdout, _, err := execute(t, "plan", "--blocks", "4", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "planned 4 block(s)")
	assert.Contains(t, stdout, "baseline")
}

func TestPlan_BlockCountFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cadence.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
blocks:
  baseline: 2
  synchronous: 2
  isochronous: 2
  asynchronous: 2
`), 0o644))

	stdout, _, err := execute(t, "plan", "--seed", "1", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var resp planResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Len(t, resp.Data.Blocks, 8)
}

func TestPlan_InvalidBlockCount(t *testing.T) {
	_, _, err := execute(t, "plan", "--blocks", "-3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

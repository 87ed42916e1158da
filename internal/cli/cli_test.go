package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/tombola/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "check-config")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, "check-config", "--format", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCheckConfig_BuiltIn(t *testing.T) {
	out, err := execute(t, "check-config")

	require.NoError(t, err)
	assert.Contains(t, out, MsgConfigValid)
	assert.Contains(t, out, "source:  built-in")
	assert.Contains(t, out, "tiers:   12")
	assert.Contains(t, out, "prizes:  28")
	assert.Contains(t, out, "numbers: 901..997")
}

func TestCheckConfig_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raffle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"prizes":[{"name":" Mochila ","count":3}],"numbers":{"start":1,"count":50}}`), 0o600))

	out, err := execute(t, "check-config", "--raffle", path, "--format", "json")
	require.NoError(t, err)

	var summary RaffleSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, path, summary.Source)
	assert.Equal(t, 1, summary.Tiers)
	assert.Equal(t, 3, summary.TotalPrizes)
	assert.Equal(t, 1, summary.FirstNumber)
	assert.Equal(t, 50, summary.LastNumber)
	assert.Equal(t, "Mochila", summary.Prizes[0].Name)
}

func TestCheckConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raffle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prizes: []\nnumbers:\n  start: 1\n  count: 5\n"), 0o600))

	_, err := execute(t, "check-config", "--raffle", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), ErrContextRaffle)
}

func TestServe_InvalidEnvFile(t *testing.T) {
	_, err := execute(t, "serve", "--env-file", filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrContextConfig)
}

func TestServe_RejectsArgs(t *testing.T) {
	_, err := execute(t, "serve", "extra")

	assert.Error(t, err)
}

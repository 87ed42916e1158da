package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/osse101/tombola/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultRaffle(t *testing.T) {
	r := DefaultRaffle()

	require.NoError(t, r.Validate())
	assert.Len(t, r.Prizes, 12)
	assert.Equal(t, 28, r.TotalPrizes())

	cfg := r.PoolConfig()
	assert.Len(t, cfg.Prizes, 28)
	numbers := cfg.Numbers()
	assert.Equal(t, 901, numbers[0])
	assert.Equal(t, 997, numbers[len(numbers)-1])
}

func TestLoadRaffle_EmptyPathUsesDefault(t *testing.T) {
	r, err := LoadRaffle("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRaffle(), r)
}

func TestLoadRaffle_YAML(t *testing.T) {
	path := writeFile(t, "raffle.yaml", `
prizes:
  - name: "  Mochila "
    count: 2
  - name: Tablet
    count: 1
numbers:
  start: 10
  count: 5
`)

	r, err := LoadRaffle(path)
	require.NoError(t, err)

	cfg := r.PoolConfig()
	assert.Equal(t, []string{"Mochila", "Mochila", "Tablet"}, cfg.Prizes)
	assert.Equal(t, []int{10, 11, 12, 13, 14}, cfg.Numbers())
}

func TestLoadRaffle_JSON(t *testing.T) {
	path := writeFile(t, "raffle.json", `{"prizes":[{"name":"Maleta","count":1}],"numbers":{"start":1,"count":3}}`)

	r, err := LoadRaffle(path)
	require.NoError(t, err)
	assert.Equal(t, domain.PoolConfig{Prizes: []string{"Maleta"}, NumberStart: 1, NumberCount: 3}, r.PoolConfig())
}

func TestLoadRaffle_NormalizesUnicode(t *testing.T) {
	decomposed := norm.NFD.String("Billetes de Avión")
	require.NotEqual(t, "Billetes de Avión", decomposed)

	path := writeFile(t, "raffle.json", `{"prizes":[{"name":"`+decomposed+`","count":1}],"numbers":{"start":1,"count":1}}`)

	r, err := LoadRaffle(path)
	require.NoError(t, err)
	assert.Equal(t, "Billetes de Avión", r.Prizes[0].Name)
}

func TestLoadRaffle_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"no prizes", "r.yaml", "prizes: []\nnumbers: {start: 1, count: 3}\n"},
		{"blank name", "r.yaml", "prizes: [{name: '  ', count: 1}]\nnumbers: {start: 1, count: 3}\n"},
		{"zero count", "r.yaml", "prizes: [{name: A, count: 0}]\nnumbers: {start: 1, count: 3}\n"},
		{"no numbers", "r.yaml", "prizes: [{name: A, count: 1}]\nnumbers: {start: 1, count: 0}\n"},
		{"unsupported extension", "r.toml", "prizes = []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRaffle(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestLoadRaffle_Malformed(t *testing.T) {
	_, err := LoadRaffle(writeFile(t, "r.json", "{not json"))
	assert.Error(t, err)

	_, err = LoadRaffle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

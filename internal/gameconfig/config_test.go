package gameconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGame = `
game:
  start: 2014-01
  end: 2023-12
  quota: 3
players:
  - name: Ann
    budget: 2500
  - name: Bob
universe:
  symbols: [AAPL, MSFT, GOOG, AMZN, META, NFLX]
  seed: 7
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleGame))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Game.Quota)
	assert.Equal(t, 1000.0, cfg.Game.Budget, "default budget")
	require.Len(t, cfg.Players, 2)
	assert.Equal(t, 2500.0, cfg.BudgetFor(cfg.Players[0]))
	assert.Equal(t, 1000.0, cfg.BudgetFor(cfg.Players[1]))
	assert.Equal(t, int64(7), cfg.Universe.Seed)

	start, end := cfg.Window()
	assert.Equal(t, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("game:\n  start: 2014-01\n  end: 2015-01\n  quota: 1\n  qouta: 2\nplayers:\n  - name: A\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qouta")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Game:    GameSection{Start: "2014-01", End: "2015-01", Quota: 2},
			Players: []PlayerEntry{{Name: "Ann"}, {Name: "Bob"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad start", func(c *Config) { c.Game.Start = "January" }, "game.start"},
		{"bad end", func(c *Config) { c.Game.End = "" }, "game.end"},
		{"end before start", func(c *Config) { c.Game.End = "2013-12" }, "game.end"},
		{"zero quota", func(c *Config) { c.Game.Quota = 0 }, "game.quota"},
		{"negative budget", func(c *Config) { c.Game.Budget = -1 }, "game.budget"},
		{"no players", func(c *Config) { c.Players = nil }, "players"},
		{"empty name", func(c *Config) { c.Players[1].Name = " " }, "players[1].name"},
		{"duplicate name", func(c *Config) { c.Players[1].Name = "ann" }, "players[1].name"},
		{"negative player budget", func(c *Config) { c.Players[0].Budget = -5 }, "players[0].budget"},
		{"too few symbols", func(c *Config) { c.Universe.Symbols = []string{"A", "B", "C"} }, "universe.symbols"},
		{"same start and end", func(c *Config) { c.Game.End = "2014-01" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleGame), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ann", cfg.Players[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	a, err := Parse([]byte(sampleGame))
	require.NoError(t, err)
	b, err := Parse([]byte(sampleGame))
	require.NoError(t, err)

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, _ := Hash(b)
	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb)

	b.Game.Quota = 1
	hc, _ := Hash(b)
	assert.NotEqual(t, ha, hc)
}

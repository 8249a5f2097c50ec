// Package gameconfig reads game files: the players, the month window, the quota
// and an optional fixed company pool.
package gameconfig

// Config is the root of a game file
type Config struct {
	Game     GameSection     `yaml:"game" json:"game"`
	Players  []PlayerEntry   `yaml:"players" json:"players"`
	Universe UniverseSection `yaml:"universe" json:"universe"`
}

// GameSection holds the session settings
type GameSection struct {
	Start  string  `yaml:"start" json:"start"` // YYYY-MM
	End    string  `yaml:"end" json:"end"`     // YYYY-MM
	Quota  int     `yaml:"quota" json:"quota"`
	Budget float64 `yaml:"budget" json:"budget"` // default for players without one
}

// PlayerEntry registers one player; order is draft order
type PlayerEntry struct {
	Name   string  `yaml:"name" json:"name"`
	Budget float64 `yaml:"budget,omitempty" json:"budget,omitempty"`
}

// UniverseSection restricts the catalog to listed symbols; empty means every stored company
type UniverseSection struct {
	Symbols []string `yaml:"symbols,omitempty" json:"symbols,omitempty"`
	Seed    int64    `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// BudgetFor returns the player's budget or the game default
func (c *Config) BudgetFor(p PlayerEntry) float64 {
	if p.Budget > 0 {
		return p.Budget
	}
	return c.Game.Budget
}

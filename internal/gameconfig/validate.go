package gameconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/stockpick/pkg/config"
)

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a decoded config; defaults are applied first
func Validate(cfg *Config) error {
	if cfg.Game.Budget == 0 {
		cfg.Game.Budget = 1000
	}

	start, err := config.ParseMonth(cfg.Game.Start)
	if err != nil {
		return ValidationError{"game.start", "must be YYYY-MM"}
	}
	end, err := config.ParseMonth(cfg.Game.End)
	if err != nil {
		return ValidationError{"game.end", "must be YYYY-MM"}
	}
	if end.Before(start) {
		return ValidationError{"game.end", "must not be before game.start"}
	}
	if cfg.Game.Quota <= 0 {
		return ValidationError{"game.quota", "must be > 0"}
	}
	if cfg.Game.Budget < 0 {
		return ValidationError{"game.budget", "must be > 0"}
	}

	if len(cfg.Players) == 0 {
		return ValidationError{"players", "at least one player required"}
	}
	seen := make(map[string]bool, len(cfg.Players))
	for i, p := range cfg.Players {
		field := fmt.Sprintf("players[%d]", i)
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate player %q", p.Name)}
		}
		seen[name] = true
		if p.Budget < 0 {
			return ValidationError{field + ".budget", "must be > 0"}
		}
	}

	if n := len(cfg.Universe.Symbols); n > 0 && n < cfg.Game.Quota*len(cfg.Players) {
		return ValidationError{"universe.symbols", fmt.Sprintf("need at least %d symbols for %d players × quota %d",
			cfg.Game.Quota*len(cfg.Players), len(cfg.Players), cfg.Game.Quota)}
	}

	return nil
}

// Window returns the parsed start and end months; call after Validate
func (c *Config) Window() (time.Time, time.Time) {
	start, _ := config.ParseMonth(c.Game.Start)
	end, _ := config.ParseMonth(c.Game.End)
	return start, end
}

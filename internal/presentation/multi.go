package presentation

import (
	"context"
	"fmt"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

// Multi fans one game out to several front ends, in order.
// The first failing renderer stops the chain.
type Multi []game.Renderer

// Render renders on every front end
func (m Multi) Render(ctx context.Context, players []*game.Player, start, end contracts.Period) error {
	for i, r := range m {
		if err := r.Render(ctx, players, start, end); err != nil {
			return fmt.Errorf("renderer %d: %w", i, err)
		}
	}
	return nil
}

// Announce announces on every front end
func (m Multi) Announce(ctx context.Context, winner *game.Player, standings []game.Standing) error {
	for i, r := range m {
		if err := r.Announce(ctx, winner, standings); err != nil {
			return fmt.Errorf("renderer %d: %w", i, err)
		}
	}
	return nil
}

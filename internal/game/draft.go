package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/stockpick/internal/contracts"
)

// Chooser asks a player which catalog index to draft.
// Implemented by the console prompter and the automatic test drafter.
type Chooser interface {
	// Choose blocks until the player answers or ctx is done
	Choose(ctx context.Context, player *Player, available map[int]contracts.Company) (int, error)

	// Rejected reports an invalid pick; the same player is asked again
	Rejected(player *Player, index int, err error)
}

// Turn identifies whose pick it is
type Turn struct {
	Round  int // 1-based
	Player *Player
}

// Draft is the round-robin pick state machine.
// Round r runs 1..quota; within a round players pick in registration order.
type Draft struct {
	catalog *Catalog
	players []*Player
	quota   int

	round int // 1-based; quota+1 when done
	turn  int // index into players
}

// NewDraft creates a draft over a sampled catalog
func NewDraft(catalog *Catalog, players []*Player, quota int) (*Draft, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: draft needs at least one player", ErrInvalidPlayer)
	}
	if quota <= 0 {
		return nil, fmt.Errorf("quota must be positive, got %d", quota)
	}
	if catalog.Len() < quota*len(players) {
		return nil, fmt.Errorf("%w: catalog has %d, draft needs %d",
			ErrInsufficientEntities, catalog.Len(), quota*len(players))
	}
	return &Draft{catalog: catalog, players: players, quota: quota, round: 1}, nil
}

// Done reports whether every player holds quota companies
func (d *Draft) Done() bool {
	return d.round > d.quota
}

// Current returns the pending turn; ok is false once the draft is done
func (d *Draft) Current() (Turn, bool) {
	if d.Done() {
		return Turn{}, false
	}
	return Turn{Round: d.round, Player: d.players[d.turn]}, true
}

// Available returns the companies still on offer
func (d *Draft) Available() map[int]contracts.Company {
	return d.catalog.Available()
}

// Pick applies the current player's choice.
// An unknown index returns ErrUnknownIndex and leaves the state untouched.
func (d *Draft) Pick(index int) (contracts.Company, error) {
	if d.Done() {
		return contracts.Company{}, errors.New("draft already finished")
	}

	company, err := d.catalog.Remove(index)
	if err != nil {
		return contracts.Company{}, err
	}

	d.players[d.turn].addHolding(company)
	d.advance()
	return company, nil
}

func (d *Draft) advance() {
	d.turn++
	if d.turn == len(d.players) {
		d.turn = 0
		d.round++
	}
}

// Run drives the draft to completion.
// Chooser errors abort it; invalid picks are reported and re-asked.
func (d *Draft) Run(ctx context.Context, chooser Chooser) error {
	for !d.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		player := d.players[d.turn]
		index, err := chooser.Choose(ctx, player, d.catalog.Available())
		if err != nil {
			return fmt.Errorf("choice for %s: %w", player.Name, err)
		}

		if _, err := d.Pick(index); err != nil {
			if errors.Is(err, ErrUnknownIndex) {
				chooser.Rejected(player, index, err)
				continue
			}
			return err
		}
	}
	return nil
}

// AutoChooser always picks the lowest available index
type AutoChooser struct{}

func (AutoChooser) Choose(_ context.Context, _ *Player, available map[int]contracts.Company) (int, error) {
	idx := SortedIndexes(available)
	if len(idx) == 0 {
		return 0, errors.New("nothing left to pick")
	}
	return idx[0], nil
}

func (AutoChooser) Rejected(*Player, int, error) {}

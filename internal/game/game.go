package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/pkg/logger"
)

// Renderer shows the priced portfolios and the final result
type Renderer interface {
	// Render draws every player's value series over [start, end]
	Render(ctx context.Context, players []*Player, start, end contracts.Period) error

	// Announce presents the winner and the full ranking
	Announce(ctx context.Context, winner *Player, standings []Standing) error
}

// Stage is the lifecycle position of a game
type Stage int

const (
	StageNew Stage = iota
	StageSampled
	StageDrafted
	StageValued
	StageDecided
)

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StageSampled:
		return "sampled"
	case StageDrafted:
		return "drafted"
	case StageValued:
		return "valued"
	case StageDecided:
		return "decided"
	default:
		return "unknown"
	}
}

// Options configures a game session
type Options struct {
	Start time.Time // first month, inclusive
	End   time.Time // last month, inclusive
	Quota int       // companies per player
}

// Result is the outcome of a finished game
type Result struct {
	GameID    string
	Winner    *Player
	Standings []Standing
}

// Game is one session: players, catalog, draft and valuation.
// Not safe for concurrent use.
type Game struct {
	ID      string
	Start   contracts.Period
	End     contracts.Period
	Quota   int
	Players []*Player

	catalog  *Catalog
	stage    Stage
	universe contracts.Universe
	prices   contracts.PriceSeriesProvider
	logger   *logger.Logger
}

// New creates a game session
func New(universe contracts.Universe, prices contracts.PriceSeriesProvider, opts Options, log *logger.Logger) (*Game, error) {
	if opts.Quota <= 0 {
		return nil, fmt.Errorf("quota must be positive, got %d", opts.Quota)
	}
	start, end := contracts.PeriodOf(opts.Start), contracts.PeriodOf(opts.End)
	if end.Before(start) {
		return nil, fmt.Errorf("end %s is before start %s", end, start)
	}
	if log == nil {
		log = logger.Nop()
	}

	id := uuid.NewString()
	return &Game{
		ID:       id,
		Start:    start,
		End:      end,
		Quota:    opts.Quota,
		catalog:  NewCatalog(),
		universe: universe,
		prices:   prices,
		logger:   log.WithGame(id),
	}, nil
}

// Stage returns the current lifecycle stage
func (g *Game) Stage() Stage {
	return g.stage
}

// AddPlayer registers a player; registration order is draft order and tie-break order
func (g *Game) AddPlayer(name string, budget float64) (*Player, error) {
	if g.stage != StageNew {
		return nil, fmt.Errorf("%w: players cannot join a %s game", ErrInvalidPlayer, g.stage)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	}
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPlayer, name)
		}
	}
	if budget < 0 {
		return nil, fmt.Errorf("%w: negative budget for %s", ErrInvalidPlayer, name)
	}

	p := NewPlayer(name, budget)
	g.Players = append(g.Players, p)
	return p, nil
}

// Sample draws quota × players companies into the catalog
func (g *Game) Sample(ctx context.Context) error {
	if g.stage != StageNew {
		return fmt.Errorf("cannot sample a %s game", g.stage)
	}
	if len(g.Players) == 0 {
		return fmt.Errorf("%w: no players registered", ErrInvalidPlayer)
	}

	n := g.Quota * len(g.Players)
	if err := g.catalog.Sample(ctx, g.universe, n); err != nil {
		return err
	}

	g.stage = StageSampled
	g.logger.WithFields(map[string]interface{}{
		"players": len(g.Players),
		"quota":   g.Quota,
		"catalog": n,
	}).Info("Catalog sampled")
	return nil
}

// Catalog exposes the remaining companies
func (g *Game) Catalog() *Catalog {
	return g.catalog
}

// Draft runs the pick rounds until every player holds quota companies
func (g *Game) Draft(ctx context.Context, chooser Chooser) error {
	if g.stage != StageSampled {
		return fmt.Errorf("cannot draft a %s game", g.stage)
	}

	d, err := NewDraft(g.catalog, g.Players, g.Quota)
	if err != nil {
		return err
	}
	if err := d.Run(ctx, chooser); err != nil {
		return err
	}

	g.stage = StageDrafted
	for _, p := range g.Players {
		g.logger.WithFields(map[string]interface{}{
			"player":   p.Name,
			"holdings": symbols(p.Holdings),
		}).Info("Draft complete")
	}
	return nil
}

// Drafted returns every drafted company in registration then pick order
func (g *Game) Drafted() []contracts.Company {
	var out []contracts.Company
	for _, p := range g.Players {
		out = append(out, p.Holdings...)
	}
	return out
}

// Valuate fetches prices for the drafted companies and prices every portfolio
func (g *Game) Valuate(ctx context.Context) error {
	if g.stage != StageDrafted {
		return fmt.Errorf("cannot valuate a %s game", g.stage)
	}

	drafted := g.Drafted()
	ids := make([]int64, len(drafted))
	for i, c := range drafted {
		ids[i] = c.ID
	}

	rows, err := g.prices.Fetch(ctx, ids, g.Start.Time(), g.End.Time())
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	points := contracts.DedupePricePoints(contracts.FilterPricePoints(rows, ids, g.Start, g.End))

	g.logger.WithFields(map[string]interface{}{
		"companies": len(ids),
		"rows":      len(rows),
		"points":    len(points),
	}).Debug("Prices fetched")

	valuations := make([]Valuation, len(g.Players))
	for i, p := range g.Players {
		v, err := Valuate(points, p.Holdings, p.Budget, g.Start)
		if err != nil {
			var missing *MissingStartPriceError
			if errors.As(err, &missing) {
				g.logger.WithFields(map[string]interface{}{
					"player":  p.Name,
					"company": missing.Company.Symbol,
					"period":  missing.Period.String(),
				}).Error("Missing start price")
			}
			return fmt.Errorf("valuate %s: %w", p.Name, err)
		}
		valuations[i] = v
	}

	// all or nothing: players are only updated once every portfolio priced
	for i, p := range g.Players {
		p.Shares = valuations[i].Shares
		p.Series = valuations[i].Series
	}
	g.stage = StageValued
	return nil
}

// Decide picks the winner and ranks all players
func (g *Game) Decide() (*Result, error) {
	if g.stage != StageValued && g.stage != StageDecided {
		return nil, fmt.Errorf("cannot decide a %s game", g.stage)
	}

	winner, err := Winner(g.Players, g.End)
	if err != nil {
		return nil, err
	}

	g.stage = StageDecided
	res := &Result{GameID: g.ID, Winner: winner, Standings: Standings(g.Players, g.End)}
	value, _ := winner.ValueAt(g.End)
	g.logger.WithFields(map[string]interface{}{
		"winner": winner.Name,
		"value":  value,
	}).Info("Game decided")
	return res, nil
}

// Run takes a game with registered players through to the announcement
func (g *Game) Run(ctx context.Context, chooser Chooser, renderer Renderer) (*Result, error) {
	if err := g.Sample(ctx); err != nil {
		return nil, err
	}
	if err := g.Draft(ctx, chooser); err != nil {
		return nil, err
	}
	return g.Finish(ctx, renderer)
}

// Finish valuates a drafted game, renders it and announces the winner
func (g *Game) Finish(ctx context.Context, renderer Renderer) (*Result, error) {
	if err := g.Valuate(ctx); err != nil {
		return nil, err
	}
	if renderer != nil {
		if err := renderer.Render(ctx, g.Players, g.Start, g.End); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}

	res, err := g.Decide()
	if err != nil {
		return nil, err
	}
	if renderer != nil {
		if err := renderer.Announce(ctx, res.Winner, res.Standings); err != nil {
			return nil, fmt.Errorf("announce: %w", err)
		}
	}
	return res, nil
}

func symbols(companies []contracts.Company) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Symbol
	}
	return out
}

package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpick/internal/contracts"
)

var (
	jan2014 = time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan2015 = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func newTestGame(t *testing.T, universe contracts.Universe, prices contracts.PriceSeriesProvider, quota int, names ...string) *Game {
	t.Helper()
	g, err := New(universe, prices, Options{Start: jan2014, End: jan2015, Quota: quota}, nil)
	require.NoError(t, err)
	for _, n := range names {
		_, err := g.AddPlayer(n, 1000)
		require.NoError(t, err)
	}
	return g
}

// two players, one pick each: A doubles, B halves
func TestGame_Scenario_WinnerByEndValue(t *testing.T) {
	universe := NewStaticUniverse(companies("A", "B"), 11)
	prices := StaticPrices{
		{CompanyID: 1, Period: month(2014, time.January), Price: 10},
		{CompanyID: 2, Period: month(2014, time.January), Price: 10},
		{CompanyID: 1, Period: month(2015, time.January), Price: 20},
		{CompanyID: 2, Period: month(2015, time.January), Price: 5},
	}
	g := newTestGame(t, universe, prices, 1, "Player1", "Player2")

	renderer := &recordingRenderer{}
	res, err := g.Run(context.Background(), &scriptedChooser{answers: []string{"A", "B"}}, renderer)
	require.NoError(t, err)

	p1, p2 := g.Players[0], g.Players[1]
	assert.InDelta(t, 100, p1.Shares[1], 1e-9)
	assert.InDelta(t, 100, p2.Shares[2], 1e-9)

	v1, _ := p1.ValueAt(g.End)
	v2, _ := p2.ValueAt(g.End)
	assert.InDelta(t, 2000, v1, 1e-9)
	assert.InDelta(t, 500, v2, 1e-9)

	assert.Equal(t, "Player1", res.Winner.Name)
	assert.Equal(t, g.ID, res.GameID)
	assert.Equal(t, p1, renderer.winner)
	assert.Len(t, renderer.rendered, 2)
	assert.Equal(t, "Player2", renderer.standings[1].Player)
	assert.Equal(t, StageDecided, g.Stage())
}

func TestGame_Scenario_UniverseTooSmall(t *testing.T) {
	g := newTestGame(t, NewStaticUniverse(companies("A"), 1), StaticPrices{}, 1, "Player1", "Player2")

	err := g.Sample(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientEntities)
	assert.Equal(t, StageNew, g.Stage())
}

func TestGame_Scenario_TakenIndexIsReasked(t *testing.T) {
	universe := NewStaticUniverse(companies("A", "B"), 5)
	g := newTestGame(t, universe, StaticPrices{}, 1, "Player1", "Player2")
	require.NoError(t, g.Sample(context.Background()))

	chooser := &scriptedChooser{answers: []string{"#0", "#0", "#1"}}
	require.NoError(t, g.Draft(context.Background(), chooser))

	assert.Equal(t, []string{"Player2"}, chooser.rejected)
	assert.Equal(t, []string{"Player1", "Player2", "Player2"}, chooser.asked)
	assert.Len(t, g.Players[1].Holdings, 1)
}

func TestGame_Scenario_TieGoesToFirstRegistered(t *testing.T) {
	universe := NewStaticUniverse(companies("A", "B"), 9)
	prices := StaticPrices{
		{CompanyID: 1, Period: month(2014, time.January), Price: 10},
		{CompanyID: 2, Period: month(2014, time.January), Price: 40},
		{CompanyID: 1, Period: month(2015, time.January), Price: 15},
		{CompanyID: 2, Period: month(2015, time.January), Price: 60},
	}
	g := newTestGame(t, universe, prices, 1, "Player1", "Player2")

	res, err := g.Run(context.Background(), &scriptedChooser{answers: []string{"B", "A"}}, nil)
	require.NoError(t, err)

	v1, _ := g.Players[0].ValueAt(g.End)
	v2, _ := g.Players[1].ValueAt(g.End)
	require.InDelta(t, v1, v2, 1e-9)
	assert.Equal(t, "Player1", res.Winner.Name)
}

func TestGame_DuplicateRowsKeepFirst(t *testing.T) {
	universe := NewStaticUniverse(companies("A"), 1)
	prices := StaticPrices{
		{CompanyID: 1, Period: month(2014, time.January), Price: 10},
		{CompanyID: 1, Period: month(2014, time.January), Price: 1000},
		{CompanyID: 1, Period: month(2015, time.January), Price: 30},
		{CompanyID: 1, Period: month(2015, time.January), Price: 1},
	}
	g := newTestGame(t, universe, prices, 1, "Solo")

	res, err := g.Run(context.Background(), AutoChooser{}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3000, res.Standings[0].Value, 1e-9)
}

func TestGame_MissingStartPriceAborts(t *testing.T) {
	universe := NewStaticUniverse(companies("A", "B"), 2)
	prices := StaticPrices{
		{CompanyID: 1, Period: month(2014, time.January), Price: 10},
		{CompanyID: 2, Period: month(2014, time.February), Price: 10},
		{CompanyID: 1, Period: month(2015, time.January), Price: 20},
		{CompanyID: 2, Period: month(2015, time.January), Price: 20},
	}
	g := newTestGame(t, universe, prices, 1, "Player1", "Player2")

	_, err := g.Run(context.Background(), &scriptedChooser{answers: []string{"A", "B"}}, nil)
	require.Error(t, err)

	var missing *MissingStartPriceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "B", missing.Company.Symbol)
	assert.Contains(t, err.Error(), "Player2")

	// no player is partially priced
	assert.Nil(t, g.Players[0].Series)
	assert.Equal(t, StageDrafted, g.Stage())
}

func TestGame_ProviderFailure(t *testing.T) {
	universe := NewStaticUniverse(companies("A"), 1)
	g := newTestGame(t, universe, failingPrices{err: errors.New("dial tcp: refused")}, 1, "Solo")

	_, err := g.Run(context.Background(), AutoChooser{}, nil)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "refused")
}

func TestGame_NoEndPeriodData(t *testing.T) {
	universe := NewStaticUniverse(companies("A"), 1)
	prices := StaticPrices{{CompanyID: 1, Period: month(2014, time.January), Price: 10}}
	g := newTestGame(t, universe, prices, 1, "Solo")

	_, err := g.Run(context.Background(), AutoChooser{}, nil)
	assert.ErrorIs(t, err, ErrNoEndPeriodData)
}

func TestGame_PricesOutsideWindowIgnored(t *testing.T) {
	universe := NewStaticUniverse(companies("A"), 1)
	prices := StaticPrices{
		{CompanyID: 1, Period: month(2013, time.December), Price: 1},
		{CompanyID: 1, Period: month(2014, time.January), Price: 10},
		{CompanyID: 1, Period: month(2015, time.January), Price: 20},
		{CompanyID: 1, Period: month(2015, time.February), Price: 99},
	}
	g := newTestGame(t, universe, prices, 1, "Solo")

	_, err := g.Run(context.Background(), AutoChooser{}, nil)
	require.NoError(t, err)
	require.Len(t, g.Players[0].Series, 2)
	assert.Equal(t, g.Start, g.Players[0].Series[0].Period)
	assert.Equal(t, g.End, g.Players[0].Series[1].Period)
}

func TestGame_AddPlayer(t *testing.T) {
	g := newTestGame(t, NewStaticUniverse(companies("A", "B"), 1), StaticPrices{}, 1, "Ann")

	_, err := g.AddPlayer("  ", 1000)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	_, err = g.AddPlayer("ann", 1000)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	_, err = g.AddPlayer("Bob", -5)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	p, err := g.AddPlayer("Bob", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBudget, p.Budget)

	require.NoError(t, g.Sample(context.Background()))
	_, err = g.AddPlayer("Cid", 1000)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestGame_StageOrder(t *testing.T) {
	g := newTestGame(t, NewStaticUniverse(companies("A"), 1), StaticPrices{}, 1, "Solo")

	assert.Error(t, g.Draft(context.Background(), AutoChooser{}))
	assert.Error(t, g.Valuate(context.Background()))
	_, err := g.Decide()
	assert.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil, Options{Start: jan2014, End: jan2015, Quota: 0}, nil)
	assert.Error(t, err)

	_, err = New(nil, nil, Options{Start: jan2015, End: jan2014, Quota: 1}, nil)
	assert.Error(t, err)

	g, err := New(nil, nil, Options{Start: jan2014, End: jan2014, Quota: 1}, nil)
	require.NoError(t, err)
	assert.Len(t, g.ID, 36)
}

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

func TestValuate_EqualWeightAllocation(t *testing.T) {
	held := companies("A", "B", "C")
	start := month(2014, time.January)

	points := []contracts.PricePoint{
		{CompanyID: 1, Period: start, Price: 13.37},
		{CompanyID: 2, Period: start, Price: 250.1},
		{CompanyID: 3, Period: start, Price: 0.77},
		{CompanyID: 1, Period: month(2014, time.February), Price: 14},
		{CompanyID: 2, Period: month(2014, time.February), Price: 240},
		{CompanyID: 3, Period: month(2014, time.February), Price: 0.8},
	}

	v, err := Valuate(points, held, 1000, start)
	require.NoError(t, err)

	var invested float64
	for _, p := range points[:3] {
		invested += v.Shares[p.CompanyID] * p.Price
	}
	assert.InDelta(t, 1000, invested, 1e-9)

	require.Len(t, v.Series, 2)
	assert.InDelta(t, 1000, v.Series[0].Total, 1e-9)
	assert.Equal(t, month(2014, time.February), v.Series[1].Period)
	assert.InDelta(t, 14*v.Shares[1]+240*v.Shares[2]+0.8*v.Shares[3], v.Series[1].Total, 1e-9)
}

func TestValuate_DraftedHoldingsGetBudgetOverQuota(t *testing.T) {
	const quota = 2
	cat := sampledCatalog(t, 4, "A", "B", "C", "D")
	p := NewPlayer("Ann", 1000)

	d, err := NewDraft(cat, []*Player{p}, quota)
	require.NoError(t, err)
	require.NoError(t, d.Run(context.Background(), AutoChooser{}))
	require.Len(t, p.Holdings, quota)

	start := month(2014, time.January)
	var points []contracts.PricePoint
	for _, c := range p.Holdings {
		points = append(points, contracts.PricePoint{CompanyID: c.ID, Period: start, Price: 10})
	}

	v, err := Valuate(points, p.Holdings, p.Budget, start)
	require.NoError(t, err)
	for _, c := range p.Holdings {
		assert.InDelta(t, p.Budget/quota, v.Shares[c.ID]*10, 1e-9, "%s", c)
	}
}

func TestValuate_OrderedByPeriod(t *testing.T) {
	held := companies("A")
	start := month(2019, time.November)
	points := []contracts.PricePoint{
		{CompanyID: 1, Period: month(2020, time.February), Price: 4},
		{CompanyID: 1, Period: start, Price: 1},
		{CompanyID: 1, Period: month(2020, time.January), Price: 3},
		{CompanyID: 1, Period: month(2019, time.December), Price: 2},
	}

	v, err := Valuate(points, held, 100, start)
	require.NoError(t, err)

	require.Len(t, v.Series, 4)
	for i, want := range []float64{100, 200, 300, 400} {
		assert.InDelta(t, want, v.Series[i].Total, 1e-9)
	}
	assert.Equal(t, "2019-11", v.Series[0].Period.String())
	assert.Equal(t, "2020-02", v.Series[3].Period.String())
}

func TestValuate_Idempotent(t *testing.T) {
	held := companies("A", "B")
	start := month(2020, time.January)
	points := []contracts.PricePoint{
		{CompanyID: 1, Period: start, Price: 3},
		{CompanyID: 2, Period: start, Price: 7},
		{CompanyID: 2, Period: month(2020, time.March), Price: 9},
		{CompanyID: 1, Period: month(2020, time.March), Price: 1},
	}

	first, err := Valuate(points, held, 1000, start)
	require.NoError(t, err)
	second, err := Valuate(points, held, 1000, start)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValuate_MissingStartPrice(t *testing.T) {
	held := companies("A", "B")
	start := month(2020, time.January)
	points := []contracts.PricePoint{
		{CompanyID: 1, Period: start, Price: 3},
		{CompanyID: 2, Period: month(2020, time.February), Price: 7},
	}

	v, err := Valuate(points, held, 1000, start)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStartPrice)
	assert.Empty(t, v.Series, "no partial result")
	assert.Nil(t, v.Shares)

	var missing *MissingStartPriceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "B", missing.Company.Symbol)
	assert.Equal(t, start, missing.Period)
	assert.Contains(t, err.Error(), "2020-01")
}

func TestValuate_ZeroStartPriceIsMissing(t *testing.T) {
	held := companies("A")
	start := month(2020, time.January)
	_, err := Valuate([]contracts.PricePoint{{CompanyID: 1, Period: start, Price: 0}}, held, 1000, start)
	assert.ErrorIs(t, err, ErrMissingStartPrice)
}

func TestValuate_IgnoresForeignCompanies(t *testing.T) {
	held := companies("A")
	start := month(2020, time.January)
	points := []contracts.PricePoint{
		{CompanyID: 1, Period: start, Price: 10},
		{CompanyID: 42, Period: start, Price: 99},
		{CompanyID: 42, Period: month(2020, time.June), Price: 99},
	}

	v, err := Valuate(points, held, 500, start)
	require.NoError(t, err)
	require.Len(t, v.Series, 1)
	assert.NotContains(t, v.Series[0].Values, int64(42))
	assert.NotContains(t, v.Shares, int64(42))
}

func TestValuate_NoHoldings(t *testing.T) {
	v, err := Valuate(nil, nil, 1000, month(2020, time.January))
	require.NoError(t, err)
	assert.Empty(t, v.Series)
}

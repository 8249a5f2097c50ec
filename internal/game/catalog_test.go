package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpick/internal/contracts"
)

func TestCatalog_Sample(t *testing.T) {
	u := NewStaticUniverse(companies("AAPL", "MSFT", "GOOG", "AMZN", "META"), 42)
	c := NewCatalog()

	require.NoError(t, c.Sample(context.Background(), u, 3))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []int{0, 1, 2}, c.Indexes())

	seen := map[int64]bool{}
	for _, company := range c.Available() {
		assert.False(t, seen[company.ID], "company sampled twice: %s", company)
		seen[company.ID] = true
	}
}

func TestCatalog_SampleInsufficient(t *testing.T) {
	// one company, two requested
	u := NewStaticUniverse(companies("AAPL"), 1)
	c := NewCatalog()

	err := c.Sample(context.Background(), u, 2)
	assert.ErrorIs(t, err, ErrInsufficientEntities)
	assert.Equal(t, 0, c.Len())
}

func TestCatalog_SampleProviderError(t *testing.T) {
	c := NewCatalog()
	err := c.Sample(context.Background(), failingUniverse{err: errors.New("connection refused")}, 2)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCatalog_Remove(t *testing.T) {
	u := NewStaticUniverse(companies("AAPL", "MSFT"), 7)
	c := NewCatalog()
	require.NoError(t, c.Sample(context.Background(), u, 2))

	want := c.Available()[1]
	got, err := c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, c.Contains(1))
	assert.Equal(t, []int{0}, c.Indexes())

	// removed indexes are never handed out again
	_, err = c.Remove(1)
	assert.ErrorIs(t, err, ErrUnknownIndex)

	_, err = c.Remove(99)
	assert.ErrorIs(t, err, ErrUnknownIndex)
}

func TestCatalog_AvailableIsACopy(t *testing.T) {
	u := NewStaticUniverse(companies("AAPL", "MSFT"), 7)
	c := NewCatalog()
	require.NoError(t, c.Sample(context.Background(), u, 2))

	avail := c.Available()
	delete(avail, 0)
	avail[5] = contracts.Company{ID: 99}

	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains(0))
	assert.False(t, c.Contains(5))
}

package presentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

type countingRenderer struct {
	renders, announces int
	err                error
}

func (c *countingRenderer) Render(context.Context, []*game.Player, contracts.Period, contracts.Period) error {
	c.renders++
	return c.err
}

func (c *countingRenderer) Announce(context.Context, *game.Player, []game.Standing) error {
	c.announces++
	return c.err
}

func TestMulti(t *testing.T) {
	a, b := &countingRenderer{}, &countingRenderer{}
	m := Multi{a, b}

	assert.NoError(t, m.Render(context.Background(), nil, contracts.Period{}, contracts.Period{}))
	assert.NoError(t, m.Announce(context.Background(), nil, nil))
	assert.Equal(t, 1, a.renders)
	assert.Equal(t, 1, b.announces)
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	a, b := &countingRenderer{err: boom}, &countingRenderer{}

	err := Multi{a, b}.Render(context.Background(), nil, contracts.Period{}, contracts.Period{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, b.renders)
}

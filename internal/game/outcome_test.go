package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerWorth(name string, values map[string]float64) *Player {
	p := NewPlayer(name, 0)
	for period, total := range values {
		t, _ := time.Parse("2006-01", period)
		p.Series = append(p.Series, PeriodValue{Period: month(t.Year(), t.Month()), Total: total})
	}
	return p
}

func TestWinner(t *testing.T) {
	end := month(2024, time.January)

	tests := []struct {
		name    string
		players []*Player
		want    string
		wantErr error
	}{
		{
			name: "highest end value wins",
			players: []*Player{
				playerWorth("Ann", map[string]float64{"2024-01": 900, "2023-12": 5000}),
				playerWorth("Bob", map[string]float64{"2024-01": 1200}),
			},
			want: "Bob",
		},
		{
			name: "tie goes to first registered",
			players: []*Player{
				playerWorth("Ann", map[string]float64{"2024-01": 1500}),
				playerWorth("Bob", map[string]float64{"2024-01": 1500}),
			},
			want: "Ann",
		},
		{
			name: "players without end value do not compete",
			players: []*Player{
				playerWorth("Ann", map[string]float64{"2023-12": 9999}),
				playerWorth("Bob", map[string]float64{"2024-01": 1}),
			},
			want: "Bob",
		},
		{
			name: "no end data",
			players: []*Player{
				playerWorth("Ann", map[string]float64{"2023-12": 1}),
			},
			wantErr: ErrNoEndPeriodData,
		},
		{
			name:    "no players",
			wantErr: ErrNoEndPeriodData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Winner(tt.players, end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestStandings(t *testing.T) {
	end := month(2024, time.January)
	players := []*Player{
		playerWorth("Ann", map[string]float64{"2024-01": 800}),
		playerWorth("Bob", map[string]float64{"2023-06": 800}),
		playerWorth("Cid", map[string]float64{"2024-01": 1200}),
		playerWorth("Dee", map[string]float64{"2024-01": 800}),
	}

	got := Standings(players, end)
	require.Len(t, got, 4)

	names := []string{got[0].Player, got[1].Player, got[2].Player, got[3].Player}
	assert.Equal(t, []string{"Cid", "Ann", "Dee", "Bob"}, names)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 4, got[3].Rank)
	assert.False(t, got[3].Priced)
}

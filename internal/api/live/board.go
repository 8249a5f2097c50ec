package live

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/stockpick/internal/audit"
	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
	"github.com/wonny/stockpick/internal/presentation"
)

// Game status values reported by the board
const (
	StatusWaiting   = "waiting"
	StatusRendering = "rendering"
	StatusFinished  = "finished"
)

// PlayerView is the public part of a player
type PlayerView struct {
	Name     string   `json:"name"`
	Budget   float64  `json:"budget"`
	Holdings []string `json:"holdings"`
}

// Snapshot is the current state served by GET /api/game
type Snapshot struct {
	GameID    string               `json:"game_id"`
	Status    string               `json:"status"`
	Start     string               `json:"start,omitempty"`
	End       string               `json:"end,omitempty"`
	Players   []PlayerView         `json:"players"`
	Frames    []presentation.Frame `json:"frames"`
	Winner    string               `json:"winner,omitempty"`
	Standings []game.Standing      `json:"standings,omitempty"`
	Reports   []audit.Report       `json:"reports,omitempty"`
}

// Message is one websocket event
type Message struct {
	Type      string              `json:"type"` // "start", "frame" or "result"
	GameID    string              `json:"game_id"`
	Frame     *presentation.Frame `json:"frame,omitempty"`
	Players   []PlayerView        `json:"players,omitempty"`
	Winner    string              `json:"winner,omitempty"`
	Display   string              `json:"display,omitempty"` // winner value as "$1,234.56"
	Standings []game.Standing     `json:"standings,omitempty"`
	Reports   []audit.Report      `json:"reports,omitempty"`
}

// Board is the live front end: it keeps the latest game state and streams it to viewers.
// Implements game.Renderer.
type Board struct {
	mu      sync.RWMutex
	snap    Snapshot
	players []*game.Player
	hub     *Hub
	delay   time.Duration
}

// NewBoard creates a board broadcasting through hub; delay paces the frames
func NewBoard(hub *Hub, delay time.Duration) *Board {
	return &Board{hub: hub, delay: delay, snap: Snapshot{Status: StatusWaiting}}
}

// Begin resets the board for a new game
func (b *Board) Begin(gameID string) {
	b.mu.Lock()
	b.snap = Snapshot{GameID: gameID, Status: StatusWaiting}
	b.players = nil
	b.mu.Unlock()
	b.hub.Reset()
}

// Snapshot returns a copy of the current state
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.snap
	s.Players = append([]PlayerView(nil), b.snap.Players...)
	s.Frames = append([]presentation.Frame(nil), b.snap.Frames...)
	s.Standings = append([]game.Standing(nil), b.snap.Standings...)
	s.Reports = append([]audit.Report(nil), b.snap.Reports...)
	return s
}

// Render streams one frame per month to the viewers
func (b *Board) Render(ctx context.Context, players []*game.Player, start, end contracts.Period) error {
	views := make([]PlayerView, len(players))
	for i, p := range players {
		holdings := make([]string, len(p.Holdings))
		for j, c := range p.Holdings {
			holdings[j] = c.Symbol
		}
		views[i] = PlayerView{Name: p.Name, Budget: p.Budget, Holdings: holdings}
	}

	b.mu.Lock()
	b.snap.Status = StatusRendering
	b.snap.Start = start.String()
	b.snap.End = end.String()
	b.snap.Players = views
	b.snap.Frames = nil
	b.players = players
	gameID := b.snap.GameID
	b.mu.Unlock()

	if err := b.hub.Broadcast(Message{Type: "start", GameID: gameID, Players: views}); err != nil {
		return err
	}

	frames := presentation.Frames(players)
	for i := range frames {
		f := frames[i]
		b.mu.Lock()
		b.snap.Frames = append(b.snap.Frames, f)
		b.mu.Unlock()

		if err := b.hub.Broadcast(Message{Type: "frame", GameID: gameID, Frame: &f}); err != nil {
			return err
		}

		if b.delay > 0 && i < len(frames)-1 {
			timer := time.NewTimer(b.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}

// Announce publishes the winner and the ranking
func (b *Board) Announce(_ context.Context, winner *game.Player, standings []game.Standing) error {
	msg := Message{Type: "result", Standings: standings}
	if winner != nil {
		msg.Winner = winner.Name
		for _, s := range standings {
			if s.Player == winner.Name {
				msg.Display = presentation.FormatMoney(s.Value)
			}
		}
	}

	b.mu.Lock()
	msg.Reports = audit.AnalyzeAll(b.players)
	b.snap.Status = StatusFinished
	b.snap.Winner = msg.Winner
	b.snap.Standings = standings
	b.snap.Reports = msg.Reports
	msg.GameID = b.snap.GameID
	b.mu.Unlock()

	return b.hub.Broadcast(msg)
}

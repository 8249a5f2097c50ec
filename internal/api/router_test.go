package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpick/internal/api/handlers"
	"github.com/wonny/stockpick/internal/api/live"
	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
	"github.com/wonny/stockpick/pkg/logger"
)

type fakeCompanies struct {
	companies []contracts.Company
	err       error
}

func (f *fakeCompanies) All(context.Context) ([]contracts.Company, error) {
	return f.companies, f.err
}

type fixture struct {
	server *httptest.Server
	board  *live.Board
	hub    *live.Hub
}

func newFixture(t *testing.T, companies handlers.CompanyLister) *fixture {
	t.Helper()

	log := logger.Nop()
	hub := live.NewHub(log)
	board := live.NewBoard(hub, 0)
	srv := httptest.NewServer(NewRouter(handlers.NewGameHandler(board, companies, log), hub, log))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &fixture{server: srv, board: board, hub: hub}
}

func (f *fixture) get(t *testing.T, path string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) live.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg live.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func playGame(t *testing.T, b *live.Board) {
	t.Helper()
	jan := contracts.Period{Year: 2014, Month: time.January}
	feb := contracts.Period{Year: 2014, Month: time.February}

	ann := game.NewPlayer("Ann", 0)
	ann.Holdings = []contracts.Company{{ID: 1, Symbol: "AAPL"}}
	ann.Series = []game.PeriodValue{{Period: jan, Total: 1000}, {Period: feb, Total: 2000}}
	bob := game.NewPlayer("Bob", 0)
	bob.Holdings = []contracts.Company{{ID: 2, Symbol: "IBM"}}
	bob.Series = []game.PeriodValue{{Period: jan, Total: 1000}, {Period: feb, Total: 500}}

	require.NoError(t, b.Render(context.Background(), []*game.Player{ann, bob}, jan, feb))
	require.NoError(t, b.Announce(context.Background(), ann, []game.Standing{
		{Rank: 1, Player: "Ann", Value: 2000, Priced: true},
		{Rank: 2, Player: "Bob", Value: 500, Priced: true},
	}))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	var body map[string]interface{}
	assert.Equal(t, http.StatusOK, f.get(t, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetGame(t *testing.T) {
	f := newFixture(t, nil)
	f.board.Begin("g-1")

	var snap live.Snapshot
	assert.Equal(t, http.StatusOK, f.get(t, "/api/game", &snap))
	assert.Equal(t, "g-1", snap.GameID)
	assert.Equal(t, live.StatusWaiting, snap.Status)

	playGame(t, f.board)

	assert.Equal(t, http.StatusOK, f.get(t, "/api/game", &snap))
	assert.Equal(t, live.StatusFinished, snap.Status)
	assert.Equal(t, "Ann", snap.Winner)
	assert.Len(t, snap.Frames, 2)
}

func TestGetStandings(t *testing.T) {
	f := newFixture(t, nil)
	f.board.Begin("g-1")
	assert.Equal(t, http.StatusConflict, f.get(t, "/api/game/standings", nil))

	playGame(t, f.board)

	var body struct {
		Winner    string          `json:"winner"`
		Standings []game.Standing `json:"standings"`
	}
	assert.Equal(t, http.StatusOK, f.get(t, "/api/game/standings", &body))
	assert.Equal(t, "Ann", body.Winner)
	require.Len(t, body.Standings, 2)
	assert.Equal(t, "Bob", body.Standings[1].Player)
}

func TestGetPlayer(t *testing.T) {
	f := newFixture(t, nil)
	f.board.Begin("g-1")
	playGame(t, f.board)

	var body struct {
		Player live.PlayerView `json:"player"`
		Series []struct {
			Period string  `json:"period"`
			Value  float64 `json:"value"`
		} `json:"series"`
	}
	assert.Equal(t, http.StatusOK, f.get(t, "/api/game/players/bob", &body))
	assert.Equal(t, []string{"IBM"}, body.Player.Holdings)
	require.Len(t, body.Series, 2)
	assert.Equal(t, "2014-02", body.Series[1].Period)
	assert.Equal(t, 500.0, body.Series[1].Value)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/game/players/nobody", nil))
}

func TestGetCompanies(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, newFixture(t, nil).get(t, "/api/companies", nil))

	f := newFixture(t, &fakeCompanies{companies: []contracts.Company{{ID: 1, Name: "Apple", Symbol: "AAPL"}}})
	var body struct {
		Count     int                 `json:"count"`
		Companies []contracts.Company `json:"companies"`
	}
	assert.Equal(t, http.StatusOK, f.get(t, "/api/companies", &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "AAPL", body.Companies[0].Symbol)

	failing := newFixture(t, &fakeCompanies{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, failing.get(t, "/api/companies", nil))
}

func TestWebSocket_StreamsGame(t *testing.T) {
	f := newFixture(t, nil)
	f.board.Begin("g-1")
	conn := f.dial(t)

	playGame(t, f.board)

	start := readMessage(t, conn)
	assert.Equal(t, "start", start.Type)
	assert.Equal(t, "g-1", start.GameID)
	assert.Len(t, start.Players, 2)

	for _, label := range []string{"2014-01", "2014-02"} {
		msg := readMessage(t, conn)
		assert.Equal(t, "frame", msg.Type)
		require.NotNil(t, msg.Frame)
		assert.Equal(t, label, msg.Frame.Label)
	}

	result := readMessage(t, conn)
	assert.Equal(t, "result", result.Type)
	assert.Equal(t, "Ann", result.Winner)
	assert.Equal(t, "$2,000.00", result.Display)
	assert.Len(t, result.Standings, 2)
}

func TestWebSocket_LateViewerGetsReplay(t *testing.T) {
	f := newFixture(t, nil)
	f.board.Begin("g-1")
	playGame(t, f.board)

	conn := f.dial(t)
	types := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		types = append(types, readMessage(t, conn).Type)
	}
	assert.Equal(t, []string{"start", "frame", "frame", "result"}, types)
}

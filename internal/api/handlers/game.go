package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/stockpick/internal/api/live"
	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/pkg/logger"
)

// CompanyLister lists the stored companies
type CompanyLister interface {
	All(ctx context.Context) ([]contracts.Company, error)
}

// GameHandler serves the live game state
// ⭐ SSOT: 게임 API 핸들러는 이 구조체에서만
type GameHandler struct {
	board     *live.Board
	companies CompanyLister
	logger    *logger.Logger
}

// NewGameHandler creates a new game handler; companies may be nil
func NewGameHandler(board *live.Board, companies CompanyLister, log *logger.Logger) *GameHandler {
	return &GameHandler{
		board:     board,
		companies: companies,
		logger:    log,
	}
}

// GetGame returns the current game snapshot
// GET /api/game
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Snapshot())
}

// GetStandings returns the final ranking once the game is decided
// GET /api/game/standings
func (h *GameHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	snap := h.board.Snapshot()
	if snap.Status != live.StatusFinished {
		respondError(w, http.StatusConflict, "Game is not finished")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":   snap.GameID,
		"winner":    snap.Winner,
		"standings": snap.Standings,
	})
}

// GetPlayer returns one player's holdings and value series
// GET /api/game/players/{name}
func (h *GameHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	snap := h.board.Snapshot()

	for _, p := range snap.Players {
		if !strings.EqualFold(p.Name, name) {
			continue
		}
		series := make([]map[string]interface{}, 0, len(snap.Frames))
		for _, f := range snap.Frames {
			if v, ok := f.Values[p.Name]; ok {
				series = append(series, map[string]interface{}{"period": f.Label, "value": v})
			}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"player": p,
			"series": series,
		})
		return
	}

	respondError(w, http.StatusNotFound, "Player not found")
}

// GetCompanies returns every stored company
// GET /api/companies
func (h *GameHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	if h.companies == nil {
		respondError(w, http.StatusServiceUnavailable, "Company store not configured")
		return
	}

	companies, err := h.companies.All(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve companies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/logger"
	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/internal/repository"
	"github.com/freeeve/hexsettlers/internal/service"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// GameHandler handles the game endpoints.
type GameHandler struct {
	svc     *service.SessionService
	seats   *auth.SeatManager
	results repository.ResultRepository
}

// NewGameHandler creates a GameHandler. results may be nil, which disables
// the result endpoints.
func NewGameHandler(svc *service.SessionService, seats *auth.SeatManager, results repository.ResultRepository) *GameHandler {
	return &GameHandler{svc: svc, seats: seats, results: results}
}

// Routes registers the public and seat-token routes on mux, which is
// mounted under /api/v1.
func (h *GameHandler) Routes(mux *http.ServeMux) {
	seatAuth := auth.Middleware(h.seats)
	mux.HandleFunc("POST /games", h.CreateGame)
	mux.HandleFunc("GET /games", h.ListGames)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("GET /games/{id}/board", h.GetBoard)
	mux.HandleFunc("GET /games/{id}/moves", h.ListMoves)
	mux.HandleFunc("GET /games/{id}/view", h.GetView)
	mux.Handle("GET /games/{id}/legal", seatAuth(http.HandlerFunc(h.GetLegal)))
	mux.Handle("POST /games/{id}/actions", seatAuth(http.HandlerFunc(h.SubmitAction)))
	mux.HandleFunc("GET /results", h.ListResults)
	mux.HandleFunc("GET /results/stats", h.StrategyStats)
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListGames handles GET /api/v1/games?status=&limit=
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != model.StatusActive && status != model.StatusFinished {
		writeError(w, http.StatusBadRequest, "status must be active or finished")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.svc.List(r.Context(), status, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if games == nil {
		games = []model.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// GetBoard handles GET /api/v1/games/{id}/board
func (h *GameHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// ListMoves handles GET /api/v1/games/{id}/moves
func (h *GameHandler) ListMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.Moves(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if moves == nil {
		moves = []model.Move{}
	}
	writeJSON(w, http.StatusOK, moves)
}

// GetView handles GET /api/v1/games/{id}/view. A bearer seat token shows
// that seat's hand; without one the caller is a spectator.
func (h *GameHandler) GetView(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	seat := service.Spectator
	if token, ok := auth.BearerToken(r); ok {
		claims, err := h.seats.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims.GameID != gameID {
			writeError(w, http.StatusForbidden, "token is for another game")
			return
		}
		seat = claims.Seat
	}
	view, err := h.svc.View(r.Context(), gameID, seat)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetLegal handles GET /api/v1/games/{id}/legal
func (h *GameHandler) GetLegal(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.seatClaims(w, r)
	if !ok {
		return
	}
	actions, err := h.svc.Legal(r.Context(), claims.GameID, claims.Seat)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if actions == nil {
		actions = []catan.Action{}
	}
	writeJSON(w, http.StatusOK, actions)
}

// SubmitAction handles POST /api/v1/games/{id}/actions. The seat comes
// from the token, never from the body.
func (h *GameHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.seatClaims(w, r)
	if !ok {
		return
	}
	var a catan.Action
	if err := decodeJSON(r, &a); err != nil || a.Kind == "" {
		writeError(w, http.StatusBadRequest, "invalid action")
		return
	}

	ctx := logger.WithGameID(r.Context(), claims.GameID)
	l := logger.ForRequest(ctx)
	l.Debug().Int("seat", claims.Seat).Str("action", a.Describe()).Msg("Action submitted")

	view, err := h.svc.Act(ctx, claims.GameID, claims.Seat, a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// seatClaims returns the token claims, rejecting tokens for another game.
func (h *GameHandler) seatClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing seat token")
		return nil, false
	}
	if claims.GameID != r.PathValue("id") {
		writeError(w, http.StatusForbidden, "token is for another game")
		return nil, false
	}
	return claims, true
}

// ListResults handles GET /api/v1/results?limit=
func (h *GameHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, http.StatusNotFound, "results are not recorded")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	results, err := h.results.ListResults(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if results == nil {
		results = []model.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

// StrategyStats handles GET /api/v1/results/stats
func (h *GameHandler) StrategyStats(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, http.StatusNotFound, "results are not recorded")
		return
	}
	stats, err := h.results.StrategyStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if stats == nil {
		stats = []model.StrategyStats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/arbiter/internal/domain/tournament"
	"github.com/okian/arbiter/internal/engine"
	"github.com/okian/arbiter/pkg/metrics"
)

// Engine bundles the record-keeping operations the handlers depend on.
// Using an interface keeps the handler layer loosely coupled to the
// engine implementation.
type Engine interface {
	AddTournament(ctx context.Context, tournamentID, maxGamesPerPlayer int, location string) error
	AddGame(ctx context.Context, tournamentID, firstPlayer, secondPlayer int, winner engine.Winner, playTime int) error
	EndTournament(ctx context.Context, tournamentID int) error
	RemoveTournament(ctx context.Context, tournamentID int) error
	RemovePlayer(ctx context.Context, playerID int) error
	AveragePlayTime(ctx context.Context, playerID int) (float64, error)
	TournamentStats(ctx context.Context, tournamentID int) (tournament.Stats, error)
	SavePlayerLevels(ctx context.Context, w io.Writer) error
	SaveTournamentStatistics(ctx context.Context, w io.Writer) error
}

// Server wires HTTP routes for the record-keeping API.
type Server struct {
	engine Engine
}

// NewServer creates a new API server around the engine.
func NewServer(e Engine) *Server {
	return &Server{engine: e}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", wrap(s.handleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /tournaments", wrap(s.handleAddTournament, "tournaments"))
	mux.HandleFunc("POST /tournaments/{id}/end", wrap(s.handleEndTournament, "tournament_end"))
	mux.HandleFunc("GET /tournaments/{id}/stats", wrap(s.handleTournamentStats, "tournament_stats"))
	mux.HandleFunc("DELETE /tournaments/{id}", wrap(s.handleRemoveTournament, "tournament_remove"))

	mux.HandleFunc("POST /games", wrap(s.handleAddGame, "games"))

	mux.HandleFunc("DELETE /players/{id}", wrap(s.handleRemovePlayer, "player_remove"))
	mux.HandleFunc("GET /players/{id}/average-time", wrap(s.handleAveragePlayTime, "player_average_time"))

	mux.HandleFunc("GET /reports/levels", wrap(s.handleLevelsReport, "report_levels"))
	mux.HandleFunc("GET /reports/tournaments", wrap(s.handleTournamentsReport, "report_tournaments"))
}

func wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tournamentRequest mirrors the POST /tournaments payload.
type tournamentRequest struct {
	ID                int    `json:"id"`
	MaxGamesPerPlayer int    `json:"max_games_per_player"`
	Location          string `json:"location"`
}

func (s *Server) handleAddTournament(w http.ResponseWriter, r *http.Request) {
	var req tournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.engine.AddTournament(r.Context(), req.ID, req.MaxGamesPerPlayer, req.Location); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": req.ID})
}

// gameRequest mirrors the POST /games payload. Winner is one of
// "first", "second", or "draw".
type gameRequest struct {
	TournamentID int    `json:"tournament_id"`
	FirstPlayer  int    `json:"first_player"`
	SecondPlayer int    `json:"second_player"`
	Winner       string `json:"winner"`
	PlayTime     int    `json:"play_time"`
}

func (s *Server) handleAddGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var winner engine.Winner
	switch req.Winner {
	case "first":
		winner = engine.FirstPlayer
	case "second":
		winner = engine.SecondPlayer
	case "draw":
		winner = engine.Draw
	default:
		writeError(w, http.StatusBadRequest, "winner must be first, second, or draw")
		return
	}
	if err := s.engine.AddGame(r.Context(), req.TournamentID, req.FirstPlayer, req.SecondPlayer, winner, req.PlayTime); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleEndTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.EndTournament(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.RemoveTournament(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTournamentStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stats, err := s.engine.TournamentStats(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"winner":            stats.WinnerID,
		"longest_game_time": stats.LongestGameTime,
		"average_game_time": stats.AverageGameTime,
		"location":          stats.Location,
		"num_games":         stats.NumGames,
		"num_players":       stats.NumPlayers,
	})
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.RemovePlayer(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAveragePlayTime(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	avg, err := s.engine.AveragePlayTime(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"average_play_time": avg})
}

func (s *Server) handleLevelsReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.engine.SavePlayerLevels(r.Context(), w); err != nil {
		writeEngineError(w, err)
	}
}

func (s *Server) handleTournamentsReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.engine.SaveTournamentStatistics(r.Context(), w); err != nil {
		writeEngineError(w, err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidID),
		errors.Is(err, engine.ErrInvalidLocation),
		errors.Is(err, engine.ErrInvalidMaxGames),
		errors.Is(err, engine.ErrInvalidPlayTime),
		errors.Is(err, engine.ErrNilArgument):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrTournamentNotFound),
		errors.Is(err, engine.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrTournamentExists),
		errors.Is(err, engine.ErrGameExists),
		errors.Is(err, engine.ErrTournamentEnded),
		errors.Is(err, engine.ErrExceededGames),
		errors.Is(err, engine.ErrNoGames),
		errors.Is(err, engine.ErrNoTournamentsEnded):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrCapacity):
		status = http.StatusInsufficientStorage
	}
	writeError(w, status, err.Error())
}

// Package engine composes the player and tournament ledgers into the
// public record-keeping operations, owning the compensating-action
// protocol that keeps them consistent across partial failures.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/arbiter/internal/domain/location"
	"github.com/okian/arbiter/internal/domain/player"
	"github.com/okian/arbiter/internal/domain/tournament"
	"github.com/okian/arbiter/pkg/logger"
	"github.com/okian/arbiter/pkg/metrics"
	"github.com/okian/arbiter/pkg/omap"
)

// minID is the smallest valid player or tournament id.
const minID = 1

// Winner designates a game's outcome as submitted by the caller.
type Winner int

const (
	FirstPlayer Winner = iota
	SecondPlayer
	Draw
)

// statuses resolves the submitted outcome into each side's result.
func (w Winner) statuses() (player.Status, player.Status) {
	switch w {
	case FirstPlayer:
		return player.Win, player.Lose
	case SecondPlayer:
		return player.Lose, player.Win
	default:
		return player.Draw, player.Draw
	}
}

// Engine is the transactional record model: one tournament ledger, one
// player ledger, and the running system-wide game count. Atomicity of
// compound operations comes from compensating-action sequencing; the
// mutex serializes the public operations so the engine can sit behind
// concurrent callers such as the HTTP adapter.
type Engine struct {
	mu sync.RWMutex

	tournaments *tournament.Ledger
	players     *player.Ledger
	totalGames  int

	capacity      int
	statsCapacity int
	log           logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCapacity bounds every record store the engine creates. A full
// store rejects further inserts with ErrCapacity, which is what drives
// the rollback paths. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.capacity = n
		}
	}
}

// WithStatsCapacity bounds the per-tournament statistic maps kept by
// every player record. Zero means unbounded.
func WithStatsCapacity(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.statsCapacity = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New constructs an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.tournaments = tournament.NewLedger(tournament.WithCapacity(e.capacity))
	e.players = player.NewLedger(
		player.WithCapacity(e.capacity),
		player.WithStatsCapacity(e.statsCapacity),
	)
	return e
}

// Close releases every record the engine holds. The engine stays usable
// afterwards as if freshly constructed; closing twice is harmless.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tournaments = tournament.NewLedger(tournament.WithCapacity(e.capacity))
	e.players = player.NewLedger(
		player.WithCapacity(e.capacity),
		player.WithStatsCapacity(e.statsCapacity),
	)
	e.totalGames = 0

	metrics.UpdateTotalGames(0)
	metrics.UpdateTrackedPlayers(0)
}

// TotalGames returns the system-wide game count, maintained incrementally
// so it always equals the sum of per-tournament counts.
func (e *Engine) TotalGames() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalGames
}

// TournamentStats returns the aggregate snapshot for a tournament.
func (e *Engine) TournamentStats(_ context.Context, tournamentID int) (tournament.Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if tournamentID < minID {
		return tournament.Stats{}, ErrInvalidID
	}
	t, ok := e.tournaments.Get(tournamentID)
	if !ok {
		return tournament.Stats{}, ErrTournamentNotFound
	}
	return t.Stats(), nil
}

// AddTournament registers an open tournament.
func (e *Engine) AddTournament(ctx context.Context, tournamentID, maxGamesPerPlayer int, loc string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tournamentID < minID {
		return ErrInvalidID
	}
	if e.tournaments.Contains(tournamentID) {
		return ErrTournamentExists
	}
	if !location.Valid(loc) {
		return ErrInvalidLocation
	}
	if maxGamesPerPlayer < 1 {
		return ErrInvalidMaxGames
	}

	if err := e.tournaments.Add(tournamentID, maxGamesPerPlayer, loc); err != nil {
		return storeErr(err)
	}

	metrics.RecordTournamentCreated()
	e.debug(ctx, "tournament added",
		logger.Int("tournament", tournamentID),
		logger.String("location", loc))
	return nil
}

// AddGame records a game and both players' statistics as one atomic
// operation from the caller's point of view: either all three ledgers
// reflect the new game afterwards, or none do. Each step that can fail
// unwinds everything the previous steps applied, exactly.
func (e *Engine) AddGame(ctx context.Context, tournamentID, firstPlayer, secondPlayer int, winner Winner, playTime int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tournamentID < minID || firstPlayer < minID || secondPlayer < minID || firstPlayer == secondPlayer {
		return ErrInvalidID
	}
	t, ok := e.tournaments.Get(tournamentID)
	if !ok {
		return ErrTournamentNotFound
	}
	if t.Ended() {
		return ErrTournamentEnded
	}
	if t.GameExists(firstPlayer, secondPlayer) {
		return ErrGameExists
	}
	if playTime < 0 {
		return ErrInvalidPlayTime
	}

	// Lazily create player records, remembering which ones are fresh so
	// they can be purged again if a later step fails.
	p1, created1, err := e.players.Ensure(firstPlayer)
	if err != nil {
		return storeErr(err)
	}
	p2, created2, err := e.players.Ensure(secondPlayer)
	if err != nil {
		e.purge(firstPlayer, created1)
		return storeErr(err)
	}

	if p1.GamesIn(tournamentID) >= t.MaxGamesPerPlayer() || p2.GamesIn(tournamentID) >= t.MaxGamesPerPlayer() {
		e.purge(firstPlayer, created1)
		e.purge(secondPlayer, created2)
		return ErrExceededGames
	}

	winnerID := 0
	switch winner {
	case FirstPlayer:
		winnerID = firstPlayer
	case SecondPlayer:
		winnerID = secondPlayer
	}
	if err := t.AddGame(p1, p2, winnerID, playTime); err != nil {
		e.purge(firstPlayer, created1)
		e.purge(secondPlayer, created2)
		return storeErr(err)
	}

	status1, status2 := winner.statuses()
	if err := p1.Update(tournamentID, status1, playTime); err != nil {
		t.RemoveGame(firstPlayer, secondPlayer)
		e.purge(firstPlayer, created1)
		e.purge(secondPlayer, created2)
		e.rollback(ctx, tournamentID, firstPlayer, secondPlayer)
		return storeErr(err)
	}
	if err := p2.Update(tournamentID, status2, playTime); err != nil {
		p1.Downdate(tournamentID, status1, playTime)
		t.RemoveGame(firstPlayer, secondPlayer)
		e.purge(firstPlayer, created1)
		e.purge(secondPlayer, created2)
		e.rollback(ctx, tournamentID, firstPlayer, secondPlayer)
		return storeErr(err)
	}

	e.totalGames++
	metrics.RecordGameRecorded()
	metrics.UpdateTotalGames(e.totalGames)
	metrics.UpdateTrackedPlayers(e.players.Len())
	return nil
}

// EndTournament resolves the champion and closes the tournament.
func (e *Engine) EndTournament(ctx context.Context, tournamentID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tournamentID < minID {
		return ErrInvalidID
	}
	t, ok := e.tournaments.Get(tournamentID)
	if !ok {
		return ErrTournamentNotFound
	}
	if t.Ended() {
		return ErrTournamentEnded
	}
	if t.NumGames() < 1 {
		return ErrNoGames
	}

	t.End(e.players)

	metrics.RecordTournamentEnded()
	e.debug(ctx, "tournament ended",
		logger.Int("tournament", tournamentID),
		logger.Int("winner", t.WinnerID()))
	return nil
}

// RemoveTournament erases a tournament together with every statistical
// effect its games had on the players.
func (e *Engine) RemoveTournament(ctx context.Context, tournamentID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tournamentID < minID {
		return ErrInvalidID
	}
	t, ok := e.tournaments.Get(tournamentID)
	if !ok {
		return ErrTournamentNotFound
	}

	e.totalGames -= t.NumGames()
	t.Unwind(e.players)
	_ = e.tournaments.Remove(tournamentID)

	metrics.RecordTournamentRemoved()
	metrics.UpdateTotalGames(e.totalGames)
	e.debug(ctx, "tournament removed", logger.Int("tournament", tournamentID))
	return nil
}

// RemovePlayer deactivates a player: all counters are reset and every
// open tournament rewrites the player's games in the opponents' favor.
// The record itself persists, so a second removal of the same id reports
// ErrPlayerNotFound just like an id that never played.
func (e *Engine) RemovePlayer(ctx context.Context, playerID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if playerID < minID {
		return ErrInvalidID
	}
	p, ok := e.players.Get(playerID)
	if !ok || !p.Active() {
		return ErrPlayerNotFound
	}

	p.Reset()
	for _, tournamentID := range e.tournaments.IDs() {
		t, ok := e.tournaments.Get(tournamentID)
		if !ok || t.Ended() {
			continue
		}
		t.RemovePlayer(p, e.players)
	}

	metrics.RecordPlayerRemoved()
	e.debug(ctx, "player removed", logger.Int("player", playerID))
	return nil
}

// AveragePlayTime returns the player's mean game duration.
func (e *Engine) AveragePlayTime(_ context.Context, playerID int) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if playerID < minID {
		return 0, ErrInvalidID
	}
	p, ok := e.players.Get(playerID)
	if !ok || !p.Active() {
		return 0, ErrPlayerNotFound
	}
	return p.AveragePlayTime(), nil
}

func (e *Engine) purge(playerID int, created bool) {
	if created {
		e.players.Purge(playerID)
	}
}

func (e *Engine) rollback(ctx context.Context, tournamentID, firstPlayer, secondPlayer int) {
	metrics.RecordRollback()
	if e.log != nil {
		e.log.Warn(ctx, "game add rolled back",
			logger.Int("tournament", tournamentID),
			logger.Int("player1", firstPlayer),
			logger.Int("player2", secondPlayer))
	}
}

func (e *Engine) debug(ctx context.Context, msg string, fields ...logger.Field) {
	if e.log != nil {
		e.log.Debug(ctx, msg, fields...)
	}
}

// storeErr maps container failures onto the engine taxonomy.
func storeErr(err error) error {
	if errors.Is(err, omap.ErrCapacity) {
		return ErrCapacity
	}
	return err
}

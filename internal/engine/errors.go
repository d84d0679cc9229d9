package engine

import "errors"

// Sentinel kinds for engine errors. Every failure is recoverable: the
// engine remains usable after any of these is reported.
var (
	ErrNilArgument        = errors.New("required argument is nil")
	ErrInvalidID          = errors.New("id must be positive")
	ErrInvalidLocation    = errors.New("malformed tournament location")
	ErrInvalidMaxGames    = errors.New("max games per player must be positive")
	ErrTournamentExists   = errors.New("tournament already exists")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentEnded    = errors.New("tournament already ended")
	ErrGameExists         = errors.New("game between these players already exists")
	ErrInvalidPlayTime    = errors.New("play time must be non-negative")
	ErrExceededGames      = errors.New("player reached the tournament game limit")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNoGames            = errors.New("tournament has no games")
	ErrCapacity           = errors.New("record store capacity exhausted")
	ErrSaveFailure        = errors.New("report write failed")
	ErrNoTournamentsEnded = errors.New("no tournaments have ended")
)

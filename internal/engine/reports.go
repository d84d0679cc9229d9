package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/arbiter/pkg/metrics"
	"github.com/okian/arbiter/pkg/omap"
)

// compareLevelsDesc orders level keys so that higher levels come first.
func compareLevelsDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func levelGroupOps() omap.Ops[float64, *omap.Map[int, int]] {
	return omap.Ops[float64, *omap.Map[int, int]]{
		CompareKey: compareLevelsDesc,
		CloneValue: (*omap.Map[int, int]).Copy,
	}
}

// SavePlayerLevels writes one line per ranked player to w, formatted
// "<id> <level>", grouped by level descending with ids ascending inside a
// group. Players whose level is exactly zero are excluded, which also
// drops inactive records.
func (e *Engine) SavePlayerLevels(_ context.Context, w io.Writer) error {
	if w == nil {
		return ErrNilArgument
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	// Group players into a level-keyed map of id sets, levels descending.
	groups := omap.New(levelGroupOps())
	for _, playerID := range e.players.IDs() {
		p, ok := e.players.Get(playerID)
		if !ok {
			continue
		}
		level := p.Level()
		if level == 0.0 || groups.Contains(level) {
			continue
		}
		ids := omap.New(omap.IntOps())
		for _, otherID := range e.players.IDs() {
			other, ok := e.players.Get(otherID)
			if !ok || other.Level() != level {
				continue
			}
			if err := ids.Put(otherID, otherID); err != nil {
				return fmt.Errorf("%w: %w", ErrSaveFailure, err)
			}
		}
		if err := groups.Put(level, ids); err != nil {
			return fmt.Errorf("%w: %w", ErrSaveFailure, err)
		}
	}

	for _, level := range groups.Keys() {
		ids, ok := groups.Get(level)
		if !ok {
			continue
		}
		for _, id := range ids.Keys() {
			if _, err := fmt.Fprintf(w, "%d %.2f\n", id, level); err != nil {
				metrics.RecordReportError()
				return fmt.Errorf("%w: %w", ErrSaveFailure, err)
			}
		}
	}

	metrics.RecordReportWrite()
	return nil
}

// SaveTournamentStatistics writes the aggregate block of every ended
// tournament to w, one field per line: winner id, longest game time,
// average game time, location, game count, distinct player count. It
// fails with ErrNoTournamentsEnded when there is nothing to report;
// anything already written to w stays written, matching the truncate-
// then-check behavior of the statistics file.
func (e *Engine) SaveTournamentStatistics(_ context.Context, w io.Writer) error {
	if w == nil {
		return ErrNilArgument
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	ended := 0
	for _, tournamentID := range e.tournaments.IDs() {
		t, ok := e.tournaments.Get(tournamentID)
		if !ok || !t.Ended() {
			continue
		}
		ended++

		s := t.Stats()
		if _, err := fmt.Fprintf(w, "%d\n%d\n%.2f\n%s\n%d\n%d\n",
			s.WinnerID, s.LongestGameTime, s.AverageGameTime,
			s.Location, s.NumGames, s.NumPlayers); err != nil {
			metrics.RecordReportError()
			return fmt.Errorf("%w: %w", ErrSaveFailure, err)
		}
	}

	if ended < 1 {
		return ErrNoTournamentsEnded
	}

	metrics.RecordReportWrite()
	return nil
}

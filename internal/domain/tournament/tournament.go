// Package tournament maintains tournament records: each owns its game
// ledger, incrementally maintained aggregates, and the winner resolution
// applied when the tournament ends.
package tournament

import (
	"github.com/okian/arbiter/internal/domain/game"
	"github.com/okian/arbiter/internal/domain/player"
)

// notEnded is the winner id of an open tournament. Player ids start at 1,
// so a zero winner doubles as the ended flag.
const notEnded = 0

// Tournament is a single tournament record.
type Tournament struct {
	id                int
	winnerID          int
	maxGamesPerPlayer int
	location          string
	games             *game.Ledger

	// Aggregates maintained incrementally on every game add.
	numPlayers      int
	averageGameTime float64
	longestGameTime int
}

// Stats is the read-only snapshot consumed by the statistics report.
type Stats struct {
	WinnerID        int
	LongestGameTime int
	AverageGameTime float64
	Location        string
	NumGames        int
	NumPlayers      int
}

// New creates an open tournament. capacity bounds the game ledger; zero
// means unbounded.
func New(id, maxGamesPerPlayer int, location string, capacity int) *Tournament {
	return &Tournament{
		id:                id,
		maxGamesPerPlayer: maxGamesPerPlayer,
		location:          location,
		games:             game.NewLedger(game.WithCapacity(capacity)),
	}
}

// ID returns the tournament's identity.
func (t *Tournament) ID() int { return t.id }

// Location returns the tournament's venue string.
func (t *Tournament) Location() string { return t.location }

// MaxGamesPerPlayer returns the per-player game cap.
func (t *Tournament) MaxGamesPerPlayer() int { return t.maxGamesPerPlayer }

// Ended reports whether the tournament has been closed with a winner.
func (t *Tournament) Ended() bool {
	return t.winnerID != notEnded
}

// WinnerID returns the resolved champion, notEnded while open.
func (t *Tournament) WinnerID() int { return t.winnerID }

// NumGames returns the number of recorded games.
func (t *Tournament) NumGames() int {
	return t.games.Len()
}

// GameExists reports whether the two players already met in this
// tournament, in either order.
func (t *Tournament) GameExists(player1ID, player2ID int) bool {
	return t.games.FindByParticipants(player1ID, player2ID) != game.Vacated
}

// Stats returns the aggregate snapshot for reporting.
func (t *Tournament) Stats() Stats {
	return Stats{
		WinnerID:        t.winnerID,
		LongestGameTime: t.longestGameTime,
		AverageGameTime: t.averageGameTime,
		Location:        t.location,
		NumGames:        t.games.Len(),
		NumPlayers:      t.numPlayers,
	}
}

// AddGame records a game under the next sequential id and folds it into
// the running aggregates. The distinct-player count is advanced per side
// only when that player has no prior games here, so it must be checked
// before the player ledger is updated.
func (t *Tournament) AddGame(p1, p2 *player.Player, winnerID, playTime int) error {
	gameID := t.games.Len() + 1
	if err := t.games.Add(gameID, playTime, p1.ID(), p2.ID(), winnerID); err != nil {
		return err
	}

	t.averageGameTime = (t.averageGameTime*float64(gameID-1) + float64(playTime)) / float64(gameID)
	if playTime > t.longestGameTime {
		t.longestGameTime = playTime
	}

	if !p1.PlayedIn(t.id) {
		t.numPlayers++
	}
	if !p2.PlayedIn(t.id) {
		t.numPlayers++
	}

	return nil
}

// RemoveGame deletes the game between the two players, compensating a
// just-recorded game after a later step of a compound add failed.
func (t *Tournament) RemoveGame(player1ID, player2ID int) {
	t.games.RemoveByParticipants(player1ID, player2ID)
}

// End resolves the champion and closes the tournament. Every game is
// scanned once in id order; at each game the two participants are held
// against the running standing through four tie-break levels in strict
// order: tournament score, then fewest losses, then most wins, then the
// lower of the two ids still tied. The last level only compares the pair
// from the game where the tie surfaced.
func (t *Tournament) End(players *player.Ledger) {
	st := player.NewStanding()
	for _, gameID := range t.games.IDs() {
		g, ok := t.games.Get(gameID)
		if !ok {
			continue
		}
		p1, _ := players.Get(g.Player1())
		p2, _ := players.Get(g.Player2())

		if r := player.CompareScores(p1, p2, t.id, st); r >= 0 {
			if r > 0 {
				t.winnerID = r
			}
			continue
		}
		if r := player.CompareLosses(p1, p2, st); r >= 0 {
			if r > 0 {
				t.winnerID = r
			}
			continue
		}
		if r := player.CompareWins(p1, p2, st); r >= 0 {
			if r > 0 {
				t.winnerID = r
			}
			continue
		}

		if p2 != nil && g.Player1() < t.winnerID {
			t.winnerID = g.Player1()
		}
		if p2 != nil && g.Player2() < t.winnerID {
			t.winnerID = g.Player2()
		}
	}
}

// RemovePlayer vacates the player's side in every game of an open
// tournament, re-resolving each opponent's result as needed. Ended
// tournaments are immutable, so this is a no-op there.
func (t *Tournament) RemovePlayer(p *player.Player, players *player.Ledger) {
	if t.Ended() {
		return
	}
	for _, gameID := range t.games.IDs() {
		g, ok := t.games.Get(gameID)
		if !ok || !g.HasPlayer(p.ID()) {
			continue
		}
		opponentID := g.Player1()
		if p.ID() == g.Player1() {
			opponentID = g.Player2()
		}
		opponent, _ := players.Get(opponentID)
		g.VacateParticipant(p.ID(), opponent, t.id)
	}
}

// Unwind replays every game's outcome onto its participants in reverse,
// erasing all counted effects before the tournament itself is discarded.
func (t *Tournament) Unwind(players *player.Ledger) {
	for _, gameID := range t.games.IDs() {
		g, ok := t.games.Get(gameID)
		if !ok {
			continue
		}
		p1, _ := players.Get(g.Player1())
		p2, _ := players.Get(g.Player2())
		g.Unwind(p1, p2, t.id)
	}
}

// Clone produces a fully independent copy of the tournament, game ledger
// included.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	c.games = t.games.Clone()
	return &c
}

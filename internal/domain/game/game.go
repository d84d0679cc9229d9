// Package game maintains the per-tournament game records, including the
// participant vacation rules applied when a player leaves the system.
package game

import (
	"github.com/okian/arbiter/internal/domain/player"
)

// Vacated marks a participant slot whose player left the system, and a
// winner field for a drawn or fully vacated game. Real ids start at 1.
const Vacated = 0

// Game is a single recorded game. The id is sequential within its
// tournament, assigned on creation and never reused.
type Game struct {
	length  int
	player1 int
	player2 int
	winner  int
}

// Length returns the game duration.
func (g *Game) Length() int { return g.length }

// Player1 returns the first side's player id, Vacated when removed.
func (g *Game) Player1() int { return g.player1 }

// Player2 returns the second side's player id, Vacated when removed.
func (g *Game) Player2() int { return g.player2 }

// Winner returns the winning player id, Vacated for a draw.
func (g *Game) Winner() int { return g.winner }

// HasPlayer reports whether id occupies either side of the game.
func (g *Game) HasPlayer(id int) bool {
	return id == g.player1 || id == g.player2
}

// VacateParticipant clears removedID's side and re-resolves the result in
// the opponent's favor: a removed winner forfeits to the opponent, and a
// draw becomes an opponent win. An opponent that already won keeps the
// win. When both sides end up vacated the winner stays Vacated and no
// opponent re-scoring happens.
func (g *Game) VacateParticipant(removedID int, opponent *player.Player, tournamentID int) {
	if !g.HasPlayer(removedID) {
		return
	}

	lastWinner := g.winner
	if removedID == g.player1 {
		g.player1 = Vacated
		g.winner = g.player2
	} else {
		g.player2 = Vacated
		g.winner = g.player1
	}

	if g.winner == Vacated {
		return
	}

	switch {
	case lastWinner == removedID:
		opponent.SwitchLoseToVictory(tournamentID)
	case lastWinner == Vacated:
		opponent.SwitchDrawToVictory(tournamentID)
	}
	// Otherwise the opponent already held the win.
}

// Unwind replays the game's outcome onto both participants in reverse,
// clearing their per-tournament bookkeeping. Used while the owning
// tournament is being removed.
func (g *Game) Unwind(p1, p2 *player.Player, tournamentID int) {
	if g.winner == Vacated {
		p1.RemoveFromGame(player.Draw, g.length, tournamentID)
		p2.RemoveFromGame(player.Draw, g.length, tournamentID)
		return
	}
	winner, loser := p1, p2
	if p1 == nil || g.winner != p1.ID() {
		winner, loser = p2, p1
	}
	winner.RemoveFromGame(player.Win, g.length, tournamentID)
	loser.RemoveFromGame(player.Lose, g.length, tournamentID)
}

// Clone produces an independent copy of the game.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

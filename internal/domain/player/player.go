// Package player maintains per-player records and the ranking comparators
// used for tournament-end resolution.
package player

import (
	"github.com/okian/arbiter/pkg/omap"
)

// Status is a player's result in a single game.
type Status int

const (
	Win Status = iota
	Lose
	Draw
)

// Per-game level weights and per-tournament score points.
const (
	levelWin  = 6
	levelLose = -10
	levelDraw = 2

	pointsWin  = 1
	pointsDraw = 2
)

// Player is a single player record. Existence is operational: the record
// persists from first reference onward, but the player counts as active
// only while it appears in at least one non-vacated game side.
type Player struct {
	id        int
	wins      int
	losses    int
	draws     int
	totalTime int

	scoreByTournament *omap.Map[int, int]
	gamesByTournament *omap.Map[int, int]
}

// New creates a fresh player record with zeroed statistics. capacity
// bounds both per-tournament maps; zero means unbounded.
func New(id, capacity int) *Player {
	return &Player{
		id:                id,
		scoreByTournament: omap.New(omap.IntOps(), omap.WithCapacity[int, int](capacity)),
		gamesByTournament: omap.New(omap.IntOps(), omap.WithCapacity[int, int](capacity)),
	}
}

// ID returns the player's identity.
func (p *Player) ID() int {
	return p.id
}

// Active reports whether the player currently appears in any game.
func (p *Player) Active() bool {
	return p != nil && p.totalGames() > 0
}

func (p *Player) totalGames() int {
	return p.wins + p.losses + p.draws
}

// Wins returns the player's win count.
func (p *Player) Wins() int { return p.wins }

// Losses returns the player's loss count.
func (p *Player) Losses() int { return p.losses }

// Draws returns the player's draw count.
func (p *Player) Draws() int { return p.draws }

// Score returns the player's accumulated points in a tournament.
func (p *Player) Score(tournamentID int) int {
	score, _ := p.scoreByTournament.Get(tournamentID)
	return score
}

// GamesIn returns how many games the player has in a tournament.
func (p *Player) GamesIn(tournamentID int) int {
	games, _ := p.gamesByTournament.Get(tournamentID)
	return games
}

// PlayedIn reports whether the player has any games in a tournament.
func (p *Player) PlayedIn(tournamentID int) bool {
	return p.gamesByTournament.Contains(tournamentID)
}

// Update applies one game outcome to the player's statistics: the matching
// outcome counter, the tournament score (1 point per win, 2 per draw), the
// tournament game count, and the total play time. The per-tournament
// entries are created lazily. On failure the record is left exactly as it
// was, including undoing a freshly created score entry.
func (p *Player) Update(tournamentID int, status Status, playTime int) error {
	createdScore := false
	if !p.scoreByTournament.Contains(tournamentID) {
		if err := p.scoreByTournament.Put(tournamentID, 0); err != nil {
			return err
		}
		createdScore = true
	}
	if !p.gamesByTournament.Contains(tournamentID) {
		if err := p.gamesByTournament.Put(tournamentID, 0); err != nil {
			if createdScore {
				_ = p.scoreByTournament.Remove(tournamentID)
			}
			return err
		}
	}

	switch status {
	case Win:
		p.wins++
		p.addScore(tournamentID, pointsWin)
	case Lose:
		p.losses++
	case Draw:
		p.draws++
		p.addScore(tournamentID, pointsDraw)
	}
	p.addGames(tournamentID, 1)
	p.totalTime += playTime

	return nil
}

// Downdate is the exact inverse of Update for the same arguments. It is
// only valid after a matching Update succeeded; the per-tournament entries
// are assumed to exist.
func (p *Player) Downdate(tournamentID int, status Status, playTime int) {
	switch status {
	case Win:
		p.wins--
		p.addScore(tournamentID, -pointsWin)
	case Lose:
		p.losses--
	case Draw:
		p.draws--
		p.addScore(tournamentID, -pointsDraw)
	}
	p.addGames(tournamentID, -1)
	p.totalTime -= playTime
}

// RemoveFromGame reverses one outcome counter and the play time, then
// drops the player's per-tournament bookkeeping entirely. Used while a
// tournament is being removed wholesale.
func (p *Player) RemoveFromGame(status Status, gameLength, tournamentID int) {
	if p == nil {
		return
	}
	switch status {
	case Win:
		p.wins--
	case Lose:
		p.losses--
	case Draw:
		p.draws--
	}
	p.totalTime -= gameLength

	_ = p.scoreByTournament.Remove(tournamentID)
	_ = p.gamesByTournament.Remove(tournamentID)
}

// SwitchLoseToVictory flips a loss into a win after the winning opponent
// left the system.
func (p *Player) SwitchLoseToVictory(tournamentID int) {
	p.losses--
	p.wins++
	p.addScore(tournamentID, pointsWin)
}

// SwitchDrawToVictory flips a draw into a win after the drawing opponent
// left the system: the draw points come out, the win point goes in.
func (p *Player) SwitchDrawToVictory(tournamentID int) {
	p.draws--
	p.wins++
	p.addScore(tournamentID, pointsWin-pointsDraw)
}

// Reset zeroes every counter and clears both per-tournament maps. The
// record itself persists so a later re-addition is recognized.
func (p *Player) Reset() {
	p.wins = 0
	p.losses = 0
	p.draws = 0
	p.totalTime = 0
	p.scoreByTournament.Clear()
	p.gamesByTournament.Clear()
}

// Level is the weighted per-game performance metric, zero for a player
// with no games.
func (p *Player) Level() float64 {
	if !p.Active() {
		return 0.0
	}
	games := p.totalGames()
	return float64(levelWin*p.wins+levelLose*p.losses+levelDraw*p.draws) / float64(games)
}

// AveragePlayTime is the mean game duration. The caller must guard the
// zero-games case via Active.
func (p *Player) AveragePlayTime() float64 {
	return float64(p.totalTime) / float64(p.totalGames())
}

// Clone produces a fully independent copy of the record.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	return &Player{
		id:                p.id,
		wins:              p.wins,
		losses:            p.losses,
		draws:             p.draws,
		totalTime:         p.totalTime,
		scoreByTournament: p.scoreByTournament.Copy(),
		gamesByTournament: p.gamesByTournament.Copy(),
	}
}

func (p *Player) addScore(tournamentID, delta int) {
	score, _ := p.scoreByTournament.Get(tournamentID)
	_ = p.scoreByTournament.Set(tournamentID, score+delta)
}

func (p *Player) addGames(tournamentID, delta int) {
	games, _ := p.gamesByTournament.Get(tournamentID)
	_ = p.gamesByTournament.Set(tournamentID, games+delta)
}

package game

import (
	"github.com/okian/arbiter/pkg/omap"
)

func gameOps() omap.Ops[int, *Game] {
	return omap.Ops[int, *Game]{
		CompareKey: omap.CompareInts,
		CloneValue: (*Game).Clone,
	}
}

// Ledger owns one tournament's games, keyed by game id ascending.
type Ledger struct {
	games    *omap.Map[int, *Game]
	capacity int
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithCapacity bounds the number of recorded games. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n >= 0 {
			l.capacity = n
		}
	}
}

// NewLedger constructs an empty game ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	l.games = omap.New(gameOps(), omap.WithCapacity[int, *Game](l.capacity))
	return l
}

// Add records a game under id. Duplicate pairings are the caller's
// concern; only the capacity bound can reject here.
func (l *Ledger) Add(id, length, player1, player2, winnerID int) error {
	return l.games.Put(id, &Game{
		length:  length,
		player1: player1,
		player2: player2,
		winner:  winnerID,
	})
}

// Get returns the live game record for id.
func (l *Ledger) Get(id int) (*Game, bool) {
	return l.games.Get(id)
}

// FindByParticipants returns the id of the game between the two players,
// in either order, or Vacated when no such game exists.
func (l *Ledger) FindByParticipants(player1, player2 int) int {
	for _, id := range l.games.Keys() {
		g, ok := l.games.Get(id)
		if !ok {
			continue
		}
		if (g.player1 == player1 && g.player2 == player2) ||
			(g.player2 == player1 && g.player1 == player2) {
			return id
		}
	}
	return Vacated
}

// RemoveByParticipants deletes the game between the two players, if any.
func (l *Ledger) RemoveByParticipants(player1, player2 int) {
	if id := l.FindByParticipants(player1, player2); id != Vacated {
		_ = l.games.Remove(id)
	}
}

// IDs returns an owned snapshot of every game id ascending, safe to
// range over while entries are removed.
func (l *Ledger) IDs() []int {
	return l.games.Keys()
}

// Len returns the number of recorded games.
func (l *Ledger) Len() int {
	return l.games.Len()
}

// Clone produces a fully independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	return &Ledger{games: l.games.Copy(), capacity: l.capacity}
}

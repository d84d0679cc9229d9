package tournament

import (
	"github.com/okian/arbiter/pkg/omap"
)

func tournamentOps() omap.Ops[int, *Tournament] {
	return omap.Ops[int, *Tournament]{
		CompareKey: omap.CompareInts,
		CloneValue: (*Tournament).Clone,
	}
}

// Ledger owns every tournament in the system, keyed by id ascending.
type Ledger struct {
	tournaments *omap.Map[int, *Tournament]
	capacity    int
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithCapacity bounds the ledger and every game ledger it creates. Zero
// means unbounded.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n >= 0 {
			l.capacity = n
		}
	}
}

// NewLedger constructs an empty tournament ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	l.tournaments = omap.New(tournamentOps(), omap.WithCapacity[int, *Tournament](l.capacity))
	return l
}

// Add creates and stores an open tournament.
func (l *Ledger) Add(id, maxGamesPerPlayer int, location string) error {
	return l.tournaments.Put(id, New(id, maxGamesPerPlayer, location, l.capacity))
}

// Get returns the live record for id.
func (l *Ledger) Get(id int) (*Tournament, bool) {
	return l.tournaments.Get(id)
}

// Contains reports whether a tournament with id exists.
func (l *Ledger) Contains(id int) bool {
	return l.tournaments.Contains(id)
}

// Remove deletes the tournament and everything it owns.
func (l *Ledger) Remove(id int) error {
	return l.tournaments.Remove(id)
}

// IDs returns an owned snapshot of every tournament id ascending, safe to
// range over while entries are removed.
func (l *Ledger) IDs() []int {
	return l.tournaments.Keys()
}

// Len returns the number of tournaments.
func (l *Ledger) Len() int {
	return l.tournaments.Len()
}

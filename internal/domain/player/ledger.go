package player

import (
	"github.com/okian/arbiter/pkg/omap"
)

func playerOps() omap.Ops[int, *Player] {
	return omap.Ops[int, *Player]{
		CompareKey: omap.CompareInts,
		CloneValue: (*Player).Clone,
	}
}

// Ledger owns every player record in the system, keyed by id ascending.
type Ledger struct {
	players       *omap.Map[int, *Player]
	capacity      int
	statsCapacity int
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithCapacity bounds the number of player records. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		if n >= 0 {
			l.capacity = n
		}
	}
}

// WithStatsCapacity bounds the per-tournament statistic maps of every
// record the ledger creates. Zero means unbounded.
func WithStatsCapacity(n int) Option {
	return func(l *Ledger) {
		if n >= 0 {
			l.statsCapacity = n
		}
	}
}

// NewLedger constructs an empty player ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	l.players = omap.New(playerOps(), omap.WithCapacity[int, *Player](l.capacity))
	return l
}

// Get returns the live record for id.
func (l *Ledger) Get(id int) (*Player, bool) {
	return l.players.Get(id)
}

// Ensure returns the record for id, creating a fresh one when absent.
// The second return reports whether a record was created, so the caller
// can purge it again if a later step of a compound operation fails.
func (l *Ledger) Ensure(id int) (*Player, bool, error) {
	if p, ok := l.players.Get(id); ok {
		return p, false, nil
	}
	if err := l.players.Put(id, New(id, l.statsCapacity)); err != nil {
		return nil, false, err
	}
	p, _ := l.players.Get(id)
	return p, true, nil
}

// Purge drops the record for id if it has no games. Records with games
// are never physically removed.
func (l *Ledger) Purge(id int) {
	if p, ok := l.players.Get(id); ok && !p.Active() {
		_ = l.players.Remove(id)
	}
}

// IDs returns every tracked player id ascending.
func (l *Ledger) IDs() []int {
	return l.players.Keys()
}

// Len returns the number of tracked records, active or not.
func (l *Ledger) Len() int {
	return l.players.Len()
}

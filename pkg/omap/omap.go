// Package omap provides a generic ordered associative container.
//
// Every instance is parameterized by a small capability descriptor that
// supplies deep-copy and comparison behavior for its key and value types.
// Entries are stored in a treap; in-order traversal yields keys in
// ascending comparator order.
package omap

import (
	"math/rand/v2"
)

// Ops bundles the per-type capabilities a Map instance needs.
// CompareKey must define a total order and return negative/zero/positive.
// CloneKey and CloneValue may be nil for types with value semantics
// (plain ints, strings); nil means "use as-is".
type Ops[K, V any] struct {
	CompareKey func(a, b K) int
	CloneKey   func(K) K
	CloneValue func(V) V
}

// IntOps is the descriptor shared by every integer-keyed, integer-valued
// map in the system (per-tournament score and game counters).
func IntOps() Ops[int, int] {
	return Ops[int, int]{CompareKey: CompareInts}
}

// CompareInts orders integer keys ascending.
func CompareInts(a, b int) int {
	return a - b
}

// treap node
type node[K, V any] struct {
	key   K
	value V
	prio  uint64
	left  *node[K, V]
	right *node[K, V]
}

// Map is an ordered map from K to V. Keys are unique; the map owns deep
// copies of both key and value, never aliasing caller memory.
type Map[K, V any] struct {
	ops      Ops[K, V]
	root     *node[K, V]
	size     int
	capacity int // 0 means unbounded
}

// Option applies a configuration option to the Map.
type Option[K, V any] func(*Map[K, V])

// WithCapacity bounds the number of live entries. Put and Set fail with
// ErrCapacity once the bound is reached. Zero means unbounded.
func WithCapacity[K, V any](n int) Option[K, V] {
	return func(m *Map[K, V]) {
		if n >= 0 {
			m.capacity = n
		}
	}
}

// New constructs an empty Map with the given capability descriptor.
func New[K, V any](ops Ops[K, V], opts ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{ops: ops}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Map[K, V]) cloneKey(k K) K {
	if m.ops.CloneKey == nil {
		return k
	}
	return m.ops.CloneKey(k)
}

func (m *Map[K, V]) cloneValue(v V) V {
	if m.ops.CloneValue == nil {
		return v
	}
	return m.ops.CloneValue(v)
}

func rotateRight[K, V any](y *node[K, V]) *node[K, V] {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft[K, V any](x *node[K, V]) *node[K, V] {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func (m *Map[K, V]) insert(n *node[K, V], k K, v V) *node[K, V] {
	if n == nil {
		return &node[K, V]{key: k, value: v, prio: rand.Uint64()}
	}
	if m.ops.CompareKey(k, n.key) < 0 {
		n.left = m.insert(n.left, k, v)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = m.insert(n.right, k, v)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func (m *Map[K, V]) delete(n *node[K, V], k K) *node[K, V] {
	if n == nil {
		return nil
	}
	switch c := m.ops.CompareKey(k, n.key); {
	case c < 0:
		n.left = m.delete(n.left, k)
	case c > 0:
		n.right = m.delete(n.right, k)
	default:
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = m.delete(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = m.delete(n.left, k)
		}
	}
	return n
}

func (m *Map[K, V]) lookup(k K) *node[K, V] {
	n := m.root
	for n != nil {
		switch c := m.ops.CompareKey(k, n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Put inserts a deep copy of k and v. It fails with ErrDuplicateKey when
// the key is already present and with ErrCapacity when the entry bound is
// reached; in both cases the map is left untouched.
func (m *Map[K, V]) Put(k K, v V) error {
	if m.lookup(k) != nil {
		return ErrDuplicateKey
	}
	if m.capacity > 0 && m.size >= m.capacity {
		return ErrCapacity
	}
	m.root = m.insert(m.root, m.cloneKey(k), m.cloneValue(v))
	m.size++
	return nil
}

// Set inserts a new entry or replaces the value of an existing one.
// Only a fresh insert counts against the capacity bound.
func (m *Map[K, V]) Set(k K, v V) error {
	if n := m.lookup(k); n != nil {
		n.value = m.cloneValue(v)
		return nil
	}
	if m.capacity > 0 && m.size >= m.capacity {
		return ErrCapacity
	}
	m.root = m.insert(m.root, m.cloneKey(k), m.cloneValue(v))
	m.size++
	return nil
}

// Get returns the stored value for k. The value is handed out as stored,
// without a copy; for pointer values the caller receives a live reference.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if n := m.lookup(k); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	return m.lookup(k) != nil
}

// Remove deletes the entry for k, failing with ErrNotFound when absent.
func (m *Map[K, V]) Remove(k K) error {
	if m.lookup(k) == nil {
		return ErrNotFound
	}
	m.root = m.delete(m.root, k)
	m.size--
	return nil
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Clear drops every entry, keeping the descriptor and capacity bound.
func (m *Map[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// Copy produces a fully independent deep copy of the map. Mutating either
// side afterwards never affects the other.
func (m *Map[K, V]) Copy() *Map[K, V] {
	out := &Map[K, V]{ops: m.ops, capacity: m.capacity}
	m.walk(m.root, func(k K, v V) {
		out.root = out.insert(out.root, out.cloneKey(k), out.cloneValue(v))
		out.size++
	})
	return out
}

// Keys returns an owned snapshot of every key in ascending comparator
// order. Each key is an independent clone, so removing entries while
// ranging over the slice never invalidates it.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.size)
	m.walk(m.root, func(k K, _ V) {
		out = append(out, m.cloneKey(k))
	})
	return out
}

// First returns a clone of the smallest key per the comparator.
func (m *Map[K, V]) First() (K, bool) {
	n := m.root
	if n == nil {
		var zero K
		return zero, false
	}
	for n.left != nil {
		n = n.left
	}
	return m.cloneKey(n.key), true
}

func (m *Map[K, V]) walk(n *node[K, V], fn func(K, V)) {
	if n == nil {
		return
	}
	m.walk(n.left, fn)
	fn(n.key, n.value)
	m.walk(n.right, fn)
}

// Package preferences manages the global ordering of codec identifiers used to
// break ties between variants.
package preferences

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

// Store persists the ordering.
type Store interface {
	LoadPreferences() ([]codec.ID, error)
	SavePreferences(order []codec.ID) error
}

// List is a total ordering over the codec universe. Reads are lock-free
// snapshots; writes are serialized.
type List struct {
	mu        sync.Mutex
	order     []codec.ID
	store     Store
	observers []func([]codec.ID)
}

// New creates a List in the default order, backed by store (which may be nil).
func New(store Store) *List {
	return &List{order: codec.All(), store: store}
}

// Load replaces the ordering with the persisted one. Stored entries outside the
// universe are dropped, and universe members missing from storage are appended
// in default order, so the result is always a permutation of the universe.
func Load(store Store) (*List, error) {
	l := New(store)
	if store == nil {
		return l, nil
	}
	stored, err := store.LoadPreferences()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load codec preferences")
	}
	if len(stored) == 0 {
		return l, nil
	}

	l.order = normalize(stored)
	if len(stored) != len(l.order) {
		log.WithFields(log.Fields{"stored": len(stored), "universe": codec.Count()}).
			Warnln("stored codec preferences did not match the codec universe, repaired")
	}
	return l, nil
}

func normalize(stored []codec.ID) []codec.ID {
	seen := make(map[codec.ID]bool, codec.Count())
	order := make([]codec.ID, 0, codec.Count())
	for _, id := range stored {
		if id.IsKnown() && !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, id := range codec.All() {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return order
}

// Snapshot returns a copy of the current ordering.
func (l *List) Snapshot() []codec.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]codec.ID, len(l.order))
	copy(out, l.order)
	return out
}

// IndexOf returns the position of id or -1.
func (l *List) IndexOf(id codec.ID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return indexOf(l.order, id)
}

func indexOf(order []codec.ID, id codec.ID) int {
	for i, c := range order {
		if c == id {
			return i
		}
	}
	return -1
}

// Move removes id and reinserts it at newIndex, clamped to the list bounds.
// Moving an element to its current index succeeds without touching storage.
func (l *List) Move(id codec.ID, newIndex int) ([]codec.ID, error) {
	if !id.IsKnown() {
		return nil, errors.Wrapf(errdefs.ErrUnknownCodec, "codec %q", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current := indexOf(l.order, id)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(l.order)-1 {
		newIndex = len(l.order) - 1
	}
	if current == newIndex {
		return copyOf(l.order), nil
	}

	next := make([]codec.ID, 0, len(l.order))
	for _, c := range l.order {
		if c != id {
			next = append(next, c)
		}
	}
	next = append(next, "")
	copy(next[newIndex+1:], next[newIndex:])
	next[newIndex] = id

	if l.store != nil {
		if err := l.store.SavePreferences(next); err != nil {
			return nil, errors.Wrap(err, "failed to persist codec preferences")
		}
	}
	l.order = next

	log.WithFields(log.Fields{"codec": id, "from": current, "to": newIndex}).Infoln("moved codec preference")
	for _, f := range l.observers {
		f(copyOf(next))
	}
	return copyOf(next), nil
}

// OnChange registers f to be called after every effective reorder.
func (l *List) OnChange(f func([]codec.ID)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, f)
}

func copyOf(order []codec.ID) []codec.ID {
	out := make([]codec.ID, len(order))
	copy(out, order)
	return out
}

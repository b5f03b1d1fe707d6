// Package attempt tracks the two success slots each character holds per
// check subject. A critical success fills both slots at once.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/check"
)

// Slots is the number of successes that complete a subject.
const Slots = 2

// ErrPersist wraps a store failure. The stored record is unchanged.
var ErrPersist = errors.New("persisting attempt failed")

// Record is the slot state for one subject.
type Record [Slots]bool

// Filled returns the number of filled slots.
func (r Record) Filled() int {
	n := 0
	for _, s := range r {
		if s {
			n++
		}
	}
	return n
}

// Complete reports whether every slot is filled.
func (r Record) Complete() bool { return r.Filled() == Slots }

// RecordOf returns the record with the first filled slots set. Values
// outside [0, Slots] are clamped.
func RecordOf(filled int) Record {
	var r Record
	for i := 0; i < min(max(filled, 0), Slots); i++ {
		r[i] = true
	}
	return r
}

// Store persists attempt records. LoadAttempt returns an empty Record for a
// subject that has never been recorded.
type Store interface {
	LoadAttempt(ctx context.Context, key character.Key, subject string) (Record, error)
	SaveAttempt(ctx context.Context, key character.Key, subject string, rec Record) error
}

// Tracker applies attempts to stored records. Records survive as long as
// the store does; they are created empty on first reference and never shrink.
//
// Tracker serialises its own updates. Writers in other processes sharing the
// store are last-write-wins.
type Tracker struct {
	mu    sync.Mutex
	store Store
}

// NewTracker returns a Tracker over store.
//
// Precondition: store must be non-nil.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Record applies one resolved attempt against subject and returns the
// updated record.
//
// A critical success fills both slots. A success fills the first empty slot.
// A failure leaves the record unchanged and writes nothing.
//
// Postcondition: on store failure the stored record is unchanged and the
// error wraps ErrPersist.
func (t *Tracker) Record(ctx context.Context, key character.Key, subject string, outcome check.Outcome, succeeded bool) (Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, err := t.store.LoadAttempt(ctx, key, subject)
	if err != nil {
		return Record{}, fmt.Errorf("loading attempts for %s %q: %w", key, subject, err)
	}
	rec := prev
	switch {
	case outcome.CriticalSuccess:
		rec = RecordOf(Slots)
	case succeeded:
		rec = RecordOf(prev.Filled() + 1)
	}
	if rec == prev {
		return rec, nil
	}
	if err := t.store.SaveAttempt(ctx, key, subject, rec); err != nil {
		return prev, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return rec, nil
}

// Get returns the record for subject. A subject never recorded is empty.
func (t *Tracker) Get(ctx context.Context, key character.Key, subject string) (Record, error) {
	rec, err := t.store.LoadAttempt(ctx, key, subject)
	if err != nil {
		return Record{}, fmt.Errorf("loading attempts for %s %q: %w", key, subject, err)
	}
	return rec, nil
}

type recordKey struct {
	character character.Key
	subject   string
}

// MemoryStore keeps records in process memory. It backs tests and any
// caller that does not need records to outlive the process.
type MemoryStore struct {
	mu      sync.Mutex
	records map[recordKey]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]Record)}
}

// LoadAttempt implements Store.
func (m *MemoryStore) LoadAttempt(_ context.Context, key character.Key, subject string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[recordKey{character: key, subject: subject}], nil
}

// SaveAttempt implements Store.
func (m *MemoryStore) SaveAttempt(_ context.Context, key character.Key, subject string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{character: key, subject: subject}] = rec
	return nil
}

// Package store holds the shared mutable state of the deskband daemon: the
// ordered label sequence with its target selector, and the registry mapping
// host message ids to shell actions.
//
// Three paths touch this state concurrently: the protocol worker, the paint
// callback, and the message-dispatch callback. Every access goes through
// the owning type's lock; nothing hands out live pointers.
package store

import (
	"errors"
	"sync"
)

// ErrTargetInvalid reports an explicit target index that is out of range at
// resolution time.
var ErrTargetInvalid = errors.New("text info target out of range")

// Label is one paintable text entity. Color channels are stored as parsed,
// without range validation. Right and Bottom are derived: they are
// recomputed from X/Y plus a text measurement during a paint snapshot and
// are stale at any other time, so commands never read them.
type Label struct {
	Red, Green, Blue int
	Text             string
	X, Y             int
	Right, Bottom    int
}

// Store is the ordered label sequence plus the optional target selector.
// Labels keep insertion order and are only removed wholesale by Clear.
type Store struct {
	mu     sync.Mutex
	labels []Label
	target *int
}

// New returns an empty store with no target set.
func New() *Store {
	return &Store{}
}

// AppendDefault appends one zero-value label and returns its index.
func (s *Store) AppendDefault() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, Label{})
	return len(s.labels) - 1
}

// Clear empties the sequence. The target selector is left as-is: an
// explicit target keeps failing resolution until it is reset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = nil
}

// Count returns the number of labels.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.labels)
}

// SetTarget selects which label subsequent single-label commands act on.
// nil reverts to "the last label". Out-of-range values are accepted here
// and only surface as ErrTargetInvalid on the next resolution.
func (s *Store) SetTarget(index *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index == nil {
		s.target = nil
		return
	}
	v := *index
	s.target = &v
}

// Target returns the explicit target index, if one is set.
func (s *Store) Target() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return 0, false
	}
	return *s.target, true
}

// Active resolves the active label under the lock and passes it to fn.
// With no explicit target the active label is the last one, appending a
// default label to an empty sequence first. With an explicit target the
// label at that index is used; an out-of-range index fails without
// mutating anything. There is no fallback and no auto-append on the
// explicit branch.
func (s *Store) Active(fn func(*Label)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target != nil {
		if *s.target < 0 || *s.target >= len(s.labels) {
			return ErrTargetInvalid
		}
		fn(&s.labels[*s.target])
		return nil
	}
	if len(s.labels) == 0 {
		s.labels = append(s.labels, Label{})
	}
	fn(&s.labels[len(s.labels)-1])
	return nil
}

// PaintSnapshot recomputes every label's extent from measure and returns a
// copy of the sequence for the renderer. Runs under the lock so a paint
// never observes a half-applied mutation.
func (s *Store) PaintSnapshot(measure func(text string) (width, height int)) []Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.labels {
		w, h := measure(s.labels[i].Text)
		s.labels[i].Right = s.labels[i].X + w
		s.labels[i].Bottom = s.labels[i].Y + h
	}
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	return out
}

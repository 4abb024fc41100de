package store

import (
	"errors"
	"sync"
	"testing"
)

func TestAppendDefault(t *testing.T) {
	s := New()
	for want := 0; want < 3; want++ {
		if got := s.AppendDefault(); got != want {
			t.Fatalf("expected index %d, got %d", want, got)
		}
	}
	if s.Count() != 3 {
		t.Fatalf("expected count 3, got %d", s.Count())
	}
}

func TestNewLabelIsZeroValued(t *testing.T) {
	s := New()
	s.AppendDefault()
	err := s.Active(func(l *Label) {
		if l.Red != 0 || l.Green != 0 || l.Blue != 0 || l.Text != "" || l.X != 0 || l.Y != 0 {
			t.Fatalf("default label not zero-valued: %+v", *l)
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearEmptiesButKeepsTarget(t *testing.T) {
	s := New()
	s.AppendDefault()
	s.AppendDefault()
	target := 1
	s.SetTarget(&target)
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("expected count 0 after clear, got %d", s.Count())
	}
	if idx, ok := s.Target(); !ok || idx != 1 {
		t.Fatalf("expected target to survive clear, got %d %v", idx, ok)
	}
	// the stale target now fails resolution instead of falling back
	if err := s.Active(func(*Label) {}); !errors.Is(err, ErrTargetInvalid) {
		t.Fatalf("expected ErrTargetInvalid, got %v", err)
	}
}

func TestActiveUnsetTargetAutoAppends(t *testing.T) {
	s := New()
	var text string
	if err := s.Active(func(l *Label) { text = l.Text }); err != nil {
		t.Fatalf("unexpected error on empty store: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty default text, got %q", text)
	}
	if s.Count() != 1 {
		t.Fatalf("expected auto-appended label, got count %d", s.Count())
	}
}

func TestActiveUnsetTargetUsesLast(t *testing.T) {
	s := New()
	s.AppendDefault()
	s.AppendDefault()
	s.Active(func(l *Label) { l.Text = "last" })
	var texts []string
	for i := 0; i < s.Count(); i++ {
		idx := i
		s.SetTarget(&idx)
		s.Active(func(l *Label) { texts = append(texts, l.Text) })
	}
	if texts[0] != "" || texts[1] != "last" {
		t.Fatalf("mutation did not land on the last label: %v", texts)
	}
}

func TestActiveExplicitTargetNoAutoAppend(t *testing.T) {
	s := New()
	target := 0
	s.SetTarget(&target)
	if err := s.Active(func(*Label) {}); !errors.Is(err, ErrTargetInvalid) {
		t.Fatalf("expected ErrTargetInvalid on empty store with explicit target, got %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("explicit-target resolution must not append, got count %d", s.Count())
	}
}

func TestActiveNegativeTarget(t *testing.T) {
	s := New()
	s.AppendDefault()
	target := -1
	s.SetTarget(&target)
	if err := s.Active(func(*Label) {}); !errors.Is(err, ErrTargetInvalid) {
		t.Fatalf("expected ErrTargetInvalid for negative target, got %v", err)
	}
}

func TestSetTargetCopiesValue(t *testing.T) {
	s := New()
	s.AppendDefault()
	target := 0
	s.SetTarget(&target)
	target = 99
	if idx, ok := s.Target(); !ok || idx != 0 {
		t.Fatalf("target aliased the caller's variable: %d %v", idx, ok)
	}
}

func TestTargetRoundTrip(t *testing.T) {
	s := New()
	if _, ok := s.Target(); ok {
		t.Fatalf("expected no target on a fresh store")
	}
	target := 5
	s.SetTarget(&target)
	if idx, ok := s.Target(); !ok || idx != 5 {
		t.Fatalf("expected target 5, got %d %v", idx, ok)
	}
	s.SetTarget(nil)
	if _, ok := s.Target(); ok {
		t.Fatalf("expected target cleared")
	}
}

func TestPaintSnapshotComputesExtents(t *testing.T) {
	s := New()
	s.AppendDefault()
	s.Active(func(l *Label) {
		l.Text = "hello"
		l.X = 10
		l.Y = 2
	})
	labels := s.PaintSnapshot(func(text string) (int, int) { return len(text), 1 })
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0].Right != 15 || labels[0].Bottom != 3 {
		t.Fatalf("unexpected extent: right=%d bottom=%d", labels[0].Right, labels[0].Bottom)
	}
}

func TestPaintSnapshotReturnsCopy(t *testing.T) {
	s := New()
	s.AppendDefault()
	labels := s.PaintSnapshot(func(string) (int, int) { return 0, 0 })
	labels[0].Text = "mutated"
	s.Active(func(l *Label) {
		if l.Text == "mutated" {
			t.Fatalf("snapshot aliased store memory")
		}
	})
}

// Concurrent mutation through the protocol path and snapshotting through
// the paint path must not race; run with -race.
func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.AppendDefault()
			s.Active(func(l *Label) { l.Text = "x" })
			if i%10 == 0 {
				s.Clear()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.PaintSnapshot(func(text string) (int, int) { return len(text), 1 })
		}
	}()
	wg.Wait()
}

func TestActionRegistry(t *testing.T) {
	r := NewActionRegistry()
	if _, ok := r.Lookup(100); ok {
		t.Fatalf("expected empty registry")
	}
	r.Set(100, "notepad.exe")
	if action, ok := r.Lookup(100); !ok || action != "notepad.exe" {
		t.Fatalf("expected mapping, got %q %v", action, ok)
	}
	r.Set(100, "calc.exe")
	if action, _ := r.Lookup(100); action != "calc.exe" {
		t.Fatalf("expected overwrite, got %q", action)
	}
	if err := r.Unset(100); err != nil {
		t.Fatalf("unexpected unset error: %v", err)
	}
	if err := r.Unset(100); !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("expected ErrActionNotFound, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

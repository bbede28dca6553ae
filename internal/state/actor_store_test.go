package state

import (
	"testing"
	"time"
)

func TestActorStore_TouchAndSweep(t *testing.T) {
	s := NewActorStore()
	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	s.Touch("TCC", t0)
	s.Touch("tcc", t0.Add(time.Minute))
	s.Touch("dis", t0)
	s.Touch("", t0)

	if s.Count() != 2 {
		t.Fatalf("Count=%d", s.Count())
	}
	a, ok := s.Get("Tcc")
	if !ok || a.Name != "TCC" || a.Replies != 2 || !a.FirstSeen.Equal(t0) || !a.LastSeen.Equal(t0.Add(time.Minute)) {
		t.Fatalf("actor=%+v ok=%v", a, ok)
	}

	if got := s.SweepStale(t0.Add(90*time.Second), 0); got != nil {
		t.Fatalf("maxAge=0 should not sweep: %v", got)
	}
	got := s.SweepStale(t0.Add(90*time.Second), time.Minute)
	if len(got) != 1 || got[0] != "dis" {
		t.Fatalf("swept=%v", got)
	}
	if s.Count() != 1 {
		t.Fatalf("Count=%d", s.Count())
	}
}

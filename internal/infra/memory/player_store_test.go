package memory

import "testing"

func TestPlayerStoreLifecycle(t *testing.T) {
	store := NewPlayerStore()

	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected no player before creation")
	}

	p := store.GetOrCreate("p1")
	if p == nil || p.ID() != "p1" {
		t.Fatalf("expected player p1, got %+v", p)
	}
	if again := store.GetOrCreate("p1"); again != p {
		t.Fatalf("expected the same player instance")
	}
	if got, ok := store.Get("p1"); !ok || got != p {
		t.Fatalf("expected player present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 player, got %d", store.Len())
	}
}

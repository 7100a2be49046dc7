package entrycache

import "testing"

func TestRememberAndLookup(t *testing.T) {
	c := New()

	if _, ok := c.Lookup(7); ok {
		t.Fatal("unexpected hit before any Remember call")
	}

	c.Remember(7, 0xCAFEBABE)

	got, ok := c.Lookup(7)
	if !ok {
		t.Fatal("expected a hit after Remember")
	}
	if got != 0xCAFEBABE {
		t.Fatalf("got %#x, want %#x", got, 0xCAFEBABE)
	}
}

func TestDistinctEntriesDoNotCollide(t *testing.T) {
	c := New()
	c.Remember(1, 100)
	c.Remember(2, 200)

	if got, ok := c.Lookup(1); !ok || got != 100 {
		t.Fatalf("entry 1: got (%d, %v), want (100, true)", got, ok)
	}
	if got, ok := c.Lookup(2); !ok || got != 200 {
		t.Fatalf("entry 2: got (%d, %v), want (200, true)", got, ok)
	}
}

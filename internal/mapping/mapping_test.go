package mapping

import "testing"

func TestInternRoundTrip(t *testing.T) {
	m := New()

	id, fresh := m.Intern("hello")
	if !fresh {
		t.Fatal("expected freshlyAdded=true on first intern")
	}

	got, ok := m.TokenToInt("hello")
	if !ok || got != id {
		t.Fatalf("TokenToInt = (%d, %v), want (%d, true)", got, ok, id)
	}

	tok, err := m.IntToToken(id)
	if err != nil {
		t.Fatalf("IntToToken: %v", err)
	}
	if tok != "hello" {
		t.Fatalf("IntToToken = %q, want %q", tok, "hello")
	}
}

func TestInternIdempotent(t *testing.T) {
	m := New()

	id1, fresh1 := m.Intern("alpha")
	id2, fresh2 := m.Intern("alpha")

	if !fresh1 {
		t.Fatal("first intern should be fresh")
	}
	if fresh2 {
		t.Fatal("second intern of the same token must not be fresh")
	}
	if id1 != id2 {
		t.Fatalf("repeated intern returned different ids: %d != %d", id1, id2)
	}
}

func TestIDEncodesBucket(t *testing.T) {
	m := New()
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "a", "b", "c"}
	for _, w := range words {
		id, _ := m.Intern(w)
		wantBucket := bucketOf(w)
		if BucketOf(id) != wantBucket {
			t.Errorf("BucketOf(%d) = %d, want %d (token %q)", id, BucketOf(id), wantBucket, w)
		}
		if id < BucketCount {
			t.Errorf("id %d for token %q is below BucketCount, ids must start at BucketCount+bucket", id, w)
		}
	}
}

func TestTokenToIntNotFound(t *testing.T) {
	m := New()
	id, ok := m.TokenToInt("never-interned")
	if ok {
		t.Fatal("expected ok=false for a never-interned token")
	}
	if id != NotFound {
		t.Fatalf("expected NotFound sentinel, got %d", id)
	}
}

func TestIntToTokenInvariantViolation(t *testing.T) {
	m := New()
	if _, err := m.IntToToken(42); err == nil {
		t.Fatal("expected an error for an id that was never assigned")
	}
	if _, err := m.IntToToken(NotFound); err == nil {
		t.Fatal("expected an error for the NotFound sentinel")
	}
}

func TestMonotonicIDsWithinBucket(t *testing.T) {
	m := New()
	// Two tokens that hash to the same bucket must receive strictly
	// increasing ids within that bucket.
	var sameBucket []string
	// Anagrams share a byte sum, so all of these land in one bucket.
	for _, w := range []string{"abc", "acb", "bac", "bca", "cab", "cba"} {
		sameBucket = append(sameBucket, w)
	}
	seen := map[uint32][]uint32{}
	for _, w := range sameBucket {
		id, _ := m.Intern(w)
		b := BucketOf(id)
		seen[b] = append(seen[b], id)
	}
	for b, ids := range seen {
		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				t.Errorf("bucket %d: ids not strictly increasing: %v", b, ids)
			}
		}
	}
}

func TestBucketStats(t *testing.T) {
	m := New()
	m.Intern("one")
	m.Intern("two")
	m.Intern("one") // duplicate, should not grow usage

	stats := m.BucketStats()
	if len(stats) != BucketCount {
		t.Fatalf("expected %d bucket stats, got %d", BucketCount, len(stats))
	}
	total := 0
	for _, s := range stats {
		total += s.Used
	}
	if total != 2 {
		t.Fatalf("expected 2 used slots total, got %d", total)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
}

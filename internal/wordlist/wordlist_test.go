package wordlist

import (
	"testing"

	"github.com/goto-vulture/tokintersect/internal/mapping"
	"github.com/goto-vulture/tokintersect/internal/token"
)

func TestBuildInternsEveryToken(t *testing.T) {
	m := mapping.New()
	corpus := &token.Corpus{
		Sequences: []token.Sequence{
			{
				DatasetID:       "doc1",
				Tokens:          []string{"the", "cat", "sat"},
				CharOffsets:     []uint16{0, 4, 8},
				SentenceOffsets: []uint16{0, 0, 0},
				WordOffsets:     []uint16{0, 1, 2},
			},
			{
				DatasetID:       "doc2",
				Tokens:          []string{"the", "dog"},
				CharOffsets:     []uint16{0, 4},
				SentenceOffsets: []uint16{0, 0},
				WordOffsets:     []uint16{0, 1},
			},
		},
	}

	l := Build(corpus, m)
	if len(l.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(l.Slots))
	}
	if m.Len() != 4 { // the, cat, sat, dog
		t.Fatalf("expected 4 unique tokens interned, got %d", m.Len())
	}

	theID1 := l.Slots[0].Entries[0].ID
	theID2 := l.Slots[1].Entries[0].ID
	if theID1 != theID2 {
		t.Fatalf("repeated token %q mapped to different ids across sequences: %d != %d", "the", theID1, theID2)
	}
	if l.Slots[0].Entries[1].CharOffset != 4 {
		t.Fatalf("offset not carried through: got %d, want 4", l.Slots[0].Entries[1].CharOffset)
	}
}

func TestIsNonEmptyEmptyList(t *testing.T) {
	l := New(0)
	if l.IsNonEmpty() {
		t.Fatal("an empty list must not be non-empty")
	}
}

func TestIsNonEmptyAllSentinels(t *testing.T) {
	l := New(1)
	l.AppendSlot("b1", []Entry{{ID: mapping.NotFound}, {ID: mapping.NotFound}})
	if l.IsNonEmpty() {
		t.Fatal("a slot with only sentinel entries must be empty")
	}
}

func TestIsNonEmptyOneRealEntry(t *testing.T) {
	l := New(1)
	l.AppendSlot("b1", []Entry{{ID: mapping.NotFound}, {ID: 142}})
	if !l.IsNonEmpty() {
		t.Fatal("a slot with a non-sentinel entry must be non-empty")
	}
}

func TestNonEmptyCount(t *testing.T) {
	l := New(1)
	l.AppendSlot("b1", []Entry{{ID: 1}, {ID: mapping.NotFound}, {ID: 2}})
	if got := l.NonEmptyCount(0); got != 2 {
		t.Fatalf("NonEmptyCount = %d, want 2", got)
	}
}

func TestIDs(t *testing.T) {
	l := New(1)
	l.AppendSlot("b1", []Entry{{ID: 7}, {ID: 8}, {ID: 9}})
	got := l.IDs(0)
	want := []uint32{7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

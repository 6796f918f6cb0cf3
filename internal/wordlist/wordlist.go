// Package wordlist implements the document word list: the mapped
// (integer) form of every sequence in a corpus, plus the three parallel
// offset arrays carried through from the raw token.Sequence. Its Entry
// type is also what the intersection engine returns, as a plain
// []Entry rather than a List.
//
// Grounded on Document_Word_List.c: one slot per sequence, each slot
// carrying its ids and offsets (here as one slice of Entry records),
// and IsNonEmpty answering DocumentWordList_IsDataInObject's question
// of whether any slot holds a non-sentinel id.
package wordlist

import (
	"github.com/goto-vulture/tokintersect/internal/mapping"
	"github.com/goto-vulture/tokintersect/internal/token"
)

// Entry is one mapped token occurrence: its id plus the three offsets
// it carried in the original sequence. spec.md §9 recommends collapsing
// the legacy's four parallel arrays into one slice of these records —
// this is that collapse.
type Entry struct {
	ID             uint32
	CharOffset     uint16
	SentenceOffset uint16
	WordOffset     uint16
}

// Slot holds one sequence's mapped entries plus its dataset id.
type Slot struct {
	DatasetID string
	Entries   []Entry
}

// List is a document word list: an ordered collection of Slots. A List
// built from a corpus has one Slot per sequence, in corpus order.
type List struct {
	Slots []Slot
	// IntersectionData marks whether offsets in this List are meaningful.
	// They always are for corpus lists and intersection results in this
	// spec; the flag exists because the legacy container reuses the same
	// struct for offset-less debug lists (spec.md §3).
	IntersectionData bool
}

// New creates an empty List sized for n sequences.
func New(n int) *List {
	return &List{Slots: make([]Slot, 0, n)}
}

// AppendSlot appends a fully-built slot (used when mapping a corpus).
func (l *List) AppendSlot(datasetID string, entries []Entry) {
	l.Slots = append(l.Slots, Slot{DatasetID: datasetID, Entries: entries})
}

// IDs returns the bare id array for slot i, in original order.
func (l *List) IDs(i int) []uint32 {
	entries := l.Slots[i].Entries
	ids := make([]uint32, len(entries))
	for j, e := range entries {
		ids[j] = e.ID
	}
	return ids
}

// IsNonEmpty reports whether there exists a populated slot with at
// least one non-sentinel entry.
//
// There is no separate "next free slot" counter: Slots holds exactly
// the appended slots, so the legacy next_free_array==0 branch has no
// counterpart and a loop over every slot answers the question.
func (l *List) IsNonEmpty() bool {
	for _, s := range l.Slots {
		for _, e := range s.Entries {
			if e.ID != mapping.NotFound {
				return true
			}
		}
	}
	return false
}

// Build maps every sequence of corpus into a List, interning each token
// into m as it goes. This is "pass 2" of spec.md §2's data flow: the
// token store feeds the mapping (pass 1, via Mapping.Intern calls made
// here) and the document word lists (pass 2, this function's output).
func Build(corpus *token.Corpus, m *mapping.Mapping) *List {
	l := New(corpus.Len())
	for _, seq := range corpus.Sequences {
		entries := make([]Entry, len(seq.Tokens))
		for i, tok := range seq.Tokens {
			id, _ := m.Intern(tok)
			entries[i] = Entry{
				ID:             id,
				CharOffset:     seq.CharOffsets[i],
				SentenceOffset: seq.SentenceOffsets[i],
				WordOffset:     seq.WordOffsets[i],
			}
		}
		l.AppendSlot(seq.DatasetID, entries)
	}
	l.IntersectionData = true
	return l
}

// NonEmptyCount returns the number of non-sentinel entries in slot i.
func (l *List) NonEmptyCount(i int) int {
	n := 0
	for _, e := range l.Slots[i].Entries {
		if e.ID != mapping.NotFound {
			n++
		}
	}
	return n
}

// Package mapping implements the token-int mapping: a bucketed
// string-to-id dictionary whose ids self-encode their bucket index.
//
// Grounded on Token_Int_Mapping.c's "Pseudo_Hash_Function" and id
// encoding scheme: the bucket is a byte-sum hash modulo BucketCount,
// and an id assigned in bucket b always satisfies id % BucketCount == b,
// so the owning bucket is recoverable from any id in O(1) — no search
// needed for the reverse mapping.
package mapping

import "github.com/goto-vulture/tokintersect/internal/xerr"

// BucketCount is the fixed number of buckets (spec.md §3: B = 100).
const BucketCount = 100

// NotFound is the reserved sentinel meaning "not present" / "filtered
// out". It is never assigned as a real id.
const NotFound uint32 = ^uint32(0)

const allocStep = 350

type bucket struct {
	tokens []string
	ids    []uint32
	nextID uint32 // explicit per-bucket monotonic counter (spec.md §9 open question)
}

// Mapping is the token-int mapping: BucketCount independent buckets,
// each holding a dense array of token strings and a parallel array of
// assigned ids.
type Mapping struct {
	buckets [BucketCount]bucket
}

// New creates an empty Mapping.
func New() *Mapping {
	m := &Mapping{}
	for i := range m.buckets {
		m.buckets[i].tokens = make([]string, 0, allocStep)
		m.buckets[i].ids = make([]uint32, 0, allocStep)
	}
	return m
}

// bucketOf computes the byte-sum hash modulo BucketCount used to place
// a token. This is a weak hash by design (spec.md §4.1): BucketCount
// partitions the corpus just enough that a linear scan per bucket is
// cheap; the performance bar is set by the intersection engine, not
// this mapping.
func bucketOf(tok string) uint32 {
	var sum uint32
	for i := 0; i < len(tok); i++ {
		sum += uint32(tok[i])
	}
	return sum % BucketCount
}

// BucketOf returns the bucket index encoded in an id, in O(1).
// id must be a previously-assigned id; NotFound is not a valid input.
func BucketOf(id uint32) uint32 {
	return id % BucketCount
}

// Intern assigns tok an id if it has none yet, or returns its existing
// id. freshlyAdded reports whether this call created a new entry.
// Idempotent on repeats (spec.md §4.1, §8).
func (m *Mapping) Intern(tok string) (id uint32, freshlyAdded bool) {
	b := bucketOf(tok)
	bk := &m.buckets[b]

	for i, existing := range bk.tokens {
		// Short-circuit on first-byte mismatch before a full compare,
		// mirroring Token_Int_Mapping.c's "pre check the first char".
		if len(existing) > 0 && len(tok) > 0 && existing[0] != tok[0] {
			continue
		}
		if existing == tok {
			return bk.ids[i], false
		}
	}

	// First id for an empty bucket is BucketCount+b (i.e. counter
	// starts at 1); subsequent ids step by BucketCount.
	bk.nextID += BucketCount
	newID := bk.nextID + b
	bk.tokens = append(bk.tokens, tok)
	bk.ids = append(bk.ids, newID)
	return newID, true
}

// TokenToInt looks up tok without allocating or mutating the mapping.
// Returns (NotFound, false) if tok was never interned.
func (m *Mapping) TokenToInt(tok string) (uint32, bool) {
	b := bucketOf(tok)
	bk := &m.buckets[b]
	for i, existing := range bk.tokens {
		if existing == tok {
			return bk.ids[i], true
		}
	}
	return NotFound, false
}

// IntToToken returns the token for a previously-assigned id. id must
// not be NotFound. Returns an Invariant error if id was never assigned —
// the bucket it maps to exists, but no entry in it carries this id.
func (m *Mapping) IntToToken(id uint32) (string, error) {
	if id == NotFound {
		return "", xerr.Invariantf("mapping: IntToToken called with the NotFound sentinel")
	}
	b := BucketOf(id)
	bk := &m.buckets[b]
	for i, assigned := range bk.ids {
		if assigned == id {
			return bk.tokens[i], nil
		}
	}
	return "", xerr.Invariantf("mapping: id %d not found in bucket %d", id, b)
}

// BucketStat is one bucket's usage, surfaced by the --show-bucket-stats
// debug flag (SPEC_FULL.md §4, grounded on Token_Int_Mapping.c's
// Show_C_Str_Array_Usage).
type BucketStat struct {
	Bucket    int
	Used      int
	Allocated int
}

// BucketStats returns per-bucket used/allocated counts.
func (m *Mapping) BucketStats() []BucketStat {
	stats := make([]BucketStat, BucketCount)
	for i := range m.buckets {
		stats[i] = BucketStat{
			Bucket:    i,
			Used:      len(m.buckets[i].tokens),
			Allocated: cap(m.buckets[i].tokens),
		}
	}
	return stats
}

// Len returns the total number of interned tokens across all buckets.
func (m *Mapping) Len() int {
	n := 0
	for i := range m.buckets {
		n += len(m.buckets[i].tokens)
	}
	return n
}

// Package report implements the driver/emitter (spec.md §4.4): it
// builds the mapping and document word lists for two corpora, runs
// the N_B×N_A pairwise intersection, classifies each surviving result
// as partial or full, and streams the JSON report described in
// spec.md §6.
//
// Grounded on Exec_Intersection.c's state machine (general-info block,
// too-long-tokens block, per-B outer object, per-A inner object, a
// trailing counter block) and on the teacher's index.go progress/flush
// conventions (a ProgressFunc callback, an explicit Flush at the end).
package report

import (
	"io"
	"time"

	"github.com/goto-vulture/tokintersect/internal/config"
	"github.com/goto-vulture/tokintersect/internal/intersect"
	"github.com/goto-vulture/tokintersect/internal/mapping"
	"github.com/goto-vulture/tokintersect/internal/stopword"
	"github.com/goto-vulture/tokintersect/internal/token"
	"github.com/goto-vulture/tokintersect/internal/wordlist"
	"github.com/goto-vulture/tokintersect/internal/xerr"
)

// ProgressFunc is invoked once per B sequence as the driver works
// through the outer loop. done/total are B-sequence counts and
// elapsed is the wall-clock time since the previous call. Grounded on
// the teacher's index.ProgressFunc (func(done, total int, path
// string, skipped bool)); per spec.md §4.4 the callback must not
// affect driver state.
type ProgressFunc func(done, total int, label string, elapsed time.Duration)

// Meta carries the general-info fields spec.md §6 names, each
// individually suppressible via Config's NO_* flags.
type Meta struct {
	FirstFile      string
	SecondFile     string
	CreationTime   time.Time
	ProgramVersion string
}

// Stats summarizes one completed run: spec.md §4.4's
// number_of_intersection_tokens / number_of_intersection_sets out
// parameters, split by match kind, plus the bucket usage snapshot
// SPEC_FULL.md §4 adds back from Token_Int_Mapping.c's
// Show_C_Str_Array_Usage.
type Stats struct {
	PartialSets         uint64
	FullSets            uint64
	TokensInPartialSets uint64
	TokensInFullSets    uint64
	AbortedEarly        bool
	BucketStats         []mapping.BucketStat
}

// Run executes the driver end to end: map both corpora, iterate B×A,
// and stream the report to sink. Any sink write failure is fatal
// (spec.md §7) and is returned wrapped as an xerr.IO error.
func Run(cfg config.Config, corpusA, corpusB *token.Corpus, sink io.Writer, progress ProgressFunc, meta Meta) (Stats, error) {
	if !cfg.CaseSensitive {
		corpusA = foldCase(corpusA)
		corpusB = foldCase(corpusB)
	}

	m := mapping.New()
	listA := wordlist.Build(corpusA, m)
	listB := wordlist.Build(corpusB, m)

	j := newJSONWriter(sink, !cfg.ShortenOutput)
	j.BeginRoot()
	writeGeneralInfo(j, cfg, meta)
	writeTooLongTokens(j, cfg, corpusA, corpusB)

	var stats Stats
	total := len(corpusB.Sequences)
	abortAt := cfg.AbortAtPercent
	lastTick := time.Now()

	for bi, bSeq := range corpusB.Sequences {
		if abortAt > 0 && total > 0 && (bi*100)/total >= abortAt {
			stats.AbortedEarly = true
			break
		}

		emitB(j, cfg, m, bSeq, bi, listB, listA, corpusA, &stats)

		if progress != nil {
			now := time.Now()
			progress(bi+1, total, bSeq.DatasetID, now.Sub(lastTick))
			lastTick = now
		}
	}

	if !cfg.NoCounts {
		writeCounts(j, stats)
	}
	j.EndRoot()

	stats.BucketStats = m.BucketStats()

	if err := j.Flush(); err != nil {
		return stats, xerr.New(xerr.IO, "report.Run", err)
	}
	return stats, nil
}

func writeGeneralInfo(j *jsonWriter, cfg config.Config, meta Meta) {
	j.ObjectField("General infos")

	j.ObjectField("Creation mode")
	j.BoolField("Part match", cfg.PartMatch)
	j.BoolField("Full match", cfg.FullMatch)
	j.BoolField("Stop word list used", cfg.StopWordList)
	j.BoolField("Char offset", cfg.CharOffset)
	j.BoolField("Sentence offset", cfg.SentenceOffset)
	j.BoolField("Word offset", cfg.WordOffset)
	j.BoolField("Case sensitive", cfg.CaseSensitive)
	j.EndObject()

	if !cfg.NoFilenames {
		j.StringField("First file", meta.FirstFile)
		j.StringField("Second file", meta.SecondFile)
	}
	if !cfg.NoCreationTime {
		j.StringField("Creation time", meta.CreationTime.Format(time.ANSIC))
	}
	if !cfg.NoProgramVersion {
		j.StringField("Program version", meta.ProgramVersion)
	}
	j.EndObject()
}

// writeTooLongTokens writes the too-long-tokens block gated behind
// ShowTooLongTokens: spec.md §6 lists SHOW_TOO_LONG_TOKENS among the
// configuration flags without saying what it gates, and the only
// unconditional consumer of "too long" data already named in the
// report shape is this block, so this is read as the suppressibility
// switch for it.
func writeTooLongTokens(j *jsonWriter, cfg config.Config, corpusA, corpusB *token.Corpus) {
	if !cfg.ShowTooLongTokens {
		return
	}
	j.ObjectField("Too long tokens")
	j.StringArrayField("First file", corpusA.TooLong)
	j.StringArrayField("Second file", corpusB.TooLong)
	j.EndObject()
}

// innerMatch is one qualifying (b, a) pair, fully computed and ready
// to write: the stop-word-filtered token set plus offsets, taken from
// the A sequence so they locate the match in corpus A (spec.md §1, §3;
// Exec_Intersection.c sources offsets from the inner/A loop).
type innerMatch struct {
	aDatasetID   string
	tokens       []string
	charOffs     []uint16
	sentenceOffs []uint16
	wordOffs     []uint16
	full         bool
}

// emitB computes every qualifying match for one B sequence against
// all of corpus A and, if any survive, streams the outer JSON object
// for it. spec.md §4.4 requires the outer object be skipped entirely
// when no A sequence produced a qualifying result, so the full set of
// matches for this B is assembled before any byte is written —
// bounded by N_A, not by the whole corpus, so this still satisfies the
// "stream per B sequence" shape spec.md §4.4 describes.
func emitB(j *jsonWriter, cfg config.Config, m *mapping.Mapping, bSeq token.Sequence, bi int, listB *wordlist.List, listA *wordlist.List, corpusA *token.Corpus, stats *Stats) {
	bSlot := listB.Slots[bi]
	bTokens := make([]string, len(bSlot.Entries))
	for i, e := range bSlot.Entries {
		tok, _ := m.IntToToken(e.ID)
		bTokens[i] = tok
	}

	var bTokensNoStop []string
	for _, tok := range bTokens {
		if isFilteredStopWord(cfg, tok) {
			continue
		}
		bTokensNoStop = append(bTokensNoStop, tok)
	}

	matches := computeMatches(cfg, m, bi, listB, len(bTokensNoStop), listA, corpusA)
	if len(matches) == 0 {
		return
	}

	j.ObjectField(bSeq.DatasetID)
	j.StringArrayField("tokens", bTokens)
	j.StringArrayField("tokens w/o stop words", bTokensNoStop)

	if cfg.PartMatch {
		j.ObjectField("Inters. (partial)")
		for _, im := range matches {
			if !im.full {
				writeInnerMatch(j, cfg, im)
			}
		}
		j.EndObject()
	}
	if cfg.FullMatch {
		j.ObjectField("Inters. (full)")
		for _, im := range matches {
			if im.full {
				writeInnerMatch(j, cfg, im)
			}
		}
		j.EndObject()
	}
	j.EndObject()

	for _, im := range matches {
		n := uint64(len(im.tokens))
		if im.full {
			stats.FullSets++
			stats.TokensInFullSets += n
		} else {
			stats.PartialSets++
			stats.TokensInPartialSets += n
		}
	}
}

// computeMatches runs the intersection engine once per A sequence and
// applies the filter/classify rules of spec.md §4.4's pseudocode.
// Corpus A's slot is passed as the intersection reference so the
// result's offsets and token order come from A, not B (spec.md §1, §3).
func computeMatches(cfg config.Config, m *mapping.Mapping, bi int, listB *wordlist.List, bNonStopCount int, listA *wordlist.List, corpusA *token.Corpus) []innerMatch {
	var out []innerMatch
	bIDs := listB.IDs(bi)

	for ai, aSeq := range corpusA.Sequences {
		r := intersect.Intersect(cfg.Algorithm, listA.Slots[ai], bIDs)
		if len(r) == 0 {
			continue
		}

		// Stop-word entries are skipped here rather than overwritten
		// with the NotFound sentinel, so they never reach the emitted
		// arrays and the tokens/offsets arrays stay in lock-step.
		left := 0
		var tokens []string
		var charOffs, sentenceOffs, wordOffs []uint16
		for _, e := range r {
			tok, _ := m.IntToToken(e.ID)
			if isFilteredStopWord(cfg, tok) {
				continue
			}
			left++
			tokens = append(tokens, tok)
			charOffs = append(charOffs, e.CharOffset)
			sentenceOffs = append(sentenceOffs, e.SentenceOffset)
			wordOffs = append(wordOffs, e.WordOffset)
		}
		if left < cfg.MinLeft() {
			continue
		}

		full := left == bNonStopCount
		if full && !cfg.FullMatch {
			continue
		}
		if !full && !cfg.PartMatch {
			continue
		}

		out = append(out, innerMatch{
			aDatasetID:   aSeq.DatasetID,
			tokens:       tokens,
			charOffs:     charOffs,
			sentenceOffs: sentenceOffs,
			wordOffs:     wordOffs,
			full:         full,
		})
	}
	return out
}

func writeInnerMatch(j *jsonWriter, cfg config.Config, im innerMatch) {
	j.ObjectField(im.aDatasetID)
	j.StringArrayField("tokens", im.tokens)
	if cfg.CharOffset {
		j.Uint16ArrayField("char offs.", im.charOffs)
	}
	if cfg.SentenceOffset {
		j.Uint16ArrayField("sentence offs.", im.sentenceOffs)
	}
	if cfg.WordOffset {
		j.Uint16ArrayField("word offs.", im.wordOffs)
	}
	j.EndObject()
}

func writeCounts(j *jsonWriter, stats Stats) {
	j.ObjectField("Counts")
	j.IntField("partial sets", int64(stats.PartialSets))
	j.IntField("full sets", int64(stats.FullSets))
	j.IntField("tokens in partial sets", int64(stats.TokensInPartialSets))
	j.IntField("tokens in full sets", int64(stats.TokensInFullSets))
	j.EndObject()
}

func isFilteredStopWord(cfg config.Config, tok string) bool {
	return cfg.StopWordList && stopword.IsStopWord(tok, stopword.English)
}

// foldCase returns a copy of c with every token lower-cased, used when
// CASE_SENSITIVE is disabled so that tokens differing only by case
// intern to the same id (spec.md §6's "Case sensitive" flag). Offset
// arrays and dataset ids are shared, not copied — only Tokens differs.
func foldCase(c *token.Corpus) *token.Corpus {
	out := &token.Corpus{
		Sequences: make([]token.Sequence, len(c.Sequences)),
		TooLong:   c.TooLong,
	}
	for i, seq := range c.Sequences {
		folded := make([]string, len(seq.Tokens))
		for j, tok := range seq.Tokens {
			folded[j] = toLower(tok)
		}
		out.Sequences[i] = token.Sequence{
			DatasetID:       seq.DatasetID,
			Tokens:          folded,
			CharOffsets:     seq.CharOffsets,
			SentenceOffsets: seq.SentenceOffsets,
			WordOffsets:     seq.WordOffsets,
		}
	}
	return out
}

func toLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

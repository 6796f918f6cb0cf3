// Package corpus loads a token.Corpus from the upstream tokeniser's
// on-disk form (spec.md §6, "Input (corpus source)"). The core itself
// never parses JSON at this boundary per spec.md §9 ("Vendored
// JSON") — this package is the external collaborator that does, kept
// deliberately thin and swappable behind the Source interface.
//
// Grounded on File_Reader.c's role in the pipeline (the thing that
// turns a preprocessed file into a Token_List_Container) and on the
// teacher's os.ReadFile / fmt.Errorf("...: %w", err) file-handling
// idiom (internal/index/index.go).
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goto-vulture/tokintersect/internal/token"
)

// Source yields one TokenCorpus. Swappable so tests can supply
// in-memory corpora without touching the filesystem.
type Source interface {
	Load() (*token.Corpus, error)
}

// record is the on-disk shape of one sequence (spec.md §6's input
// record, field-for-field).
type record struct {
	Tokens          []string `json:"tokens"`
	CharOffsets     []uint16 `json:"char_offsets"`
	SentenceOffsets []uint16 `json:"sentence_offsets"`
	WordOffsets     []uint16 `json:"word_offsets"`
}

// validateParallelArrays enforces spec.md §3's "all four arrays have
// identical length" before any token is inspected for overlength,
// catching a malformed input record as an I/O-boundary error instead
// of silently padding or truncating offsets.
func (r record) validateParallelArrays(datasetID string) error {
	n := len(r.Tokens)
	if len(r.CharOffsets) != n || len(r.SentenceOffsets) != n || len(r.WordOffsets) != n {
		return fmt.Errorf("dataset %q: parallel array length mismatch (tokens=%d char=%d sentence=%d word=%d)",
			datasetID, n, len(r.CharOffsets), len(r.SentenceOffsets), len(r.WordOffsets))
	}
	return nil
}

// FileSource loads a corpus from a JSON file: a top-level object
// mapping dataset id to record, decoded as a token stream (rather than
// into a map) so that TokenCorpus's §3-mandated ordering matches the
// order dataset ids appear in the file — encoding/json's map decoding
// does not preserve key order, so a plain Unmarshal into
// map[string]record would silently violate spec.md §3's "ordering is
// observable" invariant.
type FileSource struct {
	Path string
}

func (s FileSource) Load() (*token.Corpus, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file %s: %w", s.Path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", s.Path, err)
	}

	c := &token.Corpus{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse corpus file %s: %w", s.Path, err)
		}
		datasetID, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse corpus file %s: expected string key, got %v", s.Path, keyTok)
		}

		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parse corpus file %s: dataset %q: %w", s.Path, datasetID, err)
		}
		if err := rec.validateParallelArrays(datasetID); err != nil {
			return nil, fmt.Errorf("parse corpus file %s: %w", s.Path, err)
		}

		seq, overlong := splitOverlong(datasetID, rec)
		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("parse corpus file %s: dataset %q: %w", s.Path, datasetID, err)
		}
		c.Sequences = append(c.Sequences, seq)
		c.TooLong = append(c.TooLong, overlong...)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", s.Path, err)
	}
	return c, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of input, want %q", want)
	}
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// splitOverlong removes tokens rejected by token.IsOverlong from the
// sequence (spec.md §3: "never entered into the mapping or
// intersection pipeline; they are reported at the top of the
// output"), keeping the three offset arrays in lock-step with the
// surviving tokens.
func splitOverlong(datasetID string, rec record) (token.Sequence, []string) {
	seq := token.Sequence{DatasetID: datasetID}
	var overlong []string

	for i, tok := range rec.Tokens {
		if token.IsOverlong(tok) {
			overlong = append(overlong, tok)
			continue
		}
		seq.Tokens = append(seq.Tokens, tok)
		seq.CharOffsets = append(seq.CharOffsets, at(rec.CharOffsets, i))
		seq.SentenceOffsets = append(seq.SentenceOffsets, at(rec.SentenceOffsets, i))
		seq.WordOffsets = append(seq.WordOffsets, at(rec.WordOffsets, i))
	}
	return seq, overlong
}

func at(offsets []uint16, i int) uint16 {
	if i < len(offsets) {
		return offsets[i]
	}
	return 0
}

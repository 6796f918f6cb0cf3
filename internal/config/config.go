// Package config holds the run's Configuration value: an immutable
// struct built once at startup and threaded through the driver,
// never process-wide mutable state (spec.md §9, "Global mutable
// config").
//
// Grounded on cmd/sift/main.go's .sift.toml + flag-override pattern:
// an optional TOML file is read first, then cobra flags are bound with
// the file's values (or hard defaults) as their defaults, so flags
// always win.
package config

import (
	"github.com/goto-vulture/tokintersect/internal/intersect"
	"github.com/goto-vulture/tokintersect/internal/xerr"
)

// Config is the run's immutable configuration value (spec.md §6).
type Config struct {
	PartMatch              bool
	FullMatch              bool
	StopWordList           bool
	CharOffset             bool
	SentenceOffset         bool
	WordOffset             bool
	CaseSensitive          bool
	ShortenOutput          bool
	NoFilenames            bool
	NoCreationTime         bool
	NoProgramVersion       bool
	KeepSingleTokenResults bool
	ShowTooLongTokens      bool

	// Supplemented (SPEC_FULL.md §4), not part of spec.md's flag set.
	ShowBucketStats bool
	NoCounts        bool

	Algorithm      intersect.Algorithm
	AbortAtPercent int
}

// Default returns spec.md §6's documented default set:
// PART_MATCH | FULL_MATCH | STOP_WORD_LIST | CHAR_OFFSET | CASE_SENSITIVE.
func Default() Config {
	return Config{
		PartMatch:     true,
		FullMatch:     true,
		StopWordList:  true,
		CharOffset:    true,
		CaseSensitive: true,
		Algorithm:     intersect.NestedLoops,
	}
}

// Flags is the flag-level input FromFlags assembles a Config from: one
// bool per spec.md §6 entry, expressed as "disable" flags where the
// default is on and "enable" flags where the default is off, matching
// how cmd/tokintersect's cobra flags are declared.
type Flags struct {
	NoPartMatch            bool
	NoFullMatch            bool
	NoStopWords            bool
	NoCharOffset           bool
	SentenceOffset         bool
	WordOffset             bool
	CaseInsensitive        bool
	ShortenOutput          bool
	NoFilenames            bool
	NoCreationTime         bool
	NoProgramVersion       bool
	KeepSingleTokenResults bool
	ShowTooLongTokens      bool
	ShowBucketStats        bool
	NoCounts               bool
	Algorithm              string
	AbortAtPercent         int
}

// FromFlags builds a Config from parsed CLI flags, starting from
// Default() and applying each override. AbortAtPercent and Algorithm
// are validated here so FromFlags is the single place a malformed
// flag combination becomes a Configuration error.
func FromFlags(f Flags) (Config, error) {
	c := Default()

	c.PartMatch = !f.NoPartMatch
	c.FullMatch = !f.NoFullMatch
	c.StopWordList = !f.NoStopWords
	c.CharOffset = !f.NoCharOffset
	c.SentenceOffset = f.SentenceOffset
	c.WordOffset = f.WordOffset
	c.CaseSensitive = !f.CaseInsensitive
	c.ShortenOutput = f.ShortenOutput
	c.NoFilenames = f.NoFilenames
	c.NoCreationTime = f.NoCreationTime
	c.NoProgramVersion = f.NoProgramVersion
	c.KeepSingleTokenResults = f.KeepSingleTokenResults
	c.ShowTooLongTokens = f.ShowTooLongTokens
	c.ShowBucketStats = f.ShowBucketStats
	c.NoCounts = f.NoCounts
	c.AbortAtPercent = f.AbortAtPercent

	algo, err := parseAlgorithm(f.Algorithm)
	if err != nil {
		return Config{}, err
	}
	c.Algorithm = algo

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func parseAlgorithm(name string) (intersect.Algorithm, error) {
	switch name {
	case "", "nested":
		return intersect.NestedLoops, nil
	case "qsort":
		return intersect.QuickSortBinarySearch, nil
	case "heapsort":
		return intersect.HeapSortBinarySearch, nil
	default:
		return 0, xerr.New(xerr.Configuration, "parseAlgorithm",
			xerr.Invariantf("unknown algorithm %q (want nested, qsort or heapsort)", name))
	}
}

// MinLeft is spec.md §4.4's "min_left": 2 by default, 1 when
// KeepSingleTokenResults is set.
func (c Config) MinLeft() int {
	if c.KeepSingleTokenResults {
		return 1
	}
	return 2
}

// Validate rejects configurations the driver cannot act on: spec.md
// §7 requires configuration errors to surface at startup, never in
// the hot loop.
func (c Config) Validate() error {
	if !c.PartMatch && !c.FullMatch {
		return xerr.New(xerr.Configuration, "Config.Validate",
			xerr.Invariantf("at least one of part-match or full-match must be enabled"))
	}
	if c.AbortAtPercent < 0 || c.AbortAtPercent > 100 {
		return xerr.New(xerr.Configuration, "Config.Validate",
			xerr.Invariantf("abort-at-percent must be in [0, 100], got %d", c.AbortAtPercent))
	}
	return nil
}

// TOMLFile mirrors main.go's `.sift.toml`-shaped struct: the subset of
// Flags worth persisting in a project-local config file. Cobra flags
// bound against these values as their defaults, so a flag explicitly
// passed on the command line still wins (spec.md §9 threads config as
// a value, never a hidden global — the precedence is resolved once,
// here, before any Config is built).
type TOMLFile struct {
	NoPartMatch            bool   `toml:"no-part-match"`
	NoFullMatch            bool   `toml:"no-full-match"`
	NoStopWords            bool   `toml:"no-stop-words"`
	NoCharOffset           bool   `toml:"no-char-offset"`
	SentenceOffset         bool   `toml:"sentence-offset"`
	WordOffset             bool   `toml:"word-offset"`
	CaseInsensitive        bool   `toml:"case-insensitive"`
	ShortenOutput          bool   `toml:"shorten-output"`
	NoFilenames            bool   `toml:"no-filenames"`
	NoCreationTime         bool   `toml:"no-creation-time"`
	NoProgramVersion       bool   `toml:"no-program-version"`
	KeepSingleTokenResults bool   `toml:"keep-single-token-results"`
	ShowTooLongTokens      bool   `toml:"show-too-long-tokens"`
	ShowBucketStats        bool   `toml:"show-bucket-stats"`
	NoCounts               bool   `toml:"no-counts"`
	Algorithm              string `toml:"algorithm"`
	AbortAtPercent         int    `toml:"abort-at-percent"`
}

// ApplyTOML overlays a loaded TOMLFile onto Flags, used as the
// pre-parse default source (mirrors main.go: "if b, err :=
// os.ReadFile(...); err == nil { ... }").
func (f Flags) ApplyTOML(t TOMLFile) Flags {
	f.NoPartMatch = t.NoPartMatch
	f.NoFullMatch = t.NoFullMatch
	f.NoStopWords = t.NoStopWords
	f.NoCharOffset = t.NoCharOffset
	f.SentenceOffset = t.SentenceOffset
	f.WordOffset = t.WordOffset
	f.CaseInsensitive = t.CaseInsensitive
	f.ShortenOutput = t.ShortenOutput
	f.NoFilenames = t.NoFilenames
	f.NoCreationTime = t.NoCreationTime
	f.NoProgramVersion = t.NoProgramVersion
	f.KeepSingleTokenResults = t.KeepSingleTokenResults
	f.ShowTooLongTokens = t.ShowTooLongTokens
	f.ShowBucketStats = t.ShowBucketStats
	f.NoCounts = t.NoCounts
	if t.Algorithm != "" {
		f.Algorithm = t.Algorithm
	}
	if t.AbortAtPercent != 0 {
		f.AbortAtPercent = t.AbortAtPercent
	}
	return f
}

package config

import (
	"errors"
	"testing"

	"github.com/goto-vulture/tokintersect/internal/intersect"
	"github.com/goto-vulture/tokintersect/internal/xerr"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	c := Default()
	if !c.PartMatch || !c.FullMatch || !c.StopWordList || !c.CharOffset || !c.CaseSensitive {
		t.Fatalf("Default() missing an always-on flag: %+v", c)
	}
	if c.SentenceOffset || c.WordOffset || c.ShortenOutput || c.NoFilenames {
		t.Fatalf("Default() turned on a flag that should default off: %+v", c)
	}
}

func TestFromFlagsOverridesDefaults(t *testing.T) {
	c, err := FromFlags(Flags{
		NoPartMatch:    true,
		SentenceOffset: true,
		Algorithm:      "qsort",
	})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if c.PartMatch {
		t.Fatal("NoPartMatch flag should have disabled PartMatch")
	}
	if !c.FullMatch {
		t.Fatal("FullMatch should remain on by default")
	}
	if !c.SentenceOffset {
		t.Fatal("SentenceOffset flag should have enabled SentenceOffset")
	}
	if c.Algorithm != intersect.QuickSortBinarySearch {
		t.Fatalf("Algorithm = %v, want qsort", c.Algorithm)
	}
}

func TestFromFlagsRejectsBothMatchKindsDisabled(t *testing.T) {
	_, err := FromFlags(Flags{NoPartMatch: true, NoFullMatch: true})
	if err == nil {
		t.Fatal("expected a Configuration error when both match kinds are disabled")
	}
	var xe *xerr.Error
	if !errors.As(err, &xe) || xe.Kind != xerr.Configuration {
		t.Fatalf("expected xerr.Configuration, got %v", err)
	}
}

func TestFromFlagsRejectsUnknownAlgorithm(t *testing.T) {
	_, err := FromFlags(Flags{Algorithm: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown algorithm name")
	}
}

func TestFromFlagsRejectsOutOfRangeAbortPercent(t *testing.T) {
	_, err := FromFlags(Flags{AbortAtPercent: 101})
	if err == nil {
		t.Fatal("expected an error for abort-at-percent > 100")
	}
	_, err = FromFlags(Flags{AbortAtPercent: -1})
	if err == nil {
		t.Fatal("expected an error for abort-at-percent < 0")
	}
}

func TestMinLeft(t *testing.T) {
	c := Default()
	if c.MinLeft() != 2 {
		t.Fatalf("MinLeft() = %d, want 2 by default", c.MinLeft())
	}
	c.KeepSingleTokenResults = true
	if c.MinLeft() != 1 {
		t.Fatalf("MinLeft() = %d, want 1 with KeepSingleTokenResults", c.MinLeft())
	}
}

func TestApplyTOMLOverridesFlagDefaults(t *testing.T) {
	f := Flags{}.ApplyTOML(TOMLFile{
		NoPartMatch:    true,
		Algorithm:      "heapsort",
		AbortAtPercent: 50,
	})
	if !f.NoPartMatch {
		t.Fatal("ApplyTOML should have carried NoPartMatch through")
	}
	if f.Algorithm != "heapsort" {
		t.Fatalf("Algorithm = %q, want heapsort", f.Algorithm)
	}
	if f.AbortAtPercent != 50 {
		t.Fatalf("AbortAtPercent = %d, want 50", f.AbortAtPercent)
	}
}

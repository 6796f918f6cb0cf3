package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goto-vulture/tokintersect/internal/mapping"
)

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "nested"); got != "nested" {
		t.Fatalf("firstNonEmpty(\"\", \"nested\") = %q, want nested", got)
	}
	if got := firstNonEmpty("qsort", "nested"); got != "qsort" {
		t.Fatalf("firstNonEmpty(\"qsort\", \"nested\") = %q, want qsort", got)
	}
}

func TestLoadTOMLFileMissing(t *testing.T) {
	if _, err := loadTOMLFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadTOMLFileParsesKnownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tokintersect.toml")
	body := "no-full-match = true\nalgorithm = \"qsort\"\nabort-at-percent = 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := loadTOMLFile(path)
	if err != nil {
		t.Fatalf("loadTOMLFile: %v", err)
	}
	if !got.NoFullMatch || got.Algorithm != "qsort" || got.AbortAtPercent != 10 {
		t.Fatalf("unexpected TOMLFile: %+v", got)
	}
}

func TestOpenSinkStdout(t *testing.T) {
	w, closeSink, err := openSink("")
	if err != nil {
		t.Fatalf("openSink: %v", err)
	}
	defer closeSink()
	if w != os.Stdout {
		t.Fatal("expected stdout sink for an empty path")
	}
}

func TestOpenSinkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w, closeSink, err := openSink(path)
	if err != nil {
		t.Fatalf("openSink: %v", err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	closeSink()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("file contents = %q, want {}", got)
	}
}

func TestLoadCorporaReadsBothFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	body := `{"seq1":{"tokens":["alpha","beta"],"char_offsets":[0,6],"sentence_offsets":[0,0],"word_offsets":[0,1]}}`
	if err := os.WriteFile(pathA, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(pathB, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	corpusA, corpusB, err := loadCorpora(pathA, pathB)
	if err != nil {
		t.Fatalf("loadCorpora: %v", err)
	}
	if len(corpusA.Sequences) != 1 || len(corpusB.Sequences) != 1 {
		t.Fatalf("expected one sequence per corpus, got %d / %d", len(corpusA.Sequences), len(corpusB.Sequences))
	}
}

func TestLoadCorporaMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := loadCorpora(filepath.Join(dir, "nope-a.json"), filepath.Join(dir, "nope-b.json")); err == nil {
		t.Fatal("expected an error for missing corpus files")
	}
}

func TestMakeProgressPrinterWritesFinalNewline(t *testing.T) {
	var buf bytes.Buffer
	stderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = stderr }()

	printer := makeProgressPrinter()
	printer(1, 1, "b1", time.Millisecond)
	w.Close()
	buf.ReadFrom(r)

	if got := buf.String(); got == "" || got[len(got)-1] != '\n' {
		t.Fatalf("expected a trailing newline on completion, got %q", got)
	}
}

func TestPrintBucketStatsSkipsEmptyBuckets(t *testing.T) {
	var buf bytes.Buffer
	printBucketStats(&buf, []mapping.BucketStat{{Bucket: 0, Used: 0, Allocated: 4}, {Bucket: 1, Used: 2, Allocated: 4}})
	out := buf.String()
	if bytesContains(out, "bucket   0") {
		t.Fatalf("expected empty bucket 0 to be skipped, got %q", out)
	}
	if !bytesContains(out, "bucket   1") {
		t.Fatalf("expected bucket 1 to be printed, got %q", out)
	}
}

func bytesContains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}

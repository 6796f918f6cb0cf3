// tokintersect computes the token-set intersection report between two
// tokenised corpora (SPEC_FULL.md §1). It exposes a cobra command tree
// in the teacher's shape: a root command with persistent, config-file-
// backed flags plus one subcommand per verb.
//
// Grounded on cmd/sift/main.go: the `.sift.toml`-then-flags precedence,
// the status-line-to-stderr logging convention, and the
// "openIndex"-style helper pattern (here, loadCorpora, openSink and
// reportMeta) are all carried
// over, generalized from an ONNX-backed search index to this spec's
// corpus/report driver.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goto-vulture/tokintersect/internal/config"
	"github.com/goto-vulture/tokintersect/internal/corpus"
	"github.com/goto-vulture/tokintersect/internal/mapping"
	"github.com/goto-vulture/tokintersect/internal/progresstui"
	"github.com/goto-vulture/tokintersect/internal/report"
	"github.com/goto-vulture/tokintersect/internal/token"
)

// version is overwritten at build time via -ldflags; the teacher
// leaves cobra's Version plumbing at defaults, so this just surfaces
// something in the "Program version" report field and `tokintersect
// version`.
var version = "dev"

const defaultConfigFile = ".tokintersect.toml"

func main() {
	root := &cobra.Command{
		Use:   "tokintersect",
		Short: "Token-set intersection between two tokenised corpora",
		Long:  "tokintersect — computes, for every pair of sequences across two tokenised corpora, the shared token set and streams a JSON report.",
	}
	root.Version = version

	flags := config.Flags{}
	if fileFlags, err := loadTOMLFile(defaultConfigFile); err == nil {
		flags = flags.ApplyTOML(fileFlags)
	}

	var outPath string
	var algorithm string

	registerRunFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVar(&flags.NoPartMatch, "no-part-match", flags.NoPartMatch, "suppress partial-match results")
		cmd.Flags().BoolVar(&flags.NoFullMatch, "no-full-match", flags.NoFullMatch, "suppress full-match results")
		cmd.Flags().BoolVar(&flags.NoStopWords, "no-stop-words", flags.NoStopWords, "disable stop-word filtering")
		cmd.Flags().BoolVar(&flags.NoCharOffset, "no-char-offset", flags.NoCharOffset, "omit char offsets from the report")
		cmd.Flags().BoolVar(&flags.SentenceOffset, "sentence-offset", flags.SentenceOffset, "include sentence offsets in the report")
		cmd.Flags().BoolVar(&flags.WordOffset, "word-offset", flags.WordOffset, "include word offsets in the report")
		cmd.Flags().BoolVar(&flags.CaseInsensitive, "case-insensitive", flags.CaseInsensitive, "fold token case before interning")
		cmd.Flags().BoolVar(&flags.ShortenOutput, "shorten", flags.ShortenOutput, "emit compact (non pretty-printed) JSON")
		cmd.Flags().BoolVar(&flags.NoFilenames, "no-filenames", flags.NoFilenames, "omit input file names from General infos")
		cmd.Flags().BoolVar(&flags.NoCreationTime, "no-creation-time", flags.NoCreationTime, "omit the creation timestamp")
		cmd.Flags().BoolVar(&flags.NoProgramVersion, "no-program-version", flags.NoProgramVersion, "omit the program version field")
		cmd.Flags().BoolVar(&flags.KeepSingleTokenResults, "keep-single-token-results", flags.KeepSingleTokenResults, "keep results with a single surviving token")
		cmd.Flags().BoolVar(&flags.ShowTooLongTokens, "show-too-long-tokens", flags.ShowTooLongTokens, "include the too-long-tokens block in the report")
		cmd.Flags().BoolVar(&flags.ShowBucketStats, "show-bucket-stats", flags.ShowBucketStats, "print mapping bucket usage to stderr after the report is written (run only)")
		cmd.Flags().BoolVar(&flags.NoCounts, "no-counts", flags.NoCounts, "omit the trailing Counts block")
		cmd.Flags().StringVar(&algorithm, "algorithm", firstNonEmpty(flags.Algorithm, "nested"), "intersection algorithm: nested, qsort or heapsort")
		cmd.Flags().IntVar(&flags.AbortAtPercent, "abort-at-percent", flags.AbortAtPercent, "abort after this much progress (0 = disabled, debug aid)")
		cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")
	}

	// ---- tokintersect run <fileA.json> <fileB.json> ------------------------
	runCmd := &cobra.Command{
		Use:   "run <fileA.json> <fileB.json>",
		Short: "Run the intersection driver and write the JSON report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Algorithm = algorithm
			cfg, err := config.FromFlags(flags)
			if err != nil {
				return err
			}

			sink, closeSink, err := openSink(outPath)
			if err != nil {
				return err
			}
			defer closeSink()

			fmt.Fprint(os.Stderr, "Loading corpora… ")
			corpusA, corpusB, err := loadCorpora(args[0], args[1])
			if err != nil {
				fmt.Fprintln(os.Stderr, "")
				return err
			}
			fmt.Fprintln(os.Stderr, "ready.")

			progress := makeProgressPrinter()
			stats, err := report.Run(cfg, corpusA, corpusB, sink, progress, reportMeta(args[0], args[1], cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Done. %d partial, %d full match sets (%d tokens total).\n",
				stats.PartialSets, stats.FullSets, stats.TokensInPartialSets+stats.TokensInFullSets)
			if cfg.ShowBucketStats {
				printBucketStats(os.Stderr, stats.BucketStats)
			}
			return nil
		},
	}
	registerRunFlags(runCmd)
	root.AddCommand(runCmd)

	// ---- tokintersect tui <fileA.json> <fileB.json> ------------------------
	tuiCmd := &cobra.Command{
		Use:   "tui <fileA.json> <fileB.json>",
		Short: "Run the driver behind a live progress bar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Algorithm = algorithm
			cfg, err := config.FromFlags(flags)
			if err != nil {
				return err
			}

			sink, closeSink, err := openSink(outPath)
			if err != nil {
				return err
			}
			defer closeSink()

			corpusA, corpusB, err := loadCorpora(args[0], args[1])
			if err != nil {
				return err
			}

			m := progresstui.New(len(corpusB.Sequences))
			p := tea.NewProgram(m)

			type runResult struct {
				stats report.Stats
				err   error
			}
			done := make(chan runResult, 1)

			go func() {
				progress := func(d, t int, label string, elapsed time.Duration) {
					p.Send(progresstui.ProgressMsg{Done: d, Total: t, Label: label, Elapsed: elapsed})
				}
				stats, err := report.Run(cfg, corpusA, corpusB, sink, progress, reportMeta(args[0], args[1], cfg))
				if err != nil {
					p.Send(progresstui.ErrMsg{Err: err})
				} else {
					p.Send(progresstui.DoneMsg{Stats: stats})
				}
				done <- runResult{stats, err}
			}()

			if _, err := p.Run(); err != nil {
				return err
			}
			res := <-done
			return res.err
		},
	}
	registerRunFlags(tuiCmd)
	root.AddCommand(tuiCmd)

	// ---- tokintersect version -----------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadTOMLFile(path string) (config.TOMLFile, error) {
	var t config.TOMLFile
	b, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := toml.Unmarshal(b, &t); err != nil {
		return t, err
	}
	return t, nil
}

func loadCorpora(pathA, pathB string) (cA, cB *token.Corpus, err error) {
	a, err := (corpus.FileSource{Path: pathA}).Load()
	if err != nil {
		return nil, nil, err
	}
	b, err := (corpus.FileSource{Path: pathB}).Load()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func openSink(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func reportMeta(pathA, pathB string, cfg config.Config) report.Meta {
	return report.Meta{
		FirstFile:      pathA,
		SecondFile:     pathB,
		CreationTime:   time.Now(),
		ProgramVersion: version,
	}
}

// makeProgressPrinter returns a report.ProgressFunc that prints a
// compact progress line, matching the teacher's
// `\r  [%d/%d] %3d%%  %-50s` shape in cmd/sift/main.go's
// makeProgressPrinter.
func makeProgressPrinter() report.ProgressFunc {
	return func(done, total int, label string, elapsed time.Duration) {
		if total == 0 {
			return
		}
		pct := 100 * done / total
		if done < total {
			fmt.Fprintf(os.Stderr, "\r  [%d/%d] %3d%%  %-40s", done, total, pct, label)
		} else {
			fmt.Fprintf(os.Stderr, "\r  [%d/%d] 100%%  %-40s\n", done, total, label)
		}
	}
}

func printBucketStats(w io.Writer, stats []mapping.BucketStat) {
	fmt.Fprintln(w, "bucket usage:")
	for _, s := range stats {
		if s.Used == 0 {
			continue
		}
		fmt.Fprintf(w, "  bucket %3d: %4d/%4d used\n", s.Bucket, s.Used, s.Allocated)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

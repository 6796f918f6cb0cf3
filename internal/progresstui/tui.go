// Package progresstui renders a live progress bar for a long-running
// report.Run driver call. It carries forward the teacher's charm
// stack (bubbletea, bubbles, lipgloss) — originally built around a
// semantic search UI with no analogue in this domain — repurposed for
// the one interactive surface this spec actually has: watching a
// batch job progress (SPEC_FULL.md §2.4).
//
// Grounded on internal/tui/tui.go: the palette (sTitle/sAccent/sDim/
// sMuted), the hand-rolled spinner (spinTick/spinnerFrames), and the
// padBetween/visibleLen/clamp layout helpers are all carried over
// essentially unchanged; the search-result list and text input are
// replaced by a bubbles/progress bar driven by report.ProgressFunc.
package progresstui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goto-vulture/tokintersect/internal/report"
)

// ── Palette ──────────────────────────────────────────────────────────────

var (
	colorAccent  = lipgloss.Color("#7C6AF7")
	colorDim     = lipgloss.Color("#555555")
	colorMuted   = lipgloss.Color("#888888")
	colorText    = lipgloss.Color("#DDDDDD")
	colorSubdued = lipgloss.Color("#444444")
	colorErr     = lipgloss.Color("#FF6B6B")
	colorGreen   = lipgloss.Color("#5AF078")

	sTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	sDim     = lipgloss.NewStyle().Foreground(colorDim)
	sMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	sErr     = lipgloss.NewStyle().Foreground(colorErr)
	sGreen   = lipgloss.NewStyle().Foreground(colorGreen)
	sDivider = lipgloss.NewStyle().Foreground(colorSubdued)
	sHint    = lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("#111111"))
)

// ── Spinner ──────────────────────────────────────────────────────────────

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinTickMsg struct{}

func spinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return spinTickMsg{} })
}

// ── Messages the driving goroutine sends into the program ────────────────

// ProgressMsg is sent once per B sequence processed. Shaped directly
// after report.ProgressFunc's parameters.
type ProgressMsg struct {
	Done, Total int
	Label       string
	Elapsed     time.Duration
}

// DoneMsg is sent once the driver returns successfully.
type DoneMsg struct{ Stats report.Stats }

// ErrMsg is sent if the driver returns an error.
type ErrMsg struct{ Err error }

// ── Model ──────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the progress display.
type Model struct {
	bar   progress.Model
	total int
	done  int
	label string

	spinFrame int
	started   time.Time
	lastTick  time.Duration

	finished bool
	stats    report.Stats
	err      error

	width int
}

// New creates a progress model for a run expected to process total B
// sequences.
func New(total int) Model {
	bar := progress.New(progress.WithDefaultGradient())
	return Model{
		bar:     bar,
		total:   total,
		started: time.Time{},
	}
}

// Init is the BubbleTea init hook.
func (m Model) Init() tea.Cmd {
	return spinTick()
}

// Update processes messages, including ProgressMsg/DoneMsg/ErrMsg sent
// in from the goroutine running report.Run.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = clamp(m.width-8, 10, 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinTickMsg:
		m.spinFrame = (m.spinFrame + 1) % len(spinnerFrames)
		if m.finished {
			return m, nil
		}
		return m, spinTick()

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.label = msg.Label
		m.lastTick = msg.Elapsed
		var cmd tea.Cmd
		if m.total > 0 {
			cmd = m.bar.SetPercent(float64(m.done) / float64(m.total))
		}
		return m, cmd

	case DoneMsg:
		m.finished = true
		m.stats = msg.Stats
		return m, tea.Quit

	case ErrMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress display.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder
	divider := sDivider.Render(strings.Repeat("─", clamp(m.width-2, 10, 200)))

	left := "  " + sTitle.Render("tokintersect") + "  " + sMuted.Render("token-set intersection")
	right := sDim.Render(fmt.Sprintf("%d/%d sequences", m.done, m.total))
	fmt.Fprintln(&b, padBetween(left, right, m.width))
	fmt.Fprintln(&b, "  "+divider)

	if m.err != nil {
		fmt.Fprintln(&b, sErr.Render("  error: "+m.err.Error()))
		return b.String()
	}

	if m.finished {
		fmt.Fprintln(&b, sGreen.Render(fmt.Sprintf("  done — %d partial, %d full match sets",
			m.stats.PartialSets, m.stats.FullSets)))
		return b.String()
	}

	frame := spinnerFrames[m.spinFrame]
	fmt.Fprintln(&b, "  "+sAccent.Render(frame)+"  "+m.bar.View())
	fmt.Fprintln(&b, "  "+sMuted.Render("processing ")+sAccent.Render(m.label))
	fmt.Fprintln(&b, "")
	fmt.Fprint(&b, sHint.Render("  ctrl+c / q  quit"))
	return b.String()
}

// ── Helpers (carried over from the teacher's internal/tui layout code) ──

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padBetween(left, right string, width int) string {
	lv := visibleLen(left)
	rv := visibleLen(right)
	gap := width - lv - rv - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, c := range s {
		if c == '\x1b' {
			inEsc = true
		}
		if inEsc {
			if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}

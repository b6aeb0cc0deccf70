// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"kira/internal/buildpipeline"
)

const statusWidth = 12

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileRow
	byPath  map[string]int
	width   int
	done    bool
}

type fileRow struct {
	path    string
	stage   buildpipeline.Stage
	status  buildpipeline.Status
	elapsed time.Duration
	err     error
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file compile
// progress until the events channel is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]fileRow, 0, len(files))
	byPath := make(map[string]int, len(files))
	for i, file := range files {
		rows = append(rows, fileRow{path: file, status: buildpipeline.StatusQueued})
		byPath[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   rows,
		byPath:  byPath,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	for _, row := range m.files {
		label := rowLabel(row)
		fmt.Fprintf(&b, "  %s %s", statusStyle(row.status).Render(fmt.Sprintf("%*s", statusWidth, label)), truncate(row.path, nameWidth))
		if row.elapsed > 0 && row.status == buildpipeline.StatusDone {
			fmt.Fprintf(&b, " (%s)", row.elapsed.Round(time.Microsecond))
		}
		b.WriteString("\n")
		if row.err != nil {
			b.WriteString("      ")
			b.WriteString(statusStyle(buildpipeline.StatusError).Render(truncate(row.err.Error(), m.width-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.files[idx]
	row.stage = ev.Stage
	row.status = ev.Status
	if ev.Err != nil {
		row.err = ev.Err
	}
	if ev.Status == buildpipeline.StatusDone {
		row.elapsed += ev.Elapsed
	}
	return m.bar.SetPercent(m.Percent())
}

// Percent reports overall completion across all files in [0, 1].
func (m *progressModel) Percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.files {
		total += rowProgress(row)
	}
	return total / float64(len(m.files))
}

func rowProgress(row fileRow) float64 {
	if row.err != nil || (row.stage == buildpipeline.StageWrite && row.status == buildpipeline.StatusDone) {
		return 1
	}
	switch row.stage {
	case buildpipeline.StageParse:
		if row.status == buildpipeline.StatusQueued {
			return 0
		}
		return 0.1
	case buildpipeline.StageLower:
		return 0.4
	case buildpipeline.StageCodegen:
		return 0.7
	case buildpipeline.StageWrite:
		return 0.9
	default:
		return 0
	}
}

func rowLabel(row fileRow) string {
	switch row.status {
	case buildpipeline.StatusWorking:
		switch row.stage {
		case buildpipeline.StageParse:
			return "parsing"
		case buildpipeline.StageLower:
			return "lowering"
		case buildpipeline.StageCodegen:
			return "emitting"
		case buildpipeline.StageWrite:
			return "writing"
		}
	case buildpipeline.StatusDone:
		if row.stage == buildpipeline.StageWrite {
			return "done"
		}
	}
	return string(row.status)
}

func statusStyle(status buildpipeline.Status) lipgloss.Style {
	switch status {
	case buildpipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case buildpipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case buildpipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

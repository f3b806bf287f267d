package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"constlit/internal/driver"
)

// fileState is what the view knows about one document.
type fileState uint8

const (
	stateQueued fileState = iota
	stateChecking
	stateOK
	stateCached
	stateInvalid
	stateError // unreadable or undecodable document
)

var stateLabels = [...]string{
	stateQueued:   "queued",
	stateChecking: "checking",
	stateOK:       "ok",
	stateCached:   "cached",
	stateInvalid:  "invalid",
	stateError:    "error",
}

var stateColors = [...]lipgloss.Color{
	stateQueued:   "8",
	stateChecking: "6",
	stateOK:       "2",
	stateCached:   "2",
	stateInvalid:  "1",
	stateError:    "3",
}

const labelWidth = 8

type fileRow struct {
	path     string
	state    fileState
	literals int
	invalid  int
}

func (r fileRow) detail() string {
	switch r.state {
	case stateOK, stateCached, stateInvalid:
		if r.invalid > 0 {
			return fmt.Sprintf("%d/%d literals invalid", r.invalid, r.literals)
		}
		return fmt.Sprintf("%d literals", r.literals)
	}
	return ""
}

type progressModel struct {
	title    string
	events   <-chan driver.ProgressEvent
	spinner  spinner.Model
	bar      progress.Model
	rows     []fileRow
	byPath   map[string]int
	finished int
	literals int
	invalid  int
	width    int
	done     bool
}

type eventMsg driver.ProgressEvent

type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per document
// and a bar for the whole run. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(stateColors[stateChecking])

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
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
			m.bar.Width = min(msg.Width-4, 80)
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
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.rows))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	pathWidth := max(m.width-labelWidth-28, 20)
	for _, row := range m.rows {
		label := lipgloss.NewStyle().
			Foreground(stateColors[row.state]).
			Render(fmt.Sprintf("%*s", labelWidth, stateLabels[row.state]))
		line := fmt.Sprintf("  %s %s", label, fit(row.path, pathWidth))
		if d := row.detail(); d != "" {
			line += "  " + lipgloss.NewStyle().Faint(true).Render(d)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	fmt.Fprintf(&b, "\n%d constant literals, %d invalid\n", m.literals, m.invalid)
	return b.String()
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	idx, ok := m.byPath[ev.Path]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	row.state = stateOf(ev)
	if ev.Stage != driver.ProgressStarted {
		row.literals, row.invalid = ev.Literals, ev.Invalid
		m.literals += ev.Literals
		m.invalid += ev.Invalid
	}
	m.finished = max(m.finished, ev.Done)
	if ev.Total <= 0 {
		return nil
	}
	return m.bar.SetPercent(float64(ev.Done) / float64(ev.Total))
}

func stateOf(ev driver.ProgressEvent) fileState {
	switch ev.Stage {
	case driver.ProgressStarted:
		return stateChecking
	case driver.ProgressChecked:
		return stateOK
	case driver.ProgressCached:
		return stateCached
	case driver.ProgressFailed:
		// нет недопустимых литералов: ошибка самого документа
		if ev.Invalid > 0 {
			return stateInvalid
		}
		return stateError
	}
	return stateQueued
}

// fit shortens s to width terminal cells, keeping the end of the path.
func fit(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	rs := []rune(s)
	for i := range rs {
		tail := string(rs[i:])
		if runewidth.StringWidth(tail) <= width-3 {
			return "..." + tail
		}
	}
	return "..."
}

// Package ui draws the terminal progress view of a batch lowering.
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

	"hilo/internal/driver"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	waitingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stageWeight is the share of a file's work finished once a stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageRead:  0.1,
	driver.StageLower: 0.4,
	driver.StageEmit:  0.8,
}

var stageVerb = map[driver.Stage]string{
	driver.StageRead:  "reading",
	driver.StageLower: "lowering",
	driver.StageEmit:  "emitting",
}

// fileRow is the last known state of one input.
type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
	err     error
}

func (r fileRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r fileRow) label() string {
	if r.status == driver.StatusWorking {
		return stageVerb[r.stage]
	}
	return string(r.status)
}

func (r fileRow) style() lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	case driver.StatusWorking:
		return activeStyle
	}
	return waitingStyle
}

type batchView struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	current string
	width   int
	closed  bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model following the stage events of
// files. The program quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	v := &batchView{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		v.rows = append(v.rows, fileRow{path: f, status: driver.StatusQueued})
		v.byPath[f] = i
	}
	return v
}

func (v *batchView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.next())
}

// next waits for one event from the driver.
func (v *batchView) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-v.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (v *batchView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return v, tea.Batch(v.apply(driver.Event(msg)), v.next())
	case closedMsg:
		v.closed = true
		return v, tea.Quit
	case spinner.TickMsg:
		if v.closed {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case progress.FrameMsg:
		bar, cmd := v.bar.Update(msg)
		v.bar = bar.(progress.Model)
		return v, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return v, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			v.width = msg.Width
			v.bar.Width = msg.Width - 4
		}
	}
	return v, nil
}

// apply records ev. Events for files outside the batch only change the
// header.
func (v *batchView) apply(ev driver.Event) tea.Cmd {
	if ev.Status == driver.StatusWorking {
		v.current = stageVerb[ev.Stage]
	}
	i, ok := v.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &v.rows[i]
	row.stage, row.status, row.elapsed, row.err = ev.Stage, ev.Status, ev.Elapsed, ev.Err
	return v.bar.SetPercent(v.percent())
}

func (v *batchView) percent() float64 {
	if len(v.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range v.rows {
		if r.finished() {
			sum++
		} else {
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(v.rows))
}

func (v *batchView) View() string {
	if len(v.rows) == 0 {
		return ""
	}
	finished := 0
	for _, r := range v.rows {
		if r.finished() {
			finished++
		}
	}
	header := fmt.Sprintf("%s %d/%d", v.title, finished, len(v.rows))
	if v.current != "" && !v.closed {
		header += " (" + v.current + ")"
	}
	if v.closed {
		header = "done: " + header
	} else {
		header = v.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(v.width-26, 20)
	for _, r := range v.rows {
		line := fmt.Sprintf("  %s %s", r.style().Render(fmt.Sprintf("%10s", r.label())), truncate(r.path, nameWidth))
		if r.finished() {
			line += waitingStyle.Render(fmt.Sprintf(" %s", r.elapsed.Round(time.Millisecond)))
		}
		if r.err != nil {
			line += "\n             " + errorStyle.Render(truncate(r.err.Error(), nameWidth))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	if v.closed {
		b.WriteString(v.bar.ViewAs(1))
	} else {
		b.WriteString(v.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to width display cells, marking the cut with "...".
func truncate(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width-3, "...")
}

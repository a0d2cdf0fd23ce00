package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/paintsim/internal/sim"
	"github.com/san-kum/paintsim/internal/station"
)

const (
	barHeight    = 10
	barWidth     = 9
	pollInterval = 250 * time.Millisecond
	historyLen   = 60
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	selectStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	alarmStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

// alarmLog collects overflow events from the stepper goroutine for the
// view to display.
type alarmLog struct {
	mu   sync.Mutex
	msgs []string
}

func (l *alarmLog) OnTick(snap station.Snapshot, overflows []station.Overflow, t float64) {
	if len(overflows) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ov := range overflows {
		l.msgs = append(l.msgs, fmt.Sprintf("t=%.0fs %s overflow, %.1f l discarded", t, ov.Tank, ov.Excess))
	}
	if len(l.msgs) > 4 {
		l.msgs = l.msgs[len(l.msgs)-4:]
	}
}

func (l *alarmLog) recent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

type pollMsg time.Time

type model struct {
	stepper *sim.Stepper
	alarms  *alarmLog

	snap    station.Snapshot
	cursor  int
	history []float64
	width   int
	err     error
}

func newModel(stepper *sim.Stepper, alarms *alarmLog) model {
	return model{
		stepper: stepper,
		alarms:  alarms,
		snap:    stepper.Station().Snapshot(),
		width:   100,
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m model) Init() tea.Cmd { return poll() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case pollMsg:
		m.snap = m.stepper.Station().Snapshot()
		m.history = append(m.history, m.snap.Mixer().Volume)
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
		return m, poll()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.stepper.Station()
	names := st.TankNames()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(names)-1 {
			m.cursor++
		}
	case "+", "=", "up", "k":
		m.err = m.adjustValve(names[m.cursor], 0.1)
	case "-", "down", "j":
		m.err = m.adjustValve(names[m.cursor], -0.1)
	case "0":
		m.err = st.SetValve(names[m.cursor], 0)
	case "1":
		m.err = st.SetValve(names[m.cursor], 1)
	case "p":
		st.SetPump(!st.PumpOn())
	case "f":
		_, m.err = st.Fill(names[m.cursor], 1.0)
	case "x":
		_, m.err = st.Flush(names[m.cursor])
	}
	return m, nil
}

func (m model) adjustValve(name string, delta float64) error {
	st := m.stepper.Station()
	v, err := st.Valve(name)
	if err != nil {
		return err
	}
	v += delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return st.SetValve(name, v)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s", m.snap.Station)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  t=%.1fs  %s", m.stepper.Time(), m.stepper.Phase())))
	b.WriteString("\n\n")

	columns := make([]string, 0, len(m.snap.Tanks))
	for i, ts := range m.snap.Tanks {
		columns = append(columns, m.renderTank(ts, i == m.cursor))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, columns...))
	b.WriteString("\n")

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(min(m.width-10, 70)),
			asciigraph.Caption("mixer level (l)"))
		b.WriteString(panelStyle.Render(graph))
		b.WriteString("\n")
	}

	for _, msg := range m.alarms.recent() {
		b.WriteString(alarmStyle.Render("  ! " + msg))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(alarmStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("\n  ←/→ select  +/- valve  0/1 close/open  p pump  f fill  x flush  q quit\n"))
	return b.String()
}

func (m model) renderTank(ts station.TankState, selected bool) string {
	paintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ts.Color))

	filled := int(ts.Level*barHeight + 0.5)
	if filled > barHeight {
		filled = barHeight
	}

	var rows []string
	name := ts.Name
	if selected {
		name = selectStyle.Render("▸" + name)
	} else {
		name = dimStyle.Render(" " + name)
	}
	rows = append(rows, name)

	for row := barHeight; row > 0; row-- {
		if row <= filled {
			rows = append(rows, frameStyle.Render("│")+paintStyle.Render(strings.Repeat("█", barWidth-2))+frameStyle.Render("│"))
		} else {
			rows = append(rows, frameStyle.Render("│"+strings.Repeat(" ", barWidth-2)+"│"))
		}
	}
	rows = append(rows, frameStyle.Render("└"+strings.Repeat("─", barWidth-2)+"┘"))

	rows = append(rows, dimStyle.Render(fmt.Sprintf("%5.1f l", ts.Volume)))
	if ts.Name == station.MixerName {
		pump := "pump off"
		if ts.PumpOn {
			pump = "pump ON"
		}
		rows = append(rows, dimStyle.Render(fmt.Sprintf("out %3.0f%%", ts.Valve*100)))
		rows = append(rows, dimStyle.Render(pump))
	} else {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("vlv %3.0f%%", ts.Valve*100)))
		rows = append(rows, dimStyle.Render(fmt.Sprintf("%4.1f l/s", ts.Outflow)))
	}

	return lipgloss.NewStyle().MarginRight(1).Render(strings.Join(rows, "\n"))
}

// Run starts the stepper in the background and blocks in the live view
// until the user quits. The station keeps its state afterwards, so a
// subsequent Run resumes where this one left off.
func Run(stepper *sim.Stepper) error {
	alarms := &alarmLog{}
	stepper.AddObserver(alarms)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- stepper.Run(ctx) }()

	p := tea.NewProgram(newModel(stepper, alarms), tea.WithAltScreen())
	_, err := p.Run()

	stepper.Stop()
	if runErr := <-errCh; runErr != nil && runErr != context.Canceled && err == nil {
		return runErr
	}
	return err
}

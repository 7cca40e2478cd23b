package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	frameInterval   = time.Second / 60

	// axisSpan is the half-width of the axis track in plant units.
	axisSpan = 3.0
)

// Session is a run that can be advanced one tick at a time.
type Session interface {
	Step(validate bool) (harness.Sample, error)
	Tick() int
	Time() float64
	State() dynamo.State
}

type Options struct {
	Title string
	// Vehicle selects the attitude view over the 12-entry airframe state.
	Vehicle bool
	Dt      float64
	// Start opens a fresh session; it is called again on restart.
	Start func() (Session, error)
	// Nudge shifts a manual command. Nil disables the arrow keys.
	Nudge func(dx, dy float64)
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Model steps a session in wall-clock time and draws it.
type Model struct {
	opts          Options
	session       Session
	stepsPerFrame int
	canvas        *Canvas
	last          harness.Sample
	positions     []float64
	commands      []float64
	running       bool
	err           error
	showHelp      bool
}

func NewModel(opts Options) (Model, error) {
	if !(opts.Dt > 0) {
		return Model{}, fmt.Errorf("dt must be positive, got %f: %w", opts.Dt, dynamo.ErrParameterBounds)
	}
	session, err := opts.Start()
	if err != nil {
		return Model{}, err
	}
	steps := int(math.Round(frameInterval.Seconds() / opts.Dt))
	if steps < 1 {
		steps = 1
	}
	return Model{
		opts:          opts,
		session:       session,
		stepsPerFrame: steps,
		canvas:        NewCanvas(width, height),
		positions:     make([]float64, 0, historyCapacity),
		commands:      make([]float64, 0, historyCapacity),
		running:       true,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nextFrame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.restart()
		case "left", "h":
			m.nudge(-0.1, 0)
		case "right", "l":
			m.nudge(0.1, 0)
		case "up", "k":
			m.nudge(0, 0.05)
		case "down", "j":
			m.nudge(0, -0.05)
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		if m.running {
			m.advance()
		}
		return m, nextFrame()
	}
	return m, nil
}

func (m *Model) nudge(dx, dy float64) {
	if m.opts.Nudge != nil {
		m.opts.Nudge(dx, dy)
	}
}

// advance runs one frame worth of ticks.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		sample, err := m.session.Step(true)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.last = sample
		m.record(sample)
	}
}

func (m *Model) record(s harness.Sample) {
	pos := 0.0
	if len(s.State) > 0 {
		pos = s.State[0]
	}
	if m.opts.Vehicle && len(s.State) > 4 {
		pos = s.State[4]
	}
	cmd := 0.0
	if len(s.Control) > 0 {
		cmd = s.Control[0]
	}
	if m.opts.Vehicle && len(s.Control) > 1 {
		cmd = s.Control[1]
	}
	m.positions = appendBounded(m.positions, pos)
	m.commands = appendBounded(m.commands, cmd)
}

func appendBounded(buf []float64, v float64) []float64 {
	buf = append(buf, v)
	if len(buf) > historyCapacity {
		buf = buf[1:]
	}
	return buf
}

func (m *Model) restart() {
	session, err := m.opts.Start()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.session = session
	m.last = harness.Sample{}
	m.positions = m.positions[:0]
	m.commands = m.commands[:0]
	m.err = nil
	m.running = true
}

func (m *Model) draw() {
	m.canvas.Clear()
	x := m.session.State()
	if m.opts.Vehicle {
		m.drawAttitude(x)
	} else {
		m.drawAxis(x)
	}
}

// drawAxis draws a horizontal track with the origin marked and the plant
// as a box at its position.
func (m *Model) drawAxis(x dynamo.State) {
	if len(x) < 1 {
		return
	}
	w, h := m.canvas.DotsWide(), m.canvas.DotsHigh()
	cy := h / 2

	m.canvas.DrawLine(0, cy+4, w-1, cy+4)
	m.canvas.DrawLine(w/2, cy-6, w/2, cy+6)

	px := w/2 + int(x[0]/axisSpan*float64(w/2))
	m.canvas.DrawBox(px, cy, 2)

	if len(m.commands) > 0 {
		u := m.commands[len(m.commands)-1]
		tip := px + int(math.Max(-20, math.Min(20, u*2)))
		m.canvas.DrawLine(px, cy-4, tip, cy-4)
	}
}

// drawAttitude draws an artificial horizon: the line tilts with roll and
// moves with pitch.
func (m *Model) drawAttitude(x dynamo.State) {
	if len(x) < 6 {
		return
	}
	phi, theta := x[3], x[4]
	w, h := m.canvas.DotsWide(), m.canvas.DotsHigh()
	cx, cy := w/2, h/2

	offset := int(theta * float64(h))
	half := float64(w) / 2
	dx := int(half * math.Cos(phi))
	dy := int(half * math.Sin(phi))
	m.canvas.DrawLine(cx-dx, cy+offset+dy, cx+dx, cy+offset-dy)

	// fixed aircraft symbol
	m.canvas.DrawLine(cx-12, cy, cx-4, cy)
	m.canvas.DrawLine(cx+4, cy, cx+12, cy)
	m.canvas.DrawBox(cx, cy, 1)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("STOPPED: " + m.err.Error())
	case !m.running:
		return statusPaused.Render("PAUSED")
	default:
		return statusRunning.Render("RUNNING")
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	posCaption, cmdCaption := "Position", "Force"
	if m.opts.Vehicle {
		posCaption, cmdCaption = "Pitch", "Elevator"
	}
	if len(m.positions) > 1 {
		chart := asciigraph.Plot(m.positions, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(posCaption))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.commands) > 1 {
		chart := asciigraph.Plot(m.commands, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(cmdCaption))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.session.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.session.Time())) + "\n")
	for i, v := range m.last.Control {
		s.WriteString(labelStyle.Render(fmt.Sprintf("u%d", i)) + valueStyle.Render(fmt.Sprintf("%+.3f", v)) + "\n")
	}

	help := "SP:Pause R:Restart Q:Quit ?:Help"
	if m.opts.Nudge != nil {
		help += "\n←→↑↓:Fly"
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\n" + help))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from x0          ║
║  Q        - Quit                     ║
║  ←/→      - Nudge command            ║
║  ↑/↓      - Nudge pitch (airframe)   ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view and blocks until the user quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

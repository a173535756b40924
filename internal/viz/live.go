package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/creatures/internal/creature"
)

const (
	width  = 60
	height = 24
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model replays a creature's settling run step by step. The creature's
// fitness is never touched; only its trial state advances.
type Model struct {
	c        *creature.Creature
	title    string
	canvas   *Canvas
	step     int
	steps    int
	running  bool
	deleted  bool
	frame    bool
	interval time.Duration
	history  []float64
}

func NewModel(c *creature.Creature, title string, steps, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	c.Reset()
	return Model{
		c:        c,
		title:    title,
		canvas:   NewCanvas(width, height),
		steps:    steps,
		running:  true,
		frame:    true,
		interval: time.Second / time.Duration(fps),
		history:  make([]float64, 0, steps),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "d":
			m.deleted = !m.deleted
		case "f":
			m.frame = !m.frame
		}
	case TickMsg:
		if m.running && m.step < m.steps {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	m.c.Update()
	m.step++
	m.history = append(m.history, m.c.CurrentFitness())
}

func (m *Model) reset() {
	m.c.Reset()
	m.step = 0
	m.history = m.history[:0]
}

// Step returns the number of replayed steps.
func (m Model) Step() int { return m.step }

func (m Model) View() string {
	m.canvas.Clear()
	if m.frame {
		DrawFrame(m.canvas)
	}
	DrawCreature(m.canvas, m.c, m.deleted)
	canvasView := canvasStyle.Render(m.canvas.String())

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.step >= m.steps:
		status = StatusPaused.Render("SETTLED")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(Metric("Step", fmt.Sprintf("%d / %d", m.step, m.steps)) + "\n")
	s.WriteString(Metric("Particles", fmt.Sprintf("%d", m.c.Len())) + "\n")
	s.WriteString(Metric("Displacement", fmt.Sprintf("%.3f", m.c.CurrentFitness())) + "\n")
	s.WriteString(Metric("Fitness", fmt.Sprintf("%.3f", m.c.Fitness())) + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption("net displacement"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset D:Deleted F:Frame Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts an interactive replay of steps updates.
func Run(c *creature.Creature, title string, steps, fps int) error {
	_, err := tea.NewProgram(NewModel(c, title, steps, fps), tea.WithAltScreen()).Run()
	return err
}

package viz

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/boxlight/internal/animation"
	"github.com/san-kum/boxlight/internal/console"
	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/frame"
)

const (
	tickRate      = time.Second / 60
	defaultWidth  = 80
	defaultHeight = 24
	consoleLines  = 6
	// header, border, status, bar, sparkline, separator, console, input, hints
	chromeRows = 2 + 2 + 1 + 1 + 1 + 1 + consoleLines + 1 + 1
)

type TickMsg time.Time

// loadedMsg carries the result of a load prepared off the UI goroutine.
type loadedMsg struct {
	ref    string
	bundle *animation.Bundle
	err    error
}

type Options struct {
	// Log is the buffer shown in the console pane.
	Log *diag.Buffer
	// Sink receives command output. Defaults to Log.
	Sink diag.Sink
	// Load is loaded as soon as the player starts.
	Load string
	// GIFPath is where the g key writes a recording.
	GIFPath string
}

// Model plays the frames of one animation in the terminal.
type Model struct {
	ctx     context.Context
	anim    *animation.Animation
	log     *diag.Buffer
	sink    diag.Sink
	gifPath string

	start   time.Time
	now     time.Duration
	current *frame.Frame
	ticks   int

	width, height int
	console       bool
	input         string
	loading       string
}

func NewModel(ctx context.Context, anim *animation.Animation, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = diag.NewBuffer(consoleLines)
	}
	sink := opts.Sink
	if sink == nil {
		sink = log
	}
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "boxlight.gif"
	}
	return Model{
		ctx:     ctx,
		anim:    anim,
		log:     log,
		sink:    sink,
		gifPath: gifPath,
		start:   time.Now(),
		width:   defaultWidth,
		height:  defaultHeight,
		loading: opts.Load,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.loading != "" {
		return tea.Batch(tick(), m.load(m.loading))
	}
	return tick()
}

// load prepares ref on a command goroutine. Install happens in Update.
func (m Model) load(ref string) tea.Cmd {
	anim, ctx := m.anim, m.ctx
	return func() tea.Msg {
		b, err := anim.PrepareRef(ctx, ref)
		return loadedMsg{ref: ref, bundle: b, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		m.ticks++
		m.now = time.Time(msg).Sub(m.start)
		m.current = m.anim.CurrentFrame(m.now)
		return m, tick()
	case loadedMsg:
		m.loading = ""
		if msg.err != nil {
			m.sink.Printf("Error loading %s: %v", msg.ref, msg.err)
			break
		}
		m.anim.Install(msg.bundle)
		m.current = m.anim.CurrentFrame(m.now)
		m.sink.Printf("Successfully loaded %s", msg.ref)
	case tea.KeyMsg:
		if m.console {
			return m.consoleKey(msg)
		}
		return m.playerKey(msg)
	}
	return m, nil
}

func (m Model) playerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "+", "=":
		m.anim.FrameStep(1)
	case "-", "_":
		m.anim.FrameStep(-1)
	case " ":
		m.anim.TogglePause()
	case "r":
		m.anim.Reverse()
	case "b":
		return m.run(console.Command{Name: "blend"})
	case "s":
		return m.run(console.Command{Name: "save"})
	case "g":
		return m.run(console.Command{Name: "gif", Arg: m.gifPath})
	case "`":
		m.console = true
	}
	m.current = m.anim.CurrentFrame(m.now)
	return m, nil
}

func (m Model) consoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.console = false
	case tea.KeyEnter:
		line := m.input
		m.input = ""
		return m.exec(line)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		if msg.String() == "`" {
			m.console = false
			break
		}
		m.input += string(msg.Runes)
	}
	return m, nil
}

// exec runs one console line. Loads go through a command so the player
// keeps ticking while frames are generated.
func (m Model) exec(line string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.sink.Printf("> %s", line)
	cmd, err := console.Parse(line)
	if err != nil {
		m.sink.Printf("%v", err)
		return m, nil
	}
	if cmd.Name == "load" {
		if m.loading != "" {
			m.sink.Printf("Still loading %s", m.loading)
			return m, nil
		}
		m.loading = cmd.Arg
		return m, m.load(cmd.Arg)
	}
	return m.run(cmd)
}

func (m Model) run(cmd console.Command) (tea.Model, tea.Cmd) {
	if console.Run(m.ctx, cmd, m.anim, m.sink) {
		return m, tea.Quit
	}
	m.current = m.anim.CurrentFrame(m.now)
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	title := "BOXLIGHT"
	if src := m.anim.Source(); src != "" {
		title += "  " + src
	}
	s.WriteString(HeaderStyle.Render(title) + "\n")

	maxCols := max(1, m.width-2)
	maxRows := max(1, m.height-chromeRows)
	if m.current != nil {
		cols, rows := Fit(m.current.Width(), m.current.Height(), maxCols, maxRows)
		s.WriteString(GlassPanel.Render(cells(m.current, cols, rows)) + "\n")
	} else {
		s.WriteString(Subtle.Render("No animation loaded. Press ` and type load <file>.") + "\n")
	}

	s.WriteString(m.status() + "\n")
	if n := m.anim.Len(); n > 0 {
		s.WriteString(ProgressBar(float64(m.anim.Index()+1)/float64(n), min(maxCols, 60)) + "\n")
	}
	if tr := m.anim.Trace(); tr != nil && len(tr.Samples) > 1 {
		energy := make([]float64, len(tr.Samples))
		for i, sample := range tr.Samples {
			energy[i] = sample.Energy
		}
		s.WriteString(MetricLabel.Render("energy ") + SparklineChart(energy, min(maxCols-7, 60)) + "\n")
	}

	s.WriteString(Separator(min(maxCols, 60)) + "\n")
	for _, line := range m.log.Tail(consoleLines) {
		s.WriteString(ConsoleLine.Render(line) + "\n")
	}
	if m.console {
		s.WriteString(ConsoleInput.Render("> "+m.input+"█") + "\n")
	}
	s.WriteString(KeyHint.Render("SP:Pause R:Reverse +/-:Step `:Console B:Blend S:Save G:GIF Q:Quit"))
	return s.String()
}

func (m Model) status() string {
	var state string
	switch {
	case m.loading != "":
		state = StatusLoading.Render(AnimatedSpinner(m.ticks) + " LOADING " + m.loading)
	case m.anim.Paused():
		state = StatusPaused.Render("PAUSED")
	default:
		state = StatusRunning.Render("PLAYING")
	}
	dir := "forward"
	if m.anim.Reversed() {
		dir = "reversed"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		state, "  ",
		MetricLabel.Render("frame "), MetricValue.Render(fmt.Sprintf("%d/%d", m.anim.Index()+1, m.anim.Len())), "  ",
		MetricLabel.Render("fps "), MetricValue.Render(fmt.Sprintf("%.0f", m.anim.Framerate())), "  ",
		MetricLabel.Render(dir),
	)
}

// cellCache keeps the last rendering of a frame, so a frame shown on many
// ticks is scaled once per terminal size.
type cellCache struct {
	img *image.RGBA

	mu         sync.Mutex
	cols, rows int
	text       string
}

func (c *cellCache) render(cols, rows int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.text != "" && c.cols == cols && c.rows == rows {
		return c.text
	}
	canvas := NewCanvas(cols, rows)
	canvas.Draw(c.img)
	c.cols, c.rows, c.text = cols, rows, canvas.String()
	return c.text
}

func cells(f *frame.Frame, cols, rows int) string {
	cache := f.Presentation(func(img *image.RGBA) any {
		return &cellCache{img: img}
	}).(*cellCache)
	return cache.render(cols, rows)
}

// Run drives m until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

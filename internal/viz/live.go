package viz

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/metrics"
	"github.com/san-kum/netmesh/internal/panel"
	"github.com/san-kum/netmesh/internal/render"
)

const (
	historyCapacity = 300
	statsWidth      = 36
	footerLines     = 2

	// Terminal cells are treated as 8x16 pixel glyphs when sizing the
	// viewport.
	cellWidth  = 8
	cellHeight = 16

	densityStep = 5.0
	minDensity  = 10.0
	radiusStep  = 10.0
	minRadius   = 10.0

	gifLimit = 600
)

type TickMsg time.Time

// resizeMsg fires once the window size has been stable for the debounce
// delay. Only the message matching the latest seq is applied.
type resizeMsg struct {
	seq        int
	cols, rows int
}

type Options struct {
	Engine         *engine.Engine
	Panel          *panel.Panel
	FPS            int
	Background     string
	ExportDir      string
	ResizeDebounce time.Duration
	Context        context.Context
}

// Model is the Bubble Tea model of the live terminal preview.
type Model struct {
	ctx      context.Context
	engine   *engine.Engine
	panel    *panel.Panel
	canvas   *render.BrailleCanvas
	fps      int
	debounce time.Duration

	running  bool
	showHelp bool
	width    int
	height   int
	resizes  int

	history []float64
	mean    *metrics.Displacement

	background string
	exportDir  string
	recorder   *render.GIFRecorder
	raster     *render.RasterCanvas
	recording  bool

	presetIdx   int
	templateIdx int
}

func NewModel(opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = config.DefaultExportDir
	}
	w, h := opts.Engine.Size()
	cols, rows := int(w)/cellWidth, int(h)/cellHeight
	mean := metrics.NewDisplacement()
	opts.Engine.AddMetric(mean)
	return &Model{
		ctx:        opts.Context,
		engine:     opts.Engine,
		panel:      opts.Panel,
		canvas:     render.NewBrailleCanvas(cols, rows, w, h),
		fps:        opts.FPS,
		debounce:   opts.ResizeDebounce,
		running:    true,
		background: opts.Background,
		exportDir:  opts.ExportDir,
		recorder:   render.NewGIFRecorder(opts.FPS, gifLimit),
		history:    make([]float64, 0, historyCapacity),
		mean:       mean,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		if x, y, ok := cellToPixel(msg.X, msg.Y, m.canvas); ok {
			m.engine.PointerMove(x, y)
		} else {
			m.engine.PointerLeave()
		}
	case tea.BlurMsg:
		m.engine.PointerLeave()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizes++
		cols, rows := canvasCells(msg.Width, msg.Height)
		pending := resizeMsg{seq: m.resizes, cols: cols, rows: rows}
		if m.debounce <= 0 {
			m.applyResize(pending)
			return m, nil
		}
		return m, tea.Tick(m.debounce, func(time.Time) tea.Msg { return pending })
	case resizeMsg:
		if msg.seq == m.resizes {
			m.applyResize(msg)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	cfg := m.engine.Config()
	switch key {
	case "q", "ctrl+c":
		if m.recording {
			m.saveGIF()
		}
		return tea.Quit
	case " ", "space":
		m.running = !m.running
	case "m":
		m.panel.Update(config.Patch{InteractionType: config.ModePtr(cfg.InteractionType.Next())})
	case "+", "=":
		m.panel.Update(config.Patch{GridDensity: config.Float(cfg.GridDensity + densityStep)})
	case "-", "_":
		m.panel.Update(config.Patch{GridDensity: config.Float(math.Max(minDensity, cfg.GridDensity-densityStep))})
	case "]":
		m.panel.Update(config.Patch{InteractionRadius: config.Float(cfg.InteractionRadius + radiusStep)})
	case "[":
		m.panel.Update(config.Patch{InteractionRadius: config.Float(math.Max(minRadius, cfg.InteractionRadius-radiusStep))})
	case "t":
		keys := config.TemplateKeys()
		m.templateIdx = (m.templateIdx + 1) % len(keys)
		m.panel.ApplyTemplate(keys[m.templateIdx])
	case "p":
		presets, err := m.panel.Presets(m.ctx)
		if err != nil || len(presets) == 0 {
			return nil
		}
		m.presetIdx = (m.presetIdx + 1) % len(presets)
		m.panel.ApplyPreset(m.ctx, presets[m.presetIdx].Name)
	case "u":
		m.panel.Undo()
	case "ctrl+r":
		m.panel.Redo()
	case "s":
		m.panel.Save(m.ctx)
	case "e":
		m.panel.Export()
	case "r":
		m.panel.Reset()
		m.history = m.history[:0]
	case "g":
		if m.recording {
			m.saveGIF()
		} else {
			m.recording = true
			m.recorder.Reset()
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// step advances the mesh one frame and records telemetry.
func (m *Model) step() {
	m.engine.Tick()
	m.history = append(m.history, m.mean.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	if m.recording {
		m.captureFrame()
	}
}

func (m *Model) captureFrame() {
	w, h := m.engine.Size()
	if m.raster == nil {
		m.raster = render.NewRasterCanvas(int(w), int(h), m.background)
	} else if rw, rh := m.raster.Size(); rw != w || rh != h {
		m.raster.Resize(int(w), int(h))
	}
	m.engine.Draw(m.raster)
	if !m.recorder.Capture(m.raster.Image()) {
		m.saveGIF()
	}
}

func (m *Model) saveGIF() {
	m.recording = false
	path := filepath.Join(m.exportDir, "netmesh_"+time.Now().UTC().Format("2006-01-02T15-04-05")+".gif")
	if err := m.recorder.Save(path); err != nil {
		m.panel.Notify(panel.Error, "GIF capture failed: "+err.Error())
	} else {
		m.panel.Notify(panel.Success, fmt.Sprintf("Saved %d frames to %s", m.recorder.Len(), path))
	}
	m.recorder.Reset()
}

func (m *Model) applyResize(r resizeMsg) {
	if r.cols <= 0 || r.rows <= 0 {
		return
	}
	w, h := float64(r.cols*cellWidth), float64(r.rows*cellHeight)
	if err := m.engine.Resize(w, h); err != nil {
		m.panel.Notify(panel.Warning, err.Error())
		return
	}
	m.canvas.Resize(r.cols, r.rows, w, h)
}

// canvasCells splits a terminal of width x height cells between the mesh
// and the stats column.
func canvasCells(width, height int) (cols, rows int) {
	return max(width-statsWidth, 0), max(height-footerLines, 0)
}

// cellToPixel maps a terminal cell to the centre of the viewport area it
// covers. ok is false outside the canvas.
func cellToPixel(col, row int, c *render.BrailleCanvas) (x, y float64, ok bool) {
	if col < 0 || row < 0 || col >= c.Cols() || row >= c.Rows() {
		return 0, 0, false
	}
	w, h := c.Size()
	x = (float64(col) + 0.5) / float64(c.Cols()) * w
	y = (float64(row) + 0.5) / float64(c.Rows()) * h
	return x, y, true
}

// View renders the mesh with a stats column and a notice footer.
func (m *Model) View() string {
	m.engine.Draw(m.canvas)
	cfg := m.engine.Config()

	left := m.renderCanvas(cfg)
	right := m.renderStats(cfg)
	if m.showHelp {
		right = helpText
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, panelStyle.Width(statsWidth-4).Render(right))

	var s strings.Builder
	s.WriteString(body)
	s.WriteString("\n")
	if n, ok := m.panel.LastNotice(); ok {
		s.WriteString(noticeStyles[n.Level].Render(n.Text))
	} else {
		s.WriteString(keyHint.Render("? help  q quit"))
	}
	return s.String()
}

// renderCanvas colours each braille cell between the line and glow
// colours by the glow that reached it.
func (m *Model) renderCanvas(cfg config.Config) string {
	var s strings.Builder
	for row := 0; row < m.canvas.Rows(); row++ {
		for col := 0; col < m.canvas.Cols(); col++ {
			cell := m.canvas.Cell(col, row)
			if cell.Ink.A == 0 && cell.Glow == 0 {
				s.WriteRune(cell.Rune)
				continue
			}
			hex := config.Blend(cfg.LineColor, cfg.GlowColor, cell.Glow)
			s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(cell.Rune)))
		}
		if row < m.canvas.Rows()-1 {
			s.WriteByte('\n')
		}
	}
	return s.String()
}

func (m *Model) renderStats(cfg config.Config) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("NETMESH") + "\n")
	switch {
	case m.recording:
		s.WriteString(statusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len())))
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING"))
	default:
		s.WriteString(statusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Mode", cfg.InteractionType.String())
	row("Density", fmt.Sprintf("%.0fpx", cfg.GridDensity))
	row("Radius", fmt.Sprintf("%.0fpx", cfg.InteractionRadius))
	s.WriteString(labelStyle.Render("Line") + swatch(cfg.LineColor) + "\n")
	s.WriteString(labelStyle.Render("Glow") + swatch(cfg.GlowColor) + "\n")
	if t := m.panel.Template(); t != "" {
		row("Template", t)
	}
	s.WriteString(separator(statsWidth-6) + "\n")

	p := m.engine.Pointer()
	if p.Active {
		row("Pointer", fmt.Sprintf("%.0f,%.0f", p.X, p.Y))
	} else {
		row("Pointer", "-")
	}
	row("Time", fmt.Sprintf("%.2f", m.engine.Time()))
	row("Links", fmt.Sprintf("%d", m.engine.Connections()))
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-14),
			asciigraph.Caption("Displacement"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	return s.String()
}

const helpText = `Space  pause/resume
m      cycle mode
+ -    grid density
] [    interaction radius
t      next template
p      next preset
u ^r   undo / redo
s      save config
e      export config
r      reset to saved
g      record GIF
?      close help
q      quit`

// Run starts the preview in the alternate screen with mouse motion
// reporting.
func Run(m *Model) error {
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	).Run()
	return err
}

package gui

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/engine"
	"github.com/san-kum/netmesh/internal/metrics"
	"github.com/san-kum/netmesh/internal/panel"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
)

const (
	fontPath      = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	telemetrySize = 200
	densityStep   = 5.0
	radiusStep    = 10.0
)

type Options struct {
	Engine         *engine.Engine
	Panel          *panel.Panel
	FPS            int
	Background     string
	ResizeDebounce time.Duration
	Context        context.Context
}

// App is the desktop window of one mesh.
type App struct {
	ctx      context.Context
	engine   *engine.Engine
	panel    *panel.Panel
	canvas   *Canvas
	debounce *engine.Debouncer
	font     rl.Font

	running   bool
	quit      bool
	showHUD   bool
	telemetry []float64
	presetIdx int
	tmplIdx   int
	mean      *metrics.Displacement
}

func initWindow(width, height, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), "netmesh")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(opts Options) error {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if opts.Background == "" {
		opts.Background = config.DefaultBackground
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	w, h := opts.Engine.Size()
	initWindow(int(w), int(h), opts.FPS)
	defer rl.CloseWindow()

	a := &App{
		ctx:       opts.Context,
		engine:    opts.Engine,
		panel:     opts.Panel,
		canvas:    NewCanvas(int(w), int(h), config.RGBA(opts.Background, 1)),
		debounce:  engine.NewDebouncer(opts.ResizeDebounce),
		font:      loadFont(),
		running:   true,
		showHUD:   true,
		telemetry: make([]float64, 0, telemetrySize),
		mean:      metrics.NewDisplacement(),
	}
	defer a.debounce.Stop()
	opts.Engine.AddMetric(a.mean)
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() && a.ctx.Err() == nil {
		a.Update()
		a.Draw()
	}
}

// Update handles window events and input, then advances one frame.
func (a *App) Update() {
	if rl.IsWindowResized() {
		w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		a.canvas.Resize(w, h)
		a.debounce.Trigger(func() {
			if err := a.engine.Resize(float64(w), float64(h)); err != nil {
				a.panel.Notify(panel.Warning, err.Error())
			}
		})
	}

	if rl.IsCursorOnScreen() && rl.IsWindowFocused() {
		pos := rl.GetMousePosition()
		a.engine.PointerMove(float64(pos.X), float64(pos.Y))
	} else {
		a.engine.PointerLeave()
	}

	a.handleKeys()

	if a.running {
		a.engine.Tick()
		a.telemetry = append(a.telemetry, a.mean.Value())
		if len(a.telemetry) > telemetrySize {
			a.telemetry = a.telemetry[1:]
		}
	}
}

func (a *App) handleKeys() {
	cfg := a.engine.Config()
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyM):
		a.panel.Update(config.Patch{InteractionType: config.ModePtr(cfg.InteractionType.Next())})
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.panel.Update(config.Patch{GridDensity: config.Float(cfg.GridDensity + densityStep)})
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.panel.Update(config.Patch{GridDensity: config.Float(math.Max(densityStep*2, cfg.GridDensity-densityStep))})
	case rl.IsKeyPressed(rl.KeyRightBracket):
		a.panel.Update(config.Patch{InteractionRadius: config.Float(cfg.InteractionRadius + radiusStep)})
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		a.panel.Update(config.Patch{InteractionRadius: config.Float(math.Max(radiusStep, cfg.InteractionRadius-radiusStep))})
	case rl.IsKeyPressed(rl.KeyT):
		keys := config.TemplateKeys()
		a.tmplIdx = (a.tmplIdx + 1) % len(keys)
		a.panel.ApplyTemplate(keys[a.tmplIdx])
	case rl.IsKeyPressed(rl.KeyP):
		presets, err := a.panel.Presets(a.ctx)
		if err == nil && len(presets) > 0 {
			a.presetIdx = (a.presetIdx + 1) % len(presets)
			a.panel.ApplyPreset(a.ctx, presets[a.presetIdx].Name)
		}
	case rl.IsKeyPressed(rl.KeyZ) && rl.IsKeyDown(rl.KeyLeftShift):
		a.panel.Redo()
	case rl.IsKeyPressed(rl.KeyZ):
		a.panel.Undo()
	case rl.IsKeyPressed(rl.KeyS):
		a.panel.Save(a.ctx)
	case rl.IsKeyPressed(rl.KeyE):
		a.panel.Export()
	case rl.IsKeyPressed(rl.KeyR):
		a.panel.Reset()
		a.telemetry = a.telemetry[:0]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	a.engine.Draw(a.canvas)
	if a.showHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	cfg := a.engine.Config()
	w, h := int(a.canvas.width), int(a.canvas.height)

	a.drawText("netmesh", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s  %.0fpx  r%.0f", cfg.InteractionType, cfg.GridDensity, cfg.InteractionRadius), 150, 34, 16, ColText)
	if t := a.panel.Template(); t != "" {
		a.drawText(t, 30, 60, 14, ColAccent)
	}

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-130, 30, 16, col)

	a.DrawTelemetry(30, h-120, 400, 60)
	if n, ok := a.panel.LastNotice(); ok && time.Since(n.Time) < 4*time.Second {
		a.drawText(n.Text, 30, h-50, 14, noticeColor(n.Level))
	}
	a.drawText("[SPACE] PAUSE  [M] MODE  [+/-] DENSITY  [[/]] RADIUS  [T] TEMPLATE  [P] PRESET  [Z] UNDO  [S] SAVE  [H] HUD  [Q] QUIT", 30, h-25, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-80, h-25, 12, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots mean displacement as a line strip.
func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.telemetry) < 2 {
		return
	}
	minVal, maxVal := a.telemetry[0], a.telemetry[0]
	for _, v := range a.telemetry {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}
	points := make([]rl.Vector2, len(a.telemetry))
	for i, val := range a.telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("d: %.2f", a.telemetry[len(a.telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func noticeColor(l panel.Level) rl.Color {
	switch l {
	case panel.Success:
		return rl.NewColor(0, 255, 136, 255)
	case panel.Warning:
		return rl.NewColor(255, 204, 0, 255)
	case panel.Error:
		return rl.Red
	}
	return ColAccent
}

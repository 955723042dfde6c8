package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/renderer"
	"github.com/pthm-cable/flowlines/sketch"
	"github.com/pthm-cable/flowlines/ui"
)

const title = "Flowlines"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("term", false, "Draw in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	pngPath := flag.String("png", "", "Write the final frame to this PNG file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until exhausted)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Terminal mode owns stdout, so logs go to stderr there
	logOut := os.Stdout
	if *term {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := sketch.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		MaxTicks:  *maxTicks,
	}

	s, err := sketch.New(cfg, opts)
	if err != nil {
		slog.Error("failed to build sketch", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"headless", *headless,
		"term", *term,
		"max_ticks", *maxTicks,
	)

	switch {
	case *headless:
		err = runHeadless(s)
	case *term:
		err = runTerminal(s, cfg)
	default:
		err = runWindow(s, cfg)
	}

	if *pngPath != "" && err == nil {
		err = writePNG(s, cfg, *pngPath)
	}
	err = errors.Join(err, s.Close())
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(s *sketch.Sketch) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := s.Run(ctx, nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTerminal(s *sketch.Sketch, cfg *config.Config) error {
	p := tea.NewProgram(ui.NewModel(s, title, cfg.Canvas.TargetFPS), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

func runWindow(s *sketch.Sketch, cfg *config.Config) error {
	bg, err := renderer.ParseBackground(cfg.Render.Background)
	if err != nil {
		return err
	}

	rl.InitWindow(int32(cfg.Canvas.Width), int32(cfg.Canvas.Height), title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Canvas.TargetFPS))

	view := &windowView{
		win:      renderer.NewWindow(bg),
		hud:      ui.NewHUD(),
		perf:     ui.NewPerfPanel(int32(cfg.Canvas.Width)-230, 10, 220),
		sketch:   s,
		showHUD:  true,
		controls: "[Space] pause  [F] field  [D] heads  [H] hud  [P] perf",
	}

	for !rl.WindowShouldClose() {
		view.handleInput()

		if view.paused || s.Stopped() {
			view.Draw(s.Frame())
			continue
		}
		if _, err := s.TickWith(view); err != nil {
			return err
		}
	}
	return nil
}

// windowView draws frames with the HUD layered on top.
type windowView struct {
	win    *renderer.Window
	hud    *ui.HUD
	perf   *ui.PerfPanel
	sketch *sketch.Sketch

	paused   bool
	showHUD  bool
	showPerf bool
	controls string
}

func (v *windowView) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		v.paused = !v.paused
	case rl.IsKeyPressed(rl.KeyF):
		v.win.ToggleField()
	case rl.IsKeyPressed(rl.KeyD):
		v.win.ToggleHeads()
	case rl.IsKeyPressed(rl.KeyH):
		v.showHUD = !v.showHUD
	case rl.IsKeyPressed(rl.KeyP):
		v.showPerf = !v.showPerf
	}
}

func (v *windowView) Draw(frame flow.Frame) error {
	rl.BeginDrawing()
	v.win.Clear()
	v.win.DrawFrame(frame)

	if v.showHUD {
		data := ui.HUDDataOf(v.sketch, title)
		data.Paused = v.paused
		data.FPS = rl.GetFPS()
		v.hud.Draw(data)
		v.hud.DrawControls(int32(rl.GetScreenHeight()), v.controls)
	}
	if v.showPerf {
		v.perf.Draw(v.sketch.Perf().Stats())
	}

	rl.EndDrawing()
	return nil
}

func writePNG(s *sketch.Sketch, cfg *config.Config, path string) error {
	bg, err := renderer.ParseBackground(cfg.Render.Background)
	if err != nil {
		return err
	}
	png, err := renderer.NewPNG(cfg.Canvas.Width, cfg.Canvas.Height, bg, path)
	if err != nil {
		return err
	}
	if err := png.Draw(s.Frame()); err != nil {
		return err
	}
	slog.Info("wrote frame", "path", path, "tick", s.Ticks())
	return nil
}

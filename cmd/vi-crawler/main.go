package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/audio"
	"github.com/lixenwraith/vi-crawler/config"
	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/engine"
	"github.com/lixenwraith/vi-crawler/level"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/render"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	width      = flag.Int("width", 0, "Screen width in cells (0 = config)")
	height     = flag.Int("height", 0, "Screen height in cells (0 = config)")
	workers    = flag.Int("workers", 0, "Render workers, must divide width (0 = config)")
	fps        = flag.Int("fps", 0, "Frames per second (0 = config)")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/vi-crawler.log")
	colorFlag  = flag.String("color", "", "Color mode: truecolor, palette (empty = config)")
	seedFlag   = flag.Int64("seed", 0, "Dungeon seed (0 = random)")
	muteFlag   = flag.Bool("mute", false, "Disable sound")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-crawler: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}
	if *configPath != "" {
		log.Printf("config: loaded %s", *configPath)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vi-crawler: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers flags over the config file over defaults
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}
	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}
	if *workers > 0 {
		cfg.Render.Workers = *workers
	}
	if *fps > 0 {
		cfg.Render.FPS = *fps
	}
	if *colorFlag != "" {
		cfg.Screen.ColorMode = *colorFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
	cfg.Debug = cfg.Debug || *debugFlag
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "terminal init")
	}
	defer screen.Fini()
	core.SetCrashReset(screen.Fini)
	screen.HideCursor()

	sink, err := render.NewTermSink(screen, cfg.Screen.ColorMode)
	if err != nil {
		return err
	}

	entities := engine.NewEntities()
	sched := engine.NewScheduler(entities)
	defer sched.Stop()
	world := physics.NewWorld(cfg.WorldConfig(), entities)

	camera, err := render.NewCamera(cfg.Screen.Width, cfg.Screen.Height, cfg.Camera.FOV, cfg.Camera.MaxDistance)
	if err != nil {
		return err
	}
	pipeline, err := render.NewPipeline(world, render.PipelineConfig{
		Width:   cfg.Screen.Width,
		Height:  cfg.Screen.Height,
		Workers: cfg.Render.Workers,
		Shader:  render.NewShader(cfg.ShaderConfig()),
		Sink:    sink,
	})
	if err != nil {
		return err
	}
	defer pipeline.Shutdown()
	if err := pipeline.SetCamera(camera); err != nil {
		return err
	}

	sound := audio.NewPlayer()
	if cfg.Audio.Enabled {
		if err := sound.Init(); err != nil {
			log.Printf("audio: %v", err)
		}
	} else {
		sound.SetMuted(true)
	}
	defer sound.Close()

	layout := level.Generate(level.Config{
		Cols:     parameter.MazeCols,
		Rows:     parameter.MazeRows,
		Braiding: parameter.MazeBraiding,
		Goblins:  parameter.GoblinCount,
		Seed:     *seedFlag,
	})
	game := NewGame(world, entities, sched, camera, sound, layout)
	sink.Overlay = func(s tcell.Screen) { drawStatus(s, game.Status()) }

	var lastFrame atomic.Pointer[render.Frame]
	loop, err := engine.NewLoop(engine.LoopConfig{
		FPS:      cfg.Render.FPS,
		Renderer: pipeline,
		OnFrame:  func(f render.Frame) { lastFrame.Store(&f) },
	})
	if err != nil {
		return err
	}
	loop.OnTick(game.Tick)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loopDone := make(chan error, 1)
	core.Go(func() { loopDone <- loop.Run(ctx) })

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	for {
		select {
		case err := <-loopDone:
			return err
		case ev, ok := <-events:
			if !ok {
				cancel()
				return <-loopDone
			}
			if handleEvent(ev, game, screen, &lastFrame) == actionQuit {
				cancel()
				return <-loopDone
			}
		}
	}
}

type action int

const (
	actionNone action = iota
	actionQuit
)

// handleEvent maps keys to game input
func handleEvent(ev tcell.Event, game *Game, screen tcell.Screen, lastFrame *atomic.Pointer[render.Frame]) action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return actionQuit
		case tcell.KeyUp:
			game.Move(parameter.PlayerStep, 0)
		case tcell.KeyDown:
			game.Move(-parameter.PlayerStep, 0)
		case tcell.KeyLeft:
			game.Turn(-parameter.PlayerTurnStep)
		case tcell.KeyRight:
			game.Turn(parameter.PlayerTurnStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return actionQuit
			case 'w':
				game.Move(parameter.PlayerStep, 0)
			case 's':
				game.Move(-parameter.PlayerStep, 0)
			case 'a':
				game.Move(0, -parameter.PlayerStep)
			case 'd':
				game.Move(0, parameter.PlayerStep)
			case ' ', 'f':
				game.Fire()
			case 'y':
				copyFrame(game, lastFrame)
			}
		}
	}
	return actionNone
}

// copyFrame puts the most recent frame's glyphs on the system clipboard
func copyFrame(game *Game, lastFrame *atomic.Pointer[render.Frame]) {
	f := lastFrame.Load()
	if f == nil {
		return
	}
	if err := clipboard.WriteAll(f.Text()); err != nil {
		log.Printf("clipboard: %v", err)
		game.setStatus("Clipboard unavailable")
		return
	}
	game.setStatus("Frame copied")
}

// drawStatus writes the HUD line over the top row
func drawStatus(s tcell.Screen, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range []rune(text) {
		s.SetContent(i, 0, r, nil, style)
	}
}

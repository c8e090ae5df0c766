// cubeportal - Interactive cube portal in the terminal.
// Each face of the cube plays a song; clicking a face opens the portal.
//
// Controls:
//
//	Click face  - Play that face's song and open the portal
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	L / logo    - Open the portal, or close it once it is open
//	M / music   - Open the portal
//	C / [x]     - Close the player and the portal
//	Space       - Pause/resume the song
//	?           - Toggle stats overlay (FPS, stage, model, poly count)
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/cubeportal/pkg/app"
	"github.com/taigrr/cubeportal/pkg/config"
	"github.com/taigrr/cubeportal/pkg/gesture"
	"github.com/taigrr/cubeportal/pkg/lifecycle"
	"github.com/taigrr/cubeportal/pkg/models"
	"github.com/taigrr/cubeportal/pkg/player"
	"github.com/taigrr/cubeportal/pkg/render"
)

var (
	configPath string
	targetFPS  int
	modelPath  string
	mute       bool
	logFile    string
	logLevel   string
)

// The terminal reports a single mouse.
const mousePointerID = 1

func main() {
	cmd := &cobra.Command{
		Use:   "cubeportal",
		Short: "Interactive cube portal in the terminal",
		Long: `cubeportal - Interactive cube portal in the terminal

Each face of the cube plays a song. Once the cube settles, click a face to
play it: the cube flies toward you and the player card slides in.

Controls:
  Click face  - Play that face's song and open the portal
  Mouse drag  - Orbit the camera
  Scroll      - Zoom in/out
  L / logo    - Open the portal, or close it once it is open
  M / music   - Open the portal
  C / [x]     - Close the player and the portal
  Space       - Pause/resume the song
  ?           - Toggle stats overlay
  Esc         - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&modelPath, "model", "", "GLB, STL or OBJ model for the cube; materials (or STL facet directions) become the faces (default: built-in cube)")
	cmd.PersistentFlags().IntVar(&targetFPS, "fps", 0, "Target FPS (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, verbose, info, warning, error)")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable audio output")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (logs are discarded otherwise while running)")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Display model and face information",
		Long:  "Display the cube model's vertex and triangle counts, bounding box, and which song each face plays.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runInfo(os.Stdout, cfg)
		},
	}

	var snapWidth, snapHeight int
	var snapPortal bool
	snapshotCmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render a single frame to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSnapshot(cfg, args[0], snapWidth, snapHeight, snapPortal)
		},
	}
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 320, "Image width in pixels")
	snapshotCmd.Flags().IntVar(&snapHeight, "height", 240, "Image height in pixels")
	snapshotCmd.Flags().BoolVar(&snapPortal, "portal", false, "Capture with the portal open")

	defaultsCmd := &cobra.Command{
		Use:   "defaults <out.yaml>",
		Short: "Write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(args[0]); err != nil {
				return err
			}
			log.Infof("Wrote default config to %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(infoCmd, snapshotCmd, defaultsCmd)

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := log.SetLogLevelStr(logLevel); err != nil {
		return config.Config{}, fmt.Errorf("log level %q: %w", logLevel, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = targetFPS
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadMesh returns the --model mesh, or the built-in cube.
func loadMesh() (*models.Mesh, error) {
	if modelPath == "" {
		return models.NewCubeMesh(2), nil
	}
	mesh, err := models.Load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return mesh, nil
}

func runInfo(w io.Writer, cfg config.Config) error {
	mesh, err := loadMesh()
	if err != nil {
		return err
	}
	mesh.CalculateBounds()
	size := mesh.Size()
	center := mesh.Center()
	songs := app.Songs(cfg)

	fmt.Fprintf(w, "Model:      %s\n", mesh.Name)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Faces:      %d\n", mesh.GroupCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	fmt.Fprintln(w)
	for face := range mesh.GroupCount() {
		song := "(no song)"
		if face < len(songs) {
			song = songs[face].String()
		}
		fmt.Fprintf(w, "Face %d:     %s\n", face, song)
	}
	return nil
}

func runSnapshot(cfg config.Config, out string, width, height int, openPortal bool) error {
	mesh, err := loadMesh()
	if err != nil {
		return err
	}
	s := newScene(cfg, mesh, &player.DiscardOutput{}, width, height)
	defer s.app.Player.Close()

	s.app.Start()
	if openPortal {
		s.app.ClickMusic()
		frame := cfg.FrameDuration()
		for range 10 * cfg.FPS {
			if s.app.Universe.Cube().Stage() == lifecycle.PortalOpen {
				break
			}
			s.app.Update(frame)
		}
	}
	s.orbit.Update()
	s.draw()
	if err := s.fb.SavePNG(out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Infof("Wrote %dx%d snapshot (%s) to %s", width, height, s.app.Universe.Cube().Stage(), out)
	return nil
}

// setupLogging keeps log output off the alt screen: to --log-file if set,
// discarded otherwise. The returned func restores stderr.
func setupLogging() (func(), error) {
	if logFile == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// pointerAt converts a terminal cell to framebuffer pixel coordinates: each
// cell is one pixel wide and two tall.
func pointerAt(x, y int, t time.Time) gesture.PointerEvent {
	return gesture.PointerEvent{
		ID:   mousePointerID,
		X:    float64(x) + 0.5,
		Y:    float64(y)*2 + 1,
		Time: t,
	}
}

func run(cfg config.Config) error {
	mesh, err := loadMesh()
	if err != nil {
		return err
	}

	var out player.Output = &player.SpeakerOutput{}
	if mute {
		out = &player.DiscardOutput{}
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	restoreLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer restoreLog()

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	fbWidth, fbHeight := render.FramebufferSize(width, height)
	s := newScene(cfg, mesh, out, fbWidth, fbHeight)
	defer s.app.Player.Close()
	presenter := render.NewPresenter(os.Stdout)
	hud := NewHUD(filepath.Base(mesh.Name), mesh.TriangleCount())
	log.Infof("Loaded %s (%d vertices, %d triangles, %d faces)",
		mesh.Name, mesh.VertexCount(), mesh.TriangleCount(), mesh.GroupCount())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ui layout
	var overlay bytes.Buffer
	pointerDown := false

	handle := func(ev uv.Event) (quit bool) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			s.resize(render.FramebufferSize(width, height))

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				return true
			case ev.MatchString("l"):
				s.app.ClickLogo()
			case ev.MatchString("m"):
				s.app.ClickMusic()
			case ev.MatchString("c"):
				s.app.ClickPlayerClose()
			case ev.MatchString("space"):
				if s.app.Player.Playing() {
					s.app.Player.Pause()
				} else {
					s.app.Player.Play()
				}
			case ev.MatchString("+", "="):
				s.orbit.Zoom(1)
			case ev.MatchString("-", "_"):
				s.orbit.Zoom(-1)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				s.app.ToggleStats()
			}

		case uv.MouseClickEvent:
			if ev.Button != uv.MouseLeft {
				break
			}
			switch ui.hit(ev.X, ev.Y) {
			case "logo":
				s.app.ClickLogo()
			case "music":
				s.app.ClickMusic()
			case "close":
				s.app.ClickPlayerClose()
			default:
				pointerDown = true
				if err := s.app.OnMouseDown(pointerAt(ev.X, ev.Y, time.Now())); err != nil {
					log.LogVf("mouse down: %v", err)
				}
			}

		case uv.MouseReleaseEvent:
			if !pointerDown {
				break
			}
			pointerDown = false
			if err := s.app.OnMouseUp(pointerAt(ev.X, ev.Y, time.Now())); err != nil {
				log.LogVf("mouse up: %v", err)
			}

		case uv.MouseMotionEvent:
			if err := s.app.OnMouseMove(pointerAt(ev.X, ev.Y, time.Now())); err != nil {
				log.LogVf("mouse move: %v", err)
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				s.orbit.Zoom(1)
			case uv.MouseWheelDown:
				s.orbit.Zoom(-1)
			}
		}
		return false
	}

	s.app.Start()
	events := term.Events()
	targetDuration := cfg.FrameDuration()
	lastFrame := time.Now()

	for {
		// Drain pending input before the frame; handlers and Update share
		// this goroutine.
		for drained := false; !drained; {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if handle(ev) {
					return nil
				}
			default:
				drained = true
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame), 100*time.Millisecond)
		lastFrame = now

		s.app.Update(dt)
		s.orbit.Update()
		s.draw()

		if err := presenter.Present(s.fb); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		hud.UpdateFPS()
		overlay.Reset()
		ui = drawOverlay(&overlay, s.app, hud, width, height)
		if _, err := overlay.WriteTo(os.Stdout); err != nil {
			return fmt.Errorf("draw overlay: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

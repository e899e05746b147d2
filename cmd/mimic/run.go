package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/mimic/internal/app"
	"github.com/ayusman/mimic/internal/capture"
	"github.com/ayusman/mimic/internal/config"
	"github.com/ayusman/mimic/internal/detector"
	"github.com/ayusman/mimic/internal/display"
	"github.com/ayusman/mimic/internal/gesture"
	"github.com/ayusman/mimic/internal/overlay"
	"github.com/ayusman/mimic/internal/server"
	"github.com/ayusman/mimic/internal/store"
	"github.com/ayusman/mimic/internal/tray"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the camera loop and show gesture overlays",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMimic(cmd.Context(), *cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.Camera, "camera", "c", cfg.Camera, "camera device index (see `mimic cameras`)")
	f.IntVar(&cfg.Width, "width", cfg.Width, "capture width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "capture height")
	f.IntVar(&cfg.FPS, "fps", cfg.FPS, "capture frame rate")
	f.StringVar(&cfg.AssetDir, "assets", cfg.AssetDir, "directory with neutral.png, finger_mouth.png, finger_up.png and hand_chest.png")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address, empty to disable")
	f.StringVar(&cfg.WebDir, "web", cfg.WebDir, "directory with the browser viewer")
	f.BoolVar(&cfg.Mirror, "mirror", cfg.Mirror, "flip frames horizontally like a mirror")
	f.Float64Var(&cfg.MotionThreshold, "motion", cfg.MotionThreshold, "skip detection until this percent of pixels changes, 0 disables")
	f.IntVar(&cfg.MaxHands, "max-hands", cfg.MaxHands, "maximum hands to detect per frame")
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "do not open a preview window")
	f.BoolVar(&cfg.Tray, "tray", cfg.Tray, "show a system tray menu (headless only)")

	return cmd
}

func runMimic(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	catalog, err := overlay.LoadCatalog(cfg.AssetDir)
	if err != nil {
		return fmt.Errorf("load overlays: %w", err)
	}
	defer catalog.Close()
	log.Printf("Loaded %d of %d overlays from %s", len(catalog.Loaded()), gesture.NumLabels, cfg.AssetDir)

	det := newDetector(cfg)

	frames := server.NewFrameHub()
	events := server.NewEventHub()

	var sink display.Sink = frames
	if !cfg.Headless {
		sink = display.NewTee(display.NewWindow(display.WindowTitle, 5), frames)
	}

	a, err := app.New(app.Config{
		Camera: capture.NewCameraWithOptions(capture.Options{
			DeviceID: cfg.Camera,
			Width:    cfg.Width,
			Height:   cfg.Height,
			FPS:      cfg.FPS,
		}),
		Detector:     det,
		Catalog:      catalog,
		Sink:         sink,
		Store:        st,
		CameraID:     cfg.Camera,
		Mirror:       cfg.Mirror,
		MotionThresh: cfg.MotionThreshold,
	})
	if err != nil {
		return err
	}
	a.OnTransition(events.Publish)

	if cfg.Addr != "" {
		srv := server.New(server.Config{
			StaticDir: cfg.WebDir,
			Store:     st,
			State:     a.Session(),
			Frames:    frames,
			Events:    events,
		})
		go func() {
			if err := srv.Run(ctx, cfg.Addr); err != nil {
				log.Printf("HTTP server stopped: %v", err)
			}
		}()
		log.Printf("Live preview at %s", previewURL(cfg.Addr))
	}

	if !cfg.Tray {
		return a.Run(ctx)
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(cancel)
	t.OnOpenPreview(func() { openBrowser(previewURL(cfg.Addr)) })
	a.OnTransition(func(tr app.Transition) { t.SetLastGesture(tr.Label) })

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	cancel()
	return <-errCh
}

// newDetector starts MediaPipe, falling back to a detector that never finds
// a hand so the preview still works.
func newDetector(cfg config.Config) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.MaxHands
	dc.MinConfidence = cfg.MinConfidence
	dc.ScriptPath = cfg.MediaPipeScript
	dc.PythonPath = cfg.MediaPipePython

	mp, err := detector.NewMediaPipeDetector(dc)
	if err != nil {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	log.Println("Using MediaPipe hand detection")
	return mp
}

// previewURL turns a listen address into the viewer URL.
func previewURL(addr string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// Package app runs the frame loop: it classifies the hands in each camera
// frame and composites the matching overlay before handing the frame to the
// display sinks.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mimic/internal/capture"
	"github.com/ayusman/mimic/internal/detector"
	"github.com/ayusman/mimic/internal/display"
	"github.com/ayusman/mimic/internal/gesture"
	"github.com/ayusman/mimic/internal/overlay"
	"github.com/ayusman/mimic/internal/store"
)

// Overlay placement relative to the top-right corner of the frame.
const (
	OverlayRightOffset = 320
	OverlayTop         = 10
)

var (
	// ErrAlreadyRunning is returned by Run when the loop is already active.
	ErrAlreadyRunning = errors.New("frame loop already running")
	errMissingCamera  = errors.New("app: camera is required")
	errMissingDetect  = errors.New("app: detector is required")
)

// Config holds the collaborators and options of the frame loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	// Catalog supplies one overlay per label. It is not closed by the App.
	Catalog *overlay.Catalog
	// Sink receives every composited frame. Nil discards frames.
	Sink display.Sink
	// Store records sessions and label transitions. Optional.
	Store *store.Store

	CameraID int
	// Mirror flips each frame horizontally before detection.
	Mirror bool
	// MotionThresh enables the motion gate when > 0 (percent of pixels changed).
	MotionThresh float64
}

// Transition describes a change of the displayed label.
type Transition struct {
	SessionID  string              `json:"sessionId"`
	Previous   gesture.Label       `json:"previous"`
	Label      gesture.Label       `json:"label"`
	Handedness detector.Handedness `json:"handedness"`
	Fingers    string              `json:"fingers"`
	Score      float64             `json:"score"`
	At         time.Time           `json:"at"`
}

// App is the frame loop and its collaborators.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	catalog  *overlay.Catalog
	sink     display.Sink
	motion   *capture.MotionGate
	session  *Session

	mu        sync.RWMutex
	enabled   bool
	running   bool
	listeners []func(Transition)
}

// New creates an App. Camera and Detector are required.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errMissingCamera
	}
	if config.Detector == nil {
		return nil, errMissingDetect
	}

	a := &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		catalog:  config.Catalog,
		sink:     config.Sink,
		session:  NewSession(),
		enabled:  true,
	}
	if a.catalog == nil {
		a.catalog = overlay.NewCatalog()
	}
	if a.sink == nil {
		a.sink = display.NewTee()
	}
	if config.MotionThresh > 0 {
		a.motion = capture.NewMotionGate(config.MotionThresh, capture.DefaultMotionHold)
	}

	return a, nil
}

// Session returns the session tracking the displayed label.
func (a *App) Session() *Session {
	return a.session
}

// SetEnabled turns gesture detection and overlays on or off. Frames keep
// flowing to the sink while disabled.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnTransition registers fn to be called from the frame loop whenever the
// displayed label changes. fn must not block.
func (a *App) OnTransition(fn func(Transition)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Run opens the camera and processes frames until ctx is cancelled, a sink
// asks to quit or the camera runs out of frames. Camera, detector and sink
// are closed on return.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer a.release()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.startSession()
	defer a.endSession()

	for {
		select {
		case <-ctx.Done():
			log.Println("Frame loop stopped")
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrNoMoreFrames) {
				log.Println("Camera has no more frames")
				return nil
			}
			if errors.Is(err, capture.ErrCameraNotOpen) {
				return err
			}
			log.Printf("Ignoring frame: %v", err)
			continue
		}

		a.ProcessFrame(frame)
		err = a.sink.Show(frame)
		frame.Close()
		if err != nil {
			log.Printf("Error showing frame: %v", err)
		}

		if a.sink.QuitRequested() {
			log.Println("Quit requested")
			return nil
		}
	}
}

// ProcessFrame classifies the hands in frame and draws the annotations and
// overlay onto it in place. It returns the label now being displayed.
//
// The last classified hand decides the label. Frames without a hand, or on
// which detection fails, keep the previous label.
func (a *App) ProcessFrame(frame *gocv.Mat) gesture.Label {
	if frame == nil || frame.Empty() {
		return a.session.Current()
	}
	if a.config.Mirror {
		gocv.Flip(*frame, frame, 1)
	}
	if !a.IsEnabled() {
		a.session.countFrame(0)
		return a.session.Current()
	}

	hands := a.detect(frame)
	a.session.countFrame(len(hands))

	var (
		last    *detector.HandLandmarks
		state   gesture.FingerState
		label   gesture.Label
		matched bool
	)
	for i := range hands {
		hand := &hands[i]
		s, err := gesture.ExtractFingerState(hand)
		if err != nil {
			log.Printf("Skipping hand: %v", err)
			continue
		}
		display.DrawHand(frame, hand)
		last, state, label, matched = hand, s, gesture.ClassifyState(s, hand), true
	}

	if matched {
		if prev, changed := a.session.Observe(label); changed {
			a.transition(Transition{
				SessionID:  a.session.ID(),
				Previous:   prev,
				Label:      label,
				Handedness: last.Handedness,
				Fingers:    state.String(),
				Score:      last.Score,
				At:         time.Now(),
			})
		}
	}

	current := a.session.Current()
	if len(hands) > 0 {
		display.DrawLabel(frame, current)
	}

	if err := overlay.Blend(frame, a.catalog.Get(current), frame.Cols()-OverlayRightOffset, OverlayTop); err != nil {
		log.Printf("Error drawing overlay: %v", err)
	}

	return current
}

// detect runs the hand detector unless the motion gate is closed.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	if a.motion != nil && !a.motion.Allow(frame) {
		return nil
	}
	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	return hands
}

func (a *App) transition(t Transition) {
	log.Printf("Gesture: %s -> %s", t.Previous, t.Label)

	if a.config.Store != nil {
		err := a.config.Store.Events().Create(&store.Event{
			SessionID:  t.SessionID,
			Label:      t.Label,
			Previous:   t.Previous,
			Handedness: t.Handedness,
			Fingers:    t.Fingers,
			Score:      t.Score,
			CreatedAt:  t.At,
		})
		if err != nil {
			log.Printf("Error recording gesture event: %v", err)
		}
	}

	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()
	for _, fn := range listeners {
		fn(t)
	}
}

func (a *App) startSession() {
	log.Printf("Session %s started on camera %d", a.session.ID(), a.config.CameraID)
	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Sessions().Create(&store.Session{
		ID:        a.session.ID(),
		CameraID:  a.config.CameraID,
		StartedAt: a.session.StartedAt(),
	})
	if err != nil {
		log.Printf("Error recording session: %v", err)
	}
}

func (a *App) endSession() {
	frames := a.session.Frames()
	log.Printf("Session %s ended after %d frames", a.session.ID(), frames)
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Sessions().End(a.session.ID(), frames, time.Now()); err != nil {
		log.Printf("Error closing session: %v", err)
	}
}

// release closes the camera, detector, motion gate and sink.
func (a *App) release() {
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if err := a.sink.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}

	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
}

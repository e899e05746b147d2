package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// WindowTitle is the title used by the desktop preview.
const WindowTitle = "Gesture Recognition"

// quitKey closes the preview window.
const quitKey = 'q'

// Window shows frames in an OpenCV HighGUI window. It must be created and
// used from the main goroutine on platforms that require it (macOS).
type Window struct {
	win  *gocv.Window
	wait int
	quit bool
	mu   sync.Mutex
}

// NewWindow opens a preview window. waitMs is how long each Show polls the
// keyboard; values <= 0 use 5ms.
func NewWindow(title string, waitMs int) *Window {
	if waitMs <= 0 {
		waitMs = 5
	}
	return &Window{
		win:  gocv.NewWindow(title),
		wait: waitMs,
	}
}

// Show displays the frame and polls for the quit key.
func (w *Window) Show(frame *gocv.Mat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil
	}
	w.win.IMShow(*frame)
	if key := w.win.WaitKey(w.wait); isQuitKey(key) {
		w.quit = true
	}
	return nil
}

func (w *Window) QuitRequested() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quit
}

func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.win.Close()
}

// isQuitKey reports whether a WaitKey result is the quit key. WaitKey returns
// -1 when no key was pressed.
func isQuitKey(key int) bool {
	return key >= 0 && key&0xFF == quitKey
}

package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultMotionHold is how long the gate stays open after the last motion.
	DefaultMotionHold = 2 * time.Second
)

// MotionGate decides whether a frame is worth running hand detection on.
// It compares each frame against the previous one and stays open for a hold
// period after the last frame whose changed-pixel percentage exceeded the
// threshold.
type MotionGate struct {
	threshold  float64
	hold       time.Duration
	prevGray   gocv.Mat
	primed     bool
	lastMotion time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewMotionGate creates a gate. threshold is the percentage of pixels that
// must change (1.0 means 1%); hold <= 0 uses DefaultMotionHold.
func NewMotionGate(threshold float64, hold time.Duration) *MotionGate {
	if hold <= 0 {
		hold = DefaultMotionHold
	}
	return &MotionGate{
		threshold: threshold,
		hold:      hold,
		prevGray:  gocv.NewMat(),
		now:       time.Now,
	}
}

// Allow reports whether detection should run for this frame. The first frame
// after creation or Reset always opens the gate.
func (g *MotionGate) Allow(frame *gocv.Mat) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false
	}

	now := g.now()
	changed, ok := g.diff(frame)
	if !ok || changed > g.threshold {
		g.lastMotion = now
	}
	return now.Sub(g.lastMotion) <= g.hold
}

// diff returns the percentage of pixels that changed since the previous frame.
// ok is false when there was no previous frame to compare against.
func (g *MotionGate) diff(frame *gocv.Mat) (float64, bool) {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	defer blurred.CopyTo(&g.prevGray)
	if !g.primed || g.prevGray.Rows() != blurred.Rows() || g.prevGray.Cols() != blurred.Cols() {
		g.primed = true
		return 0, false
	}

	delta := gocv.NewMat()
	defer delta.Close()
	gocv.AbsDiff(blurred, g.prevGray, &delta)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(delta, &mask, DiffThreshold, 255, gocv.ThresholdBinary)

	total := mask.Rows() * mask.Cols()
	return float64(gocv.CountNonZero(mask)) / float64(total) * 100.0, true
}

// Reset forgets the previous frame and the last motion time.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

// Close releases the stored frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

func (g *MotionGate) release() {
	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.primed = false
	g.lastMotion = time.Time{}
}

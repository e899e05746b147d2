package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
	mu    sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// handFromXY builds a hand from (x, y) pairs listed in landmark index order.
func handFromXY(handedness Handedness, xy [NumLandmarks][2]float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}
	for i, p := range xy {
		h.Points[i] = Point3D{X: p[0], Y: p[1]}
	}
	return h
}

// FingerUpLandmarks returns a right hand with only the index finger raised,
// pointing well above the wrist (wrist y=0.85, index tip y=0.30).
func FingerUpLandmarks() HandLandmarks {
	return handFromXY(Right, [NumLandmarks][2]float64{
		Wrist:     {0.50, 0.85},
		ThumbCMC:  {0.45, 0.80},
		ThumbMCP:  {0.40, 0.75},
		ThumbIP:   {0.35, 0.72},
		ThumbTip:  {0.40, 0.70},
		IndexMCP:  {0.48, 0.65},
		IndexPIP:  {0.48, 0.55},
		IndexDIP:  {0.48, 0.42},
		IndexTip:  {0.48, 0.30},
		MiddleMCP: {0.52, 0.66},
		MiddlePIP: {0.52, 0.60},
		MiddleDIP: {0.52, 0.66},
		MiddleTip: {0.52, 0.70},
		RingMCP:   {0.56, 0.67},
		RingPIP:   {0.56, 0.62},
		RingDIP:   {0.56, 0.67},
		RingTip:   {0.56, 0.71},
		PinkyMCP:  {0.60, 0.69},
		PinkyPIP:  {0.60, 0.65},
		PinkyDIP:  {0.60, 0.69},
		PinkyTip:  {0.60, 0.72},
	})
}

// FingerMouthLandmarks returns a right hand with only the index finger raised,
// held close to the wrist height near the face (wrist y=0.70, index tip y=0.35).
func FingerMouthLandmarks() HandLandmarks {
	return handFromXY(Right, [NumLandmarks][2]float64{
		Wrist:     {0.30, 0.70},
		ThumbCMC:  {0.27, 0.66},
		ThumbMCP:  {0.25, 0.62},
		ThumbIP:   {0.27, 0.58},
		ThumbTip:  {0.32, 0.57},
		IndexMCP:  {0.30, 0.55},
		IndexPIP:  {0.30, 0.48},
		IndexDIP:  {0.30, 0.41},
		IndexTip:  {0.30, 0.35},
		MiddleMCP: {0.34, 0.56},
		MiddlePIP: {0.34, 0.51},
		MiddleDIP: {0.34, 0.55},
		MiddleTip: {0.34, 0.58},
		RingMCP:   {0.37, 0.57},
		RingPIP:   {0.37, 0.53},
		RingDIP:   {0.37, 0.57},
		RingTip:   {0.37, 0.60},
		PinkyMCP:  {0.40, 0.59},
		PinkyPIP:  {0.40, 0.56},
		PinkyDIP:  {0.40, 0.59},
		PinkyTip:  {0.40, 0.61},
	})
}

// HandChestLandmarks returns a flat right hand low and centered in the frame
// with four fingers raised and the thumb folded. Its hand center is (0.52, 0.75).
func HandChestLandmarks() HandLandmarks {
	return handFromXY(Right, [NumLandmarks][2]float64{
		Wrist:     {0.52, 0.90},
		ThumbCMC:  {0.48, 0.85},
		ThumbMCP:  {0.45, 0.80},
		ThumbIP:   {0.44, 0.76},
		ThumbTip:  {0.47, 0.73},
		IndexMCP:  {0.46, 0.72},
		IndexPIP:  {0.46, 0.62},
		IndexDIP:  {0.46, 0.55},
		IndexTip:  {0.46, 0.48},
		MiddleMCP: {0.50, 0.71},
		MiddlePIP: {0.50, 0.60},
		MiddleDIP: {0.50, 0.52},
		MiddleTip: {0.50, 0.45},
		RingMCP:   {0.54, 0.71},
		RingPIP:   {0.54, 0.61},
		RingDIP:   {0.54, 0.54},
		RingTip:   {0.54, 0.48},
		PinkyMCP:  {0.58, 0.71},
		PinkyPIP:  {0.58, 0.63},
		PinkyDIP:  {0.58, 0.58},
		PinkyTip:  {0.58, 0.53},
	})
}

// FistLandmarks returns a right fist with every finger lowered, centered
// vertically (hand center y=0.5).
func FistLandmarks() HandLandmarks {
	return handFromXY(Right, [NumLandmarks][2]float64{
		Wrist:     {0.50, 0.60},
		ThumbCMC:  {0.46, 0.57},
		ThumbMCP:  {0.43, 0.53},
		ThumbIP:   {0.42, 0.50},
		ThumbTip:  {0.45, 0.49},
		IndexMCP:  {0.45, 0.475},
		IndexPIP:  {0.45, 0.42},
		IndexDIP:  {0.45, 0.46},
		IndexTip:  {0.45, 0.50},
		MiddleMCP: {0.49, 0.475},
		MiddlePIP: {0.49, 0.41},
		MiddleDIP: {0.49, 0.45},
		MiddleTip: {0.49, 0.50},
		RingMCP:   {0.53, 0.475},
		RingPIP:   {0.53, 0.42},
		RingDIP:   {0.53, 0.46},
		RingTip:   {0.53, 0.50},
		PinkyMCP:  {0.57, 0.475},
		PinkyPIP:  {0.57, 0.43},
		PinkyDIP:  {0.57, 0.47},
		PinkyTip:  {0.57, 0.51},
	})
}

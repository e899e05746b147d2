// Package detector provides hand detection interfaces and landmark types consumed by gesture classification.
package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrInvalidLandmarks is returned when a hand does not carry 21 well-formed landmarks
// with a known handedness.
var ErrInvalidLandmarks = errors.New("invalid hand landmarks")

// Handedness identifies which hand a landmark set belongs to, as reported
// after the frame has been mirrored.
type Handedness string

const (
	// Left is a left hand.
	Left Handedness = "Left"
	// Right is a right hand.
	Right Handedness = "Right"
)

// Valid reports whether h is one of the known hands.
func (h Handedness) Valid() bool {
	return h == Left || h == Right
}

// Point3D represents a landmark position. X and Y are normalized to [0,1]
// relative to the frame with the origin at the top-left; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// Validate checks that the hand can be classified. Coordinates only need to be
// finite: MediaPipe reports points slightly outside [0,1] when the hand is
// partly out of frame.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return fmt.Errorf("%w: nil hand", ErrInvalidLandmarks)
	}
	if !h.Handedness.Valid() {
		return fmt.Errorf("%w: handedness %q", ErrInvalidLandmarks, h.Handedness)
	}
	for i, p := range h.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return fmt.Errorf("%w: landmark %d is not finite", ErrInvalidLandmarks, i)
		}
	}
	return nil
}

// Pixel converts a normalized landmark to pixel coordinates for a frame of the given size.
func (p Point3D) Pixel(width, height int) (int, int) {
	return int(p.X * float64(width)), int(p.Y * float64(height))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

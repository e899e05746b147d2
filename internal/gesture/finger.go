package gesture

import (
	"fmt"
	"strings"

	"github.com/ayusman/mimic/internal/detector"
)

// Finger positions within a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

var (
	fingerTips = [NumFingers]int{detector.ThumbTip, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
	fingerPIPs = [NumFingers]int{detector.ThumbIP, detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
)

// FingerState records which fingers are raised, ordered thumb to pinky.
type FingerState [NumFingers]bool

// Count returns the number of raised fingers.
func (s FingerState) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as five 0/1 digits, thumb first.
func (s FingerState) String() string {
	var b strings.Builder
	for _, up := range s {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ExtractFingerState derives the raised/lowered state of each finger.
//
// The thumb moves sideways, so it is compared horizontally against its IP
// joint: on the mirrored image a right thumb is raised when its tip is left of
// the joint, a left thumb when it is right of it. The other four fingers are
// raised when the tip sits above (smaller y than) the PIP joint.
func ExtractFingerState(hand *detector.HandLandmarks) (FingerState, error) {
	var state FingerState
	if err := hand.Validate(); err != nil {
		return state, fmt.Errorf("extract finger state: %w", err)
	}

	thumbTip := hand.Points[fingerTips[Thumb]]
	thumbIP := hand.Points[fingerPIPs[Thumb]]
	if hand.Handedness == detector.Right {
		state[Thumb] = thumbTip.X < thumbIP.X
	} else {
		state[Thumb] = thumbTip.X > thumbIP.X
	}

	for f := Index; f < NumFingers; f++ {
		state[f] = hand.Points[fingerTips[f]].Y < hand.Points[fingerPIPs[f]].Y
	}

	return state, nil
}

package gesture

import (
	"math"

	"github.com/ayusman/mimic/internal/detector"
)

// Rule thresholds, in normalized frame coordinates.
const (
	mouthMaxTipY       = 0.6
	mouthMaxWristDist  = 0.4
	mouthMaxRaised     = 2
	upMinLift          = 0.2
	chestMinCenterY    = 0.6
	chestCenterX       = 0.5
	chestMaxCenterXDev = 0.3
	chestMinRaised     = 3
)

// palmPoints are averaged to locate the hand center.
var palmPoints = [...]int{detector.Wrist, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}

var indexOnly = FingerState{Index: true}

type rule struct {
	label Label
	match func(s FingerState, h *detector.HandLandmarks) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{FingerMouth, isFingerMouth},
	{FingerUp, isFingerUp},
	{HandChest, isHandChest},
}

// Classify validates a hand and resolves it to exactly one Label.
func Classify(hand *detector.HandLandmarks) (Label, error) {
	state, err := ExtractFingerState(hand)
	if err != nil {
		return Neutral, err
	}
	return ClassifyState(state, hand), nil
}

// ClassifyState applies the gesture rules to an already extracted finger
// state. The hand must have passed Validate.
func ClassifyState(state FingerState, hand *detector.HandLandmarks) Label {
	for _, r := range rules {
		if r.match(state, hand) {
			return r.label
		}
	}
	return Neutral
}

// HandCenter returns the mean (x, y) of the wrist and the four finger knuckles.
func HandCenter(hand *detector.HandLandmarks) (float64, float64) {
	var x, y float64
	for _, i := range palmPoints {
		x += hand.Points[i].X
		y += hand.Points[i].Y
	}
	n := float64(len(palmPoints))
	return x / n, y / n
}

func isFingerMouth(s FingerState, h *detector.HandLandmarks) bool {
	tip := h.Points[detector.IndexTip]
	wrist := h.Points[detector.Wrist]
	return s[Index] &&
		tip.Y < mouthMaxTipY &&
		math.Abs(tip.Y-wrist.Y) < mouthMaxWristDist &&
		s.Count() <= mouthMaxRaised
}

func isFingerUp(s FingerState, h *detector.HandLandmarks) bool {
	return s == indexOnly &&
		h.Points[detector.IndexTip].Y < h.Points[detector.Wrist].Y-upMinLift
}

func isHandChest(s FingerState, h *detector.HandLandmarks) bool {
	cx, cy := HandCenter(h)
	return cy > chestMinCenterY &&
		math.Abs(cx-chestCenterX) < chestMaxCenterXDev &&
		s.Count() >= chestMinRaised
}

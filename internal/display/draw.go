package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mimic/internal/detector"
	"github.com/ayusman/mimic/internal/gesture"
)

// LabelOrigin is where the gesture label text is drawn.
var LabelOrigin = image.Pt(10, 30)

var (
	labelColor      = color.RGBA{G: 255}
	landmarkColor   = color.RGBA{R: 255}
	connectionColor = color.RGBA{R: 255, G: 255, B: 255}
)

const (
	landmarkRadius      = 4
	connectionThickness = 2
	labelScale          = 1.0
	labelThickness      = 2
)

// HandConnections pairs landmark indices that form the hand skeleton.
var HandConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// DrawHand draws the skeleton and landmark dots of one hand onto frame.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if frame == nil || frame.Empty() || hand == nil {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	for _, c := range HandConnections {
		x1, y1 := hand.Points[c[0]].Pixel(w, h)
		x2, y2 := hand.Points[c[1]].Pixel(w, h)
		gocv.Line(frame, image.Pt(x1, y1), image.Pt(x2, y2), connectionColor, connectionThickness)
	}
	for _, p := range hand.Points {
		x, y := p.Pixel(w, h)
		gocv.Circle(frame, image.Pt(x, y), landmarkRadius, landmarkColor, -1)
	}
}

// LabelText is the caption drawn for a gesture.
func LabelText(l gesture.Label) string {
	return fmt.Sprintf("Gesture: %s", l)
}

// DrawLabel writes the gesture caption in the top-left corner.
func DrawLabel(frame *gocv.Mat, l gesture.Label) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.PutText(frame, LabelText(l), LabelOrigin, gocv.FontHersheySimplex, labelScale, labelColor, labelThickness)
}

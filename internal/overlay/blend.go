// Package overlay composites gesture overlay images onto video frames.
package overlay

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrUnsupportedFormat is returned when a frame is not 8-bit BGR or an asset
// is not 8-bit BGR/BGRA.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Blend draws asset onto frame with its top-left corner at (x, y).
//
// The frame is modified in place and also serves as the result; once Blend
// returns, the previous contents of the target rectangle are gone. The asset
// is never modified.
//
// A nil or empty asset, or a negative anchor, leaves the frame untouched. An
// asset that would extend past the right or bottom edge is resized (not
// cropped) to fit the remaining space. BGRA assets are alpha blended over the
// frame; BGR assets overwrite it.
func Blend(frame *gocv.Mat, asset *gocv.Mat, x, y int) error {
	if asset == nil || asset.Empty() {
		return nil
	}
	if frame == nil || frame.Empty() {
		return fmt.Errorf("%w: empty frame", ErrUnsupportedFormat)
	}
	if frame.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: frame type %v", ErrUnsupportedFormat, frame.Type())
	}
	if asset.Type() != gocv.MatTypeCV8UC3 && asset.Type() != gocv.MatTypeCV8UC4 {
		return fmt.Errorf("%w: asset type %v", ErrUnsupportedFormat, asset.Type())
	}
	if x < 0 || y < 0 {
		return nil
	}

	frameW, frameH := frame.Cols(), frame.Rows()
	w, h := asset.Cols(), asset.Rows()
	if x+w > frameW {
		w = frameW - x
	}
	if y+h > frameH {
		h = frameH - y
	}
	if w <= 0 || h <= 0 {
		// Anchor lies on or beyond the frame edge.
		return nil
	}

	src := asset
	if w != asset.Cols() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(*src, &resized, image.Pt(w, src.Rows()), 0, 0, gocv.InterpolationLinear)
		src = &resized
	}
	if h != src.Rows() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(*src, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
		src = &resized
	}

	dst, err := frame.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("frame pixels: %w", err)
	}
	pix, err := src.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("asset pixels: %w", err)
	}

	composite(dst, frameW*3, pix, src.Channels(), x, y, w, h)
	return nil
}

// composite writes a w×h source block into a 3-channel destination whose rows
// are dstStride bytes apart.
func composite(dst []uint8, dstStride int, src []uint8, srcChannels, x, y, w, h int) {
	srcStride := w * srcChannels
	for row := 0; row < h; row++ {
		d := dst[(y+row)*dstStride+x*3:]
		s := src[row*srcStride:]
		for col := 0; col < w; col++ {
			dp := d[col*3 : col*3+3]
			sp := s[col*srcChannels : col*srcChannels+srcChannels]
			if srcChannels == 4 {
				alpha := float64(sp[3]) / 255.0
				for c := 0; c < 3; c++ {
					dp[c] = mix(alpha, sp[c], dp[c])
				}
				continue
			}
			copy(dp, sp[:3])
		}
	}
}

// mix returns alpha·over + (1−alpha)·under truncated to a byte.
func mix(alpha float64, over, under uint8) uint8 {
	v := alpha*float64(over) + (1-alpha)*float64(under)
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

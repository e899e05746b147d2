package overlay

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/ayusman/mimic/internal/gesture"
)

// AssetSize is the width and height every overlay is resized to on load.
const AssetSize = 300

var assetFiles = [gesture.NumLabels]string{
	gesture.Neutral:     "neutral.png",
	gesture.FingerMouth: "finger_mouth.png",
	gesture.FingerUp:    "finger_up.png",
	gesture.HandChest:   "hand_chest.png",
}

// FileName returns the asset file name expected for a label.
func FileName(l gesture.Label) string {
	if !l.Valid() {
		return ""
	}
	return assetFiles[l]
}

// Catalog maps every gesture label to an optional overlay image.
// It owns the images and releases them on Close.
type Catalog struct {
	assets [gesture.NumLabels]*gocv.Mat
}

// NewCatalog returns a catalog with no assets.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// LoadCatalog reads one PNG per label from dir, keeping any alpha channel and
// resizing each to AssetSize×AssetSize. Missing or unreadable files are logged
// and left absent. A missing directory is created.
func LoadCatalog(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create asset directory: %w", err)
		}
		log.Printf("Created overlay directory %s; add these images:", dir)
		for _, l := range gesture.Labels() {
			log.Printf("  %s (%s)", FileName(l), l)
		}
	}

	c := NewCatalog()
	for _, l := range gesture.Labels() {
		path := filepath.Join(dir, FileName(l))
		if _, err := os.Stat(path); err != nil {
			log.Printf("Overlay not found: %s", path)
			continue
		}

		asset, err := readAsset(path)
		if err != nil {
			log.Printf("Failed to load overlay %s: %v", path, err)
			continue
		}
		c.Set(l, asset)
		log.Printf("Loaded overlay: %s", FileName(l))
	}

	return c, nil
}

func readAsset(path string) (*gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer img.Close()
	if img.Empty() {
		return nil, fmt.Errorf("decode failed")
	}

	color := gocv.NewMat()
	defer color.Close()
	switch img.Type() {
	case gocv.MatTypeCV8UC1:
		gocv.CvtColor(img, &color, gocv.ColorGrayToBGR)
	case gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		img.CopyTo(&color)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, img.Type())
	}

	resized := gocv.NewMat()
	gocv.Resize(color, &resized, image.Pt(AssetSize, AssetSize), 0, 0, gocv.InterpolationLinear)
	return &resized, nil
}

// Set stores the asset for a label, taking ownership of it. Any previous
// asset for the label is closed.
func (c *Catalog) Set(l gesture.Label, asset *gocv.Mat) {
	if !l.Valid() {
		return
	}
	if old := c.assets[l]; old != nil && old != asset {
		old.Close()
	}
	c.assets[l] = asset
}

// Get returns the asset for a label, or nil when none is loaded.
func (c *Catalog) Get(l gesture.Label) *gocv.Mat {
	if c == nil || !l.Valid() {
		return nil
	}
	return c.assets[l]
}

// Loaded returns the labels that have an asset.
func (c *Catalog) Loaded() []gesture.Label {
	var labels []gesture.Label
	for _, l := range gesture.Labels() {
		if c.Get(l) != nil {
			labels = append(labels, l)
		}
	}
	return labels
}

// Close releases all assets.
func (c *Catalog) Close() {
	for i, m := range c.assets {
		if m != nil {
			m.Close()
			c.assets[i] = nil
		}
	}
}

package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mimic/internal/gesture"
)

func writePNG(t *testing.T, path string, rows, cols int, mt gocv.MatType, s gocv.Scalar) {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, mt)
	defer m.Close()
	m.SetTo(s)
	require.True(t, gocv.IMWrite(path, m), "write %s", path)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "neutral.png", FileName(gesture.Neutral))
	assert.Equal(t, "finger_mouth.png", FileName(gesture.FingerMouth))
	assert.Equal(t, "finger_up.png", FileName(gesture.FingerUp))
	assert.Equal(t, "hand_chest.png", FileName(gesture.HandChest))
	assert.Equal(t, "", FileName(gesture.Label(42)))
}

func TestLoadCatalog(t *testing.T) {
	skipShort(t)

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "finger_up.png"), 64, 48, gocv.MatTypeCV8UC4, gocv.NewScalar(1, 2, 3, 200))
	writePNG(t, filepath.Join(dir, "neutral.png"), 500, 500, gocv.MatTypeCV8UC3, gocv.NewScalar(4, 5, 6, 0))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hand_chest.png"), []byte("not a png"), 0644))

	c, err := LoadCatalog(dir)
	require.NoError(t, err)
	defer c.Close()

	up := c.Get(gesture.FingerUp)
	require.NotNil(t, up)
	assert.Equal(t, AssetSize, up.Rows())
	assert.Equal(t, AssetSize, up.Cols())
	assert.Equal(t, 4, up.Channels(), "alpha channel must be kept")

	neutral := c.Get(gesture.Neutral)
	require.NotNil(t, neutral)
	assert.Equal(t, AssetSize, neutral.Rows())
	assert.Equal(t, 3, neutral.Channels())

	assert.Nil(t, c.Get(gesture.FingerMouth), "missing file")
	assert.Nil(t, c.Get(gesture.HandChest), "unreadable file")
	assert.ElementsMatch(t, []gesture.Label{gesture.Neutral, gesture.FingerUp}, c.Loaded())
}

func TestLoadCatalog_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "overlays")

	c, err := LoadCatalog(dir)
	require.NoError(t, err)
	defer c.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, c.Loaded())
}

func TestCatalog_GetNeverFails(t *testing.T) {
	var nilCatalog *Catalog
	assert.Nil(t, nilCatalog.Get(gesture.HandChest))

	c := NewCatalog()
	for _, l := range gesture.Labels() {
		assert.Nil(t, c.Get(l))
	}
	assert.Nil(t, c.Get(gesture.Label(-3)))
}

func TestCatalog_SetReplacesAndCloses(t *testing.T) {
	skipShort(t)

	c := NewCatalog()
	first := gocv.NewMatWithSize(AssetSize, AssetSize, gocv.MatTypeCV8UC3)
	second := gocv.NewMatWithSize(AssetSize, AssetSize, gocv.MatTypeCV8UC4)

	c.Set(gesture.FingerMouth, &first)
	c.Set(gesture.FingerMouth, &second)
	c.Set(gesture.Label(99), &second)

	require.Same(t, &second, c.Get(gesture.FingerMouth))

	c.Close()
	assert.Nil(t, c.Get(gesture.FingerMouth))
}

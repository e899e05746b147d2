package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
	}{
		{name: "default device", deviceID: 0},
		{name: "device 1", deviceID: 1},
		{name: "device 2", deviceID: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID)
			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestNewCameraWithOptions_Defaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Options
	}{
		{
			name: "zero options",
			opts: Options{},
			want: Options{Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		},
		{
			name: "negative values",
			opts: Options{DeviceID: 3, Width: -1, Height: -1, FPS: -1},
			want: Options{DeviceID: 3, Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		},
		{
			name: "explicit values kept",
			opts: Options{DeviceID: 1, Width: 1280, Height: 720, FPS: 15},
			want: Options{DeviceID: 1, Width: 1280, Height: 720, FPS: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCameraWithOptions(tt.opts).(*cameraImpl)
			if cam.opts != tt.want {
				t.Errorf("opts = %+v, want %+v", cam.opts, tt.want)
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 10", fps: 10, wantFPS: 10},
		{name: "set to 60", fps: 60, wantFPS: 60},
		{name: "set to 1", fps: 1, wantFPS: 1},
		{name: "zero keeps previous", fps: 0, wantFPS: 1},
		{name: "negative keeps previous", fps: -5, wantFPS: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Logf("frame is %dx%d, camera may not support %dx%d", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestProbe_ReportsProgress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping device probe in short mode")
	}

	var seen []int
	available := Probe(3, func(i int) { seen = append(seen, i) })

	if len(seen) != 3 {
		t.Fatalf("progress called %d times, want 3", len(seen))
	}
	for i, idx := range seen {
		if idx != i {
			t.Errorf("progress[%d] = %d, want %d", i, idx, i)
		}
	}
	if len(available) > 3 {
		t.Errorf("Probe returned %d devices from 3 indices", len(available))
	}
}

func TestProbe_NoDevicesRequested(t *testing.T) {
	if got := Probe(0, nil); len(got) != 0 {
		t.Errorf("Probe(0) = %v, want empty", got)
	}
}

package detector

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestHandLandmarks_Validate(t *testing.T) {
	tests := []struct {
		name    string
		hand    func() *HandLandmarks
		wantErr bool
	}{
		{
			name: "valid right hand",
			hand: func() *HandLandmarks {
				h := FingerUpLandmarks()
				return &h
			},
		},
		{
			name: "valid left hand",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Handedness = Left
				return &h
			},
		},
		{
			name:    "nil hand",
			hand:    func() *HandLandmarks { return nil },
			wantErr: true,
		},
		{
			name: "unknown handedness",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Handedness = "Both"
				return &h
			},
			wantErr: true,
		},
		{
			name: "empty handedness",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Handedness = ""
				return &h
			},
			wantErr: true,
		},
		{
			name: "NaN coordinate",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Points[IndexTip].Y = math.NaN()
				return &h
			},
			wantErr: true,
		},
		{
			name: "infinite coordinate",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Points[Wrist].X = math.Inf(1)
				return &h
			},
			wantErr: true,
		},
		{
			name: "slightly out of frame is accepted",
			hand: func() *HandLandmarks {
				h := FistLandmarks()
				h.Points[PinkyTip].X = 1.03
				return &h
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hand().Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLandmarks) {
					t.Errorf("Validate() error = %v, want ErrInvalidLandmarks", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestPoint3D_Pixel(t *testing.T) {
	x, y := Point3D{X: 0.5, Y: 0.25}.Pixel(640, 480)
	if x != 320 || y != 120 {
		t.Errorf("Pixel() = (%d, %d), want (320, 120)", x, y)
	}
}

func TestParseResponse(t *testing.T) {
	points := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = `{"x":0.5,"y":0.5,"z":0}`
		}
		return "[" + strings.Join(parts, ",") + "]"
	}

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected 0 hands, got %d", len(hands))
		}
	})

	t.Run("one full hand", func(t *testing.T) {
		line := `{"hands":[{"points":` + points(NumLandmarks) + `,"handedness":"Left","score":0.8}]}`
		hands, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != Left {
			t.Errorf("expected handedness Left, got %s", hands[0].Handedness)
		}
		if hands[0].Score != 0.8 {
			t.Errorf("expected score 0.8, got %f", hands[0].Score)
		}
		if hands[0].Points[PinkyTip].X != 0.5 {
			t.Errorf("expected pinky tip x 0.5, got %f", hands[0].Points[PinkyTip].X)
		}
	})

	t.Run("too few points fails loudly", func(t *testing.T) {
		line := `{"hands":[{"points":` + points(20) + `,"handedness":"Right","score":0.9}]}`
		_, err := parseResponse([]byte(line))
		if !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})

	t.Run("too many points fails loudly", func(t *testing.T) {
		line := `{"hands":[{"points":` + points(22) + `,"handedness":"Right","score":0.9}]}`
		_, err := parseResponse([]byte(line))
		if !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})

	t.Run("unknown handedness fails loudly", func(t *testing.T) {
		line := `{"hands":[{"points":` + points(NumLandmarks) + `,"handedness":"right","score":0.9}]}`
		_, err := parseResponse([]byte(line))
		if !errors.Is(err, ErrInvalidLandmarks) {
			t.Errorf("expected ErrInvalidLandmarks, got %v", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"hands":`))
		if err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = "/nonexistent/mediapipe_service.py"

	if _, err := NewMediaPipeDetector(cfg); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FingerUpLandmarks(), HandChestLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("counts calls", func(t *testing.T) {
		mock := NewMockDetector()
		mock.Detect(nil)
		mock.Detect(nil)

		if mock.Calls() != 2 {
			t.Errorf("expected 2 calls, got %d", mock.Calls())
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPresetLandmarks(t *testing.T) {
	presets := map[string]HandLandmarks{
		"finger up":    FingerUpLandmarks(),
		"finger mouth": FingerMouthLandmarks(),
		"hand chest":   HandChestLandmarks(),
		"fist":         FistLandmarks(),
	}

	for name, hand := range presets {
		t.Run(name, func(t *testing.T) {
			if err := hand.Validate(); err != nil {
				t.Errorf("preset should be valid: %v", err)
			}
			if hand.Handedness != Right {
				t.Errorf("expected handedness Right, got %s", hand.Handedness)
			}
		})
	}

	t.Run("finger up matches the documented geometry", func(t *testing.T) {
		h := FingerUpLandmarks()
		if h.Points[Wrist].Y != 0.85 {
			t.Errorf("wrist y = %f, want 0.85", h.Points[Wrist].Y)
		}
		if h.Points[IndexTip].Y != 0.30 || h.Points[IndexPIP].Y != 0.55 {
			t.Errorf("index tip/pip y = %f/%f, want 0.30/0.55", h.Points[IndexTip].Y, h.Points[IndexPIP].Y)
		}
		if h.Points[ThumbTip].X != 0.40 || h.Points[ThumbIP].X != 0.35 {
			t.Errorf("thumb tip/ip x = %f/%f, want 0.40/0.35", h.Points[ThumbTip].X, h.Points[ThumbIP].X)
		}
	})

	t.Run("finger mouth matches the documented geometry", func(t *testing.T) {
		h := FingerMouthLandmarks()
		if h.Points[Wrist].Y != 0.70 || h.Points[IndexTip].Y != 0.35 {
			t.Errorf("wrist/index tip y = %f/%f, want 0.70/0.35", h.Points[Wrist].Y, h.Points[IndexTip].Y)
		}
	})
}

package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mimic/internal/gesture"
)

// Session holds the label shown by the frame loop. It outlives individual
// frames so that hand-less frames keep rendering the last gesture.
type Session struct {
	id        string
	startedAt time.Time

	mu        sync.RWMutex
	label     gesture.Label
	frames    int
	hands     int
	changes   int
	updatedAt time.Time
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID        string        `json:"id"`
	Label     gesture.Label `json:"label"`
	Frames    int           `json:"frames"`
	Hands     int           `json:"hands"`
	Changes   int           `json:"changes"`
	StartedAt time.Time     `json:"startedAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewSession starts a session at Neutral with a fresh random ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		startedAt: now,
		label:     gesture.Neutral,
		updatedAt: now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the label to render.
func (s *Session) Current() gesture.Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label
}

// Observe records the label classified for the latest frame and returns the
// previous label and whether it changed.
func (s *Session) Observe(l gesture.Label) (gesture.Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.label
	if prev == l {
		return prev, false
	}
	s.label = l
	s.changes++
	s.updatedAt = time.Now()
	return prev, true
}

// countFrame tallies a processed frame and the hands seen on it.
func (s *Session) countFrame(hands int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.hands = hands
}

// Frames returns how many frames have been processed.
func (s *Session) Frames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:        s.id,
		Label:     s.label,
		Frames:    s.frames,
		Hands:     s.hands,
		Changes:   s.changes,
		StartedAt: s.startedAt,
		UpdatedAt: s.updatedAt,
	}
}

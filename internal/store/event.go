package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ayusman/mimic/internal/detector"
	"github.com/ayusman/mimic/internal/gesture"
)

// Event is a label transition within a session.
type Event struct {
	ID         int64               `json:"id"`
	SessionID  string              `json:"sessionId"`
	Label      gesture.Label       `json:"label"`
	Previous   gesture.Label       `json:"previous"`
	Handedness detector.Handedness `json:"handedness,omitempty"`
	Fingers    string              `json:"fingers,omitempty"`
	Score      float64             `json:"score"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// EventRepository provides access to gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event and fills in its ID. CreatedAt is set to now if zero.
func (r *EventRepository) Create(e *Event) error {
	if !e.Label.Valid() || !e.Previous.Valid() {
		return fmt.Errorf("store event: invalid label %d -> %d", e.Previous, e.Label)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, label, previous, handedness, fingers, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Label.String(), e.Previous.String(), string(e.Handedness), e.Fingers, e.Score, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession returns a session's events in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, label, previous, handedness, fingers, score, created_at
		 FROM gesture_events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
}

// Recent returns the latest events across all sessions, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(
		`SELECT id, session_id, label, previous, handedness, fingers, score, created_at
		 FROM gesture_events ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// CountByLabel counts events per label. An empty sessionID counts across
// all sessions. Every label is present in the result.
func (r *EventRepository) CountByLabel(sessionID string) (map[gesture.Label]int, error) {
	query := `SELECT label, COUNT(*) FROM gesture_events GROUP BY label`
	var args []any
	if sessionID != "" {
		query = `SELECT label, COUNT(*) FROM gesture_events WHERE session_id = ? GROUP BY label`
		args = append(args, sessionID)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[gesture.Label]int, gesture.NumLabels)
	for _, l := range gesture.Labels() {
		counts[l] = 0
	}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		l, err := gesture.ParseLabel(name)
		if err != nil {
			return nil, err
		}
		counts[l] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *EventRepository) query(q string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var label, previous, handedness string
		if err := rows.Scan(&e.ID, &e.SessionID, &label, &previous, &handedness, &e.Fingers, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Label, err = gesture.ParseLabel(label); err != nil {
			return nil, err
		}
		if e.Previous, err = gesture.ParseLabel(previous); err != nil {
			return nil, err
		}
		e.Handedness = detector.Handedness(handedness)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

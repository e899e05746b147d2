package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mimic/internal/app"
	"github.com/ayusman/mimic/internal/gesture"
	"github.com/ayusman/mimic/internal/store"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAPI_SessionWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Sessions().Create(&store.Session{ID: "run-1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Events().Create(&store.Event{SessionID: "run-1", Label: gesture.HandChest}); err != nil {
		t.Fatalf("Events().Create() error = %v", err)
	}

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()
	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	var listed struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Sessions) != 1 || listed.Sessions[0].ID != "run-1" {
		t.Fatalf("sessions = %+v, want run-1", listed.Sessions)
	}

	// 2. Events of the session
	resp, _ = client.Get(ts.URL + "/api/sessions/run-1/events")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET events status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var events struct {
		Events []struct {
			Label string `json:"label"`
		} `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()
	if len(events.Events) != 1 || events.Events[0].Label != "hand_chest" {
		t.Errorf("events = %+v, want one hand_chest", events.Events)
	}

	// 3. Stats
	resp, _ = client.Get(ts.URL + "/api/stats")
	var stats struct {
		Total int `json:"total"`
	}
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats.Total != 1 {
		t.Errorf("stats total = %d, want 1", stats.Total)
	}

	// 4. Delete and verify
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/run-1", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/sessions/run-1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{Frames: NewFrameHub(), Events: NewEventHub()})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status      string `json:"status"`
		Subscribers *int   `json:"subscribers"`
		Viewers     *int   `json:"viewers"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
	if health.Subscribers == nil || health.Viewers == nil {
		t.Error("health should report subscribers and viewers")
	}
}

func TestEventHub_BroadcastsTransitions(t *testing.T) {
	hub := NewEventHub()
	ts := httptest.NewServer(New(Config{Events: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitFor(t, "websocket client", func() bool { return hub.Clients() == 1 })

	hub.Publish(app.Transition{
		SessionID: "s1",
		Previous:  gesture.Neutral,
		Label:     gesture.FingerUp,
		Fingers:   "01000",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var got app.Transition
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("failed to decode message %s: %v", msg, err)
	}
	if got.Label != gesture.FingerUp || got.Previous != gesture.Neutral || got.SessionID != "s1" {
		t.Errorf("transition = %+v", got)
	}

	conn.Close()
	waitFor(t, "client removal", func() bool { return hub.Clients() == 0 })

	// Publishing with no clients must not block.
	hub.Publish(app.Transition{Label: gesture.Neutral})
}

func TestFrameHub_StreamsPublishedFrames(t *testing.T) {
	hub := NewFrameHub()
	ts := httptest.NewServer(New(Config{Frames: hub}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %s, want multipart/x-mixed-replace", ct)
	}

	waitFor(t, "stream viewer", func() bool { return hub.Clients() == 1 })

	payload := []byte("not-really-a-jpeg")
	hub.Publish(payload)

	reader := bufio.NewReader(resp.Body)
	var part bytes.Buffer
	for !bytes.Contains(part.Bytes(), payload) {
		line, err := reader.ReadBytes('\n')
		part.Write(line)
		if err != nil {
			t.Fatalf("read stream: %v (got %q)", err, part.String())
		}
	}

	if !strings.Contains(part.String(), "--frame") {
		t.Errorf("part should start with the boundary, got %q", part.String())
	}
	if !strings.Contains(part.String(), "Content-Length: 17") {
		t.Errorf("part should carry the payload length, got %q", part.String())
	}

	hub.Close()
	waitFor(t, "stream end", func() bool { return hub.Clients() == 0 })
}

func TestFrameHub_SinkBehaviour(t *testing.T) {
	hub := NewFrameHub()

	if hub.QuitRequested() {
		t.Error("frame hub should never request quit")
	}
	if err := hub.Show(nil); err != nil {
		t.Errorf("Show(nil) error = %v", err)
	}

	hub.Publish([]byte("a"))
	if _, seq, ok := hub.next(context.Background(), 0); !ok || seq != 1 {
		t.Errorf("next() = seq %d ok %v, want 1 true", seq, ok)
	}

	if err := hub.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := hub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	hub.Publish([]byte("b"))
	if _, _, ok := hub.next(context.Background(), 1); ok {
		t.Error("next() after Close should report closed")
	}
}

func TestServer_RunShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{Frames: NewFrameHub(), Events: NewEventHub()}).Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

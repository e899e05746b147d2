package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"

	"gocv.io/x/gocv"
)

// FrameHub keeps the latest composited frame as JPEG and serves it to MJPEG
// viewers. It implements display.Sink so the frame loop can feed it.
type FrameHub struct {
	mu      sync.Mutex
	frame   []byte
	seq     uint64
	updated chan struct{}
	clients int
	closed  bool
}

// NewFrameHub creates an empty hub.
func NewFrameHub() *FrameHub {
	return &FrameHub{updated: make(chan struct{})}
}

// Show encodes the frame for connected viewers. Nothing is encoded while no
// one is watching.
func (h *FrameHub) Show(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() || h.Clients() == 0 {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode stream frame: %w", err)
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	h.Publish(data)
	return nil
}

// Publish makes jpeg the latest frame and wakes waiting viewers.
func (h *FrameHub) Publish(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.frame = jpeg
	h.seq++
	close(h.updated)
	h.updated = make(chan struct{})
}

// QuitRequested is always false; viewers cannot stop the loop.
func (h *FrameHub) QuitRequested() bool { return false }

// Close ends every open stream.
func (h *FrameHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.updated)
	}
	return nil
}

// Clients returns the number of connected viewers.
func (h *FrameHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

// next blocks until a frame newer than after is available.
func (h *FrameHub) next(ctx context.Context, after uint64) ([]byte, uint64, bool) {
	for {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return nil, 0, false
		}
		if h.seq > after {
			frame, seq := h.frame, h.seq
			h.mu.Unlock()
			return frame, seq, true
		}
		wait := h.updated
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, 0, false
		case <-wait:
		}
	}
}

func (h *FrameHub) join(delta int) {
	h.mu.Lock()
	h.clients += delta
	h.mu.Unlock()
}

// ServeHTTP streams MJPEG frames to the client.
func (h *FrameHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.join(1)
	defer h.join(-1)

	var seq uint64
	for {
		frame, next, ok := h.next(r.Context(), seq)
		if !ok {
			return
		}
		seq = next

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		if _, err := w.Write(frame); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

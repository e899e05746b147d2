// Package display renders composited frames to their destinations and draws
// the hand annotations that go on them.
package display

import (
	"errors"

	"gocv.io/x/gocv"
)

// Sink receives finished frames from the frame loop.
type Sink interface {
	// Show renders the frame. The sink must not keep a reference to it
	// after returning; copy if needed.
	Show(frame *gocv.Mat) error
	// QuitRequested reports whether the user asked to stop.
	QuitRequested() bool
	Close() error
}

// Tee fans a frame out to several sinks.
type Tee []Sink

// NewTee returns a sink that forwards to every non-nil sink given.
func NewTee(sinks ...Sink) Tee {
	t := make(Tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

// Show forwards the frame to every sink, even if an earlier one fails.
func (t Tee) Show(frame *gocv.Mat) error {
	var errs []error
	for _, s := range t {
		if err := s.Show(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// QuitRequested is true as soon as any sink wants to quit.
func (t Tee) QuitRequested() bool {
	for _, s := range t {
		if s.QuitRequested() {
			return true
		}
	}
	return false
}

func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

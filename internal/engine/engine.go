// Package engine wraps audio decoding and rendering behind a small
// load/play/pause/seek capability owned by the session owner.
//
// Instance lifecycle:
//
//	Load ──► preparing ──Ready──► ready (paused)
//	                     │          │ Play / Pause / SeekTo
//	                     │          ▼
//	                     │        playing ──Ended──► ended ──SeekTo+Play──► playing
//	                     └─Error──► failed
//
// Release is valid from any state and is terminal. A released instance
// never emits further signals.
package engine

import (
	"errors"
	"time"
)

// Errors returned by Load.
var (
	ErrEmptyURI          = errors.New("empty media uri")
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// SignalKind identifies an engine lifecycle callback.
type SignalKind int

const (
	SignalReady SignalKind = iota
	SignalEnded
	SignalError
)

func (k SignalKind) String() string {
	switch k {
	case SignalReady:
		return "Ready"
	case SignalEnded:
		return "Ended"
	case SignalError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Signal is a lifecycle callback from an instance. Err is set for SignalError.
type Signal struct {
	Kind SignalKind
	Err  error
}

// Engine creates playback instances.
type Engine interface {
	// Load starts preparing uri and returns immediately. Readiness or
	// failure is reported on the instance's Signals channel.
	Load(uri string) (Instance, error)
}

// Instance is one loaded media item.
type Instance interface {
	Signals() <-chan Signal
	Play()
	Pause()
	SeekTo(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
	Release()
}

const signalBufferSize = 4

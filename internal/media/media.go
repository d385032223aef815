package media

import (
	"errors"
	"sync"
)

// ErrNoSource is returned when an element has nothing to play.
var ErrNoSource = errors.New("media: element has no source")

// Player is a media element that can be started and paused.
type Player interface {
	Play() error
	Pause() error
}

// Element is the server-side stand-in for the page's video element. It keeps
// the commanded playback state so the view can render the element as
// autoplaying or paused.
type Element struct {
	mu      sync.Mutex
	src     string
	playing bool
}

// NewElement returns an element for src. Autoplay mirrors the video's initial
// state on the page.
func NewElement(src string, autoplay bool) *Element {
	return &Element{src: src, playing: autoplay}
}

func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.src == "" {
		return ErrNoSource
	}
	e.playing = true
	return nil
}

func (e *Element) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
	return nil
}

// Playing reports the last commanded state.
func (e *Element) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Element) Src() string {
	return e.src
}

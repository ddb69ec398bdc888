// Package session runs the interactive flows of one connected client: the
// file picker, confirmations, forms, persistent login and log output.
package session

import (
	"context"
	"errors"
	"net/url"

	"github.com/HaiFongPan/fpick/internal/picker"
)

var (
	// ErrSessionClosed is returned when the client goes away mid-flow
	ErrSessionClosed = errors.New("session closed")
	// ErrEmptySelection is the rejected confirm of a non-cancelable picker
	ErrEmptySelection = errors.New("empty selection on confirm")
	// ErrTimeout is returned when a client round trip does not complete
	ErrTimeout = errors.New("timed out waiting for the client")
	// ErrUnsupported is returned when the host lacks a capability
	ErrUnsupported = errors.New("not supported by this host")
)

// Button values shared by the hosts
const (
	ButtonConfirm = "confirm"
	ButtonCancel  = "cancel"
	ButtonSubmit  = "submit"
)

// Button is a popup action button
type Button struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// Field is a popup form input
type Field struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type,omitempty"` // "text" or "password"
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Popup is a modal dialog. A popup with Picker set hosts the file picker
// widget fed through the Sink methods.
type Popup struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content,omitempty"`
	Large    bool     `json:"large,omitempty"`
	Closable bool     `json:"closable,omitempty"`
	Picker   bool     `json:"picker,omitempty"`
	Multiple bool     `json:"multiple,omitempty"`
	Fields   []Field  `json:"fields,omitempty"`
	Buttons  []Button `json:"buttons"`
}

// Host is a connected client: it renders what the flow sends and delivers
// what the user does. Events is closed when the client disconnects.
type Host interface {
	picker.Sink
	OpenPopup(Popup)
	ClosePopup()
	Events() <-chan Event
}

// Storage is per-client persistent key/value storage
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// Browser exposes client page state
type Browser interface {
	Query() (url.Values, error)
	Cookie(name string) (string, bool, error)
	SetCookie(name, value string, days int) error
}

// LogSink renders named log boxes
type LogSink interface {
	PutLogbox(name string, height int, keepBottom bool)
	LogboxAppend(name, text string)
	LogboxClear(name string)
}

// MediaOptions controls embedded audio and video players
type MediaOptions struct {
	Autoplay bool   `json:"autoplay,omitempty"`
	Loop     bool   `json:"loop,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
	Width    string `json:"width,omitempty"`
}

// MediaSink embeds images, video and audio
type MediaSink interface {
	PutImage(src, alt string)
	PutVideo(src string, opts MediaOptions)
	PutAudio(src string, opts MediaOptions)
}

// next blocks until the host delivers an event
func next(ctx context.Context, host Host) (Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-host.Events():
		if !ok {
			return nil, ErrSessionClosed
		}
		return ev, nil
	}
}

func notify(host Host, level picker.Level, message string) {
	host.Notify(picker.Notice{Level: level, Message: message})
}

// Package tui is the terminal host: it renders the flows of package
// session with bubbletea and turns key presses into session events.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
)

// Host implements session.Host for one terminal. Render calls are posted
// to the bubbletea program; user input arrives on Events in the order it
// was typed. Storage is backed by the local user data file.
type Host struct {
	send   func(tea.Msg)
	store  *config.UserData
	events *session.EventQueue
}

var (
	_ session.Host      = (*Host)(nil)
	_ session.Storage   = (*Host)(nil)
	_ session.LogSink   = (*Host)(nil)
	_ session.MediaSink = (*Host)(nil)
)

// NewHost creates a host posting render messages through send
func NewHost(send func(tea.Msg), store *config.UserData) *Host {
	return &Host{
		send:   send,
		store:  store,
		events: session.NewEventQueue(),
	}
}

// Events implements session.Host
func (h *Host) Events() <-chan session.Event {
	return h.events.Events()
}

// deliver queues an event for the flow without blocking the UI
func (h *Host) deliver(ev session.Event) {
	h.events.Push(ev)
}

// Shutdown closes Events, ending any running flow with
// session.ErrSessionClosed. Queued events are dropped.
func (h *Host) Shutdown() {
	h.events.Close()
}

func (h *Host) ShowBreadcrumb(crumbs []picker.Crumb) { h.send(breadcrumbMsg{crumbs: crumbs}) }
func (h *Host) ShowEntries(rows []picker.Row)        { h.send(entriesMsg{rows: rows}) }
func (h *Host) SetAction(action *picker.Action)      { h.send(actionMsg{action: action}) }
func (h *Host) ShowSelection(files []string)         { h.send(selectionMsg{files: files}) }
func (h *Host) ClearRowSelection()                   { h.send(clearRowsMsg{}) }
func (h *Host) Notify(notice picker.Notice)          { h.send(noticeMsg{notice: notice}) }
func (h *Host) OpenPopup(popup session.Popup)        { h.send(popupMsg{popup: popup}) }
func (h *Host) ClosePopup()                          { h.send(closePopupMsg{}) }

// PutLogbox implements session.LogSink
func (h *Host) PutLogbox(name string, height int, keepBottom bool) {
	h.send(logboxMsg{name: name, height: height, keepBottom: keepBottom})
}

// LogboxAppend implements session.LogSink
func (h *Host) LogboxAppend(name, text string) { h.send(logboxAppendMsg{name: name, text: text}) }

// LogboxClear implements session.LogSink
func (h *Host) LogboxClear(name string) { h.send(logboxClearMsg{name: name}) }

// PutImage implements session.MediaSink. A terminal shows the source only.
func (h *Host) PutImage(src, alt string) { h.send(mediaMsg{kind: "image", src: src, alt: alt}) }

// PutVideo implements session.MediaSink
func (h *Host) PutVideo(src string, _ session.MediaOptions) {
	h.send(mediaMsg{kind: "video", src: src})
}

// PutAudio implements session.MediaSink
func (h *Host) PutAudio(src string, _ session.MediaOptions) {
	h.send(mediaMsg{kind: "audio", src: src})
}

// GetItem implements session.Storage
func (h *Host) GetItem(key string) (string, bool, error) {
	if h.store == nil {
		return "", false, session.ErrUnsupported
	}
	v, ok := h.store.GetItem(key)
	return v, ok, nil
}

// SetItem implements session.Storage
func (h *Host) SetItem(key, value string) error {
	if h.store == nil {
		return session.ErrUnsupported
	}
	if value == "" {
		return h.store.RemoveItem(key)
	}
	return h.store.SetItem(key, value)
}

// Flow is the work run against a terminal host
type Flow func(ctx context.Context, host session.Host) error

// Run shows the terminal UI and runs flow against it until the flow
// returns or the user quits. Quitting early ends the flow with
// session.ErrSessionClosed, which is what Run returns then.
func Run(ctx context.Context, title string, store *config.UserData, flow Flow) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(title)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	host := NewHost(program.Send, store)
	model.SetEmitter(host.deliver)

	errCh := make(chan error, 1)
	go func() {
		err := flow(ctx, host)
		errCh <- err
		program.Send(flowDoneMsg{err: err})
	}()

	_, runErr := program.Run()
	host.Shutdown()
	cancel()
	flowErr := <-errCh

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		logrus.Errorf("tui: program exited: %v", runErr)
		return fmt.Errorf("failed to run terminal UI: %w", runErr)
	}
	return flowErr
}

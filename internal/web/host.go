package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// pings are sent a little more often than the peer must answer
	pingPeriod = pongWait * 9 / 10
	// DefaultCallTimeout bounds a round trip to the browser
	DefaultCallTimeout = 10 * time.Second
)

type reply struct {
	data json.RawMessage
	err  error
}

// Host is one browser connected over a websocket. Render calls are written
// as commands; events read from the socket are delivered on Events until
// the connection drops.
type Host struct {
	id          string
	conn        *websocket.Conn
	log         *logrus.Entry
	callTimeout time.Duration

	writeMu sync.Mutex
	events  *session.EventQueue

	pendingMu sync.Mutex
	pending   map[string]chan reply

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ session.Host      = (*Host)(nil)
	_ session.Storage   = (*Host)(nil)
	_ session.Browser   = (*Host)(nil)
	_ session.LogSink   = (*Host)(nil)
	_ session.MediaSink = (*Host)(nil)
)

func newHost(conn *websocket.Conn, callTimeout time.Duration) *Host {
	id := uuid.NewString()
	return &Host{
		id:          id,
		conn:        conn,
		log:         logrus.WithFields(logrus.Fields{"session": id, "remote": conn.RemoteAddr().String()}),
		callTimeout: callTimeout,
		events:      session.NewEventQueue(),
		pending:     map[string]chan reply{},
		done:        make(chan struct{}),
	}
}

// ID returns the session id
func (h *Host) ID() string {
	return h.id
}

// Events implements session.Host
func (h *Host) Events() <-chan session.Event {
	return h.events.Events()
}

// Done is closed once the connection is gone
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Close drops the connection
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.conn.Close()
	})
}

// readLoop queues browser events and resolves call replies until the
// connection fails, then closes Events
func (h *Host) readLoop() {
	defer h.events.Close()
	defer h.Close()

	h.conn.SetReadDeadline(time.Now().Add(pongWait))
	h.conn.SetPongHandler(func(string) error {
		return h.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := h.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("read failed: %v", err)
			} else {
				h.log.Debugf("connection closed: %v", err)
			}
			return
		}

		switch msg.Type {
		case MsgEvent:
			ev, err := decodeEvent(msg.Event, msg.Data)
			if err != nil {
				h.log.Warnf("dropping event: %v", err)
				continue
			}
			h.events.Push(ev)
		case MsgReply:
			h.resolve(msg)
		default:
			h.log.Debugf("unknown message type %q", msg.Type)
		}
	}
}

// pingLoop keeps idle connections alive until the host closes
func (h *Host) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			h.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := h.conn.WriteMessage(websocket.PingMessage, nil)
			h.writeMu.Unlock()
			if err != nil {
				h.log.Debugf("ping failed: %v", err)
				h.Close()
				return
			}
		}
	}
}

func (h *Host) push(typ string, data any) {
	select {
	case <-h.done:
		return
	default:
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	h.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := h.conn.WriteJSON(Command{Type: typ, Data: data}); err != nil {
		h.log.Debugf("write %s failed: %v", typ, err)
		h.Close()
	}
}

func (h *Host) resolve(msg ClientMessage) {
	h.pendingMu.Lock()
	ch, ok := h.pending[msg.ID]
	delete(h.pending, msg.ID)
	h.pendingMu.Unlock()
	if !ok {
		h.log.Debugf("reply for unknown call %s", msg.ID)
		return
	}

	r := reply{data: msg.Data}
	if msg.Error != "" {
		r.err = errors.New(msg.Error)
	}
	ch <- r
}

// call runs a request/response round trip with the browser
func (h *Host) call(ctx context.Context, method string, args map[string]any, out any) error {
	id := uuid.NewString()
	ch := make(chan reply, 1)
	h.pendingMu.Lock()
	h.pending[id] = ch
	h.pendingMu.Unlock()
	defer func() {
		h.pendingMu.Lock()
		delete(h.pending, id)
		h.pendingMu.Unlock()
	}()

	h.push(CmdCall, Call{ID: id, Method: method, Args: args})

	timer := time.NewTimer(h.callTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("%s: %w", method, r.err)
		}
		if out == nil {
			return nil
		}
		return unmarshal(r.data, out)
	case <-timer.C:
		return fmt.Errorf("%s: %w", method, session.ErrTimeout)
	case <-h.done:
		return session.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) ShowBreadcrumb(crumbs []picker.Crumb) { h.push(CmdBreadcrumb, crumbs) }
func (h *Host) ShowEntries(rows []picker.Row)        { h.push(CmdEntries, rows) }
func (h *Host) SetAction(action *picker.Action)      { h.push(CmdAction, action) }
func (h *Host) ShowSelection(files []string)         { h.push(CmdSelection, files) }
func (h *Host) ClearRowSelection()                   { h.push(CmdClearRows, nil) }
func (h *Host) OpenPopup(popup session.Popup)        { h.push(CmdPopup, popup) }
func (h *Host) ClosePopup()                          { h.push(CmdClosePopup, nil) }

// Notify implements picker.Sink
func (h *Host) Notify(notice picker.Notice) {
	h.push(CmdNotice, noticeData{Level: notice.Level.String(), Message: notice.Message})
}

// PutLogbox implements session.LogSink
func (h *Host) PutLogbox(name string, height int, keepBottom bool) {
	h.push(CmdLogbox, logboxData{Name: name, Height: height, KeepBottom: keepBottom})
}

// LogboxAppend implements session.LogSink
func (h *Host) LogboxAppend(name, text string) {
	h.push(CmdLogboxAppend, logboxData{Name: name, Text: text})
}

// LogboxClear implements session.LogSink
func (h *Host) LogboxClear(name string) {
	h.push(CmdLogboxClear, logboxData{Name: name})
}

// PutImage implements session.MediaSink
func (h *Host) PutImage(src, alt string) {
	h.push(CmdImage, mediaData{Src: src, Alt: alt})
}

// PutVideo implements session.MediaSink
func (h *Host) PutVideo(src string, opts session.MediaOptions) {
	h.push(CmdVideo, mediaData{Src: src, MediaOptions: opts})
}

// PutAudio implements session.MediaSink
func (h *Host) PutAudio(src string, opts session.MediaOptions) {
	h.push(CmdAudio, mediaData{Src: src, MediaOptions: opts})
}

// GetItem reads the browser's local storage
func (h *Host) GetItem(key string) (string, bool, error) {
	var r storageReply
	err := h.call(context.Background(), CallGetStorage, map[string]any{"key": key}, &r)
	return r.Value, r.Found, err
}

// SetItem writes the browser's local storage; an empty value removes key
func (h *Host) SetItem(key, value string) error {
	return h.call(context.Background(), CallSetStorage, map[string]any{"key": key, "value": value}, nil)
}

// Query returns the query string of the page the browser opened
func (h *Host) Query() (url.Values, error) {
	var r queryReply
	if err := h.call(context.Background(), CallQuery, nil, &r); err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(r.Query)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return values, nil
}

// Cookie reads a browser cookie
func (h *Host) Cookie(name string) (string, bool, error) {
	var r storageReply
	err := h.call(context.Background(), CallGetCookie, map[string]any{"name": name}, &r)
	return r.Value, r.Found, err
}

// SetCookie sets a browser cookie expiring after days
func (h *Host) SetCookie(name, value string, days int) error {
	return h.call(context.Background(), CallSetCookie, map[string]any{"name": name, "value": value, "days": days}, nil)
}

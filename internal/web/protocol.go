package web

import (
	"encoding/json"
	"fmt"

	"github.com/HaiFongPan/fpick/internal/session"
)

// Commands sent to the browser
const (
	CmdBreadcrumb   = "breadcrumb"
	CmdEntries      = "entries"
	CmdAction       = "action"
	CmdSelection    = "selection"
	CmdClearRows    = "clear_rows"
	CmdNotice       = "notice"
	CmdPopup        = "popup"
	CmdClosePopup   = "close_popup"
	CmdLogbox       = "logbox"
	CmdLogboxAppend = "logbox_append"
	CmdLogboxClear  = "logbox_clear"
	CmdImage        = "image"
	CmdVideo        = "video"
	CmdAudio        = "audio"
	CmdCall         = "call"
)

// Calls answered by the browser
const (
	CallGetStorage = "get_storage"
	CallSetStorage = "set_storage"
	CallQuery      = "query"
	CallGetCookie  = "get_cookie"
	CallSetCookie  = "set_cookie"
)

// Message kinds sent by the browser
const (
	MsgEvent = "event"
	MsgReply = "reply"
)

// Event names sent by the browser
const (
	EventRowActivated        = "row_activated"
	EventSelectionChanged    = "selection_changed"
	EventActionActivated     = "action_activated"
	EventSelectedFileClicked = "selected_file_clicked"
	EventCrumbClicked        = "crumb_clicked"
	EventButtonClicked       = "button_clicked"
)

// Command is one server to browser message
type Command struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Call asks the browser for page state; the answer comes back as a reply
// with the same ID
type Call struct {
	ID     string         `json:"id"`
	Method string         `json:"method"`
	Args   map[string]any `json:"args,omitempty"`
}

// ClientMessage is one browser to server message
type ClientMessage struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type noticeData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type logboxData struct {
	Name       string `json:"name"`
	Height     int    `json:"height,omitempty"`
	KeepBottom bool   `json:"keep_bottom,omitempty"`
	Text       string `json:"text,omitempty"`
}

type mediaData struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
	session.MediaOptions
}

// storageReply answers get_storage and get_cookie
type storageReply struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

type queryReply struct {
	Query string `json:"query"`
}

// decodeEvent turns a browser event into a session event
func decodeEvent(name string, data json.RawMessage) (session.Event, error) {
	var (
		ev  session.Event
		err error
	)
	switch name {
	case EventRowActivated:
		var e session.RowActivated
		err = unmarshal(data, &e)
		ev = e
	case EventSelectionChanged:
		var e session.SelectionChanged
		err = unmarshal(data, &e)
		ev = e
	case EventActionActivated:
		var e session.ActionActivated
		err = unmarshal(data, &e)
		ev = e
	case EventSelectedFileClicked:
		var e session.SelectedFileClicked
		err = unmarshal(data, &e)
		ev = e
	case EventCrumbClicked:
		var e session.CrumbClicked
		err = unmarshal(data, &e)
		ev = e
	case EventButtonClicked:
		var e session.ButtonClicked
		err = unmarshal(data, &e)
		ev = e
	default:
		return nil, fmt.Errorf("unknown event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ev, nil
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

package tui

import (
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/session"
)

// Messages carrying host calls from the flow goroutine into the model

type breadcrumbMsg struct{ crumbs []picker.Crumb }

type entriesMsg struct{ rows []picker.Row }

type actionMsg struct{ action *picker.Action }

type selectionMsg struct{ files []string }

type clearRowsMsg struct{}

type noticeMsg struct{ notice picker.Notice }

type popupMsg struct{ popup session.Popup }

type closePopupMsg struct{}

type logboxMsg struct {
	name       string
	height     int
	keepBottom bool
}

type logboxAppendMsg struct{ name, text string }

type logboxClearMsg struct{ name string }

type mediaMsg struct {
	kind string // "image", "video" or "audio"
	src  string
	alt  string
}

type flowDoneMsg struct{ err error }

type clearStatusMsg struct{ seq int }

type clipboardMsg struct {
	count int
	err   error
}

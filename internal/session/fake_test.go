package session

import (
	"net/url"
	"strings"
	"sync"

	"github.com/HaiFongPan/fpick/internal/picker"
)

// fakeHost records what the flow renders. onPopup runs synchronously when
// a popup opens, so tests can queue the answers to it.
type fakeHost struct {
	mu sync.Mutex

	events    chan Event
	onPopup   func(h *fakeHost, p Popup)
	popups    []Popup
	closed    int
	crumbs    []picker.Crumb
	rows      []picker.Row
	action    *picker.Action
	selection []string
	notices   []picker.Notice

	storage map[string]string
	query   url.Values
	cookies map[string]string
	logs    map[string]*strings.Builder
	images  []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		events:  make(chan Event, 64),
		storage: map[string]string{},
		query:   url.Values{},
		cookies: map[string]string{},
		logs:    map[string]*strings.Builder{},
	}
}

func (h *fakeHost) send(events ...Event) {
	for _, ev := range events {
		h.events <- ev
	}
}

func (h *fakeHost) OpenPopup(p Popup) {
	h.mu.Lock()
	h.popups = append(h.popups, p)
	hook := h.onPopup
	h.mu.Unlock()
	if hook != nil {
		hook(h, p)
	}
}

func (h *fakeHost) ClosePopup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
}

func (h *fakeHost) Events() <-chan Event { return h.events }

func (h *fakeHost) ShowBreadcrumb(c []picker.Crumb) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.crumbs = c
}

func (h *fakeHost) ShowEntries(rows []picker.Row) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rows = rows
}

func (h *fakeHost) SetAction(a *picker.Action) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.action = a
}

func (h *fakeHost) ShowSelection(s []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selection = s
}

func (h *fakeHost) ClearRowSelection() {}

func (h *fakeHost) Notify(n picker.Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, n)
}

func (h *fakeHost) rowNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.rows))
	for i, r := range h.rows {
		names[i] = r.Name
	}
	return names
}

func (h *fakeHost) noticeMessages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, n := range h.notices {
		out = append(out, n.Message)
	}
	return out
}

// Storage
func (h *fakeHost) GetItem(key string) (string, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.storage[key]
	return v, ok, nil
}

func (h *fakeHost) SetItem(key, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.storage[key] = value
	return nil
}

// Browser
func (h *fakeHost) Query() (url.Values, error) { return h.query, nil }

func (h *fakeHost) Cookie(name string) (string, bool, error) {
	v, ok := h.cookies[name]
	return v, ok, nil
}

func (h *fakeHost) SetCookie(name, value string, days int) error {
	h.cookies[name] = value
	return nil
}

// LogSink
func (h *fakeHost) PutLogbox(name string, height int, keepBottom bool) {
	h.logs[name] = &strings.Builder{}
}

func (h *fakeHost) LogboxAppend(name, text string) {
	h.logs[name].WriteString(text)
}

func (h *fakeHost) LogboxClear(name string) {
	h.logs[name].Reset()
}

// MediaSink
func (h *fakeHost) PutImage(src, alt string)               { h.images = append(h.images, src) }
func (h *fakeHost) PutVideo(src string, opts MediaOptions) {}
func (h *fakeHost) PutAudio(src string, opts MediaOptions) {}

// bareHost only renders; it has none of the optional capabilities
type bareHost struct {
	events chan Event
}

func (bareHost) ShowBreadcrumb([]picker.Crumb) {}
func (bareHost) ShowEntries([]picker.Row)      {}
func (bareHost) SetAction(*picker.Action)      {}
func (bareHost) ShowSelection([]string)        {}
func (bareHost) ClearRowSelection()            {}
func (bareHost) Notify(picker.Notice)          {}
func (bareHost) OpenPopup(Popup)               {}
func (bareHost) ClosePopup()                   {}
func (b bareHost) Events() <-chan Event        { return b.events }

// answer queues events for the popup being opened
func answer(build func(p Popup) []Event) func(h *fakeHost, p Popup) {
	return func(h *fakeHost, p Popup) {
		h.send(build(p)...)
	}
}

func click(p Popup, value string) ButtonClicked {
	return ButtonClicked{Popup: p.ID, Value: value}
}

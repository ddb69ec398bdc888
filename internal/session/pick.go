package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/metrics"
	"github.com/HaiFongPan/fpick/internal/picker"
)

// DefaultPickTitle is the popup title when none is given
const DefaultPickTitle = "File Picker"

// PickOptions configures one PickFiles call
type PickOptions struct {
	Root       string
	Multiple   bool
	Accept     []string
	Cancelable bool
	Title      string
	ShowHidden bool
	// Watch refreshes the listing when the current directory changes.
	// Only meaningful for the local file system.
	Watch bool
}

// PickFiles shows a file picker popup rooted at opts.Root and blocks until
// the user confirms or cancels. Navigation errors are shown to the user and
// never end the flow; a bad root is returned before anything is shown.
func PickFiles(ctx context.Context, host Host, provider picker.Provider, opts PickOptions) (picker.Outcome, error) {
	p, err := picker.New(opts.Root, picker.Options{
		Multiple:   opts.Multiple,
		Accept:     picker.ParseAccept(opts.Accept...),
		ShowHidden: opts.ShowHidden,
	}, provider, host)
	if err != nil {
		return picker.Outcome{}, err
	}

	title := opts.Title
	if title == "" {
		title = DefaultPickTitle
	}
	buttons := []Button{{Label: "CONFIRM", Value: ButtonConfirm}}
	if opts.Cancelable {
		buttons = append(buttons, Button{Label: "CANCEL", Value: ButtonCancel, Color: "danger"})
	}

	popupID := "picker-" + uuid.NewString()
	host.OpenPopup(Popup{
		ID:       popupID,
		Title:    title,
		Large:    true,
		Picker:   true,
		Multiple: opts.Multiple,
		Buttons:  buttons,
	})
	defer host.ClosePopup()

	f := &pickFlow{picker: p, host: host, popupID: popupID, opts: opts, source: sourceName(provider)}

	var changes <-chan Event
	if opts.Watch {
		w, err := newDirWatcher(p.CurrentPath())
		if err != nil {
			logrus.Warnf("session: directory watch disabled: %v", err)
		} else {
			defer w.Close()
			f.watcher = w
			changes = w.Events()
		}
	}

	f.timed(p.Start)

	for {
		var ev Event
		select {
		case <-ctx.Done():
			metrics.RecordPick("aborted")
			return picker.Outcome{}, ctx.Err()
		case ev = <-changes:
		case e, ok := <-host.Events():
			if !ok {
				metrics.RecordPick("aborted")
				return picker.Outcome{}, ErrSessionClosed
			}
			ev = e
		}

		if out, done := f.handle(ev); done {
			recordOutcome(out)
			return out, nil
		}
	}
}

type pickFlow struct {
	picker  *picker.Picker
	host    Host
	popupID string
	opts    PickOptions
	source  string
	watcher *dirWatcher
}

// handle applies one event and reports whether the flow is over
func (f *pickFlow) handle(ev Event) (picker.Outcome, bool) {
	p := f.picker

	switch e := ev.(type) {
	case RowActivated:
		f.navigate(e.Path)
	case CrumbClicked:
		f.navigate(e.Path)
	case SelectionChanged:
		p.OnSelectionChanged(e.Paths)
	case ActionActivated:
		f.after(f.timedErr(func() error { return p.ActivateAction(e.ID) }))
	case SelectedFileClicked:
		p.RemoveFromSelection(e.Name)
	case DirectoryChanged:
		if e.Path == p.CurrentPath() {
			f.timed(p.Refresh)
		}
	case ButtonClicked:
		if e.Popup != f.popupID {
			logrus.Debugf("session: ignoring button for popup %s", e.Popup)
			return picker.Outcome{}, false
		}
		switch e.Value {
		case ButtonConfirm:
			if !f.opts.Cancelable && len(p.Selection()) == 0 {
				logrus.Debugf("session: %v", ErrEmptySelection)
				notify(f.host, picker.LevelWarning, picker.MsgSelectFile)
				return picker.Outcome{}, false
			}
			return p.Finalize(true), true
		case ButtonCancel:
			if f.opts.Cancelable {
				return p.Finalize(false), true
			}
		}
	default:
		logrus.Debugf("session: unhandled event %T", ev)
	}
	return picker.Outcome{}, false
}

func (f *pickFlow) navigate(path string) {
	f.after(f.timedErr(func() error { return f.picker.NavigateOrSelect(path) }))
}

// after counts denials and moves the watch along with the browser
func (f *pickFlow) after(err error) {
	var perr *picker.PermissionError
	if errors.As(err, &perr) {
		metrics.RecordPermissionDenied()
	}
	if f.watcher != nil {
		f.watcher.Follow(f.picker.CurrentPath())
	}
}

func (f *pickFlow) timed(fn func() error) {
	f.timedErr(fn)
}

func (f *pickFlow) timedErr(fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordListing(f.source, time.Since(start))
	if err != nil {
		logrus.Debugf("session: %v", err)
	}
	return err
}

func recordOutcome(out picker.Outcome) {
	switch {
	case out.Cancelled:
		metrics.RecordPick("cancelled")
	case len(out.Paths) == 0:
		metrics.RecordPick("empty")
	default:
		metrics.RecordPick("picked")
	}
}

func sourceName(provider picker.Provider) string {
	if n, ok := provider.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}

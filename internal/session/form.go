package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/HaiFongPan/fpick/internal/picker"
)

// DefaultFormTitle is the PopupInput title when none is given
const DefaultFormTitle = "Please fill out the form below"

// PopupInput shows fields in a popup with Submit and Cancel buttons and
// returns the submitted values, or ok=false when the user cancels.
func PopupInput(ctx context.Context, host Host, title string, fields []Field) (map[string]string, bool, error) {
	return form(ctx, host, title, fields, true)
}

func form(ctx context.Context, host Host, title string, fields []Field, cancelable bool) (map[string]string, bool, error) {
	if title == "" {
		title = DefaultFormTitle
	}
	buttons := []Button{{Label: "Submit", Value: ButtonSubmit}}
	if cancelable {
		buttons = append(buttons, Button{Label: "Cancel", Value: ButtonCancel, Color: "danger"})
	}

	id := "form-" + uuid.NewString()
	host.OpenPopup(Popup{ID: id, Title: title, Fields: fields, Buttons: buttons})
	defer host.ClosePopup()

	for {
		ev, err := next(ctx, host)
		if err != nil {
			return nil, false, err
		}

		b, ok := ev.(ButtonClicked)
		if !ok || b.Popup != id {
			continue
		}
		switch b.Value {
		case ButtonCancel:
			if cancelable {
				return nil, false, nil
			}
		case ButtonSubmit:
			values, missing := collect(fields, b.Values)
			if missing != "" {
				notify(host, picker.LevelWarning, fmt.Sprintf("%s is required", missing))
				continue
			}
			return values, true, nil
		}
	}
}

// collect keeps only the declared fields and returns the label of the
// first required field left blank
func collect(fields []Field, submitted map[string]string) (map[string]string, string) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v := submitted[f.Name]
		if f.Required && strings.TrimSpace(v) == "" {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			return nil, label
		}
		values[f.Name] = v
	}
	return values, ""
}

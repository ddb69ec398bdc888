package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Answer is the result of a Confirm dialog
type Answer int

const (
	// AnswerNone means the dialog timed out
	AnswerNone Answer = iota
	AnswerConfirmed
	AnswerCancelled
)

func (a Answer) String() string {
	switch a {
	case AnswerConfirmed:
		return "confirmed"
	case AnswerCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Confirm shows a CONFIRM/CANCEL dialog. A zero timeout waits forever;
// otherwise AnswerNone is returned once it expires.
func Confirm(ctx context.Context, host Host, title, content string, timeout time.Duration) (Answer, error) {
	id := "confirm-" + uuid.NewString()
	host.OpenPopup(Popup{
		ID:      id,
		Title:   title,
		Content: content,
		Buttons: []Button{
			{Label: "CONFIRM", Value: ButtonConfirm},
			{Label: "CANCEL", Value: ButtonCancel, Color: "danger"},
		},
	})
	defer host.ClosePopup()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for {
		ev, err := next(ctx, host)
		if err != nil {
			if timeout > 0 && ctx.Err() == context.DeadlineExceeded {
				return AnswerNone, nil
			}
			return AnswerNone, err
		}

		b, ok := ev.(ButtonClicked)
		if !ok || b.Popup != id {
			continue
		}
		switch b.Value {
		case ButtonConfirm:
			return AnswerConfirmed, nil
		case ButtonCancel:
			return AnswerCancelled, nil
		}
	}
}

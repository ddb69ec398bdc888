package messaging

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/tui/theme"
)

// DefaultDuration is how long a status message stays on screen
const DefaultDuration = 3 * time.Second

// StatusManager manages status messages and their display
type StatusManager interface {
	SetMessage(message string, level picker.Level) int
	ClearMessage(seq int)
	GetMessage() (string, picker.Level, bool)
	RenderMessage() string
	HasMessage() bool
}

// StatusManagerImpl implements the StatusManager interface
type StatusManagerImpl struct {
	statusMessage string
	level         picker.Level
	messageTimer  time.Time
	seq           int
}

// NewStatusManager creates a new status manager instance
func NewStatusManager() StatusManager {
	return &StatusManagerImpl{
		level: picker.LevelInfo,
	}
}

// SetMessage sets a status message and returns its sequence number, used
// to clear exactly this message later
func (sm *StatusManagerImpl) SetMessage(message string, level picker.Level) int {
	sm.statusMessage = message
	sm.level = level
	sm.messageTimer = time.Now()
	sm.seq++

	logrus.Debugf("StatusManager: setMessage called with message='%s', level=%s", message, level)
	return sm.seq
}

// ClearMessage clears the status message if it is still the one with seq
func (sm *StatusManagerImpl) ClearMessage(seq int) {
	if seq != sm.seq {
		return
	}
	sm.statusMessage = ""
	logrus.Debugf("StatusManager: message cleared")
}

// GetMessage returns the current message, level, and whether a message exists
func (sm *StatusManagerImpl) GetMessage() (string, picker.Level, bool) {
	return sm.statusMessage, sm.level, sm.statusMessage != ""
}

// HasMessage returns whether there is currently a status message
func (sm *StatusManagerImpl) HasMessage() bool {
	return sm.statusMessage != ""
}

// RenderMessage renders the current status message with appropriate styling
func (sm *StatusManagerImpl) RenderMessage() string {
	if !sm.HasMessage() {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(sm.level))).
		Bold(true)

	return messageStyle.Render(fmt.Sprintf("%s %s", theme.GetMessageIcon(sm.level), sm.statusMessage))
}

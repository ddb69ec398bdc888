package picker

// Level is the severity of a Notice
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the level name used on the wire
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a transient, auto-dismissing message for the user
type Notice struct {
	Level   Level  `json:"-"`
	Message string `json:"message"`
}

// Crumb is one clickable component of the current path
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// ActionKind tells what a contextual action does when activated
type ActionKind int

const (
	ActionOpenFolder ActionKind = iota
	ActionSelectFile
	ActionSelectFiles
)

// Action is the contextual button shown for the current row selection
type Action struct {
	ID    int        `json:"id"`
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
	Paths []string   `json:"paths"`
}

// Sink receives render updates. Implementations push them to the client;
// ClearRowSelection may complete asynchronously on the client side.
type Sink interface {
	ShowBreadcrumb(crumbs []Crumb)
	ShowEntries(rows []Row)
	// SetAction replaces the contextual action, nil clears it
	SetAction(action *Action)
	ShowSelection(files []string)
	ClearRowSelection()
	Notify(notice Notice)
}

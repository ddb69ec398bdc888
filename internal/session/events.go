package session

// Event is something the user did in the client, delivered to the session
// flow one at a time
type Event interface {
	isEvent()
}

// RowActivated is a double click (or enter) on a listing row
type RowActivated struct {
	Path string `json:"path"`
}

// SelectionChanged carries the rows currently highlighted in the listing
type SelectionChanged struct {
	Paths []string `json:"paths"`
}

// ActionActivated is a click on the contextual action
type ActionActivated struct {
	ID int `json:"id"`
}

// SelectedFileClicked is a click on an entry of the selection display
type SelectedFileClicked struct {
	Name string `json:"name"`
}

// CrumbClicked is a click on a breadcrumb
type CrumbClicked struct {
	Path string `json:"path"`
}

// ButtonClicked is a popup button press. Values holds the form fields of
// the popup, if it has any.
type ButtonClicked struct {
	Popup  string            `json:"popup"`
	Value  string            `json:"value"`
	Values map[string]string `json:"values,omitempty"`
}

// DirectoryChanged is raised by the directory watcher, not by the user
type DirectoryChanged struct {
	Path string `json:"path"`
}

func (RowActivated) isEvent()        {}
func (SelectionChanged) isEvent()    {}
func (ActionActivated) isEvent()     {}
func (SelectedFileClicked) isEvent() {}
func (CrumbClicked) isEvent()        {}
func (ButtonClicked) isEvent()       {}
func (DirectoryChanged) isEvent()    {}

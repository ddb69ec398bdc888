// Package picker implements the directory browser behind the file picker
// widget: listing, navigation inside a root boundary and the selection set.
package picker

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Messages shown to the user for recoverable failures
const (
	MsgNoPermission   = "No permission to access the path"
	MsgSelectFile     = "Please select a file"
	MsgNotAccepted    = "File type is not accepted"
	MsgCannotOpenPath = "Cannot open the path"
)

// Options configures a Picker. All fields are fixed at construction.
type Options struct {
	Multiple   bool
	Accept     AcceptFilter
	ShowHidden bool
}

// Outcome is the result of a finished picker session
type Outcome struct {
	Paths     []string `json:"paths"`
	Multiple  bool     `json:"multiple"`
	Cancelled bool     `json:"cancelled"`
}

// Path returns the picked path of a single-select outcome
func (o Outcome) Path() (string, bool) {
	if o.Cancelled || len(o.Paths) == 0 {
		return "", false
	}
	return o.Paths[0], true
}

// None reports whether the outcome carries no value at all
func (o Outcome) None() bool {
	return o.Cancelled || (!o.Multiple && len(o.Paths) == 0)
}

// Picker is the per-session browsing state: current directory, contextual
// action and selection set. It is not safe for concurrent use; a session
// feeds it one event at a time.
type Picker struct {
	provider     Provider
	sink         Sink
	opts         Options
	root         string
	resolvedRoot string
	current      string
	selection    []string
	action       *Action
	actionSeq    int
}

// New validates root and returns a picker positioned on it. Nothing is
// rendered until Start is called.
func New(root string, opts Options, provider Provider, sink Sink) (*Picker, error) {
	abs, err := provider.Abs(root)
	if err != nil {
		return nil, &ConfigurationError{Root: root, Err: err}
	}

	kind, err := provider.Stat(abs)
	if err != nil {
		return nil, &ConfigurationError{Root: abs, Err: err}
	}
	if kind != KindDirectory {
		return nil, &ConfigurationError{Root: abs, Err: ErrNotDirectory}
	}

	p := &Picker{
		provider: provider,
		sink:     sink,
		opts:     opts,
		root:     abs,
		current:  abs,
	}

	if r, ok := provider.(Resolver); ok {
		resolved, err := r.Resolve(abs)
		if err != nil {
			return nil, &ConfigurationError{Root: abs, Err: err}
		}
		p.resolvedRoot = resolved
	}

	logrus.Debugf("picker: root=%s multiple=%t hidden=%t", abs, opts.Multiple, opts.ShowHidden)
	return p, nil
}

// Root returns the root boundary
func (p *Picker) Root() string {
	return p.root
}

// CurrentPath returns the directory being browsed
func (p *Picker) CurrentPath() string {
	return p.current
}

// Multiple reports whether more than one file may be selected
func (p *Picker) Multiple() bool {
	return p.opts.Multiple
}

// Selection returns a copy of the root-relative selected paths
func (p *Picker) Selection() []string {
	return append([]string{}, p.selection...)
}

// Action returns the current contextual action, or nil
func (p *Picker) Action() *Action {
	if p.action == nil {
		return nil
	}
	a := *p.action
	return &a
}

// Start renders the initial view of the root directory
func (p *Picker) Start() error {
	p.sink.ShowBreadcrumb(p.Breadcrumb(p.current))
	err := p.renderListing(p.current)
	p.setAction(nil)
	p.sink.ShowSelection(p.Selection())
	return err
}

// Refresh lists the current directory again
func (p *Picker) Refresh() error {
	return p.renderListing(p.current)
}

func (p *Picker) renderListing(dir string) error {
	entries, err := p.Entries(dir)
	if err != nil {
		p.notify(LevelWarning, fmt.Sprintf("%s: %s", MsgCannotOpenPath, filepath.Base(dir)), err)
		return err
	}
	p.sink.ShowEntries(Rows(entries))
	return nil
}

// Entries lists dir: hidden and non-accepted entries dropped, directories
// first, then case-insensitive by name, with a parent entry below the root.
func (p *Picker) Entries(dir string) ([]Entry, error) {
	raw, err := p.provider.ReadDir(dir)
	if err != nil {
		return nil, &ListingError{Path: dir, Err: err}
	}

	entries := make([]Entry, 0, len(raw)+1)
	for _, r := range raw {
		if !p.opts.ShowHidden && strings.HasPrefix(r.Name, ".") {
			continue
		}
		if !p.opts.Accept.Match(r.Name, r.Kind) {
			continue
		}

		e := Entry{
			Path: filepath.Join(dir, r.Name),
			Name: r.Name,
			Kind: r.Kind,
			Meta: r.Meta,
		}
		if r.DisplayName != "" {
			e.Name = r.DisplayName
		}
		if r.Meta == nil {
			e.Err = &ListingDegradedError{Path: e.Path, Err: r.Err}
			logrus.Debugf("picker: %v", e.Err)
		}
		entries = append(entries, e)
	}

	sortEntries(entries)

	if dir != p.root {
		parent := Entry{
			Path:   filepath.Dir(dir),
			Name:   "..",
			Kind:   KindDirectory,
			Parent: true,
		}
		entries = append([]Entry{parent}, entries...)
	}
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}

// Breadcrumb splits path into clickable crumbs starting at the root (".")
func (p *Picker) Breadcrumb(path string) []Crumb {
	crumbs := []Crumb{{Label: ".", Path: p.root}}
	rel, err := filepath.Rel(p.root, path)
	if err != nil || rel == "." {
		return crumbs
	}

	current := p.root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		crumbs = append(crumbs, Crumb{Label: part, Path: current})
	}
	return crumbs
}

// NavigateOrSelect opens target when it is a directory inside the root,
// or adds it to the selection when it is a file.
func (p *Picker) NavigateOrSelect(target string) error {
	abs, err := p.provider.Abs(target)
	if err != nil {
		p.notify(LevelWarning, MsgCannotOpenPath, err)
		return err
	}

	kind, err := p.provider.Stat(abs)
	if err != nil {
		p.notify(LevelWarning, fmt.Sprintf("%s: %s", MsgCannotOpenPath, filepath.Base(abs)), err)
		return fmt.Errorf("stat %s: %w", abs, err)
	}

	if kind == KindFile {
		return p.AddFiles([]string{abs})
	}

	if !p.contains(abs) {
		perr := &PermissionError{Path: abs, Root: p.root}
		p.notify(LevelError, MsgNoPermission, perr)
		return perr
	}

	entries, err := p.Entries(abs)
	if err != nil {
		p.notify(LevelWarning, fmt.Sprintf("%s: %s", MsgCannotOpenPath, filepath.Base(abs)), err)
		return err
	}

	p.current = abs
	p.sink.ShowBreadcrumb(p.Breadcrumb(abs))
	p.sink.ShowEntries(Rows(entries))
	p.setAction(nil)
	return nil
}

// OnSelectionChanged updates the contextual action for the rows the user
// highlighted in the table.
func (p *Picker) OnSelectionChanged(paths []string) {
	switch {
	case len(paths) == 1:
		abs, kind, err := p.stat(paths[0])
		if err != nil {
			logrus.Debugf("picker: selection %s: %v", paths[0], err)
			p.setAction(nil)
			return
		}
		name := filepath.Base(abs)
		if kind == KindDirectory {
			p.setAction(&Action{Label: fmt.Sprintf("Open Folder (%s)", name), Kind: ActionOpenFolder, Paths: []string{abs}})
		} else {
			p.setAction(&Action{Label: fmt.Sprintf("Select File (%s)", name), Kind: ActionSelectFile, Paths: []string{abs}})
		}

	case len(paths) > 1 && p.opts.Multiple:
		files := make([]string, 0, len(paths))
		for _, path := range paths {
			abs, kind, err := p.stat(path)
			if err == nil && kind == KindFile {
				files = append(files, abs)
			}
		}
		if len(files) == 0 {
			p.setAction(nil)
			return
		}
		p.setAction(&Action{Label: fmt.Sprintf("Select %d Files", len(files)), Kind: ActionSelectFiles, Paths: files})

	default:
		p.setAction(nil)
	}
}

// ActivateAction runs the contextual action with the given id. Ids of
// replaced actions are ignored.
func (p *Picker) ActivateAction(id int) error {
	a := p.action
	if a == nil || a.ID != id {
		logrus.Debugf("picker: ignoring stale action %d", id)
		return nil
	}
	if a.Kind == ActionSelectFiles {
		return p.AddFiles(a.Paths)
	}
	return p.NavigateOrSelect(a.Paths[0])
}

// AddFiles adds files to the selection. Without Multiple the selection is
// replaced, so it never holds more than one file.
func (p *Picker) AddFiles(paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := p.addFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	p.sink.ShowSelection(p.Selection())
	p.sink.ClearRowSelection()
	p.setAction(nil)
	return errors.Join(errs...)
}

func (p *Picker) addFile(path string) error {
	abs, kind, err := p.stat(path)
	if err != nil {
		p.notify(LevelWarning, MsgCannotOpenPath, err)
		return err
	}
	if !p.contains(abs) {
		perr := &PermissionError{Path: abs, Root: p.root}
		p.notify(LevelError, MsgNoPermission, perr)
		return perr
	}
	if kind != KindFile || !p.opts.Accept.Match(filepath.Base(abs), kind) {
		err := fmt.Errorf("%s: %s", MsgNotAccepted, abs)
		p.notify(LevelWarning, MsgNotAccepted, err)
		return err
	}

	rel, err := filepath.Rel(p.root, abs)
	if err != nil {
		return err
	}
	if slices.Contains(p.selection, rel) {
		return nil
	}
	if !p.opts.Multiple {
		p.selection = p.selection[:0]
	}
	p.selection = append(p.selection, rel)
	logrus.Debugf("picker: selected %s", rel)
	return nil
}

// RemoveFromSelection drops a root-relative path from the selection and
// reports whether it was there.
func (p *Picker) RemoveFromSelection(rel string) bool {
	idx := slices.Index(p.selection, rel)
	if idx >= 0 {
		p.selection = slices.Delete(p.selection, idx, idx+1)
	}
	p.sink.ShowSelection(p.Selection())
	return idx >= 0
}

// Finalize maps the selection back to absolute paths. An unconfirmed
// session yields nothing.
func (p *Picker) Finalize(confirmed bool) Outcome {
	out := Outcome{Multiple: p.opts.Multiple}
	if !confirmed {
		out.Cancelled = true
		return out
	}

	paths := make([]string, 0, len(p.selection))
	for _, rel := range p.selection {
		paths = append(paths, filepath.Join(p.root, rel))
	}
	if p.opts.Multiple {
		out.Paths = paths
	} else if len(paths) > 0 {
		out.Paths = paths[:1]
	}
	return out
}

func (p *Picker) stat(path string) (string, Kind, error) {
	abs, err := p.provider.Abs(path)
	if err != nil {
		return "", KindFile, err
	}
	kind, err := p.provider.Stat(abs)
	if err != nil {
		return abs, KindFile, err
	}
	return abs, kind, nil
}

func (p *Picker) contains(abs string) bool {
	if !Within(p.root, abs) {
		return false
	}
	if p.resolvedRoot == "" {
		return true
	}
	resolved, err := p.provider.(Resolver).Resolve(abs)
	if err != nil {
		logrus.Debugf("picker: resolve %s: %v", abs, err)
		return false
	}
	return Within(p.resolvedRoot, resolved)
}

func (p *Picker) setAction(a *Action) {
	if a != nil {
		p.actionSeq++
		a.ID = p.actionSeq
	}
	p.action = a
	p.sink.SetAction(p.Action())
}

func (p *Picker) notify(level Level, message string, err error) {
	if err != nil {
		logrus.Warnf("picker: %s: %v", message, err)
	}
	p.sink.Notify(Notice{Level: level, Message: message})
}

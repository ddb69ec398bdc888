package picker

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type memNode struct {
	kind    Kind
	size    int64
	statErr error
	link    string
}

// memProvider is an in-memory tree keyed by absolute path
type memProvider struct {
	nodes   map[string]memNode
	resolve bool
}

func newMemProvider(paths ...string) *memProvider {
	m := &memProvider{nodes: map[string]memNode{"/": {kind: KindDirectory}}}
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			m.addDir(strings.TrimSuffix(p, "/"))
		} else {
			m.addFile(p, 10)
		}
	}
	return m
}

func (m *memProvider) addDir(path string) {
	for dir := path; dir != "/"; dir = filepath.Dir(dir) {
		if _, ok := m.nodes[dir]; !ok {
			m.nodes[dir] = memNode{kind: KindDirectory}
		}
	}
}

func (m *memProvider) addFile(path string, size int64) {
	m.addDir(filepath.Dir(path))
	m.nodes[path] = memNode{kind: KindFile, size: size}
}

func (m *memProvider) Abs(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path), nil
}

func (m *memProvider) Stat(path string) (Kind, error) {
	n, ok := m.nodes[path]
	if !ok {
		return KindFile, fs.ErrNotExist
	}
	if n.link != "" {
		return m.Stat(n.link)
	}
	return n.kind, nil
}

func (m *memProvider) ReadDir(path string) ([]RawEntry, error) {
	n, ok := m.nodes[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	if n.statErr != nil {
		return nil, n.statErr
	}
	var out []RawEntry
	for p, child := range m.nodes {
		if p == path || filepath.Dir(p) != path {
			continue
		}
		kind := child.kind
		if child.link != "" {
			kind, _ = m.Stat(child.link)
		}
		raw := RawEntry{Name: filepath.Base(p), Kind: kind}
		if child.statErr != nil && child.kind == KindFile {
			raw.Err = child.statErr
		} else {
			raw.Meta = &Meta{Size: child.size, Modified: time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)}
		}
		out = append(out, raw)
	}
	// map order is random; the picker must sort on its own
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (m *memProvider) Resolve(path string) (string, error) {
	if !m.resolve {
		return path, nil
	}
	for dir := path; ; dir = filepath.Dir(dir) {
		if n, ok := m.nodes[dir]; ok && n.link != "" {
			rel, _ := filepath.Rel(dir, path)
			return filepath.Join(n.link, rel), nil
		}
		if dir == "/" {
			return path, nil
		}
	}
}

// recordingSink keeps the last value of every render call
type recordingSink struct {
	crumbs         []Crumb
	rows           []Row
	action         *Action
	selection      []string
	notices        []Notice
	clearedRows    int
	actionUpdates  int
	selectionShown int
}

func (s *recordingSink) ShowBreadcrumb(crumbs []Crumb) { s.crumbs = crumbs }
func (s *recordingSink) ShowEntries(rows []Row)        { s.rows = rows }
func (s *recordingSink) SetAction(a *Action) {
	s.action = a
	s.actionUpdates++
}
func (s *recordingSink) ShowSelection(files []string) {
	s.selection = files
	s.selectionShown++
}
func (s *recordingSink) ClearRowSelection() { s.clearedRows++ }
func (s *recordingSink) Notify(n Notice)    { s.notices = append(s.notices, n) }
func (s *recordingSink) lastNotice() *Notice {
	if len(s.notices) == 0 {
		return nil
	}
	return &s.notices[len(s.notices)-1]
}

func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

var errDenied = errors.New("permission denied")

package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fpick/internal/picker"
)

func rawByName(entries []picker.RawEntry) map[string]picker.RawEntry {
	out := make(map[string]picker.RawEntry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out
}

func TestLocalReadDir(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	l := NewLocal()
	entries, err := l.ReadDir(root)
	require.NoError(t, err)
	byName := rawByName(entries)
	require.Len(t, byName, 4)

	assert.Equal(t, picker.KindDirectory, byName["docs"].Kind)
	assert.Equal(t, picker.KindFile, byName["a.txt"].Kind)
	require.NotNil(t, byName["a.txt"].Meta)
	assert.Equal(t, int64(5), byName["a.txt"].Meta.Size)

	// a symlink to a directory is listed as a directory
	assert.Equal(t, picker.KindDirectory, byName["escape"].Kind)

	// a dangling symlink is still listed, without metadata
	assert.Nil(t, byName["dangling"].Meta)
	assert.Error(t, byName["dangling"].Err)
}

func TestLocalReadDirMissing(t *testing.T) {
	_, err := NewLocal().ReadDir(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStat(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	l := NewLocal()
	kind, err := l.Stat(root)
	require.NoError(t, err)
	assert.Equal(t, picker.KindDirectory, kind)

	kind, err = l.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, picker.KindFile, kind)

	_, err = l.Stat(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestLocalAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	l := NewLocal()
	abs, err := l.Abs("~/pictures")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pictures"), abs)

	abs, err = l.Abs("/a/b/../c")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", abs)

	wd, err := os.Getwd()
	require.NoError(t, err)
	abs, err = l.Abs("rel")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "rel"), abs)
}

func TestLocalResolveEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	// a picker over the local source refuses to enter the link
	sink := &nopSink{}
	p, err := picker.New(root, picker.Options{}, NewLocal(), sink)
	require.NoError(t, err)

	err = p.NavigateOrSelect(filepath.Join(root, "escape"))
	var perr *picker.PermissionError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, root, p.CurrentPath())
}

func TestLocalOpen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0644))

	rc, err := NewLocal().Open(file)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

type nopSink struct{}

func (nopSink) ShowBreadcrumb([]picker.Crumb) {}
func (nopSink) ShowEntries([]picker.Row)      {}
func (nopSink) SetAction(*picker.Action)      {}
func (nopSink) ShowSelection([]string)        {}
func (nopSink) ClearRowSelection()            {}
func (nopSink) Notify(picker.Notice)          {}

package picker

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPicker(t *testing.T, m *memProvider, opts Options) (*Picker, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	p, err := New("/data", opts, m, sink)
	require.NoError(t, err)
	require.NoError(t, p.Start())
	return p, sink
}

func TestNew_RootMustBeDirectory(t *testing.T) {
	m := newMemProvider("/data/a.txt")
	sink := &recordingSink{}

	_, err := New("/missing", Options{}, m, sink)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = New("/data/a.txt", Options{}, m, sink)
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrNotDirectory)

	// nothing may be rendered for a bad root
	assert.Nil(t, sink.rows)
	assert.Nil(t, sink.crumbs)
}

func TestStart_RendersRootListing(t *testing.T) {
	m := newMemProvider("/data/b.txt", "/data/a.txt", "/data/sub/")
	p, sink := newTestPicker(t, m, Options{})

	assert.Equal(t, "/data", p.CurrentPath())
	assert.Equal(t, []string{"📁 sub/", "a.txt", "b.txt"}, rowNames(sink.rows))
	assert.Equal(t, []Crumb{{Label: ".", Path: "/data"}}, sink.crumbs)
	assert.Empty(t, sink.selection)
	assert.Nil(t, sink.action)
}

func TestEntries_DirectoriesFirstCaseInsensitive(t *testing.T) {
	m := newMemProvider("/data/Zeta.txt", "/data/alpha.txt", "/data/Beta/", "/data/apple/", "/data/beta.md")
	p, _ := newTestPicker(t, m, Options{})

	entries, err := p.Entries("/data")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"apple", "Beta", "alpha.txt", "beta.md", "Zeta.txt"}, names)
}

func TestEntries_ParentOnlyBelowRoot(t *testing.T) {
	m := newMemProvider("/data/sub/deep/x.txt")
	p, _ := newTestPicker(t, m, Options{})

	entries, err := p.Entries("/data")
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.Parent)
	}

	entries, err = p.Entries("/data/sub/deep")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.True(t, entries[0].Parent)
	assert.Equal(t, "/data/sub", entries[0].Path)
	assert.Equal(t, Row{ID: "/data/sub", Name: "📁 ../", Size: "--", Modified: "--", Dir: true}, entries[0].Row())
}

func TestEntries_AcceptFilter(t *testing.T) {
	m := newMemProvider("/data/x.py", "/data/x.txt", "/data/sub/", "/data/UPPER.PY")
	_, sink := newTestPicker(t, m, Options{Accept: NewAcceptFilter("py")})

	assert.Equal(t, []string{"📁 sub/", "UPPER.PY", "x.py"}, rowNames(sink.rows))
}

func TestEntries_DefaultFilterShowsAllFiles(t *testing.T) {
	m := newMemProvider("/data/b.txt", "/data/a.txt", "/data/sub/")

	for name, opts := range map[string]Options{
		"zero options":   {},
		"empty accept":   {Accept: ParseAccept()},
		"blank accept":   {Accept: ParseAccept("", " ")},
		"no suffix list": {Accept: NewAcceptFilter()},
	} {
		t.Run(name, func(t *testing.T) {
			p, sink := newTestPicker(t, m, opts)
			assert.Equal(t, []string{"📁 sub/", "a.txt", "b.txt"}, rowNames(sink.rows))

			require.NoError(t, p.NavigateOrSelect("/data/a.txt"))
			assert.Equal(t, []string{"a.txt"}, p.Selection())
			assert.Nil(t, sink.lastNotice())
		})
	}
}

func TestEntries_HiddenFiles(t *testing.T) {
	m := newMemProvider("/data/.env", "/data/.git/", "/data/main.go")

	_, sink := newTestPicker(t, m, Options{})
	assert.Equal(t, []string{"main.go"}, rowNames(sink.rows))

	_, sink = newTestPicker(t, m, Options{ShowHidden: true})
	assert.Equal(t, []string{"📁 .git/", ".env", "main.go"}, rowNames(sink.rows))
}

func TestEntries_DegradedMetadataStillListed(t *testing.T) {
	m := newMemProvider("/data/ok.txt")
	m.nodes["/data/locked.txt"] = memNode{kind: KindFile, statErr: errDenied}
	p, sink := newTestPicker(t, m, Options{})

	require.Len(t, sink.rows, 2)
	assert.Equal(t, Row{ID: "/data/locked.txt", Name: "locked.txt"}, sink.rows[0])
	assert.Equal(t, "10 bytes", sink.rows[1].Size)
	assert.NotEmpty(t, sink.rows[1].Modified)

	entries, err := p.Entries("/data")
	require.NoError(t, err)
	var degraded *ListingDegradedError
	require.ErrorAs(t, entries[0].Err, &degraded)
	assert.ErrorIs(t, entries[0].Err, errDenied)
	assert.Empty(t, sink.notices)
}

func TestNavigateOrSelect_IntoSubdirectory(t *testing.T) {
	m := newMemProvider("/data/sub/inner/file.txt", "/data/a.txt")
	p, sink := newTestPicker(t, m, Options{})
	p.OnSelectionChanged([]string{"/data/sub"})
	require.NotNil(t, sink.action)

	require.NoError(t, p.NavigateOrSelect("/data/sub/inner"))

	assert.Equal(t, "/data/sub/inner", p.CurrentPath())
	assert.Equal(t, []Crumb{
		{Label: ".", Path: "/data"},
		{Label: "sub", Path: "/data/sub"},
		{Label: "inner", Path: "/data/sub/inner"},
	}, sink.crumbs)
	assert.Equal(t, []string{"📁 ../", "file.txt"}, rowNames(sink.rows))
	assert.Nil(t, sink.action)

	// parent entry leads back up
	require.NoError(t, p.NavigateOrSelect(sink.rows[0].ID))
	assert.Equal(t, "/data/sub", p.CurrentPath())
}

func TestNavigateOrSelect_OutsideRootRejected(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/etc/passwd", "/database/x")
	p, sink := newTestPicker(t, m, Options{})
	rowsBefore := sink.rows

	for _, target := range []string{"/etc", "/data/../etc", "/", "/database"} {
		err := p.NavigateOrSelect(target)
		var perr *PermissionError
		require.ErrorAs(t, err, &perr, target)
		assert.Equal(t, "/data", p.CurrentPath())
		require.NotNil(t, sink.lastNotice())
		assert.Equal(t, Notice{Level: LevelError, Message: MsgNoPermission}, *sink.lastNotice())
	}
	assert.Equal(t, rowsBefore, sink.rows)

	// a file outside the root is not selectable either
	err := p.NavigateOrSelect("/etc/passwd")
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, p.Selection())
}

func TestNavigateOrSelect_SymlinkEscapeRejected(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/etc/passwd")
	m.nodes["/data/link"] = memNode{kind: KindDirectory, link: "/etc"}
	m.resolve = true
	p, sink := newTestPicker(t, m, Options{})

	err := p.NavigateOrSelect("/data/link")
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/data", p.CurrentPath())
	assert.Equal(t, LevelError, sink.lastNotice().Level)
}

func TestNavigateOrSelect_VanishedPathIsNoop(t *testing.T) {
	m := newMemProvider("/data/a.txt")
	p, sink := newTestPicker(t, m, Options{})

	err := p.NavigateOrSelect("/data/gone.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, p.Selection())
	assert.Equal(t, LevelWarning, sink.lastNotice().Level)
}

func TestNavigateOrSelect_UnreadableDirectoryKeepsState(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/private/")
	n := m.nodes["/data/private"]
	n.statErr = errDenied
	m.nodes["/data/private"] = n
	p, sink := newTestPicker(t, m, Options{})

	err := p.NavigateOrSelect("/data/private")
	var lerr *ListingError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "/data", p.CurrentPath())
	assert.Equal(t, LevelWarning, sink.lastNotice().Level)
}

func TestAddFiles_SingleSelectReplaces(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/b.txt", "/data/sub/")
	p, sink := newTestPicker(t, m, Options{})

	require.NoError(t, p.NavigateOrSelect("/data/a.txt"))
	assert.Equal(t, []string{"a.txt"}, p.Selection())

	require.NoError(t, p.NavigateOrSelect("/data/b.txt"))
	assert.Equal(t, []string{"b.txt"}, p.Selection())
	assert.Equal(t, []string{"b.txt"}, sink.selection)
	assert.Equal(t, 2, sink.clearedRows)
	assert.Equal(t, "/data", p.CurrentPath())
}

func TestAddFiles_Idempotent(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/b.txt")
	for _, multiple := range []bool{false, true} {
		p, _ := newTestPicker(t, m, Options{Multiple: multiple})
		require.NoError(t, p.AddFiles([]string{"/data/a.txt"}))
		require.NoError(t, p.AddFiles([]string{"/data/a.txt"}))
		assert.Equal(t, []string{"a.txt"}, p.Selection())
	}
}

func TestAddFiles_MultipleAccumulatesInOrder(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/sub/c.txt", "/data/b.txt")
	p, _ := newTestPicker(t, m, Options{Multiple: true})

	require.NoError(t, p.AddFiles([]string{"/data/b.txt", "/data/a.txt"}))
	require.NoError(t, p.NavigateOrSelect("/data/sub"))
	require.NoError(t, p.NavigateOrSelect("/data/sub/c.txt"))

	assert.Equal(t, []string{"b.txt", "a.txt", "sub/c.txt"}, p.Selection())
}

func TestAddFiles_RejectsFilteredAndDirectories(t *testing.T) {
	m := newMemProvider("/data/x.py", "/data/x.txt", "/data/sub/")
	p, sink := newTestPicker(t, m, Options{Multiple: true, Accept: NewAcceptFilter("py")})

	err := p.AddFiles([]string{"/data/x.txt", "/data/sub", "/data/x.py"})
	require.Error(t, err)
	assert.Equal(t, []string{"x.py"}, p.Selection())
	assert.Equal(t, LevelWarning, sink.lastNotice().Level)
}

func TestOnSelectionChanged_SingleRow(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/sub/")
	p, sink := newTestPicker(t, m, Options{})

	p.OnSelectionChanged([]string{"/data/sub"})
	require.NotNil(t, sink.action)
	assert.Equal(t, "Open Folder (sub)", sink.action.Label)
	assert.Equal(t, ActionOpenFolder, sink.action.Kind)
	openID := sink.action.ID

	p.OnSelectionChanged([]string{"/data/a.txt"})
	require.NotNil(t, sink.action)
	assert.Equal(t, "Select File (a.txt)", sink.action.Label)

	// the folder action was replaced; activating it does nothing
	require.NoError(t, p.ActivateAction(openID))
	assert.Equal(t, "/data", p.CurrentPath())
	assert.Empty(t, p.Selection())

	require.NoError(t, p.ActivateAction(sink.action.ID))
	assert.Equal(t, []string{"a.txt"}, p.Selection())
	assert.Nil(t, sink.action)
}

func TestOnSelectionChanged_ManyRows(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/b.txt", "/data/sub/")
	rows := []string{"/data/a.txt", "/data/b.txt", "/data/sub"}

	p, sink := newTestPicker(t, m, Options{Multiple: true})
	p.OnSelectionChanged(rows)
	require.NotNil(t, sink.action)
	assert.Equal(t, "Select 2 Files", sink.action.Label)
	assert.Equal(t, []string{"/data/a.txt", "/data/b.txt"}, sink.action.Paths)

	require.NoError(t, p.ActivateAction(sink.action.ID))
	assert.Equal(t, []string{"a.txt", "b.txt"}, p.Selection())

	p.OnSelectionChanged([]string{"/data/sub", "/data/sub"})
	assert.Nil(t, sink.action)

	single, singleSink := newTestPicker(t, m, Options{})
	single.OnSelectionChanged(rows)
	assert.Nil(t, singleSink.action)

	p.OnSelectionChanged(nil)
	assert.Nil(t, sink.action)
}

func TestRemoveFromSelection(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/b.txt")
	p, sink := newTestPicker(t, m, Options{Multiple: true})
	require.NoError(t, p.AddFiles([]string{"/data/a.txt", "/data/b.txt"}))

	assert.True(t, p.RemoveFromSelection("a.txt"))
	assert.Equal(t, []string{"b.txt"}, sink.selection)

	shown := sink.selectionShown
	assert.False(t, p.RemoveFromSelection("a.txt"))
	assert.Equal(t, []string{"b.txt"}, p.Selection())
	assert.Equal(t, shown+1, sink.selectionShown)
}

func TestFinalize(t *testing.T) {
	m := newMemProvider("/data/a.txt", "/data/sub/b.txt")

	single, _ := newTestPicker(t, m, Options{})
	out := single.Finalize(true)
	assert.True(t, out.None())

	require.NoError(t, single.NavigateOrSelect("/data/sub/b.txt"))
	out = single.Finalize(true)
	path, ok := out.Path()
	require.True(t, ok)
	assert.Equal(t, "/data/sub/b.txt", path)

	out = single.Finalize(false)
	assert.True(t, out.Cancelled)
	assert.True(t, out.None())

	multi, _ := newTestPicker(t, m, Options{Multiple: true})
	out = multi.Finalize(true)
	assert.False(t, out.None())
	assert.Equal(t, []string{}, out.Paths)

	require.NoError(t, multi.AddFiles([]string{"/data/sub/b.txt", "/data/a.txt"}))
	out = multi.Finalize(true)
	assert.Equal(t, []string{"/data/sub/b.txt", "/data/a.txt"}, out.Paths)
}

func TestRefresh_PicksUpNewEntries(t *testing.T) {
	m := newMemProvider("/data/a.txt")
	p, sink := newTestPicker(t, m, Options{})

	m.addFile("/data/new.txt", 1)
	require.NoError(t, p.Refresh())
	assert.Equal(t, []string{"a.txt", "new.txt"}, rowNames(sink.rows))

	delete(m.nodes, "/data")
	err := p.Refresh()
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestBreadcrumb(t *testing.T) {
	m := newMemProvider("/data/sub/deep/x.txt")
	p, sink := newTestPicker(t, m, Options{})

	assert.Equal(t, []Crumb{{Label: ".", Path: "/data"}}, p.Breadcrumb("/data"))
	assert.Equal(t, []Crumb{
		{Label: ".", Path: "/data"},
		{Label: "sub", Path: "/data/sub"},
		{Label: "deep", Path: "/data/sub/deep"},
	}, p.Breadcrumb("/data/sub/deep"))

	// clicking an ancestor crumb navigates back up
	require.NoError(t, p.NavigateOrSelect("/data/sub/deep"))
	require.NoError(t, p.NavigateOrSelect(sink.crumbs[1].Path))
	assert.Equal(t, "/data/sub", p.CurrentPath())
	assert.Len(t, sink.crumbs, 2)
}

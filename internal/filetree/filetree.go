// Package filetree provides the directory-listing sidebar: an ordered,
// indentation-leveled view of the filesystem with expand/collapse state.
package filetree

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Entry is one row of the listing.
type Entry struct {
	Name       string
	Path       string
	IsDir      bool
	IsExpanded bool
	Level      int
}

// Tree is the directory browser state rooted at one directory.
type Tree struct {
	Root    string
	Entries []Entry
	Cursor  int
	Visible bool
	Width   int

	showHidden bool
	expanded   map[string]bool
	watcher    *fsnotify.Watcher

	// stale is written by the watcher goroutine and read by the UI
	// goroutine, so it is the tree's only atomic field.
	stale atomic.Bool

	log *slog.Logger
}

// New creates a tree rooted at path (or its parent when path is a file) and
// starts a filesystem watcher that marks the listing stale on changes.
// Watcher failure is non-fatal; the tree just never self-refreshes.
func New(path string, width int, showHidden bool, log *slog.Logger) (*Tree, error) {
	if log == nil {
		log = slog.Default()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	root := path
	if !info.IsDir() {
		root = filepath.Dir(path)
	}
	if width <= 0 {
		width = 30
	}

	t := &Tree{
		Root:       root,
		Width:      width,
		showHidden: showHidden,
		expanded:   map[string]bool{},
		log:        log,
	}

	if w, err := fsnotify.NewWatcher(); err == nil {
		t.watcher = w
		if err := w.Add(root); err != nil {
			log.Warn("file tree watch failed", "root", root, "error", err)
		}
		go t.watch()
	} else {
		log.Warn("file tree watcher unavailable", "error", err)
	}

	if err := t.Refresh(); err != nil {
		return nil, err
	}
	return t, nil
}

// watch drains watcher events and flags the listing stale. The goroutine
// ends when the watcher is closed.
func (t *Tree) watch() {
	for {
		select {
		case _, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.stale.Store(true)
		case _, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Stale reports whether the filesystem changed since the last refresh.
func (t *Tree) Stale() bool { return t.stale.Load() }

// Refresh rebuilds the entry list from the filesystem.
func (t *Tree) Refresh() error {
	t.stale.Store(false)
	t.Entries = t.Entries[:0]
	if err := t.loadEntries(t.Root, 0); err != nil {
		return err
	}
	if t.Cursor >= len(t.Entries) && len(t.Entries) > 0 {
		t.Cursor = len(t.Entries) - 1
	}
	return nil
}

// loadEntries appends the sorted listing of dir at the given indentation
// level, recursing into expanded directories.
func (t *Tree) loadEntries(dir string, level int) error {
	items, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var dirs, files []os.DirEntry
	for _, it := range items {
		if !t.showHidden && strings.HasPrefix(it.Name(), ".") {
			continue
		}
		if it.IsDir() {
			dirs = append(dirs, it)
		} else {
			files = append(files, it)
		}
	}
	byName := func(s []os.DirEntry) {
		sort.Slice(s, func(i, j int) bool { return s[i].Name() < s[j].Name() })
	}
	byName(dirs)
	byName(files)

	for _, d := range dirs {
		p := filepath.Join(dir, d.Name())
		expanded := t.expanded[p]
		t.Entries = append(t.Entries, Entry{
			Name: d.Name(), Path: p, IsDir: true, IsExpanded: expanded, Level: level,
		})
		if expanded {
			if err := t.loadEntries(p, level+1); err != nil {
				return err
			}
		}
	}
	for _, f := range files {
		t.Entries = append(t.Entries, Entry{
			Name: f.Name(), Path: filepath.Join(dir, f.Name()), Level: level,
		})
	}
	return nil
}

// ToggleVisible flips sidebar visibility.
func (t *Tree) ToggleVisible() { t.Visible = !t.Visible }

// MoveCursorUp moves the selection up one entry.
func (t *Tree) MoveCursorUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveCursorDown moves the selection down one entry.
func (t *Tree) MoveCursorDown() {
	if t.Cursor < len(t.Entries)-1 {
		t.Cursor++
	}
}

// Selected returns the entry under the cursor.
func (t *Tree) Selected() (Entry, bool) {
	if t.Cursor < 0 || t.Cursor >= len(t.Entries) {
		return Entry{}, false
	}
	return t.Entries[t.Cursor], true
}

// ToggleExpand expands or collapses the selected directory.
func (t *Tree) ToggleExpand() error {
	e, ok := t.Selected()
	if !ok || !e.IsDir {
		return nil
	}
	t.expanded[e.Path] = !t.expanded[e.Path]
	return t.Refresh()
}

// IsExpanded reports whether the directory at path is expanded.
func (t *Tree) IsExpanded(path string) bool { return t.expanded[path] }

// MoveToParent re-roots the tree at the parent directory.
func (t *Tree) MoveToParent() error {
	parent := filepath.Dir(t.Root)
	if parent == t.Root {
		return nil
	}
	if t.watcher != nil {
		_ = t.watcher.Remove(t.Root)
		if err := t.watcher.Add(parent); err != nil {
			t.log.Warn("file tree watch failed", "root", parent, "error", err)
		}
	}
	t.Root = parent
	t.Cursor = 0
	return t.Refresh()
}

// Close stops the filesystem watcher.
func (t *Tree) Close() {
	if t.watcher != nil {
		_ = t.watcher.Close()
		t.watcher = nil
	}
}

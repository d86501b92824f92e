package editor

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/vigor-editor/vigor/internal/config"
	"github.com/vigor-editor/vigor/internal/mode"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("Chdir() error: %v", err)
		}
	})

	cfg := config.Default()
	cfg.DefaultShell = "/bin/sh"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	e, err := New(cfg, log, 80, 24)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func keys(e *Editor, evs ...KeyEvent) {
	for _, ev := range evs {
		e.HandleKey(ev)
	}
}

func typeString(e *Editor, s string) {
	for _, c := range s {
		e.HandleKey(Rune(c))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInsertAndMotionClamp(t *testing.T) {
	e := newTestEditor(t)

	keys(e, Rune('i'))
	if e.Mode() != mode.Insert {
		t.Fatalf("Mode() = %s, want INSERT", e.Mode())
	}
	typeString(e, "ab")
	keys(e, KeyEvent{Key: KeyEnter})
	typeString(e, "c")
	keys(e, KeyEvent{Key: KeyEsc})
	if e.Mode() != mode.Normal {
		t.Fatalf("Mode() = %s, want NORMAL", e.Mode())
	}

	b := e.ActiveBuffer()
	if got := b.Doc.Lines(); len(got) != 2 || got[0] != "ab" || got[1] != "c" {
		t.Fatalf("lines = %v, want [ab c]", got)
	}

	keys(e, Rune('k'), Rune('l'), Rune('l'))
	if b.CursorX != 2 || b.CursorY != 0 {
		t.Fatalf("cursor = (%d, %d), want (2, 0)", b.CursorX, b.CursorY)
	}
	keys(e, Rune('l')) // clamped at line end
	if b.CursorX != 2 {
		t.Errorf("CursorX = %d, want 2 after clamp", b.CursorX)
	}

	// Moving to a shorter line clamps the column.
	keys(e, Rune('j'))
	if b.CursorX != 1 || b.CursorY != 1 {
		t.Errorf("cursor = (%d, %d), want (1, 1)", b.CursorX, b.CursorY)
	}
}

func TestWordMotions(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('i'))
	typeString(e, "foo bar baz")
	keys(e, KeyEvent{Key: KeyEsc})
	b := e.ActiveBuffer()
	b.CursorX = 0

	keys(e, Rune('w'))
	if b.CursorX != 4 {
		t.Errorf("after w: CursorX = %d, want 4", b.CursorX)
	}
	keys(e, Rune('w'))
	if b.CursorX != 8 {
		t.Errorf("after w w: CursorX = %d, want 8", b.CursorX)
	}
	keys(e, Rune('b'))
	if b.CursorX != 4 {
		t.Errorf("after b: CursorX = %d, want 4", b.CursorX)
	}
	keys(e, Rune('e'))
	if b.CursorX != 6 {
		t.Errorf("after e: CursorX = %d, want 6", b.CursorX)
	}

	// e is idempotent at the last word end.
	b.CursorX = 10
	keys(e, Rune('e'))
	if b.CursorX != 10 {
		t.Errorf("e at text end moved cursor to %d", b.CursorX)
	}
}

func TestDeleteLineAndChar(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('i'))
	typeString(e, "ab")
	keys(e, KeyEvent{Key: KeyEnter})
	typeString(e, "cd")
	keys(e, KeyEvent{Key: KeyEsc}, Rune('k'))

	keys(e, Rune('d'))
	b := e.ActiveBuffer()
	if got := b.Doc.Lines(); len(got) != 1 || got[0] != "cd" {
		t.Fatalf("lines = %v, want [cd]", got)
	}
	if b.CursorX != 0 || b.CursorY != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", b.CursorX, b.CursorY)
	}

	keys(e, Rune('x'))
	if b.Doc.Line(0) != "d" {
		t.Errorf("Line(0) = %q, want %q", b.Doc.Line(0), "d")
	}
}

func TestUndoKey(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('i'))
	typeString(e, "a")
	keys(e, KeyEvent{Key: KeyEsc}, Rune('u'))

	if got := e.ActiveBuffer().Doc.Line(0); got != "" {
		t.Errorf("Line(0) = %q, want empty after undo", got)
	}
	if e.Message() != "Undone" {
		t.Errorf("Message() = %q, want Undone", e.Message())
	}

	keys(e, Rune('u'))
	if e.Message() != "Already at oldest change" {
		t.Errorf("Message() = %q", e.Message())
	}
}

func TestQuitKey(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('q'))
	if !e.ShouldQuit() {
		t.Error("q in normal mode should request quit")
	}
}

func TestCommand_Unknown(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(':'))
	if e.Mode() != mode.Command {
		t.Fatalf("Mode() = %s, want COMMAND", e.Mode())
	}
	typeString(e, "bogus")
	keys(e, KeyEvent{Key: KeyEnter})

	if e.ShouldQuit() {
		t.Error("unknown command must not quit")
	}
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
	if e.Message() != "Unknown command: bogus" {
		t.Errorf("Message() = %q, want %q", e.Message(), "Unknown command: bogus")
	}
}

func TestCommand_Escape(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(':'))
	typeString(e, "wq")
	keys(e, KeyEvent{Key: KeyEsc})
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
	if e.ShouldQuit() {
		t.Error("Esc must abandon the command line")
	}
}

func TestCommand_WriteQuit(t *testing.T) {
	e := newTestEditor(t)
	path := writeFile(t, "f.txt", "hello")
	if err := e.OpenFile(path); err != nil {
		t.Fatal(err)
	}

	keys(e, Rune('i'))
	typeString(e, "!")
	keys(e, KeyEvent{Key: KeyEsc})

	keys(e, Rune(':'))
	typeString(e, "wq")
	keys(e, KeyEvent{Key: KeyEnter})

	if !e.ShouldQuit() {
		t.Error(":wq should request quit")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "!hello" {
		t.Errorf("file content = %q, want %q", got, "!hello")
	}
}

func TestCommand_WriteQuit_SaveFailureAbortsQuit(t *testing.T) {
	e := newTestEditor(t)

	// Scratch buffer has no filename, so the save fails.
	keys(e, Rune(':'))
	typeString(e, "wq")
	keys(e, KeyEvent{Key: KeyEnter})

	if e.ShouldQuit() {
		t.Error("a failed save must abort the quit")
	}
	if e.Message() == "" {
		t.Error("the save error should land on the message line")
	}
}

func TestCommand_Help(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(':'))
	typeString(e, "help")
	keys(e, KeyEvent{Key: KeyEnter})

	if e.Mode() != mode.Help {
		t.Fatalf("Mode() = %s, want HELP", e.Mode())
	}
	if len(e.Overlay()) == 0 {
		t.Fatal("help overlay should have content")
	}

	keys(e, Rune('z')) // any key dismisses
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
	if e.Overlay() != nil {
		t.Error("overlay should be cleared")
	}
}

func TestCommand_Diff(t *testing.T) {
	e := newTestEditor(t)
	path := writeFile(t, "f.txt", "one\ntwo")
	if err := e.OpenFile(path); err != nil {
		t.Fatal(err)
	}

	keys(e, Rune(':'))
	typeString(e, "diff")
	keys(e, KeyEvent{Key: KeyEnter})
	if e.Message() != "No changes" {
		t.Errorf("Message() = %q, want No changes", e.Message())
	}

	keys(e, Rune('i'))
	typeString(e, "x")
	keys(e, KeyEvent{Key: KeyEsc})

	keys(e, Rune(':'))
	typeString(e, "diff")
	keys(e, KeyEvent{Key: KeyEnter})

	if e.Mode() != mode.Help {
		t.Fatalf("Mode() = %s, want HELP overlay", e.Mode())
	}
	joined := strings.Join(e.Overlay(), "\n")
	if !strings.Contains(joined, "xone") {
		t.Errorf("diff overlay missing edited line: %q", joined)
	}
}

func TestCommand_DiffOnScratchBuffer(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(':'))
	typeString(e, "diff")
	keys(e, KeyEvent{Key: KeyEnter})

	if e.Message() == "" {
		t.Error("diff without a filename should surface an error")
	}
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
}

func TestLeader_FileTreeToggle(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(' '))
	if !e.PendingLeader() {
		t.Fatal("space should arm the leader")
	}
	keys(e, Rune('e'))
	if e.PendingLeader() {
		t.Error("leader flag should clear after dispatch")
	}
	if e.Mode() != mode.FileTree || !e.Tree().Visible {
		t.Fatalf("Mode() = %s, visible = %v; want FILETREE visible", e.Mode(), e.Tree().Visible)
	}

	keys(e, KeyEvent{Key: KeyEsc})
	if e.Mode() != mode.Normal || e.Tree().Visible {
		t.Errorf("Mode() = %s, visible = %v; want NORMAL hidden", e.Mode(), e.Tree().Visible)
	}
}

func TestLeader_UnboundKeyIsNoop(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(' '), Rune('z'))
	if e.Mode() != mode.Normal || e.ShouldQuit() || e.PendingLeader() {
		t.Error("unbound leader key should do nothing and disarm")
	}
}

func TestLeader_ShellSplit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}
	e := newTestEditor(t)

	keys(e, Rune(' '), Rune('v'))
	if e.Mode() != mode.Shell {
		t.Fatalf("Mode() = %s, want SHELL", e.Mode())
	}
	if len(e.Buffers()) != 2 {
		t.Fatalf("buffers = %d, want 2", len(e.Buffers()))
	}
	if e.Windows().Count() != 2 {
		t.Fatalf("windows = %d, want 2", e.Windows().Count())
	}
	if !e.ActiveBuffer().IsShell() {
		t.Fatal("active buffer should be the shell")
	}

	keys(e, KeyEvent{Key: KeyEsc})
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL after Esc", e.Mode())
	}
}

func TestShell_ExitRevertsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}
	e := newTestEditor(t)

	keys(e, Rune(' '), Rune('h'))
	if e.Mode() != mode.Shell {
		t.Fatalf("Mode() = %s, want SHELL", e.Mode())
	}

	typeString(e, "exit")
	keys(e, KeyEvent{Key: KeyEnter})

	e.PollShells()
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL after shell exit", e.Mode())
	}
}

func TestShell_DeadShellEntersAndReverts(t *testing.T) {
	e := newTestEditor(t)
	e.cfg.DefaultShell = "/nonexistent-shell-binary"

	keys(e, Rune(' '), Rune('v'))
	// The split is created even though the spawn failed; the first key in
	// shell mode observes the dead session and reverts.
	keys(e, Rune('a'))
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
}

func TestLeader_WindowCycleAndClose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}
	e := newTestEditor(t)

	keys(e, Rune(' '), Rune('v'), KeyEvent{Key: KeyEsc})
	before := e.Windows().ActiveIndex()
	keys(e, Rune(' '), Rune('w'))
	if e.Windows().ActiveIndex() == before {
		t.Error("leader w should cycle the active window")
	}

	keys(e, Rune(' '), Rune('q'))
	if e.Windows().Count() != 1 {
		t.Errorf("windows = %d, want 1 after close", e.Windows().Count())
	}
	if e.ShouldQuit() {
		t.Error("closing a non-last window must not quit")
	}

	// Closing the last window with only one buffer quits.
	keys(e, Rune(' '), Rune('x')) // drop the shell buffer first
	keys(e, Rune(' '), Rune('q'))
	if !e.ShouldQuit() {
		t.Error("closing the last window with the last buffer should quit")
	}
}

func TestLeader_CloseLastBufferIsNoop(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(' '), Rune('x'))
	if len(e.Buffers()) != 1 {
		t.Errorf("buffers = %d, want 1", len(e.Buffers()))
	}
	if e.ShouldQuit() {
		t.Error("closing the last buffer must not quit")
	}
}

func TestLeader_TabSwitchNoTabs(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune(' '), KeyEvent{Key: KeyTab})
	if e.ShouldQuit() {
		t.Error("tab switch with no tabs must not quit")
	}
	if !strings.Contains(e.Message(), "no tabs") {
		t.Errorf("Message() = %q, want a no-tabs diagnostic", e.Message())
	}
}

func TestLeader_TabSwitch(t *testing.T) {
	e := newTestEditor(t)
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := e.OpenFile(writeFile(t, name, "x")); err != nil {
			t.Fatal(err)
		}
	}

	if e.Tabs().CurrentIndex() != 0 {
		t.Fatalf("CurrentIndex() = %d, want 0", e.Tabs().CurrentIndex())
	}
	keys(e, Rune(' '), KeyEvent{Key: KeyTab})
	if e.Tabs().CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", e.Tabs().CurrentIndex())
	}
	keys(e, Rune(' '), KeyEvent{Key: KeyBacktab})
	if e.Tabs().CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", e.Tabs().CurrentIndex())
	}
}

func TestOpenFile_DuplicateTabName(t *testing.T) {
	e := newTestEditor(t)
	path := writeFile(t, "f.txt", "x")
	if err := e.OpenFile(path); err != nil {
		t.Fatal(err)
	}
	if err := e.OpenFile(path); err == nil {
		t.Error("reopening the same file should surface the duplicate tab error")
	}
}

func TestFileTree_OpenFile(t *testing.T) {
	e := newTestEditor(t)
	// The editor chdirs into a temp dir; drop a file next to it.
	if err := os.WriteFile("visible.txt", []byte("tree content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.Tree().Refresh(); err != nil {
		t.Fatal(err)
	}

	keys(e, Rune(' '), Rune('e'))
	if e.Mode() != mode.FileTree {
		t.Fatalf("Mode() = %s, want FILETREE", e.Mode())
	}

	// Single entry in the temp dir; open it.
	keys(e, KeyEvent{Key: KeyEnter})
	if e.Mode() != mode.Normal {
		t.Fatalf("Mode() = %s, want NORMAL after open", e.Mode())
	}
	if got := e.ActiveBuffer().Doc.Line(0); got != "tree content" {
		t.Errorf("Line(0) = %q, want %q", got, "tree content")
	}
	if e.Tree().Visible {
		t.Error("tree should hide after opening a file")
	}
}

func TestVisualMode(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('i'))
	typeString(e, "abc")
	keys(e, KeyEvent{Key: KeyEsc})
	b := e.ActiveBuffer()
	b.CursorX = 0

	keys(e, Rune('v'))
	if e.Mode() != mode.Visual {
		t.Fatalf("Mode() = %s, want VISUAL", e.Mode())
	}
	keys(e, Rune('l'), Rune('l'))
	if b.CursorX != 2 {
		t.Errorf("CursorX = %d, want 2", b.CursorX)
	}
	keys(e, KeyEvent{Key: KeyEsc})
	if e.Mode() != mode.Normal {
		t.Errorf("Mode() = %s, want NORMAL", e.Mode())
	}
}

func TestHandleMouse(t *testing.T) {
	e := newTestEditor(t)
	keys(e, Rune('i'))
	typeString(e, "abc")
	keys(e, KeyEvent{Key: KeyEsc})

	e.HandleMouse(MouseEvent{X: 99, Y: 99})
	b := e.ActiveBuffer()
	if b.CursorY != 0 || b.CursorX != 3 {
		t.Errorf("cursor = (%d, %d), want clamped to (3, 0)", b.CursorX, b.CursorY)
	}
}

func TestResize(t *testing.T) {
	e := newTestEditor(t)
	e.Resize(120, 40)
	w := e.Windows().Active()
	if w.Width != 120 || w.Height != 40 {
		t.Errorf("window = %dx%d, want 120x40", w.Width, w.Height)
	}
}

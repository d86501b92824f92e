// Package shell runs one spawned system shell as editable, line-buffered
// terminal content. A Session owns the child process, the write end of its
// stdin, and two background reader goroutines that forward completed output
// lines into one shared channel. The editor only ever calls the session's
// methods from its event loop; the goroutines touch nothing but their read
// half and the channel, so no shared mutable state needs locking.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Sentinel errors for the shell package.
var (
	// ErrSpawn is returned when the system shell cannot be started.
	ErrSpawn = errors.New("failed to spawn shell")

	// ErrInput is returned when writing to the shell's stdin fails.
	ErrInput = errors.New("shell input error")
)

// promptGrace is how long Execute waits after a write before re-polling, to
// let the child produce its next prompt within the same keystroke.
const promptGrace = 50 * time.Millisecond

// outputItem is one message on the reader channel: either a completed line
// or the stream-terminated sentinel sent once when stdout ends.
type outputItem struct {
	line       string
	terminated bool
}

// SplitKind records which split layout requested the shell. It affects the
// owning window's layout, not the shell's behavior.
type SplitKind int

const (
	SplitVertical SplitKind = iota
	SplitHorizontal
)

// Session is one interactive shell: captured output lines, the line-edited
// input, command history, and the owned child process plumbing.
type Session struct {
	// Lines is the append-only captured output, unbounded by design.
	Lines []string

	Kind SplitKind

	input   string
	cursor  int
	history []string
	histPos int

	running bool

	cmd      *exec.Cmd
	stdin    io.WriteCloser
	output   chan outputItem // nil once released
	exited   chan struct{}   // closed after readers join and child is reaped
	readers  sync.WaitGroup
	closed   bool
	log      *slog.Logger
	shellCmd string
}

// New spawns the given shell command (or the platform default when empty)
// and starts its reader goroutines. Spawn failure is absorbed: the session
// is returned not-running with a diagnostic line appended, so a dead shell
// buffer stays inspectable.
func New(shellCmd string, kind SplitKind, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	if shellCmd == "" {
		shellCmd = DefaultShell()
	}
	s := &Session{
		Lines: []string{
			"vigor interactive shell",
			"Spawning system shell...",
		},
		Kind:     kind,
		running:  true,
		log:      log,
		shellCmd: shellCmd,
	}
	if err := s.spawn(); err != nil {
		s.Lines = append(s.Lines, fmt.Sprintf("Error spawning shell: %v", err))
		s.running = false
	} else {
		s.Lines = append(s.Lines, "System shell spawned. Type 'exit' in the shell to close it.")
	}
	s.Lines = append(s.Lines, "")
	return s
}

// DefaultShell resolves the user's shell from $SHELL, falling back to the
// platform default.
func DefaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "sh"
}

func (s *Session) spawn() error {
	s.log.Info("spawning shell", "command", s.shellCmd)

	cmd := exec.Command(s.shellCmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.output = make(chan outputItem, 128)
	s.exited = make(chan struct{})

	s.readers.Add(2)
	go s.readStream(stdout, true)
	go s.readStream(stderr, false)

	// Single owner of the channel close and the child reap: once both
	// readers are done every producer is gone, so the receiver can observe
	// the close as "no more output ever".
	go func(out chan outputItem, exited chan struct{}) {
		s.readers.Wait()
		close(out)
		_ = cmd.Wait()
		close(exited)
	}(s.output, s.exited)

	return nil
}

// readStream forwards completed lines from one child stream into the shared
// channel. The stdout reader additionally pushes the terminated sentinel
// once when its stream ends; stderr does not, to avoid duplicate signals.
func (s *Session) readStream(r io.Reader, sentinel bool) {
	defer s.readers.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.output <- outputItem{line: scanner.Text()}
	}
	if sentinel {
		s.output <- outputItem{terminated: true}
	}
}

// Running reports whether the session still has a live child process.
func (s *Session) Running() bool { return s.running }

// Input returns the current input-line text.
func (s *Session) Input() string { return s.input }

// Cursor returns the input-line cursor offset in [0, len(input)].
func (s *Session) Cursor() int { return s.cursor }

// History returns the recorded command history.
func (s *Session) History() []string { return s.history }

// PollOutput drains every item currently available on the output channel
// without waiting, and independently observes child exit. It is safe to
// call arbitrarily often, including after the session has stopped running.
func (s *Session) PollOutput() {
	if s.output != nil {
	drain:
		for {
			select {
			case item, ok := <-s.output:
				if !ok {
					s.log.Info("shell output channel closed")
					s.running = false
					s.output = nil
					break drain
				}
				if item.terminated {
					s.log.Info("shell output stream terminated")
				} else {
					s.Lines = append(s.Lines, item.line)
				}
			default:
				break drain
			}
		}
	}

	if !s.running {
		return
	}
	if s.exited != nil {
		select {
		case <-s.exited:
			s.log.Info("shell process exited")
			s.running = false
			s.cmd = nil
			s.exited = nil
		default:
		}
	} else if s.output == nil {
		s.running = false
	}
}

// Execute submits the current input line to the child shell.
//
// The literal command "exit" is handled by the editor itself: it is written
// to the child on a best-effort basis, and the session unconditionally stops
// running with the input line cleared. Any other non-blank line is recorded
// in history before being written; an empty line sends a bare newline. A
// write failure stops the session and surfaces as ErrInput.
func (s *Session) Execute() error {
	s.PollOutput()

	trimmed := strings.TrimSpace(s.input)

	if trimmed == "exit" {
		s.log.Info("exit command: closing shell session")
		if s.stdin != nil {
			if _, err := io.WriteString(s.stdin, "exit\n"); err != nil {
				s.log.Warn("failed to send exit to shell stdin", "error", err)
			}
		}
		s.running = false
		s.clearInput()
		return nil
	}

	if s.stdin == nil {
		s.Lines = append(s.Lines, "Shell not running or stdin unavailable.")
		s.running = false
		s.clearInput()
		return fmt.Errorf("%w: stdin unavailable", ErrInput)
	}

	if trimmed != "" {
		s.history = append(s.history, s.input)
		s.histPos = len(s.history)
	}

	if _, err := io.WriteString(s.stdin, s.input+"\n"); err != nil {
		s.running = false
		s.clearInput()
		return fmt.Errorf("%w: %v", ErrInput, err)
	}

	s.clearInput()

	// Give the child a moment to print its next prompt so it shows up
	// without waiting for the next UI tick.
	time.Sleep(promptGrace)
	s.PollOutput()

	return nil
}

func (s *Session) clearInput() {
	s.input = ""
	s.cursor = 0
}

// InputChar inserts c into the input line at the cursor.
func (s *Session) InputChar(c rune) {
	if s.cursor >= len(s.input) {
		s.input += string(c)
	} else {
		s.input = s.input[:s.cursor] + string(c) + s.input[s.cursor:]
	}
	s.cursor++
}

// InputBackspace removes the character before the cursor.
func (s *Session) InputBackspace() {
	if s.cursor > 0 {
		s.cursor--
		s.input = s.input[:s.cursor] + s.input[s.cursor+1:]
	}
}

// InputDelete removes the character under the cursor.
func (s *Session) InputDelete() {
	if s.cursor < len(s.input) {
		s.input = s.input[:s.cursor] + s.input[s.cursor+1:]
	}
}

// MoveCursorLeft moves the input cursor left by one.
func (s *Session) MoveCursorLeft() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveCursorRight moves the input cursor right by one.
func (s *Session) MoveCursorRight() {
	if s.cursor < len(s.input) {
		s.cursor++
	}
}

// HistoryUp replaces the input line with the previous history entry.
func (s *Session) HistoryUp() {
	if len(s.history) > 0 && s.histPos > 0 {
		s.histPos--
		s.input = s.history[s.histPos]
		s.cursor = len(s.input)
	}
}

// HistoryDown replaces the input line with the next history entry; moving
// past the most recent entry clears the line back to a fresh one.
func (s *Session) HistoryDown() {
	if len(s.history) == 0 {
		return
	}
	if s.histPos < len(s.history)-1 {
		s.histPos++
		s.input = s.history[s.histPos]
		s.cursor = len(s.input)
	} else if s.histPos == len(s.history)-1 {
		s.histPos = len(s.history)
		s.clearInput()
	}
}

// Close tears the session down: drop stdin to signal EOF, kill the child if
// it has not already exited, drain remaining output so the readers can
// finish, and join them. Safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.running = false

	if s.stdin != nil {
		_ = s.stdin.Close()
		s.stdin = nil
	}

	if s.cmd != nil && s.cmd.Process != nil && s.exited != nil {
		select {
		case <-s.exited:
			s.log.Info("shell process already exited")
		default:
			s.log.Info("killing shell process", "pid", s.cmd.Process.Pid)
			if err := s.cmd.Process.Kill(); err != nil {
				s.log.Warn("failed to kill shell process", "error", err)
			}
		}
	}

	// Keep receiving until the channel closes; a reader blocked on a full
	// channel could otherwise never finish.
	if s.output != nil {
		for item := range s.output {
			if !item.terminated {
				s.Lines = append(s.Lines, item.line)
			}
		}
		s.output = nil
	}
	if s.exited != nil {
		<-s.exited
		s.exited = nil
	}
	s.cmd = nil
}

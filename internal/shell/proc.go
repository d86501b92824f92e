package shell

import (
	"bytes"
	"os/exec"
	"path"
	"strconv"
	"strings"
)

// ActiveCommand returns the name of the command currently running in the
// shell, for display in the status line. It inspects the child's direct
// children with POSIX ps; with no children the shell itself is idle at its
// prompt and its own name is returned. Best effort: "" on any failure.
func (s *Session) ActiveCommand() string {
	if s.cmd == nil || s.cmd.Process == nil {
		return ""
	}
	pid := s.cmd.Process.Pid

	if child := firstChildCommand(pid); child != "" {
		return commandName(child)
	}
	return commandName(s.shellCmd)
}

// firstChildCommand returns the command line of the first direct child of
// pid, or "" when there are none.
func firstChildCommand(pid int) string {
	cmd := exec.Command("ps", "-eo", "pid=,ppid=,args=")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}

	parent := strconv.Itoa(pid)
	for _, line := range strings.Split(stdout.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != parent {
			continue
		}
		return strings.Join(fields[2:], " ")
	}
	return ""
}

// commandName extracts the bare command name from a command line,
// e.g. "/usr/local/bin/node script.js" -> "node".
func commandName(cmdLine string) string {
	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return ""
	}
	return path.Base(fields[0])
}

// Package lsp discovers and launches external language servers. It manages
// processes only; it speaks no protocol.
package lsp

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrServerNotFound is returned when no installed server matches a language.
var ErrServerNotFound = errors.New("language server not found")

// LanguageID maps a file extension (without the dot) to a language id.
// Unknown extensions return "".
func LanguageID(ext string) string {
	switch strings.ToLower(ext) {
	case "rs":
		return "rust"
	case "go":
		return "go"
	case "js", "jsx":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	case "py":
		return "python"
	case "c", "h":
		return "c"
	case "cpp", "hpp", "cc", "cxx":
		return "cpp"
	case "java":
		return "java"
	case "lua":
		return "lua"
	case "rb":
		return "ruby"
	case "php":
		return "php"
	case "html":
		return "html"
	case "css":
		return "css"
	case "json":
		return "json"
	case "md", "markdown":
		return "markdown"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	case "xml":
		return "xml"
	case "sh", "bash":
		return "bash"
	default:
		return ""
	}
}

// LanguageIDForFile maps a file path to a language id via its extension.
func LanguageIDForFile(path string) string {
	return LanguageID(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ServerConfig describes one known language server binary.
type ServerConfig struct {
	LanguageID  string
	Executable  string
	Args        []string
	InstallHint string
}

var servers = []ServerConfig{
	{LanguageID: "go", Executable: "gopls", InstallHint: "go install golang.org/x/tools/gopls@latest"},
	{LanguageID: "rust", Executable: "rust-analyzer", InstallHint: "rustup component add rust-analyzer"},
	{LanguageID: "python", Executable: "pyright-langserver", Args: []string{"--stdio"}, InstallHint: "npm install -g pyright"},
	{LanguageID: "typescript", Executable: "typescript-language-server", Args: []string{"--stdio"}, InstallHint: "npm install -g typescript-language-server"},
	{LanguageID: "javascript", Executable: "typescript-language-server", Args: []string{"--stdio"}, InstallHint: "npm install -g typescript-language-server"},
	{LanguageID: "c", Executable: "clangd", InstallHint: "install clangd from your package manager"},
	{LanguageID: "cpp", Executable: "clangd", InstallHint: "install clangd from your package manager"},
	{LanguageID: "lua", Executable: "lua-language-server", InstallHint: "install lua-language-server from your package manager"},
	{LanguageID: "bash", Executable: "bash-language-server", Args: []string{"start"}, InstallHint: "npm install -g bash-language-server"},
}

// Server is a spawned language-server process handle.
type Server struct {
	LanguageID string
	Path       string
	cmd        *exec.Cmd
}

// Launcher discovers and spawns language servers, at most one per language.
type Launcher struct {
	running map[string]*Server
	log     *slog.Logger
}

// NewLauncher creates an empty launcher.
func NewLauncher(log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{running: make(map[string]*Server), log: log}
}

// lookup finds the config for a language id.
func lookup(languageID string) (ServerConfig, bool) {
	for _, sc := range servers {
		if sc.LanguageID == languageID {
			return sc, true
		}
	}
	return ServerConfig{}, false
}

// Discover resolves the server binary for a language from PATH.
func Discover(languageID string) (string, error) {
	sc, ok := lookup(languageID)
	if !ok {
		return "", fmt.Errorf("%w: no server registered for %q", ErrServerNotFound, languageID)
	}
	path, err := exec.LookPath(sc.Executable)
	if err != nil {
		return "", fmt.Errorf("%w: %s (%s)", ErrServerNotFound, sc.Executable, sc.InstallHint)
	}
	return path, nil
}

// Start spawns the server for languageID if one is registered, installed,
// and not already running. The returned handle is retained by the launcher.
func (l *Launcher) Start(languageID string) (*Server, error) {
	if languageID == "" {
		return nil, fmt.Errorf("%w: unknown language", ErrServerNotFound)
	}
	if srv, ok := l.running[languageID]; ok {
		return srv, nil
	}
	path, err := Discover(languageID)
	if err != nil {
		return nil, err
	}
	sc, _ := lookup(languageID)

	cmd := exec.Command(path, sc.Args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Dir, _ = os.Getwd()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", path, err)
	}
	l.log.Info("language server started", "language", languageID, "path", path, "pid", cmd.Process.Pid)

	srv := &Server{LanguageID: languageID, Path: path, cmd: cmd}
	l.running[languageID] = srv
	return srv, nil
}

// Shutdown kills every running server and reaps it.
func (l *Launcher) Shutdown() {
	for lang, srv := range l.running {
		if srv.cmd != nil && srv.cmd.Process != nil {
			_ = srv.cmd.Process.Kill()
			_ = srv.cmd.Wait()
		}
		delete(l.running, lang)
	}
}

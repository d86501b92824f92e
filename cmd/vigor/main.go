// Package main provides the entry point for vigor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vigor-editor/vigor/internal/app"
	"github.com/vigor-editor/vigor/internal/config"
	"github.com/vigor-editor/vigor/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("vigor", version.Short())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so the log goes to a file.
	logFile, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, nil))
	log.Info("starting vigor", "version", version.Short())

	application, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting vigor: %v\n", err)
		os.Exit(1)
	}

	if name := flag.Arg(0); name != "" {
		if err := application.Editor().OpenFile(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	err = application.Run()
	application.Editor().Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Info("vigor exited")
}

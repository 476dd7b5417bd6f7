// Package main is the entry point for the focusflow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/cli"
	"github.com/YuriiYurchuk/Focus-Flow/internal/infra/config"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.NewLoader(cwd).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	container, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		_ = container.Close()
	}()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}

// Package main is the entry point for the taskmgmt CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskmgmt/internal/auth"
	"taskmgmt/internal/backend/taskapi"
	"taskmgmt/internal/cli"
	"taskmgmt/internal/commands"
	"taskmgmt/internal/config"
	"taskmgmt/internal/output"
	"taskmgmt/internal/store"
	"taskmgmt/pkg/logger"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newStore)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// newStore wires one session store: logger, token provider, API client,
// console notifier.
func newStore(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*store.Store, error) {
	level := "error"
	if cfg.Debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Encoding: "console"})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	if !cfg.HasToken() {
		return nil, fmt.Errorf("no session token found (run: taskmgmt login)")
	}

	provider, err := auth.NewSessionProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := taskapi.New(cfg.BaseURL, provider, nil, log)
	notify := &output.ConsoleNotifier{Out: out, Err: errOut, Quiet: cfg.Quiet}

	return store.New(cfg.Email, client, notify, log, store.Options{}), nil
}

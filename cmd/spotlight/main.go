package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/loop"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "spotlight",
	})
	if level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	cfg, problems := config.Load()
	for _, p := range problems {
		logger.Warn("config", "problem", p)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The session gets no logger: stderr shares the raw terminal.
	session := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Config: cfg,
	})
	runErr := session.Run(ctx)
	_ = term.Restore(fd, oldState)

	stats := session.Stats()
	logger.Debug("frames", "total", stats.Frames, "drawn", stats.Drawn, "skipped", stats.Skipped, "failed", stats.Failed)
	if runErr != nil {
		logger.Error("spotlight error", "err", runErr)
		stop()
		os.Exit(1)
	}
}

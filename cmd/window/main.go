package main

import (
	"os"

	"github.com/charmbracelet/log"
	_ "github.com/silbinarywolf/preferdiscretegpu"

	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/window"
)

const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 720
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "window",
	})
	if level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	cfg, problems := config.Load()
	for _, p := range problems {
		logger.Warn("config", "problem", p)
	}
	width, ok := config.GetEnvInt("WINDOW_WIDTH", defaultWindowWidth)
	if !ok || width <= 0 {
		logger.Warn("config", "problem", "WINDOW_WIDTH: not a positive integer")
		width = defaultWindowWidth
	}
	height, ok := config.GetEnvInt("WINDOW_HEIGHT", defaultWindowHeight)
	if !ok || height <= 0 {
		logger.Warn("config", "problem", "WINDOW_HEIGHT: not a positive integer")
		height = defaultWindowHeight
	}

	game, err := window.NewGame(window.Options{Config: cfg, Logger: logger})
	if err != nil {
		logger.Fatal("failed to create window host", "err", err)
	}
	if err := window.Run(game, width, height); err != nil {
		logger.Fatal("window error", "err", err)
	}
	stats := game.Stats()
	logger.Debug("frames", "total", stats.Frames, "drawn", stats.Drawn, "skipped", stats.Skipped, "failed", stats.Failed)
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reflex/internal/audio"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/feedback"
	"github.com/tomz197/reflex/internal/highscore"
	"github.com/tomz197/reflex/internal/loop"
	"github.com/tomz197/reflex/internal/tuning"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	logger := log.New(io.Discard)
	if path := config.GetEnv("REFLEX_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "reflex"})
		if config.GetEnvBool("REFLEX_DEBUG", false) {
			logger.SetLevel(log.DebugLevel)
		}
	}

	cfg, err := tuning.LoadOrDefault(config.GetEnv("REFLEX_TUNING", ""))
	if err != nil {
		return err
	}

	scorePath := config.GetEnv("REFLEX_HIGHSCORE", highscore.DefaultPath())
	scores := highscore.NewStore(scorePath)

	opts := loop.Options{
		Logger:     logger,
		Tuning:     &cfg,
		HighScores: scores,
		Haptics:    feedback.Nop{},
	}
	if !config.GetEnvBool("REFLEX_MUTE", false) {
		player := audio.NewPlayer(config.GetEnvFloat("REFLEX_VOLUME", 0.6))
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			opts.Cues = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	logger.Info("starting", "tuning", config.GetEnv("REFLEX_TUNING", "default"), "highscore", scorePath)
	reader := bufio.NewReader(os.Stdin)
	return loop.Run(reader, os.Stdout, opts)
}

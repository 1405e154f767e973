package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/highscore"
	"github.com/tomz197/asteroidfield/internal/loop/client"
	gameconfig "github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("reading .env: %w", err)
	}

	// The terminal belongs to the game, so logs only go to LOG_FILE.
	logOut := io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLoggerTo(logOut, "game")

	store, err := highscore.Open(config.GetEnv("SCORES_DB", ""))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewServer(store, server.Options{Logger: logger.WithPrefix("arcade")})
	if err := hub.Load(ctx); err != nil {
		return fmt.Errorf("load high scores: %w", err)
	}
	go hub.Run(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c, err := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "player"),
		Tuning:   gameconfig.FromEnv(gameconfig.Default()),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := c.Run(ctx); err != nil {
		logger.Error("game stopped", "err", err)
		return err
	}
	return nil
}

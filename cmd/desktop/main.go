package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/highscore"
	gameconfig "github.com/tomz197/asteroidfield/internal/loop/config"
)

const (
	windowWidth  = 1000
	windowHeight = 720
)

func main() {
	dotEnvErr := config.LoadDotEnv()
	logger := config.NewLogger("desktop")
	if dotEnvErr != nil {
		logger.Warn("reading .env", "err", dotEnvErr)
	}

	tuning := gameconfig.FromEnv(gameconfig.Default())

	path := config.GetEnv("SCORES_DB", "")
	store, err := highscore.Open(path)
	if err != nil {
		logger.Fatal("opening score database", "path", path, "err", err)
	}
	defer store.Close()

	g, err := newGame(tuning, store, logger, windowWidth, windowHeight)
	if err != nil {
		logger.Fatal("starting game", "err", err)
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Asteroid Field")
	ebiten.SetTPS(int(tuning.FPS))
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game stopped", "err", err)
		store.Close()
		os.Exit(1)
	}
}

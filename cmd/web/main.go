package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/asteroidfield/internal/config"
	"github.com/tomz197/asteroidfield/internal/highscore"
	gameconfig "github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
	"github.com/tomz197/asteroidfield/internal/stream"
)

const (
	defaultHost     = "0.0.0.0"
	defaultPort     = "8080"
	defaultScoresDB = "scores.db"
)

//go:embed index.html
var htmlPage string

func main() {
	dotEnvErr := config.LoadDotEnv()
	logger := config.NewLogger("web")
	if dotEnvErr != nil {
		logger.Warn("reading .env", "err", dotEnvErr)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scoresDB := config.GetEnv("SCORES_DB", defaultScoresDB)
	tuning := gameconfig.FromEnv(gameconfig.Default())
	if err := tuning.Validate(); err != nil {
		logger.Fatal("invalid tuning", "err", err)
	}

	store, err := highscore.Open(scoresDB)
	if err != nil {
		logger.Fatal("opening score database", "path", scoresDB, "err", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	hub := server.NewServer(store, server.Options{Logger: logger.WithPrefix("arcade")})
	if err := hub.Load(hubCtx); err != nil {
		logger.Fatal("loading high scores", "err", err)
	}
	go hub.Run(hubCtx)

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.Handle("GET /ws", stream.NewHandler(stream.Options{
		Arcade: hub,
		Tuning: tuning,
		Logger: logger.WithPrefix("stream"),
	}))
	mux.Handle("GET /scores", stream.ScoresHandler(hub))

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Players get the shutdown notice before their sockets close.
	hub.Shutdown(15 * time.Second)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

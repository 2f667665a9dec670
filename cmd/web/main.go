package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
	"github.com/tomz197/droptap/internal/scoreboard"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
	boardLimit  = 100
	pageScores  = 20
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost string
	Total   int
	Scores  []report.Result
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, "web", config.GetEnv(config.EnvLogLevel, "info"))

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	board := scoreboard.NewBoard(boardLimit, logger)
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           routes(board, sshHost, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

func routes(board *scoreboard.Board, sshHost string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{SSHHost: sshHost, Total: board.Len(), Scores: board.Recent(pageScores)}
		if err := page.Execute(w, data); err != nil {
			logger.Warn("failed to render page", "err", err)
		}
	})
	mux.HandleFunc("GET /ws/scores", board.ServeWS)
	return mux
}

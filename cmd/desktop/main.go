package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tomz197/droptap/internal/audio"
	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/desktop"
	"github.com/tomz197/droptap/internal/game"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/report"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, "desktop", config.GetEnv(config.EnvLogLevel, "info"))

	cfg, err := config.LoadOrDefault(config.GetEnv(config.EnvConfigPath, ""))
	if err != nil {
		logger.Fatal("invalid game config", "err", err)
	}

	var sound game.Sound = audio.Mute{}
	if !config.GetEnvBool(config.EnvMute, false) {
		player := audio.NewPlayer(logger)
		if err := player.Init(); err != nil {
			logger.Warn("audio unavailable, playing silent", "err", err)
		} else {
			defer player.Close()
			player.SetVolume(config.GetEnvFloat(config.EnvVolume, 1))
			sound = player
		}
	}

	reporter, waitReports := report.Standard(config.GetEnv(config.EnvReportURL, ""), logger, 5*time.Second)

	g := game.New(cfg, game.Options{Sound: sound, Reporter: reporter, Logger: logger})
	w := desktop.New(g, logger)

	ebiten.SetWindowSize(w.Size())
	ebiten.SetWindowTitle("droptap")
	if err := ebiten.RunGame(w); err != nil {
		logger.Error("game error", "err", err)
	}
	waitReports()
}

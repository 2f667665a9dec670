package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/tomz197/droptap/internal/audio"
	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/game"
	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/loop"
	"github.com/tomz197/droptap/internal/loop/client"
	"github.com/tomz197/droptap/internal/report"
	"golang.org/x/term"
)

const reportTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

// run plays one local game and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		return 1
	}

	cfg, err := config.LoadOrDefault(config.GetEnv(config.EnvConfigPath, ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	logger, closeLog, err := logging.OpenFile(
		config.GetEnv(config.EnvLogFile, ""), "droptap", config.GetEnv(config.EnvLogLevel, "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

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

	reporter, waitReports := report.Standard(config.GetEnv(config.EnvReportURL, ""), logger, reportTimeout)
	defer waitReports()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		return 1
	}

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, client.ClientOptions{
		Username: os.Getenv("USER"),
		Game:     cfg,
		Sound:    sound,
		Reporter: reporter,
		Logger:   logger,
	})
	_ = term.Restore(fd, oldState)

	if err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		return 1
	}
	return 0
}

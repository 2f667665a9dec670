// Package loop runs a single local game in the current terminal.
package loop

import (
	"bufio"
	"io"

	"github.com/tomz197/droptap/internal/logging"
	"github.com/tomz197/droptap/internal/loop/client"
	"github.com/tomz197/droptap/internal/loop/server"
)

// Run plays one game session on r and w until the player quits. The local
// hub only ever holds this one client, so the leaderboard on the game over
// screen shows the best scores of this run.
func Run(r *bufio.Reader, w io.Writer, opts client.ClientOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	hub := server.NewHub(logger)

	c := client.NewClient(hub, r, w, opts)
	logger.Info("local game started")
	err := c.Run()
	logger.Info("local game ended", "score", c.Game().Session().Score())
	return err
}

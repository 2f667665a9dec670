package client

import (
	"fmt"
	"strings"

	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
	loopconfig "github.com/tomz197/droptap/internal/loop/config"
	"github.com/tomz197/droptap/internal/object"
)

const timeBarWidth = 20

var titleArt = []string{
	` ___  ___  ___  ___ _____ _   ___ `,
	`|   \| _ \/ _ \| _ \_   _/_\ | _ \`,
	`| |) |   / (_) |  _/ | |/ _ \|  _/`,
	`|___/|_|_\\___/|_|   |_/_/ \_\_|  `,
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___ `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
}

// currentScreen picks the overlay for this frame.
func (c *Client) currentScreen() screen {
	switch {
	case c.state.shuttingDown:
		return screenShutdown
	case c.state.isInactive:
		return screenInactive
	}
	switch c.game.Phase() {
	case game.PhaseRunning:
		return screenPlaying
	case game.PhaseOver:
		return screenOver
	}
	return screenStart
}

// drawFrame draws the current frame and flushes it.
func (c *Client) drawFrame() error {
	scr := c.currentScreen()
	if scr != c.state.prevScreen {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = scr
	}

	c.canvas.Clear()
	snap := c.game.Snapshot()
	ctx := object.DrawContext{Canvas: c.canvas, Writer: c.chunkWriter}

	if scr == screenPlaying || scr == screenOver {
		for _, slot := range snap.Slots {
			c.canvas.Set(draw.Point{X: slot.X, Y: slot.Y}, draw.Gray)
		}
		for _, e := range snap.Entities {
			object.Falling{Entity: e}.Draw(ctx)
		}
		for _, fx := range snap.Effects {
			object.Burst{Effect: fx}.Draw(ctx)
		}
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(ctx, scr, snap)

	return c.chunkWriter.Flush()
}

func (c *Client) drawUI(ctx object.DrawContext, scr screen, snap game.Snapshot) {
	cols := c.canvas.TerminalWidth()
	rows := c.canvas.TerminalHeight()
	centerY := rows / 2

	switch scr {
	case screenShutdown:
		c.drawShutdownScreen(ctx, cols, centerY)
	case screenInactive:
		c.drawInactivityScreen(ctx, cols, centerY)
	case screenStart:
		c.drawStartScreen(ctx, cols, centerY)
	case screenPlaying:
		c.drawHUD(ctx, cols, rows, snap)
	case screenOver:
		c.drawHUD(ctx, cols, rows, snap)
		c.drawGameOverScreen(ctx, cols, centerY, snap)
	}
}

func (c *Client) blinkOn() bool {
	return int(c.state.elapsed/loopconfig.PromptBlinkPeriod)%2 == 0
}

func drawLines(ctx object.DrawContext, cols, startRow int, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	for i, l := range lines {
		object.Text{Col: cols/2 - width/2 + 1, Row: startRow + i, Value: l}.Draw(ctx)
	}
}

func (c *Client) drawStartScreen(ctx object.DrawContext, cols, centerY int) {
	top := centerY - 8
	drawLines(ctx, cols, top, titleArt)

	cfg := c.game.Config()
	row := top + len(titleArt) + 1
	object.Centered(row, cols, "~ catch the good, dodge the bad ~").Draw(ctx)

	lines := []string{
		fmt.Sprintf("Click falling objects before they vanish. You have %gs.", cfg.GameDuration),
		"Filled shapes score a point. Crossed shapes end the game.",
		"",
		"Mouse . . . . . . . Click",
		"SPACE / ENTER  . .  Start",
		"R  . . . . . . .  Restart",
		"Q  . . . . . . . . . Quit",
	}
	for i, l := range lines {
		object.Centered(row+2+i, cols, l).Draw(ctx)
	}

	if c.blinkOn() {
		object.Centered(row+len(lines)+3, cols, ">>  Press SPACE or click to Start  <<").Draw(ctx)
	}
}

// timeBar renders the remaining-time fraction with a shaded partial cell.
func timeBar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	cells := frac * float64(width)
	full := int(cells)
	var b strings.Builder
	b.WriteString(strings.Repeat(string(draw.BlockFull), full))
	if full < width {
		b.WriteRune(draw.ShadeLevel(cells - float64(full)))
		b.WriteString(strings.Repeat(" ", width-full-1))
	}
	return b.String()
}

// drawHUD draws score, time bar and player count. Fields are fixed width
// so shrinking values leave nothing behind.
func (c *Client) drawHUD(ctx object.DrawContext, cols, rows int, snap game.Snapshot) {
	object.Text{Col: 2, Row: 1, Value: fmt.Sprintf("%-14s", c.game.ScoreText())}.Draw(ctx)

	bar := fmt.Sprintf("Time [%s] %5.1fs", timeBar(c.game.TimeFraction(), timeBarWidth), snap.Remaining)
	object.Text{Col: cols - len([]rune(bar)), Row: 1, Value: bar}.Draw(ctx)

	players := fmt.Sprintf("Players: %-4d", c.lobby.Players())
	object.Text{Col: cols - len(players), Row: rows, Value: players}.Draw(ctx)
}

func (c *Client) drawGameOverScreen(ctx object.DrawContext, cols, centerY int, snap game.Snapshot) {
	top := centerY - 7
	drawLines(ctx, cols, top, gameOverArt)

	row := top + len(gameOverArt) + 1
	object.Centered(row, cols, fmt.Sprintf("Final score: %d", snap.Score)).Draw(ctx)

	if len(c.topScores) > 0 {
		object.Centered(row+2, cols, "Top scores").Draw(ctx)
		for i, e := range c.topScores {
			name := e.Username
			if name == "" {
				name = "anonymous"
			}
			object.Centered(row+3+i, cols, fmt.Sprintf("%d. %-16s %4d", i+1, name, e.Score)).Draw(ctx)
		}
		row += len(c.topScores) + 2
	}

	if c.blinkOn() {
		object.Centered(row+2, cols, ">>  Press R to Restart  <<").Draw(ctx)
	}
}

func (c *Client) drawInactivityScreen(ctx object.DrawContext, cols, centerY int) {
	object.Centered(centerY-2, cols, "INACTIVITY WARNING").Draw(ctx)
	left := int(loopconfig.InactivityDisconnectUser - c.state.idle)
	object.Centered(centerY, cols, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.", left)).Draw(ctx)
	object.Centered(centerY+2, cols, "Press any key to continue").Draw(ctx)
}

func (c *Client) drawShutdownScreen(ctx object.DrawContext, cols, centerY int) {
	object.Centered(centerY-3, cols, "SERVER SHUTTING DOWN").Draw(ctx)
	object.Centered(centerY-1, cols, "The server is restarting for maintenance.").Draw(ctx)
	object.Centered(centerY, cols, "Please reconnect in a moment.").Draw(ctx)
	object.Centered(centerY+2, cols, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1)).Draw(ctx)
	object.Centered(centerY+4, cols, "Press Q to disconnect now").Draw(ctx)
}

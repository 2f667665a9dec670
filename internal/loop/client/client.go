// Package client runs one terminal connection: it reads input, drives an
// isolated game and draws it at a fixed frame rate.
package client

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/droptap/internal/config"
	"github.com/tomz197/droptap/internal/draw"
	"github.com/tomz197/droptap/internal/game"
	"github.com/tomz197/droptap/internal/input"
	"github.com/tomz197/droptap/internal/logging"
	loopconfig "github.com/tomz197/droptap/internal/loop/config"
	"github.com/tomz197/droptap/internal/loop/server"
	"github.com/tomz197/droptap/internal/report"
)

// Client handles rendering and input for a single connection.
type Client struct {
	lobby        server.Lobby
	handle       *server.ClientHandle
	game         *game.Game
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	topScores    []server.TopScoreEntry
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Game         config.Game
	Sound        game.Sound
	Reporter     report.Reporter
	Logger       *log.Logger
	Rand         *rand.Rand
}

// NewClient registers a client with the lobby and builds its game.
func NewClient(lobby server.Lobby, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	c := newClient(lobby, w, opts)
	c.inputStream = input.StartStream(r)
	return c
}

func newClient(lobby server.Lobby, w io.Writer, opts ClientOptions) *Client {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	handle := lobby.RegisterClient(opts.Username)
	logger := opts.Logger.With("client", handle.ID)
	g := game.New(opts.Game, game.Options{
		Rand:     opts.Rand,
		Sound:    opts.Sound,
		Reporter: opts.Reporter,
		Logger:   logger,
	})

	state := NewClientState()
	state.termSizeFunc = opts.TermSizeFunc

	world := opts.Game.World
	termWidth, termHeight, _ := opts.TermSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, world.Width, world.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		lobby:        lobby,
		handle:       handle,
		game:         g,
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		termSizeFunc: opts.TermSizeFunc,
		log:          logger,
	}
}

// Game returns the client's game.
func (c *Client) Game() *game.Game { return c.game }

// Run drives the Input → Update → Draw loop until the player quits, goes
// idle for too long, or the server shuts down.
func (c *Client) Run() error {
	defer c.lobby.UnregisterClient(c.handle.ID)

	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
		draw.ClearScreen(c.writer)
	}()

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		in := input.ReadInput(c.inputStream)
		if c.inputStream.Closed() {
			c.state.Running = false
		}
		c.processServerEvents()
		c.updateScreen()
		c.update(in, delta)

		if err := c.drawFrame(); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < loopconfig.ClientTargetFrameTime {
			time.Sleep(loopconfig.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// update applies one frame of input and advances the game.
func (c *Client) update(in input.Input, delta time.Duration) {
	s := c.state
	s.Input = in
	s.delta = delta
	dt := delta.Seconds()
	s.elapsed += dt

	if in.Quit {
		s.Running = false
		return
	}

	if s.shuttingDown {
		s.shutdownTimer -= dt
		if s.shutdownTimer <= 0 {
			s.Running = false
		}
		return
	}

	if in.Active {
		s.idle = 0
		s.isInactive = false
	} else {
		s.idle += dt
		switch {
		case s.idle > loopconfig.InactivityDisconnectUser:
			c.log.Info("disconnecting idle client", "idle", s.idle)
			s.Running = false
			return
		case s.idle > loopconfig.InactivityWarnUser:
			s.isInactive = true
		}
	}

	switch c.game.Phase() {
	case game.PhaseNotStarted:
		if in.Start || in.Click != nil {
			c.game.Start()
		}
	case game.PhaseRunning:
		c.game.Tick(delta, c.clickTarget(in.Click))
	case game.PhaseOver:
		if in.Restart || in.Start {
			c.game.Restart()
		}
	}

	phase := c.game.Phase()
	if s.prevPhase == game.PhaseRunning && phase == game.PhaseOver {
		c.lobby.RecordScore(c.handle.ID, c.game.Session().Score())
	}
	s.prevPhase = phase
}

// clickTarget maps a mouse press to world coordinates, dropping presses
// outside the play area.
func (c *Client) clickTarget(click *input.Click) *game.Vec {
	if click == nil {
		return nil
	}
	x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
	if !ok {
		return nil
	}
	return &game.Vec{X: x, Y: y}
}

// processServerEvents drains hub events without blocking.
func (c *Client) processServerEvents() {
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch ev.Type {
			case server.EventServerShutdown:
				if !c.state.shuttingDown {
					c.state.shuttingDown = true
					c.state.shutdownTimer = loopconfig.ShutdownDisplaySeconds
				}
			case server.EventTopScores:
				c.topScores = c.lobby.TopScores()
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes, clamped to the max render size.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize limits the render area and centres it in the terminal.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, loopconfig.MaxTermWidth)
	renderHeight = min(termHeight, loopconfig.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// Package client runs one terminal player: it reads keys, drives a private
// loop.Session at the tuned frame rate and renders it with half blocks.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/highscore"
	"github.com/tomz197/asteroidfield/internal/input"
	"github.com/tomz197/asteroidfield/internal/loop"
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// compactFieldWidth is the field width below which the smaller asteroid
// ranges are used.
const compactFieldWidth = 640

// Client handles rendering and input for a single connection.
type Client struct {
	arcade       server.Arcade
	handle       *server.ClientHandle
	session      *loop.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	frameTime    time.Duration

	outline []draw.Point // Reused for asteroid outlines
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	// Tuning defaults to config.Default() when FPS is zero.
	Tuning config.Tuning
	Logger *log.Logger
	Rand   physics.Source
}

// NewClient creates a client registered with arcade.
func NewClient(arcade server.Arcade, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tuning := opts.Tuning
	if tuning.FPS == 0 {
		tuning = config.Default()
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	fieldW, fieldH := fieldSize(renderWidth, renderHeight)
	if fieldW < compactFieldWidth {
		tuning.Compact = true
	}

	c := &Client{
		arcade:       arcade,
		state:        NewClientState(),
		canvas:       draw.NewScaledCanvas(renderWidth, renderHeight, fieldW, fieldH),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
		frameTime:    tuning.FrameTime(),
	}
	c.canvas.SetOffset(offsetCol, offsetRow)

	session, err := loop.NewSession(tuning, loop.Options{
		Logger:          logger,
		Rand:            opts.Rand,
		OnShipDestroyed: c.onShipDestroyed,
		OnGameOver:      c.onGameOver,
	})
	if err != nil {
		return nil, err
	}
	c.session = session
	c.handle = arcade.RegisterClient(opts.Username)
	return c, nil
}

// Run plays until the user quits, the connection drops, ctx is done or the
// server shuts down.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.arcade.UnregisterClient(c.handle.ID)

	c.session.StartAttract(c.canvas.LogicalWidth(), c.canvas.LogicalHeight())

	err := loop.Run(ctx, c.session, loop.Hooks{
		BeforeFrame: c.beforeFrame,
		AfterFrame:  func(*loop.Session) error { return c.drawFrame() },
	})

	draw.ClearScreen(c.writer)
	return err
}

func (c *Client) beforeFrame(*loop.Session) error {
	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateGameOver:
		c.updateGameOverState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	if !c.state.Running {
		return loop.ErrStop
	}
	return nil
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if in.Closed || in.Interrupt {
		c.state.Running = false
		return
	}

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if idle := time.Since(c.lastInput).Seconds(); idle > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting idle player", "user", c.username)
		c.state.Running = false
	} else if idle > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	// Q types a letter while a name is being entered.
	if in.Quit && !c.state.enterName {
		c.state.Running = false
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventScoreSaved:
				c.state.saved = true
				c.state.savedRank = event.Rank
				c.state.saveFailed = event.Err != nil
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.enterName = false
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes. The field tracks the render area
// without restarting the game.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth == c.canvas.TerminalWidth() && renderHeight == c.canvas.TerminalHeight() &&
		offsetCol == c.canvas.OffsetCol() && offsetRow == c.canvas.OffsetRow() {
		return
	}

	fieldW, fieldH := fieldSize(renderWidth, renderHeight)
	draw.ClearScreen(c.writer)
	c.canvas.Resize(renderWidth, renderHeight, fieldW, fieldH)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.canvas.ForceRedraw()
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.session.Resize(fieldW, fieldH)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset of the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(1, min(termWidth, config.MaxTermWidth))
	renderHeight = max(1, min(termHeight, config.MaxTermHeight))
	offsetCol = max(0, (termWidth-renderWidth)/2)
	offsetRow = max(0, (termHeight-renderHeight)/2)
	return
}

// fieldSize maps a render area to field pixels. Columns and half-block rows
// are both config.PixelsPerCell pixels, so the field keeps the terminal's
// aspect ratio.
func fieldSize(renderWidth, renderHeight int) (float64, float64) {
	return float64(renderWidth * config.PixelsPerCell), float64(renderHeight * 2 * config.PixelsPerCell)
}

func (c *Client) updateStartState() {
	if c.state.Input.Fire > 0 || c.state.Input.Enter {
		c.startGame()
	}
}

func (c *Client) updatePlayingState() {
	in := c.state.Input
	c.session.SetThrust(in.Up)
	c.session.Turn(in.Turn())
	for i := 0; i < in.Fire; i++ {
		c.session.FireOnce()
	}
	c.reportScore(true)
}

func (c *Client) updateGameOverState() {
	in := c.state.Input

	if c.state.enterName {
		for i := 0; i < in.Backspaces && len(c.state.name) > 0; i++ {
			c.state.name = c.state.name[:len(c.state.name)-1]
		}
		for _, b := range in.Text {
			if len(c.state.name) < config.MaxUsernameLength {
				c.state.name = append(c.state.name, b)
			}
		}
		switch {
		case in.Enter:
			if _, err := highscore.CleanName(string(c.state.name)); err != nil {
				return
			}
			c.arcade.SubmitScore(c.handle.ID, string(c.state.name), c.state.finalScore)
			c.state.enterName = false
			c.state.submitted = true
			c.inputStream.ResetKeyInput()
		case in.Escape:
			c.state.enterName = false
			c.inputStream.ResetKeyInput()
		}
		return
	}

	if in.Fire > 0 || in.Enter {
		c.returnToTitle()
	}
}

func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.frameTime.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// startGame resets the session into a fresh game.
func (c *Client) startGame() {
	c.inputStream.ResetKeyInput()
	c.session.Reset(c.canvas.LogicalWidth(), c.canvas.LogicalHeight())
	c.session.SetPreviousHighScore(c.arcade.GetStandings().PreviousHigh())
	c.state.GameState = GameStatePlaying
	c.logger.Debug("game started", "user", c.username)
}

// returnToTitle puts the title screen back over a drifting field.
func (c *Client) returnToTitle() {
	c.inputStream.ResetKeyInput()
	c.session.StartAttract(c.canvas.LogicalWidth(), c.canvas.LogicalHeight())
	c.state.GameState = GameStateStart
	c.state.submitted = false
	c.state.saved = false
	c.state.saveFailed = false
}

// reportScore forwards the running score to the hub when it changes.
func (c *Client) reportScore(playing bool) {
	score := c.session.Score()
	if score == c.state.reportedAt && playing == c.state.reportedRun {
		return
	}
	c.arcade.ReportScore(c.handle.ID, score, playing)
	c.state.reportedAt = score
	c.state.reportedRun = playing
}

func (c *Client) onShipDestroyed(float64) {
	c.state.explodedAt = c.session.Frame()
}

// onGameOver runs inside AdvanceFrame in the frame lives run out.
func (c *Client) onGameOver(score int) {
	c.state.GameState = GameStateGameOver
	c.state.finalScore = score
	c.reportScore(false)

	c.state.enterName = score > 0 && c.arcade.GetStandings().Qualifies(score)
	c.state.name = c.state.name[:0]
	if c.state.enterName {
		name := []byte(c.username)
		if len(name) > config.MaxUsernameLength {
			name = name[:config.MaxUsernameLength]
		}
		c.state.name = append(c.state.name, name...)
	}
	c.logger.Info("game over", "user", c.username, "score", score, "top", c.state.enterName)
}

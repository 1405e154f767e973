package client

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/loop"
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// Screen and inactivity transitions get a full clear so text from the
	// previous screen does not linger.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	snap := c.session.Snapshot()

	c.canvas.Clear()
	c.drawField(snap)
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI(snap)
	return c.chunkWriter.Flush()
}

// drawField draws asteroids, the ship and its projectiles into the canvas.
func (c *Client) drawField(snap loop.Snapshot) {
	for _, a := range snap.Asteroids {
		c.canvas.DrawPolygon(c.toCanvas(a.Outline))
	}

	ship := snap.Ship
	if ship == nil {
		return
	}
	for _, p := range ship.Projectiles {
		c.canvas.DrawDot(p.X, p.Y)
	}

	switch snap.State {
	case loop.ShipExploding.String():
		c.drawExplosion(ship, snap.Frame)
		return
	case loop.ShipImmune.String():
		if !blinkVisible(snap.Frame, c.session.Tuning().FPS) {
			return
		}
	}

	hull := c.toCanvas(ship.Hull[:])
	c.canvas.DrawPolygon(hull)
	if ship.Thrusting {
		c.drawFlame(ship)
	}
}

func (c *Client) toCanvas(points []loop.Point) []draw.Point {
	c.outline = c.outline[:0]
	for _, p := range points {
		c.outline = append(c.outline, draw.Point{X: p.X, Y: p.Y})
	}
	return c.outline
}

// drawExplosion draws a ring that grows over the respawn delay.
func (c *Client) drawExplosion(ship *loop.ShipView, frame int64) {
	tuning := c.session.Tuning()
	total := float64(tuning.Ticks(tuning.RespawnDelay))
	progress := 1.0
	if total > 0 {
		progress = math.Min(1, float64(frame-c.state.explodedAt)/total)
	}
	c.canvas.DrawCircle(ship.X, ship.Y, ship.R*(0.5+progress))
	c.canvas.DrawCircle(ship.X, ship.Y, ship.R*progress*0.5)
}

// drawFlame draws the exhaust behind the rear edge of the hull.
func (c *Client) drawFlame(ship *loop.ShipView) {
	nose, left, right := ship.Hull[0], ship.Hull[1], ship.Hull[2]
	dx, dy := nose.X-ship.X, nose.Y-ship.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	dx, dy = dx/n, dy/n

	tip := draw.Point{
		X: (left.X+right.X)/2 - dx*ship.R,
		Y: (left.Y+right.Y)/2 - dy*ship.R,
	}
	c.canvas.DrawLine(draw.Point{X: left.X*0.7 + right.X*0.3, Y: left.Y*0.7 + right.Y*0.3}, tip)
	c.canvas.DrawLine(draw.Point{X: left.X*0.3 + right.X*0.7, Y: left.Y*0.3 + right.Y*0.7}, tip)
}

// blinkVisible toggles at config.PlayerBlinkFrequency.
func blinkVisible(frame int64, fps float64) bool {
	if fps <= 0 {
		return true
	}
	return int64(float64(frame)*config.PlayerBlinkFrequency*2/fps)%2 == 0
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2
	standings := c.arcade.GetStandings()

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap, standings)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, standings)
	case GameStateGameOver:
		c.drawGameOverScreen(centerX, centerY)
	}
}

// writeText writes s and marks the cells so the canvas repaints them once
// the text goes away.
func (c *Client) writeText(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeText(centerX-len([]rune(s))/2, row, s)
}

func (c *Client) writeCenteredColor(centerX, row int, color, s string) {
	col := centerX - len([]rune(s))/2
	c.chunkWriter.WriteAt(col, row, color+s+draw.ColorReset)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// drawInactivityScreen draws the inactivity warning.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")
	c.writeCentered(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen and the persisted top list.
func (c *Client) drawStartScreen(centerX, centerY int, standings *server.Standings) {
	// figlet "small"
	titleArt := []string{
		`    _   ___ _____ ___ ___  ___ ___ ___    ___ ___ ___ _    ___  `,
		`   /_\ / __|_   _| __| _ \/ _ \_ _|   \  | __|_ _| __| |  |   \ `,
		`  / _ \\__ \ | | | _||   / (_) | || |) | | _| | || _|| |__| |) |`,
		` /_/ \_\___/ |_| |___|_|_\\___/___|___/  |_| |___|___|____|___/ `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 9
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	y := titleStartY + len(titleArt) + 1
	c.writeCentered(centerX, y, "~ Asteroids over SSH ~")

	y += 2
	c.writeCentered(centerX, y, "Controls")
	controlLines := []string{
		"W / Up  . . . . Thrust",
		"A D / < >  . .  Rotate",
		"SPACE  . . . . . Shoot",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, y+1+i, line)
	}
	y += len(controlLines) + 2

	if len(standings.TopScores) > 0 {
		c.writeCentered(centerX, y, "High Scores")
		for i, e := range standings.TopScores {
			c.writeCentered(centerX, y+1+i, fmt.Sprintf("%d. %-*s %7d", i+1, config.MaxUsernameLength, e.Name, e.Score))
		}
		y += len(standings.TopScores) + 2
	}

	// Blank rather than skip so the prompt does not linger between blinks.
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = fmt.Sprintf("%*s", len(prompt), "")
	}
	c.writeCentered(centerX, y, prompt)

	if standings.Players > 1 {
		c.writeCentered(centerX, y+2, fmt.Sprintf("%d pilots online", standings.Players))
	}
}

// drawPlayingHUD draws score, lives and the arcade's best live score.
// Fields are fixed width so shrinking values leave no residue.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap loop.Snapshot, standings *server.Standings) {
	c.writeText(2, 1, fmt.Sprintf("Score: %-8d", snap.Score))

	livesText := fmt.Sprintf("Lives: %-3d", snap.Lives)
	c.writeText(termWidth-len(livesText)-1, 1, livesText)

	hi := max(standings.PreviousHigh(), snap.Score)
	c.writeCentered(termWidth/2, 1, fmt.Sprintf("Hi: %-8d", hi))

	playersText := fmt.Sprintf("Players: %-4d", standings.Players)
	c.writeText(termWidth-len(playersText)-1, termHeight, playersText)

	if len(standings.Live) > 0 && standings.Players > 1 {
		best := standings.Live[0]
		c.writeText(2, termHeight, fmt.Sprintf("Leader: %-*s %-8d", config.MaxUsernameLength, best.Username, best.Score))
	}
}

// drawGameOverScreen draws the final score and the name prompt.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	y := titleStartY + len(titleArt) + 1
	c.writeCentered(centerX, y, fmt.Sprintf("Score: %d", c.state.finalScore))
	if c.session.NewHighScore() {
		c.writeCenteredColor(centerX, y+1, draw.ColorYellow, "NEW HIGH SCORE")
	}
	y += 3

	switch {
	case c.state.enterName:
		c.writeCentered(centerX, y, "You made the top list! Enter your name:")
		field := fmt.Sprintf("[ %-*s ]", config.MaxUsernameLength, string(c.state.name)+"_")
		c.writeCentered(centerX, y+1, field)
		c.writeCentered(centerX, y+3, "ENTER to save, ESC to skip")
		return
	case c.state.submitted && !c.state.saved:
		c.writeCentered(centerX, y, "Saving score...")
	case c.state.saved && c.state.saveFailed:
		c.writeCenteredColor(centerX, y, draw.ColorBrightRed, "Could not save your score")
	case c.state.saved && c.state.savedRank >= 0:
		c.writeCentered(centerX, y, fmt.Sprintf("Saved at rank %d", c.state.savedRank+1))
	}

	prompt := ">>  Press SPACE to Continue  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = fmt.Sprintf("%*s", len(prompt), "")
	}
	c.writeCentered(centerX, y+2, prompt)
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}

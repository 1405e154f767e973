package main

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/asteroidfield/internal/highscore"
	"github.com/tomz197/asteroidfield/internal/loop"
	"github.com/tomz197/asteroidfield/internal/loop/config"
)

var (
	colorLine   = color.RGBA{220, 220, 220, 255}
	colorShip   = color.RGBA{120, 220, 255, 255}
	colorFlame  = color.RGBA{255, 160, 40, 255}
	colorBlast  = color.RGBA{255, 90, 60, 255}
	colorBullet = color.RGBA{255, 255, 120, 255}
)

type screen int

const (
	screenTitle screen = iota
	screenPlaying
	screenGameOver
)

// game adapts a loop.Session to ebiten. ebiten calls Update at the session's
// frame rate, so each Update is exactly one AdvanceFrame.
type game struct {
	session *loop.Session
	store   highscore.Store
	board   *highscore.Board
	logger  *log.Logger
	width   int
	height  int

	screen     screen
	finalScore int
	enterName  bool
	name       []rune
	savedRank  int
	saveErr    error
	explodedAt int64
	runes      []rune
}

func newGame(tuning config.Tuning, store highscore.Store, logger *log.Logger, width, height int) (*game, error) {
	board, err := highscore.LoadBoard(context.Background(), store)
	if err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}

	g := &game{
		store:     store,
		board:     board,
		logger:    logger,
		width:     width,
		height:    height,
		savedRank: -1,
	}
	g.session, err = loop.NewSession(tuning, loop.Options{
		Logger:          logger,
		OnShipDestroyed: func(float64) { g.explodedAt = g.session.Frame() },
		OnGameOver:      g.onGameOver,
	})
	if err != nil {
		return nil, err
	}
	g.session.StartAttract(float64(width), float64(height))
	return g, nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && !g.enterName {
		return ebiten.Termination
	}

	switch g.screen {
	case screenTitle:
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.session.Reset(float64(g.width), float64(g.height))
			g.session.SetPreviousHighScore(g.board.PreviousHigh())
			g.screen = screenPlaying
		}
	case screenPlaying:
		g.session.SetThrust(ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW))
		left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA)
		right := ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD)
		switch {
		case left && !right:
			g.session.Turn(1)
		case right && !left:
			g.session.Turn(-1)
		default:
			g.session.Turn(0)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.session.FireOnce()
		}
	case screenGameOver:
		g.updateGameOver()
	}

	g.session.AdvanceFrame()
	return nil
}

func (g *game) updateGameOver() {
	if !g.enterName {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.session.StartAttract(float64(g.width), float64(g.height))
			g.screen = screenTitle
		}
		return
	}

	g.runes = ebiten.AppendInputChars(g.runes[:0])
	for _, r := range g.runes {
		if len(g.name) < config.MaxUsernameLength {
			g.name = append(g.name, r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.name) > 0 {
		g.name = g.name[:len(g.name)-1]
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.saveScore(string(g.name))
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.enterName = false
	}
}

func (g *game) saveScore(name string) {
	if _, err := highscore.CleanName(name); err != nil {
		return
	}
	g.enterName = false

	entry := highscore.Entry{Name: name, Score: g.finalScore}
	if g.saveErr = g.store.Save(context.Background(), entry); g.saveErr != nil {
		g.logger.Error("saving score", "err", g.saveErr)
		return
	}
	g.savedRank, _ = g.board.Add(name, g.finalScore)
	g.logger.Info("score saved", "name", name, "score", g.finalScore, "rank", g.savedRank)
}

func (g *game) onGameOver(score int) {
	g.screen = screenGameOver
	g.finalScore = score
	g.enterName = score > 0 && g.board.Qualifies(score)
	g.name = g.name[:0]
	g.savedRank = -1
	g.saveErr = nil
}

func (g *game) Draw(screen *ebiten.Image) {
	snap := g.session.Snapshot()

	for _, a := range snap.Asteroids {
		strokePolygon(screen, a.Outline, colorLine)
	}
	if ship := snap.Ship; ship != nil {
		g.drawShip(screen, snap, ship)
	}

	switch g.screen {
	case screenTitle:
		g.drawTitle(screen)
	case screenPlaying:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", snap.Score), 10, 10)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HI %d", max(g.board.PreviousHigh(), snap.Score)), g.width/2-30, 10)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LIVES %d", snap.Lives), g.width-80, 10)
	case screenGameOver:
		g.drawGameOver(screen)
	}
}

func (g *game) drawShip(screen *ebiten.Image, snap loop.Snapshot, ship *loop.ShipView) {
	for _, p := range ship.Projectiles {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 2, colorBullet, true)
	}

	fps := g.session.Tuning().FPS
	switch snap.State {
	case loop.ShipExploding.String():
		progress := math.Min(1, float64(snap.Frame-g.explodedAt)/fps)
		vector.StrokeCircle(screen, float32(ship.X), float32(ship.Y), float32(ship.R*(0.5+progress)), 2, colorBlast, true)
		return
	case loop.ShipImmune.String():
		if int64(float64(snap.Frame)*config.PlayerBlinkFrequency*2/fps)%2 != 0 {
			return
		}
	}

	strokePolygon(screen, ship.Hull[:], colorShip)
	if ship.Thrusting {
		left, right, nose := ship.Hull[1], ship.Hull[2], ship.Hull[0]
		mx, my := (left.X+right.X)/2, (left.Y+right.Y)/2
		dx, dy := mx-nose.X, my-nose.Y
		vector.StrokeLine(screen, float32(mx), float32(my), float32(mx+dx*0.4), float32(my+dy*0.4), 2, colorFlame, true)
	}
}

func (g *game) drawTitle(screen *ebiten.Image) {
	cx := g.width/2 - 80
	y := g.height/2 - 60
	ebitenutil.DebugPrintAt(screen, "ASTEROID FIELD", cx+20, y)
	ebitenutil.DebugPrintAt(screen, "W/UP thrust  A D/LEFT RIGHT turn  SPACE fire", cx-80, y+20)
	ebitenutil.DebugPrintAt(screen, "Press SPACE to start, ESC to quit", cx-20, y+40)
	for i, e := range g.board.Entries() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d. %-16s %7d", i+1, e.Name, e.Score), cx, y+80+i*16)
	}
}

func (g *game) drawGameOver(screen *ebiten.Image) {
	cx := g.width/2 - 80
	y := g.height/2 - 40
	ebitenutil.DebugPrintAt(screen, "GAME OVER", cx+30, y)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", g.finalScore), cx+30, y+20)

	switch {
	case g.enterName:
		ebitenutil.DebugPrintAt(screen, "Top score! Name: "+string(g.name)+"_", cx, y+50)
		ebitenutil.DebugPrintAt(screen, "ENTER to save, ESC to skip", cx, y+70)
	case g.saveErr != nil:
		ebitenutil.DebugPrintAt(screen, "Could not save your score", cx, y+50)
	case g.savedRank >= 0:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Saved at rank %d", g.savedRank+1), cx, y+50)
	}
	if !g.enterName {
		ebitenutil.DebugPrintAt(screen, "Press SPACE to continue", cx, y+90)
	}
}

func (g *game) Layout(int, int) (int, int) {
	return g.width, g.height
}

func strokePolygon(screen *ebiten.Image, points []loop.Point, clr color.Color) {
	n := len(points)
	for i := 0; i < n; i++ {
		a, b := points[i], points[(i+1)%n]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, clr, true)
	}
}

package client

import (
	"bufio"
	"bytes"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/tomz197/asteroidfield/internal/highscore"
	"github.com/tomz197/asteroidfield/internal/input"
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
)

type fakeArcade struct {
	handle    *server.ClientHandle
	standings server.Standings
	submitted []highscore.Entry
	reports   []int
}

func (f *fakeArcade) RegisterClient(username string) *server.ClientHandle {
	f.handle = &server.ClientHandle{ID: 7, Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return f.handle
}

func (f *fakeArcade) UnregisterClient(int) {}

func (f *fakeArcade) ReportScore(_ int, score int, _ bool) {
	f.reports = append(f.reports, score)
}

func (f *fakeArcade) SubmitScore(_ int, name string, score int) {
	f.submitted = append(f.submitted, highscore.Entry{Name: name, Score: score})
}

func (f *fakeArcade) GetStandings() *server.Standings {
	return &f.standings
}

func newTestClient(t *testing.T, arcade *fakeArcade) (*Client, *bytes.Buffer) {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	var out bytes.Buffer
	c, err := NewClient(arcade, bufio.NewReader(pr), &out, ClientOptions{
		Username:     "ann",
		TermSizeFunc: func() (int, int, error) { return 100, 30, nil },
		Rand:         rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.session.StartAttract(c.canvas.LogicalWidth(), c.canvas.LogicalHeight())
	return c, &out
}

// parkAsteroids moves the field into a corner, clear of the ship's spawn
// point at the center.
func parkAsteroids(c *Client) {
	for _, a := range c.session.Asteroids() {
		a.SetPosition(60, 60)
	}
}

func TestNewClientSizesField(t *testing.T) {
	arcade := &fakeArcade{}
	c, _ := newTestClient(t, arcade)

	if w, h := c.canvas.LogicalWidth(), c.canvas.LogicalHeight(); w != 800 || h != 480 {
		t.Errorf("field = %vx%v, want 800x480", w, h)
	}
	if c.session.Tuning().Compact {
		t.Error("an 800px field should not be compact")
	}
	if arcade.handle == nil || arcade.handle.Username != "ann" {
		t.Error("client did not register with the arcade")
	}
}

func TestStartGameOnFire(t *testing.T) {
	arcade := &fakeArcade{standings: server.Standings{TopScores: []highscore.Entry{{Name: "x", Score: 900}}}}
	c, _ := newTestClient(t, arcade)

	c.state.Input = input.Input{Fire: 1}
	c.updateStartState()

	if c.state.GameState != GameStatePlaying {
		t.Fatalf("state = %v, want playing", c.state.GameState)
	}
	if c.session.Attract() || c.session.Ship() == nil {
		t.Fatal("session did not start a game")
	}

	// Previous high came from the hub.
	if c.session.NewHighScore() {
		t.Error("score 0 reported as a new high over 900")
	}
}

func TestPlayingAppliesControls(t *testing.T) {
	arcade := &fakeArcade{}
	c, _ := newTestClient(t, arcade)
	c.startGame()
	parkAsteroids(c)

	c.state.Input = input.Input{Up: true, Left: true}
	c.updatePlayingState()
	before := c.session.Ship().Angle
	c.session.AdvanceFrame()

	ship := c.session.Ship()
	if !ship.Thrusting {
		t.Error("ship not thrusting with up held")
	}
	if ship.Angle <= before {
		t.Errorf("angle %v did not increase turning left from %v", ship.Angle, before)
	}
	if len(arcade.reports) == 0 {
		t.Error("score never reported to the arcade")
	}
}

func TestPlayingFiresOncePerPress(t *testing.T) {
	c, _ := newTestClient(t, &fakeArcade{})
	c.startGame()
	parkAsteroids(c)

	c.state.Input = input.Input{Fire: 2}
	c.updatePlayingState()
	if got := len(c.session.Ship().Projectiles); got != 2 {
		t.Fatalf("%d projectiles for two presses, want 2", got)
	}
}

func TestGameOverNameEntry(t *testing.T) {
	arcade := &fakeArcade{}
	c, _ := newTestClient(t, arcade)
	c.startGame()

	c.onGameOver(320)
	if c.state.GameState != GameStateGameOver || !c.state.enterName {
		t.Fatalf("state = %v enterName = %v, want name entry", c.state.GameState, c.state.enterName)
	}
	if string(c.state.name) != "ann" {
		t.Fatalf("name = %q, want prefilled ann", c.state.name)
	}

	c.state.Input = input.Input{Backspaces: 1, Text: []byte("dy")}
	c.updateGameOverState()
	if string(c.state.name) != "andy" {
		t.Fatalf("name = %q, want andy", c.state.name)
	}

	c.state.Input = input.Input{Enter: true}
	c.updateGameOverState()
	if len(arcade.submitted) != 1 || arcade.submitted[0] != (highscore.Entry{Name: "andy", Score: 320}) {
		t.Fatalf("submitted = %+v", arcade.submitted)
	}
	if c.state.enterName {
		t.Error("name prompt still showing")
	}

	arcade.handle.EventsCh <- server.ClientEvent{Type: server.EventScoreSaved, Rank: 0}
	c.processServerEvents()
	if !c.state.saved || c.state.savedRank != 0 {
		t.Errorf("saved = %v rank = %d", c.state.saved, c.state.savedRank)
	}
}

func TestGameOverNameLimit(t *testing.T) {
	c, _ := newTestClient(t, &fakeArcade{})
	c.onGameOver(10)
	c.state.Input = input.Input{Text: []byte(strings.Repeat("z", 40))}
	c.updateGameOverState()
	if len(c.state.name) != config.MaxUsernameLength {
		t.Errorf("name length = %d, want %d", len(c.state.name), config.MaxUsernameLength)
	}
}

func TestGameOverWithoutTopScore(t *testing.T) {
	full := make([]highscore.Entry, config.MaxHighScores)
	for i := range full {
		full[i] = highscore.Entry{Name: "p", Score: 1000}
	}
	arcade := &fakeArcade{standings: server.Standings{TopScores: full}}
	c, _ := newTestClient(t, arcade)
	c.startGame()

	c.onGameOver(20)
	if c.state.enterName {
		t.Fatal("name prompt for a score that misses the list")
	}

	c.state.Input = input.Input{Fire: 1}
	c.updateGameOverState()
	if c.state.GameState != GameStateStart || !c.session.Attract() {
		t.Fatal("did not return to the title screen")
	}
	if len(arcade.submitted) != 0 {
		t.Error("score submitted without a name")
	}
}

func TestShutdownCountdown(t *testing.T) {
	arcade := &fakeArcade{}
	c, _ := newTestClient(t, arcade)

	arcade.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	if c.state.GameState != GameStateShutdown {
		t.Fatalf("state = %v, want shutdown", c.state.GameState)
	}

	frames := int(config.ShutdownDisplaySeconds*c.session.Tuning().FPS) + 2
	for i := 0; i < frames && c.state.Running; i++ {
		c.updateShutdownState()
	}
	if c.state.Running {
		t.Fatal("client still running after the shutdown countdown")
	}
}

func TestClosedEventsStopClient(t *testing.T) {
	arcade := &fakeArcade{}
	c, _ := newTestClient(t, arcade)
	close(arcade.handle.EventsCh)
	c.processServerEvents()
	if c.state.Running {
		t.Fatal("client kept running after the hub closed its channel")
	}
}

func TestDrawFrameWritesField(t *testing.T) {
	c, out := newTestClient(t, &fakeArcade{})
	c.startGame()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Score:") {
		t.Error("HUD missing from frame")
	}
	if !strings.ContainsAny(out.String(), "▀▄█") {
		t.Error("no field pixels rendered")
	}
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{80, 24, 80, 24, 0, 0},
		{config.MaxTermWidth + 20, config.MaxTermHeight + 10, config.MaxTermWidth, config.MaxTermHeight, 10, 5},
		{0, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		rw, rh, oc, or := clampTermSize(tt.w, tt.h)
		if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
			t.Errorf("clampTermSize(%d,%d) = %d,%d,%d,%d", tt.w, tt.h, rw, rh, oc, or)
		}
	}
}

func TestBlinkVisible(t *testing.T) {
	// 10 Hz at 60 FPS: three frames on, three off.
	want := []bool{true, true, true, false, false, false, true}
	for f, w := range want {
		if got := blinkVisible(int64(f), 60); got != w {
			t.Errorf("frame %d visible = %v, want %v", f, got, w)
		}
	}
}

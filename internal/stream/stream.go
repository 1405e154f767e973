// Package stream serves game sessions over websockets. Every connection
// gets its own session; snapshots go out and commands come in as msgpack
// binary messages.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/asteroidfield/internal/loop"
	"github.com/tomz197/asteroidfield/internal/loop/config"
	"github.com/tomz197/asteroidfield/internal/loop/server"
	"github.com/tomz197/asteroidfield/internal/physics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufSize    = 8
	cmdBufSize     = 64

	// Field size used when the client does not ask for one.
	DefaultWidth  = 1000
	DefaultHeight = 720
	maxFieldSide  = 4000
)

// Command types sent by the browser.
const (
	CmdStart  = "start"  // Begin a new game
	CmdInput  = "input"  // Held controls plus fire presses
	CmdSubmit = "submit" // Name for a finished game's score
	CmdResize = "resize" // Viewport changed
)

// Command is one inbound message.
type Command struct {
	Type   string  `msgpack:"t"`
	Thrust bool    `msgpack:"th,omitempty"`
	Turn   int     `msgpack:"tu,omitempty"` // 1 left, -1 right
	Fire   int     `msgpack:"f,omitempty"`  // Presses since the last command
	Name   string  `msgpack:"n,omitempty"`
	Width  float64 `msgpack:"w,omitempty"`
	Height float64 `msgpack:"h,omitempty"`
}

// Message types sent to the browser.
const (
	MsgState    = "state"
	MsgGameOver = "over"
	MsgSaved    = "saved"
	MsgShutdown = "shutdown"
)

// Message is one outbound message.
type Message struct {
	Type      string         `msgpack:"t"`
	State     *loop.Snapshot `msgpack:"s,omitempty"`
	Score     int            `msgpack:"sc,omitempty"`
	Qualifies bool           `msgpack:"q,omitempty"`
	Rank      int            `msgpack:"r,omitempty"`
	Error     string         `msgpack:"e,omitempty"`
}

// Options configures a Handler.
type Options struct {
	Arcade server.Arcade
	Tuning config.Tuning // config.Default() when FPS is zero
	Logger *log.Logger
	// NewRand seeds each session; nil uses a time-based seed.
	NewRand func() physics.Source
}

// Handler upgrades requests to websockets and runs one session per
// connection.
type Handler struct {
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler returns a websocket handler.
func NewHandler(opts Options) *Handler {
	if opts.Tuning.FPS == 0 {
		opts.Tuning = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts non-browser clients and same-host pages.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// ServeHTTP blocks for the life of the connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	q := r.URL.Query()
	width := fieldSide(q.Get("w"), DefaultWidth)
	height := fieldSide(q.Get("h"), DefaultHeight)
	name := q.Get("name")
	if name == "" {
		name = "web"
	}

	c := &conn{
		h:      h,
		ws:     ws,
		send:   make(chan []byte, sendBufSize),
		cmds:   make(chan Command, cmdBufSize),
		name:   name,
		width:  width,
		height: height,
		remote: r.RemoteAddr,
	}
	if err := c.run(r.Context()); err != nil {
		h.logger.Error("session ended", "remote", r.RemoteAddr, "err", err)
	}
}

func fieldSide(v string, fallback float64) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return clampSide(n, fallback)
}

func clampSide(n, fallback float64) float64 {
	if n <= 0 {
		return fallback
	}
	return min(n, maxFieldSide)
}

// ScoresHandler serves the arcade standings as JSON.
func ScoresHandler(arcade server.Arcade) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(arcade.GetStandings()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// conn is one websocket player.
type conn struct {
	h      *Handler
	ws     *websocket.Conn
	send   chan []byte
	cmds   chan Command
	name   string
	remote string

	ctx           context.Context
	width, height float64
	session       *loop.Session
	handle        *server.ClientHandle
	lastScore     int
	overScore     int
	overQualifies bool
}

func (c *conn) run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	c.ctx = ctx

	opts := loop.Options{
		Logger:     c.h.logger,
		OnGameOver: c.onGameOver,
	}
	if c.h.opts.NewRand != nil {
		opts.Rand = c.h.opts.NewRand()
	}
	session, err := loop.NewSession(c.h.opts.Tuning, opts)
	if err != nil {
		c.ws.Close()
		return err
	}
	c.session = session
	session.StartAttract(c.width, c.height)

	if arcade := c.h.opts.Arcade; arcade != nil {
		c.handle = arcade.RegisterClient(c.name)
		defer arcade.UnregisterClient(c.handle.ID)
	}
	c.h.logger.Info("web player connected", "remote", c.remote, "name", c.name)

	go c.writePump(ctx)
	go func() {
		c.readPump()
		cancel()
	}()

	err = loop.Run(ctx, session, loop.Hooks{
		BeforeFrame: c.beforeFrame,
		AfterFrame:  c.afterFrame,
	})
	c.h.logger.Info("web player disconnected", "remote", c.remote, "score", session.Score())
	return err
}

// readPump decodes commands until the connection fails.
func (c *conn) readPump() {
	defer c.ws.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.h.logger.Warn("websocket read", "remote", c.remote, "err", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		var cmd Command
		if err := msgpack.Unmarshal(raw, &cmd); err != nil {
			c.h.logger.Debug("bad command", "remote", c.remote, "err", err)
			continue
		}
		select {
		case c.cmds <- cmd:
		default:
			// Session is behind; drop rather than block the socket.
		}
	}
}

// writePump sends queued messages and keeps the connection alive.
func (c *conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) beforeFrame(s *loop.Session) error {
	for {
		select {
		case cmd := <-c.cmds:
			c.apply(s, cmd)
		default:
			return c.processServerEvents()
		}
	}
}

func (c *conn) apply(s *loop.Session, cmd Command) {
	switch cmd.Type {
	case CmdStart:
		s.Reset(c.width, c.height)
		if arcade := c.h.opts.Arcade; arcade != nil {
			s.SetPreviousHighScore(arcade.GetStandings().PreviousHigh())
		}
	case CmdInput:
		s.SetThrust(cmd.Thrust)
		s.Turn(cmd.Turn)
		for i := 0; i < min(cmd.Fire, s.Tuning().LaserMax); i++ {
			s.FireOnce()
		}
	case CmdResize:
		c.width = clampSide(cmd.Width, c.width)
		c.height = clampSide(cmd.Height, c.height)
		s.Resize(c.width, c.height)
	case CmdSubmit:
		if c.handle == nil || !c.overQualifies {
			return
		}
		c.h.opts.Arcade.SubmitScore(c.handle.ID, cmd.Name, c.overScore)
		c.overQualifies = false
	}
}

func (c *conn) processServerEvents() error {
	if c.handle == nil {
		return nil
	}
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				return loop.ErrStop
			}
			switch ev.Type {
			case server.EventScoreSaved:
				msg := Message{Type: MsgSaved, Rank: ev.Rank}
				if ev.Err != nil {
					msg.Error = ev.Err.Error()
				}
				c.queue(msg)
			case server.EventServerShutdown:
				c.queue(Message{Type: MsgShutdown})
			}
		default:
			return nil
		}
	}
}

func (c *conn) afterFrame(s *loop.Session) error {
	if c.handle != nil && s.Score() != c.lastScore {
		c.lastScore = s.Score()
		c.h.opts.Arcade.ReportScore(c.handle.ID, c.lastScore, !s.GameOver() && !s.Attract())
	}
	snap := s.Snapshot()
	data, err := c.encode(Message{Type: MsgState, State: &snap})
	if err != nil {
		return err
	}
	// Snapshots are dropped while the socket is backed up; the next one
	// replaces them anyway.
	select {
	case c.send <- data:
	default:
	}
	return nil
}

func (c *conn) onGameOver(score int) {
	c.overScore = score
	c.overQualifies = false
	if arcade := c.h.opts.Arcade; arcade != nil {
		c.overQualifies = score > 0 && arcade.GetStandings().Qualifies(score)
		arcade.ReportScore(c.handle.ID, score, false)
	}
	c.queue(Message{Type: MsgGameOver, Score: score, Qualifies: c.overQualifies})
}

func (c *conn) encode(msg Message) ([]byte, error) {
	data, err := msgpack.Marshal(&msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	return data, nil
}

// queue hands a control message to the write pump. Unlike snapshots these
// are not dropped unless the socket stays blocked for writeWait.
func (c *conn) queue(msg Message) {
	data, err := c.encode(msg)
	if err != nil {
		c.h.logger.Error("queue message", "err", err)
		return
	}
	timer := time.NewTimer(writeWait)
	defer timer.Stop()
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	case <-timer.C:
		c.h.logger.Warn("dropping message for slow client", "remote", c.remote, "type", msg.Type)
	}
}

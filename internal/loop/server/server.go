// Package server is the arcade hub shared by every terminal session: it
// tracks who is connected and their running scores, persists finished games
// and tells clients when the server is going away.
package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroidfield/internal/highscore"
	"github.com/tomz197/asteroidfield/internal/loop/config"
)

// Arcade is the interface clients use to talk to the hub.
type Arcade interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, score int, playing bool)
	SubmitScore(clientID int, name string, score int)
	GetStandings() *Standings
}

// Server is the hub. All mutable state is owned by the Run goroutine;
// other goroutines talk to it through channels and read Standings.
type Server struct {
	store     highscore.Store
	logger    *log.Logger
	board     *highscore.Board
	standings atomic.Pointer[Standings]

	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex

	registerCh   chan *ClientHandle
	unregisterCh chan int
	scoreCh      chan scoreReport
	submitCh     chan submission
}

var _ Arcade = (*Server)(nil)

// ClientHandle is a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent

	score   int
	playing bool
}

// ClientEvent is sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
	Rank int   // EventScoreSaved: 0-based rank, or -1 if it missed the list
	Err  error // EventScoreSaved: non-nil if the score could not be stored
}

// ClientEventType identifies a ClientEvent.
type ClientEventType int

const (
	EventScoreSaved ClientEventType = iota
	EventServerShutdown
)

type scoreReport struct {
	clientID int
	score    int
	playing  bool
}

type submission struct {
	clientID int
	entry    highscore.Entry
}

// Options configures a Server.
type Options struct {
	Logger *log.Logger
}

// NewServer creates a hub backed by store.
func NewServer(store highscore.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		store:        store,
		logger:       logger,
		board:        highscore.NewBoard(nil),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		scoreCh:      make(chan scoreReport, 256),
		submitCh:     make(chan submission, 16),
	}
	s.standings.Store(&Standings{})
	return s
}

// Load reads the persisted top list. Call it before Run.
func (s *Server) Load(ctx context.Context) error {
	board, err := highscore.LoadBoard(ctx, s.store)
	if err != nil {
		return err
	}
	s.board = board
	s.createStandings()
	return nil
}

// Run processes hub traffic every config.HubTickTime until ctx is done.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.HubTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s.tick(ctx)
	}
}

func (s *Server) tick(ctx context.Context) {
	s.processRegistrations()
	s.collectScores()
	s.processSubmissions(ctx)
	s.createStandings()
}

// Shutdown tells every client the server is stopping and waits for them to
// disconnect, up to timeout. Cancel Run's context after it returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a client and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client. Its events channel is closed.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore updates a client's running score. Reports are dropped when the
// hub is backed up; the next one carries the same information.
func (s *Server) ReportScore(clientID int, score int, playing bool) {
	select {
	case s.scoreCh <- scoreReport{clientID: clientID, score: score, playing: playing}:
	default:
	}
}

// SubmitScore persists a finished game. The client receives an
// EventScoreSaved once it is stored.
func (s *Server) SubmitScore(clientID int, name string, score int) {
	s.submitCh <- submission{
		clientID: clientID,
		entry:    highscore.Entry{Name: name, Score: score, At: time.Now()},
	}
}

// GetStandings returns the latest standings.
func (s *Server) GetStandings() *Standings {
	return s.standings.Load()
}

func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("player joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("player left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

func (s *Server) collectScores() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case r := <-s.scoreCh:
			if handle, ok := s.clients[r.clientID]; ok {
				handle.score = r.score
				handle.playing = r.playing
			}
		default:
			return
		}
	}
}

func (s *Server) processSubmissions(ctx context.Context) {
	for {
		select {
		case sub := <-s.submitCh:
			s.submit(ctx, sub)
		default:
			return
		}
	}
}

func (s *Server) submit(ctx context.Context, sub submission) {
	event := ClientEvent{Type: EventScoreSaved, Rank: -1}

	if err := s.store.Save(ctx, sub.entry); err != nil {
		s.logger.Error("saving score", "user", sub.entry.Name, "score", sub.entry.Score, "err", err)
		event.Err = err
	} else {
		rank, _ := s.board.Add(sub.entry.Name, sub.entry.Score)
		event.Rank = rank
		s.logger.Info("score saved", "user", sub.entry.Name, "score", sub.entry.Score, "rank", rank)
	}

	s.mu.RLock()
	handle, ok := s.clients[sub.clientID]
	s.mu.RUnlock()
	if ok {
		select {
		case handle.EventsCh <- event:
		default:
		}
	}
}

func (s *Server) createStandings() {
	s.mu.RLock()
	live := make([]LiveScore, 0, len(s.clients))
	for _, handle := range s.clients {
		live = append(live, LiveScore{
			Username: handle.Username,
			Score:    handle.score,
			Playing:  handle.playing,
			clientID: handle.ID,
		})
	}
	players := len(s.clients)
	s.mu.RUnlock()

	sortLive(live)
	s.standings.Store(&Standings{
		Players:   players,
		Live:      live,
		TopScores: s.board.Entries(),
	})
}

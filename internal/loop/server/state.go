package server

import (
	"sort"

	"github.com/tomz197/asteroidfield/internal/highscore"
)

// LiveScore is one connected player's running score.
type LiveScore struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Playing  bool   `json:"playing"`
	clientID int    // Tie-break when scores are equal
}

// Standings is an immutable view of the arcade, rebuilt every hub tick.
type Standings struct {
	Players   int               `json:"players"`
	Live      []LiveScore       `json:"live"`
	TopScores []highscore.Entry `json:"top"`
}

// PreviousHigh is the best persisted score, or 0.
func (s *Standings) PreviousHigh() int {
	if len(s.TopScores) == 0 {
		return 0
	}
	return s.TopScores[0].Score
}

// Qualifies reports whether score would enter the persisted top list.
func (s *Standings) Qualifies(score int) bool {
	return highscore.NewBoard(s.TopScores).Qualifies(score)
}

func sortLive(live []LiveScore) {
	sort.Slice(live, func(i, j int) bool {
		if live[i].Score != live[j].Score {
			return live[i].Score > live[j].Score
		}
		return live[i].clientID < live[j].clientID
	})
}

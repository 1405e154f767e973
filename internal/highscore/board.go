// Package highscore keeps the ranked list of best scores and persists it.
package highscore

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tomz197/asteroidfield/internal/loop/config"
)

// ErrEmptyName is returned when a score is submitted without a name.
var ErrEmptyName = errors.New("highscore: empty name")

// Entry is one ranked score.
type Entry struct {
	Name  string    `json:"name"`
	Score int       `json:"score"`
	At    time.Time `json:"at"`
}

// Board is the top list, sorted by score descending and never longer than
// config.MaxHighScores. Ties keep submission order.
type Board struct {
	entries []Entry
}

// NewBoard builds a board from entries in any order.
func NewBoard(entries []Entry) *Board {
	b := &Board{entries: append([]Entry(nil), entries...)}
	b.normalize()
	return b
}

// Add inserts a score and returns its 0-based rank, or -1 if it did not make
// the list. Names are trimmed and cut to config.MaxUsernameLength runes.
func (b *Board) Add(name string, score int) (int, error) {
	name, err := CleanName(name)
	if err != nil {
		return -1, err
	}

	e := Entry{Name: name, Score: score, At: time.Now()}
	b.entries = append(b.entries, e)
	b.normalize()

	for i := range b.entries {
		if b.entries[i] == e {
			return i, nil
		}
	}
	return -1, nil
}

// Qualifies reports whether score would make the list.
func (b *Board) Qualifies(score int) bool {
	if len(b.entries) < config.MaxHighScores {
		return true
	}
	return score > b.entries[len(b.entries)-1].Score
}

// PreviousHigh is the best score so far, or 0 for an empty board.
func (b *Board) PreviousHigh() int {
	if len(b.entries) == 0 {
		return 0
	}
	return b.entries[0].Score
}

// Entries returns a copy of the ranked list.
func (b *Board) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Len returns the number of ranked entries.
func (b *Board) Len() int {
	return len(b.entries)
}

func (b *Board) normalize() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	if len(b.entries) > config.MaxHighScores {
		b.entries = b.entries[:config.MaxHighScores]
	}
}

// CleanName trims a player name and cuts it to the display limit.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if r := []rune(name); len(r) > config.MaxUsernameLength {
		name = string(r[:config.MaxUsernameLength])
	}
	return name, nil
}

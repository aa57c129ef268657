// Package leaderboard keeps the best completed sessions.
package leaderboard

import (
	"errors"
	"strings"
	"time"

	"github.com/robalobadob/bigmonte/internal/session"
)

var (
	ErrInvalidID         = errors.New("leaderboard: invalid entry id")
	ErrIncompleteSession = errors.New("leaderboard: session is not complete")
	ErrNoLeader          = errors.New("leaderboard: session has no leader")
	ErrInvalidName       = errors.New("leaderboard: name must not be blank")
	ErrNotFound          = errors.New("leaderboard: entry not found")
)

// Entry is one finished session on the board.
type Entry struct {
	ID             string        `json:"id"`
	FinishedAt     time.Time     `json:"finishedAt"`
	PlayersCount   int           `json:"playersCount"`
	LeaderPlayerID string        `json:"leaderPlayerId"`
	LeaderName     string        `json:"leaderName"`
	LeaderScore    int           `json:"leaderScore"`
	DailyDate      string        `json:"dailyDate,omitempty"`
	OwnerID        string        `json:"-"`
	Session        session.State `json:"session"`
}

// NewEntry builds an entry for a completed session snapshot. A zero
// finishedAt means now.
func NewEntry(id string, snap session.State, finishedAt time.Time) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrInvalidID
	}
	for _, p := range snap.Players {
		if !p.State.Completed {
			return Entry{}, ErrIncompleteSession
		}
	}
	idx := snap.LeaderIndex()
	if idx < 0 {
		return Entry{}, ErrNoLeader
	}
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	leader := snap.Players[idx]
	return Entry{
		ID:             id,
		FinishedAt:     finishedAt.UTC().Truncate(time.Millisecond),
		PlayersCount:   len(snap.Players),
		LeaderPlayerID: leader.ID,
		LeaderName:     leader.Name,
		LeaderScore:    leader.State.Totals.Grand,
		DailyDate:      snap.DailyDate,
		OwnerID:        snap.OwnerID,
		Session:        snap,
	}, nil
}

// Package store persists game sessions between requests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/bigmonte/internal/session"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*session.Session, error)

	// ListByOwner returns up to limit sessions of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error)

	// Claim reassigns sessions from one owner to another (an anonymous
	// visitor signing in) and returns how many moved.
	Claim(ctx context.Context, from, to string) (int, error)
}

// Summary is a session row in a history listing.
type Summary struct {
	ID          string       `json:"id"`
	Mode        session.Mode `json:"mode"`
	DailyDate   string       `json:"dailyDate,omitempty"`
	Players     int          `json:"players"`
	Completed   bool         `json:"completed"`
	LeaderName  string       `json:"leaderName"`
	LeaderScore int          `json:"leaderScore"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func summarize(st session.State) Summary {
	sum := Summary{
		ID:        st.ID,
		Mode:      st.Mode,
		DailyDate: st.DailyDate,
		Players:   len(st.Players),
		Completed: st.Completed,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
	if i := st.LeaderIndex(); i >= 0 {
		sum.LeaderName = st.Players[i].Name
		sum.LeaderScore = st.Players[i].State.Totals.Grand
	}
	return sum
}

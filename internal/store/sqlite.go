// internal/store/sqlite.go
//
// SQLite implementation of the Store interface (STORE_DRIVER=sqlite).
// Each session is one row in the sessions table; the snapshot JSON is
// decoded leniently and every engine is hydrated on load, so rows written
// by older builds or edited by hand come back consistent.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/session"
)

type sqliteStore struct {
	db    *sql.DB
	rules game.Config
}

// NewSQLiteStore returns a Store backed by db. Sessions are restored with
// rules.
func NewSQLiteStore(db *sql.DB, rules game.Config) Store {
	return &sqliteStore{db: db, rules: rules}
}

func (s *sqliteStore) Save(ctx context.Context, sess *session.Session) error {
	st := sess.Snapshot()
	data, err := session.Encode(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, owner_id, mode, daily_date, completed, state_json, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id=excluded.owner_id,
			completed=excluded.completed,
			state_json=excluded.state_json,
			updated_at=excluded.updated_at`,
		st.ID, st.OwnerID, string(st.Mode), st.DailyDate, st.Completed, string(data),
		formatTime(st.CreatedAt), formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", st.ID, err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var raw, owner string
	err := s.db.QueryRowContext(ctx, `SELECT state_json, owner_id FROM sessions WHERE id=?`, id).Scan(&raw, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return s.restore(id, owner, raw)
}

func (s *sqliteStore) restore(id, owner, raw string) (*session.Session, error) {
	st, err := session.Decode([]byte(raw))
	if err != nil {
		log.Warn().Err(err).Str("sessionId", id).Msg("unreadable session row")
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	// The columns win over the blob: Claim only rewrites owner_id.
	st.ID = id
	st.OwnerID = owner
	return session.Restore(st, s.rules)
}

func (s *sqliteStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, state_json FROM sessions
		WHERE owner_id=? ORDER BY updated_at DESC LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var id, owner, raw string
		if err := rows.Scan(&id, &owner, &raw); err != nil {
			return nil, err
		}
		sess, err := s.restore(id, owner, raw)
		if err != nil {
			continue
		}
		out = append(out, summarize(sess.Snapshot()))
	}
	return out, rows.Err()
}

func (s *sqliteStore) Claim(ctx context.Context, from, to string) (int, error) {
	if from == "" || to == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET owner_id=? WHERE owner_id=?`, to, from)
	if err != nil {
		return 0, fmt.Errorf("claim sessions: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// timeLayout has a fixed width so updated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

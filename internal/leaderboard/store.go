// internal/leaderboard/store.go
//
// SQLite-backed leaderboard.
//   - Record is idempotent by entry id.
//   - The all-time board keeps the best MaxEntries entries, ordered by
//     leader score then most recent finish.
//   - Daily boards are not trimmed: their rows also record who has already
//     played on a given date.

package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/session"
)

// MaxEntries bounds the all-time board.
const MaxEntries = 50

// Store persists completed-session entries in the leaderboard_entries table.
type Store struct {
	db    *sql.DB
	rules game.Config
}

// NewStore returns a leaderboard over db. Stored sessions are restored
// with rules when read back.
func NewStore(db *sql.DB, rules game.Config) *Store { return &Store{db: db, rules: rules} }

const entryColumns = `id, finished_at, players_count, leader_player_id, leader_name,
	leader_score, daily_date, owner_id, session_json`

// Record stores e unless an entry with the same id exists, in which case
// the existing entry is returned with isNew=false.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, bool, error) {
	if strings.TrimSpace(e.ID) == "" {
		return Entry{}, false, ErrInvalidID
	}
	data, err := session.Encode(e.Session)
	if err != nil {
		return Entry{}, false, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO leaderboard_entries (`+entryColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		e.ID, e.FinishedAt.UnixMilli(), e.PlayersCount, e.LeaderPlayerID, e.LeaderName,
		e.LeaderScore, e.DailyDate, e.OwnerID, string(data),
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := s.scanEntry(tx.QueryRowContext(ctx,
			`SELECT `+entryColumns+` FROM leaderboard_entries WHERE id=?`, e.ID))
		if err != nil {
			return Entry{}, false, err
		}
		return existing, false, tx.Commit()
	}

	if e.DailyDate == "" {
		trimmed, err := tx.ExecContext(ctx, `
			DELETE FROM leaderboard_entries
			WHERE daily_date='' AND id NOT IN (
				SELECT id FROM leaderboard_entries WHERE daily_date=''
				ORDER BY leader_score DESC, finished_at DESC LIMIT ?)`, MaxEntries)
		if err != nil {
			return Entry{}, false, fmt.Errorf("trim leaderboard: %w", err)
		}
		if n, _ := trimmed.RowsAffected(); n > 0 {
			log.Debug().Int64("removed", n).Msg("leaderboard trimmed")
		}
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Top returns up to limit entries of the board for date ("" is the
// all-time board).
func (s *Store) Top(ctx context.Context, date string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM leaderboard_entries
		WHERE daily_date=?
		ORDER BY leader_score DESC, finished_at DESC
		LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := s.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	return s.scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM leaderboard_entries WHERE id=?`, id))
}

// Rename changes the leader's name on the entry and inside its stored
// session.
func (s *Store) Rename(ctx context.Context, id, name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrInvalidName
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	e.LeaderName = name
	for i := range e.Session.Players {
		if e.Session.Players[i].ID == e.LeaderPlayerID {
			e.Session.Players[i].Name = name
		}
	}
	data, err := session.Encode(e.Session)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE leaderboard_entries SET leader_name=?, session_json=? WHERE id=?`,
		name, string(data), id); err != nil {
		return Entry{}, fmt.Errorf("rename entry %s: %w", id, err)
	}
	return e, nil
}

// Clear removes the entries recorded by ownerID, or every entry when
// ownerID is empty.
func (s *Store) Clear(ctx context.Context, ownerID string) (int, error) {
	var res sql.Result
	var err error
	if ownerID == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM leaderboard_entries`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM leaderboard_entries WHERE owner_id=?`, ownerID)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// AlreadyPlayed reports whether ownerID has a finished daily game on date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM leaderboard_entries WHERE owner_id=? AND daily_date=?",
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

type scanner interface{ Scan(dest ...any) error }

func (s *Store) scanEntry(row scanner) (Entry, error) {
	var e Entry
	var finished int64
	var raw string
	err := row.Scan(&e.ID, &finished, &e.PlayersCount, &e.LeaderPlayerID, &e.LeaderName,
		&e.LeaderScore, &e.DailyDate, &e.OwnerID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	e.FinishedAt = time.UnixMilli(finished).UTC()
	e.Session = s.restoreSession(e.ID, raw)
	return e, nil
}

// restoreSession decodes and hydrates a stored session; unreadable blobs
// leave the entry without its session.
func (s *Store) restoreSession(entryID, raw string) session.State {
	st, err := session.Decode([]byte(raw))
	if err != nil {
		log.Warn().Err(err).Str("entryId", entryID).Msg("unreadable leaderboard session")
		return session.State{}
	}
	sess, err := session.Restore(st, s.rules)
	if err != nil {
		log.Warn().Err(err).Str("entryId", entryID).Msg("unrestorable leaderboard session")
		return session.State{}
	}
	return sess.Snapshot()
}

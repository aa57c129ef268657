package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bigmonte/internal/db"
	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/session"
)

func factories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": NewMemoryStore,
		"sqlite": func() Store {
			conn, err := db.OpenAndMigrate(db.MemoryDSN)
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })
			return NewSQLiteStore(conn, game.Config{})
		},
	}
}

func newSession(t *testing.T, owner string) *session.Session {
	t.Helper()
	s, err := session.New(session.Options{OwnerID: owner})
	require.NoError(t, err)
	return s
}

func TestSaveAndGet(t *testing.T) {
	for name, mk := range factories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk()

			s := newSession(t, "owner-1")
			_, err := s.Roll([]float64{4, 4, 4, 2, 2})
			require.NoError(t, err)
			require.NoError(t, st.Save(ctx, s))

			got, err := st.Get(ctx, s.ID())
			require.NoError(t, err)
			assert.Equal(t, s.ID(), got.ID())
			assert.Equal(t, "owner-1", got.OwnerID())
			assert.Equal(t, s.Snapshot().Players, got.Snapshot().Players)

			// Saving again updates the row in place.
			_, err = got.Score(game.FullHouse)
			require.NoError(t, err)
			require.NoError(t, st.Save(ctx, got))
			again, err := st.Get(ctx, s.ID())
			require.NoError(t, err)
			fh, _ := again.Snapshot().Players[0].State.Category(game.FullHouse)
			assert.True(t, fh.Scored)
			assert.Equal(t, 25, *fh.Score)

			_, err = st.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestListByOwnerAndClaim(t *testing.T) {
	for name, mk := range factories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk()

			var ids []string
			for i := 0; i < 3; i++ {
				s := newSession(t, "anon-1")
				_, err := s.Roll([]float64{1, 2, 3, 4, 5})
				require.NoError(t, err)
				require.NoError(t, st.Save(ctx, s))
				ids = append(ids, s.ID())
				time.Sleep(2 * time.Millisecond)
			}
			require.NoError(t, st.Save(ctx, newSession(t, "someone-else")))

			list, err := st.ListByOwner(ctx, "anon-1", 2)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, ids[2], list[0].ID)
			assert.Equal(t, ids[1], list[1].ID)
			assert.Equal(t, session.ModeSolo, list[0].Mode)
			assert.Equal(t, 1, list[0].Players)

			n, err := st.Claim(ctx, "anon-1", "user-1")
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			list, err = st.ListByOwner(ctx, "anon-1", 10)
			require.NoError(t, err)
			assert.Empty(t, list)

			list, err = st.ListByOwner(ctx, "user-1", 10)
			require.NoError(t, err)
			assert.Len(t, list, 3)

			got, err := st.Get(ctx, ids[0])
			require.NoError(t, err)
			assert.Equal(t, "user-1", got.OwnerID())

			n, err = st.Claim(ctx, "", "user-1")
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestSQLiteHealsCorruptedRows(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenAndMigrate(db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	st := NewSQLiteStore(conn, game.Config{})

	raw := `{"id":"ignored","mode":"solo","players":[{"id":"p1","name":"Ace",
		"state":{"dice":[6,6,6,6,6],"rollsThisRound":7,"currentRound":2,
		"categories":[{"key":"sixes","scored":true,"score":30,"scoredDice":[6,6,6,6,6],"roundScored":1}]}}]}`
	_, err = conn.Exec(`INSERT INTO sessions (id, owner_id, mode, state_json, created_at, updated_at)
		VALUES ('row-1', 'o', 'solo', ?, '', '')`, raw)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO sessions (id, owner_id, mode, state_json, created_at, updated_at)
		VALUES ('row-2', 'o', 'solo', 'not json', '', '')`)
	require.NoError(t, err)

	s, err := st.Get(ctx, "row-1")
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, "row-1", snap.ID)
	assert.Equal(t, "o", snap.OwnerID)
	p := snap.Players[0].State
	assert.Equal(t, 3, p.RollsThisRound)
	assert.Equal(t, 30, p.Totals.Upper)

	_, err = st.Get(ctx, "row-2")
	require.ErrorIs(t, err, game.ErrMalformedSnapshot)

	list, err := st.ListByOwner(ctx, "o", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "row-1", list[0].ID)
}

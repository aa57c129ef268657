// internal/session/session.go
//
// A Session groups one rules engine per player.
// Responsibilities:
//   - Create seats with default names and appearances.
//   - Route actions to the active player's engine and rotate turns in
//     pass-and-play.
//   - Roll dice through a dice.Roller when the caller supplies no values.
//   - Snapshot and restore the whole session.
//
// Notes:
//   - A Session is safe for concurrent use; every method takes the lock.

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/bigmonte/internal/daily"
	"github.com/robalobadob/bigmonte/internal/dice"
	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/names"
)

var (
	// ErrInvalidOptions is returned by New for options it cannot honour.
	ErrInvalidOptions = errors.New("session: invalid options")
	// ErrInvalidSnapshot is returned by Restore for snapshots that cannot be
	// turned back into a session.
	ErrInvalidSnapshot = errors.New("session: invalid snapshot")
	// ErrDailyDice is returned when a daily session is handed dice values
	// or asked to skip a round. Its kind is INVALID_STATE.
	ErrDailyDice = &game.Error{Kind: game.KindInvalidState, Message: "daily dice come from the daily seed"}
)

const maxNameLen = 32

type player struct {
	id         string
	name       string
	appearance Appearance
	engine     *game.Engine
}

// Session is one game at the table, solo or pass-and-play.
type Session struct {
	mu sync.Mutex

	id        string
	mode      Mode
	ownerID   string
	dailyDate string
	seed      int64
	createdAt time.Time
	updatedAt time.Time

	rules   game.Config
	roller  dice.Roller
	players []*player
	active  int
}

// New creates a session. Solo sessions always have exactly one player;
// daily sessions must be solo.
func New(opts Options) (*Session, error) {
	mode := ParseMode(string(opts.Mode))
	if opts.DailyDate != "" {
		if !daily.ValidKey(opts.DailyDate) {
			return nil, fmt.Errorf("%w: bad daily date %q", ErrInvalidOptions, opts.DailyDate)
		}
		if mode != ModeSolo {
			return nil, fmt.Errorf("%w: daily sessions are solo", ErrInvalidOptions)
		}
	}
	count := max(opts.PlayerCount, len(opts.Players))
	if mode == ModeSolo {
		count = 1
	}
	count = names.ClampPlayers(count)

	defaults := names.DefaultPlayerNames(count)
	now := time.Now().UTC()
	s := &Session{
		id:        uuid.NewString(),
		mode:      mode,
		ownerID:   opts.OwnerID,
		dailyDate: opts.DailyDate,
		seed:      opts.Seed,
		createdAt: now,
		updatedAt: now,
		rules:     opts.Rules,
		roller:    rollerFor(opts.Seed),
	}
	for i := 0; i < count; i++ {
		p := &player{
			id:         uuid.NewString(),
			name:       defaults[i],
			appearance: DefaultAppearance(),
			engine:     game.New(opts.Rules),
		}
		if i < len(opts.Players) {
			if n := cleanName(opts.Players[i].Name); n != "" {
				p.name = n
			}
			p.appearance = opts.Players[i].Appearance.normalized()
		}
		s.players = append(s.players, p)
	}
	return s, nil
}

// Restore rebuilds a session from a snapshot, hydrating every engine so a
// stale or hand-edited snapshot comes back consistent.
func Restore(st State, rules game.Config) (*Session, error) {
	if strings.TrimSpace(st.ID) == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}
	if len(st.Players) == 0 {
		return nil, fmt.Errorf("%w: no players", ErrInvalidSnapshot)
	}
	players := st.Players
	if len(players) > 4 {
		players = players[:4]
	}

	mode := st.Mode
	if mode != ModeSolo && mode != ModePassAndPlay {
		mode = ModeSolo
	}
	if len(players) > 1 {
		mode = ModePassAndPlay
	}

	s := &Session{
		id:        st.ID,
		mode:      mode,
		ownerID:   st.OwnerID,
		dailyDate: st.DailyDate,
		seed:      st.Seed,
		createdAt: st.CreatedAt,
		updatedAt: st.UpdatedAt,
		rules:     rules,
		roller:    rollerFor(st.Seed),
	}
	exclude := map[string]struct{}{}
	for _, ps := range players {
		e := game.New(rules)
		state := ps.State
		e.Hydrate(&state)
		p := &player{
			id:         ps.ID,
			name:       cleanName(ps.Name),
			appearance: ps.Appearance.normalized(),
			engine:     e,
		}
		if p.id == "" {
			p.id = uuid.NewString()
		}
		if p.name == "" {
			p.name = names.RandomName(exclude)
		}
		exclude[p.name] = struct{}{}
		s.players = append(s.players, p)
	}
	s.active = min(max(st.ActivePlayerIndex, 0), len(s.players)-1)
	return s, nil
}

func rollerFor(seed int64) dice.Roller {
	if seed != 0 {
		return dice.Seeded{Seed: seed}
	}
	return dice.Random{}
}

func cleanName(n string) string {
	n = strings.TrimSpace(n)
	if r := []rune(n); len(r) > maxNameLen {
		n = string(r[:maxNameLen])
	}
	return n
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Mode returns solo or pass-and-play.
func (s *Session) Mode() Mode { return s.mode }

// DailyDate is non-empty for daily challenge sessions.
func (s *Session) DailyDate() string { return s.dailyDate }

// OwnerID returns the user or anonymous id that owns the session.
func (s *Session) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// SetOwner transfers the session to another owner.
func (s *Session) SetOwner(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerID = id
}

// Roll rolls the unheld dice of the active player. With nil values the
// session's roller supplies them. Daily sessions only take the roller's dice.
func (s *Session) Roll(values []float64) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.players[s.active].engine
	if values != nil && s.dailyDate != "" {
		return e.State(), ErrDailyDice
	}
	if values == nil {
		st := e.State()
		rolled, err := s.roller.Roll(e.Config().DiceCount, st.CurrentRound, st.RollsThisRound+1)
		if err != nil {
			return st, err
		}
		values = dice.Floats(rolled)
	}
	st, err := e.RecordRoll(values)
	if err == nil {
		s.touch()
	}
	return st, err
}

// ToggleHold flips the hold flag of one of the active player's dice.
func (s *Session) ToggleHold(index int) (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.players[s.active].engine.ToggleHold(index)
	if err == nil {
		s.touch()
	}
	return st, err
}

// Score commits the active player's dice to key. In pass-and-play the turn
// then passes to the next player who has not finished.
func (s *Session) Score(key game.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pts, err := s.players[s.active].engine.Score(key)
	if err != nil {
		return 0, err
	}
	if s.mode == ModePassAndPlay {
		s.advanceTurn()
	}
	s.touch()
	return pts, nil
}

// Preview returns the points the active player would get for key.
func (s *Session) Preview(key game.Category, override []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[s.active].engine.Preview(key, override)
}

// StartNewRound clears the active player's dice and holds. Daily sessions
// refuse it, since it would draw the next round's seeded dice unscored.
func (s *Session) StartNewRound() (game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.players[s.active].engine
	if s.dailyDate != "" {
		return e.State(), ErrDailyDice
	}
	s.touch()
	return e.StartNewRound(), nil
}

// Reset restarts every player's game and gives the turn to the first seat.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.engine.Reset()
	}
	s.active = 0
	s.touch()
	return s.snapshotLocked()
}

// Completed reports whether every player has filled every category.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedLocked()
}

// LeaderIndex returns the seat with the highest grand total (first on ties).
func (s *Session) LeaderIndex() int {
	return s.Snapshot().LeaderIndex()
}

// Leader returns the leading player's snapshot.
func (s *Session) Leader() PlayerState {
	st := s.Snapshot()
	return st.Players[st.LeaderIndex()]
}

// Snapshot returns a detached copy of the whole session.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	out := State{
		ID:                s.id,
		Mode:              s.mode,
		OwnerID:           s.ownerID,
		DailyDate:         s.dailyDate,
		Seed:              s.seed,
		CreatedAt:         s.createdAt,
		UpdatedAt:         s.updatedAt,
		ActivePlayerIndex: s.active,
		Completed:         s.completedLocked(),
		Players:           make([]PlayerState, len(s.players)),
	}
	for i, p := range s.players {
		out.Players[i] = PlayerState{
			ID:         p.id,
			Name:       p.name,
			Appearance: p.appearance,
			State:      p.engine.State(),
		}
	}
	return out
}

func (s *Session) completedLocked() bool {
	for _, p := range s.players {
		if !p.engine.State().Completed {
			return false
		}
	}
	return len(s.players) > 0
}

func (s *Session) advanceTurn() {
	n := len(s.players)
	for step := 1; step <= n; step++ {
		next := (s.active + step) % n
		if !s.players[next].engine.State().Completed {
			s.active = next
			return
		}
	}
}

func (s *Session) touch() { s.updatedAt = time.Now().UTC() }

// internal/httpserver/routes_games.go
//
// Game session endpoints (optional auth; guests own sessions through the
// anonymous cookie):
//   - POST /games                  → create a session
//   - GET  /games/{id}             → snapshot
//   - POST /games/{id}/roll        → roll unheld dice ({values} or server dice)
//   - POST /games/{id}/hold        → toggle a hold ({index})
//   - POST /games/{id}/score       → score a category ({category})
//   - GET  /games/{id}/preview     → points a category would award
//   - POST /games/{id}/round       → next round without scoring
//   - POST /games/{id}/reset       → restart every player
//   - GET  /games/mine             → the signed-in user's sessions (auth)
//
// Finishing a session records it on the leaderboard and bumps the owner's
// stats.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/tidwall/gjson"

	"github.com/robalobadob/bigmonte/internal/game"
	"github.com/robalobadob/bigmonte/internal/leaderboard"
	"github.com/robalobadob/bigmonte/internal/session"
)

const maxBodyBytes = 64 << 10

// mountGames registers the /games routes.
func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleNewGame)
		r.With(s.requireAuth()).Get("/mine", s.handleMyGames)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Get("/preview", s.handlePreview)
			r.Post("/roll", s.handleRoll)
			r.Post("/hold", s.handleHold)
			r.Post("/score", s.handleScore)
			r.Post("/round", s.handleRound)
			r.Post("/reset", s.handleReset)
		})
	})
}

// newGameReq is the payload for POST /games.
type newGameReq struct {
	Mode        string          `json:"mode"`
	PlayerCount int             `json:"playerCount"`
	Players     []newPlayerSeat `json:"players"`
}

type newPlayerSeat struct {
	Name      string `json:"name"`
	DiceColor string `json:"diceColor"`
	HeldColor string `json:"heldColor"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	opts := session.Options{
		Mode:        session.ParseMode(req.Mode),
		PlayerCount: req.PlayerCount,
		OwnerID:     s.ownerID(w, r),
		Rules:       s.rules,
	}
	for _, p := range req.Players {
		opts.Players = append(opts.Players, session.PlayerOptions{
			Name: p.Name,
			Appearance: session.Appearance{
				DiceColor: session.Color(p.DiceColor),
				HeldColor: session.Color(p.HeldColor),
			},
		})
	}
	sess, err := session.New(opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	hlog.FromRequest(r).Info().Str("sessionId", sess.ID()).Str("mode", string(sess.Mode())).Msg("session created")
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListByOwner(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list sessions")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	key := game.Category(r.URL.Query().Get("category"))
	override, ok := parseDiceParam(r.URL.Query().Get("dice"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_dice", "dice must be comma-separated integers")
		return
	}
	pts, err := sess.Preview(key, override)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": key, "points": pts})
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body", "")
		return
	}
	values, ok := rollValues(body)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_json", "values must be an array")
		return
	}
	s.mutate(w, r, func(sess *session.Session) (any, error) {
		if _, err := sess.Roll(values); err != nil {
			return nil, err
		}
		return sess.Snapshot(), nil
	})
}

func (s *Server) handleHold(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "bad_json", "index is required")
		return
	}
	s.mutate(w, r, func(sess *session.Session) (any, error) {
		if _, err := sess.ToggleHold(*req.Index); err != nil {
			return nil, err
		}
		return sess.Snapshot(), nil
	})
}

// scoreRes is returned by POST /games/{id}/score.
type scoreRes struct {
	Points  int                `json:"points"`
	Session session.State      `json:"session"`
	Entry   *leaderboard.Entry `json:"entry,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	s.mutate(w, r, func(sess *session.Session) (any, error) {
		pts, err := sess.Score(game.Category(req.Category))
		if err != nil {
			return nil, err
		}
		res := scoreRes{Points: pts, Session: sess.Snapshot()}
		if res.Session.Completed {
			res.Entry = s.recordCompletion(r, res.Session)
		}
		return res, nil
	})
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) (any, error) {
		if _, err := sess.StartNewRound(); err != nil {
			return nil, err
		}
		return sess.Snapshot(), nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session) (any, error) {
		if sess.DailyDate() != "" {
			return nil, game.ErrInvalidState
		}
		return sess.Reset(), nil
	})
}

// mutate loads the session, checks the caller owns it, applies fn and
// saves the result.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Session) (any, error)) {
	id := chi.URLParam(r, "id")
	unlock := s.lockSession(id)
	defer unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if owner := sess.OwnerID(); owner != "" && owner != s.ownerID(w, r) {
		writeError(w, http.StatusForbidden, "forbidden", "session belongs to another player")
		return
	}
	out, err := fn(sess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("sessionId", id).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// recordCompletion puts a finished session on the leaderboard and, the
// first time, bumps the signed-in owner's stats. Failures are logged only.
func (s *Server) recordCompletion(r *http.Request, snap session.State) *leaderboard.Entry {
	logger := hlog.FromRequest(r)
	entry, err := leaderboard.NewEntry(snap.ID, snap, time.Now())
	if err != nil {
		logger.Warn().Err(err).Str("sessionId", snap.ID).Msg("leaderboard entry")
		return nil
	}
	stored, isNew, err := s.board.Record(r.Context(), entry)
	if err != nil {
		logger.Warn().Err(err).Str("sessionId", snap.ID).Msg("record leaderboard entry")
		return nil
	}
	if isNew {
		logger.Info().Str("sessionId", snap.ID).Int("score", stored.LeaderScore).Msg("session completed")
		if me := currentUser(r); me != nil && me.ID == snap.OwnerID {
			if err := s.bumpStats(r.Context(), me.ID, stored.LeaderScore); err != nil {
				logger.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	return &stored
}

// rollValues reads the optional "values" array of a roll request. A missing
// or null array means the server rolls. Entries that are not numbers become
// NaN so the engine reports them missing.
func rollValues(body []byte) ([]float64, bool) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, true
	}
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	v := gjson.GetBytes(body, "values")
	if !v.Exists() || v.Type == gjson.Null {
		return nil, true
	}
	if !v.IsArray() {
		return nil, false
	}
	arr := v.Array()
	out := make([]float64, len(arr))
	for i, x := range arr {
		switch x.Type {
		case gjson.Number:
			out[i] = x.Num
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(x.Str), 64)
			if err != nil {
				f = math.NaN()
			}
			out[i] = f
		default:
			out[i] = math.NaN()
		}
	}
	return out, true
}

// parseDiceParam parses "1,2,3,4,5"; empty means no override.
func parseDiceParam(raw string) ([]int, bool) {
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

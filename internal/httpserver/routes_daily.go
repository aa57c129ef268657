// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or resumes)
//   - GET  /daily/leaderboard → best daily scores for today (or ?date=)
//
// Everyone rolls the same dice on a given UTC date: the session seed is
// derived from the date and DAILY_SALT. Each player may finish one daily
// game per date; the game itself is played through the /games endpoints.

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/bigmonte/internal/daily"
	"github.com/robalobadob/bigmonte/internal/leaderboard"
	"github.com/robalobadob/bigmonte/internal/session"
)

const dailyBoardSize = 20

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv  *Server
	salt string
	now  func() time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, salt: s.cfg.DailySalt, now: time.Now}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// newRes is returned by /daily/new.
type newRes struct {
	GameID  string         `json:"gameId"`
	Date    string         `json:"date"`
	Played  bool           `json:"played"`
	Session *session.State `json:"session,omitempty"`
}

// handleNew creates or resumes the caller's daily session for today.
//   - Already finished today → Played=true, no session.
//   - An unfinished daily session for today → resumed.
//   - Otherwise a new seeded solo session is created.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := d.srv.ownerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	played, err := d.srv.board.AlreadyPlayed(ctx, uid, date)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily: already played")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true})
		return
	}

	if list, err := d.srv.store.ListByOwner(ctx, uid, 50); err == nil {
		for _, sum := range list {
			if sum.DailyDate == date && !sum.Completed {
				if sess, err := d.srv.store.Get(ctx, sum.ID); err == nil {
					snap := sess.Snapshot()
					writeJSON(w, http.StatusOK, newRes{GameID: sess.ID(), Date: date, Session: &snap})
					return
				}
			}
		}
	}

	sess, err := session.New(session.Options{
		Mode:      session.ModeSolo,
		OwnerID:   uid,
		DailyDate: date,
		Seed:      daily.Seed(now, d.salt),
		Rules:     d.srv.rules,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := d.srv.store.Save(ctx, sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily: save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, newRes{GameID: sess.ID(), Date: date, Session: &snap})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string              `json:"date"`
	Top  []leaderboard.Entry `json:"top"`
}

// handleLeaderboard returns the board for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	if !daily.ValidKey(date) {
		writeError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD")
		return
	}
	limit := dailyBoardSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	rows, err := d.srv.board.Top(r.Context(), date, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily: leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

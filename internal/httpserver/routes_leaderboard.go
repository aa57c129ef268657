// internal/httpserver/routes_leaderboard.go
//
// All-time leaderboard:
//   - GET    /leaderboard             → best finished sessions (?limit=)
//   - GET    /leaderboard/{id}        → one entry with its final session
//   - POST   /leaderboard/{id}/rename → rename the leader (auth, owner only)
//   - DELETE /leaderboard/mine        → remove the caller's entries (auth)

package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

func (s *Server) mountLeaderboard() {
	s.r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", s.handleTop)
		r.With(s.requireAuth()).Delete("/mine", s.handleClearMine)
		r.Get("/{id}", s.handleEntry)
		r.With(s.requireAuth()).Post("/{id}/rename", s.handleRename)
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}
	top, err := s.board.Top(r.Context(), "", limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard: top")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	topScore := 0
	if len(top) > 0 {
		topScore = top[0].LeaderScore
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": top, "topScore": topScore})
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.board.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	id := chi.URLParam(r, "id")
	e, err := s.board.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if e.OwnerID != currentUser(r).ID {
		writeError(w, http.StatusForbidden, "forbidden", "entry belongs to another player")
		return
	}
	e, err = s.board.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleClearMine(w http.ResponseWriter, r *http.Request) {
	n, err := s.board.Clear(r.Context(), currentUser(r).ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard: clear")
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

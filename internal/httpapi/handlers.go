package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atarrant/uno-session-backend/internal/hub"
	"github.com/atarrant/uno-session-backend/internal/session"
)

type createGameRequest struct {
	PlayerName string `json:"player_name"`
}

type joinGameRequest struct {
	GameID     string `json:"game_id"`
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id,omitempty"` // present on idempotent retry
}

type startGameRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type gameResponse struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// CreateGame makes a session and seats its creator as host.
func CreateGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.PlayerName) == "" {
			writeError(w, http.StatusBadRequest, "player name must not be empty")
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.CreateSession{Reply: reply}
		sess := <-reply
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "failed to create game")
			return
		}

		joinReply := make(chan session.JoinResult, 1)
		sess.Inbox() <- session.Join{Name: req.PlayerName, Reply: joinReply}
		res := <-joinReply
		if res.Err != nil {
			writeError(w, http.StatusInternalServerError, res.Err.Error())
			return
		}

		log.Info("game created", zap.String("game_id", sess.ID()), zap.String("player_id", res.ParticipantID))
		writeJSON(w, http.StatusCreated, gameResponse{GameID: sess.ID(), PlayerID: res.ParticipantID})
	}
}

// JoinGame seats a participant in an existing lobby. Re-presenting an issued
// player_id returns the same seat instead of creating a second one.
func JoinGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinGameRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.PlayerName) == "" || strings.TrimSpace(req.GameID) == "" {
			writeError(w, http.StatusBadRequest, "game id and player name must not be empty")
			return
		}

		sess := lookup(h, req.GameID)
		if sess == nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		reply := make(chan session.JoinResult, 1)
		sess.Inbox() <- session.Join{Name: req.PlayerName, ParticipantID: req.PlayerID, Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, statusFor(res.Err), res.Err.Error())
			return
		}

		log.Info("player joined", zap.String("game_id", req.GameID), zap.String("player_id", res.ParticipantID))
		writeJSON(w, http.StatusCreated, gameResponse{GameID: req.GameID, PlayerID: res.ParticipantID})
	}
}

// StartGame moves a lobby into the active game phase. Host only.
func StartGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startGameRequest
		if !decodeBody(w, r, &req) {
			return
		}

		sess := lookup(h, req.GameID)
		if sess == nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		reply := make(chan error, 1)
		sess.Inbox() <- session.Start{ParticipantID: req.PlayerID, Reply: reply}
		if err := <-reply; err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		log.Info("game started", zap.String("game_id", req.GameID))
		writeJSON(w, http.StatusOK, struct {
			Detail  string `json:"detail"`
			Started bool   `json:"started"`
		}{Detail: "game started", Started: true})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type adminGameStats struct {
	GameID        string   `json:"game_id"`
	Phase         string   `json:"phase"`
	PlayerNames   []string `json:"player_names"`
	Connections   int      `json:"connections"`
	Version       int      `json:"version"`
	DrawPileCount int      `json:"draw_pile_count"`
}

type adminStatsResponse struct {
	NumGames int              `json:"num_games"`
	Games    []adminGameStats `json:"games"`
}

// AdminStats reports every live session. Names and counts only, never hands.
func AdminStats(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []hub.SessionStats, 1)
		h.Inbox() <- hub.GetStats{Reply: reply}
		stats := <-reply

		resp := adminStatsResponse{NumGames: len(stats), Games: make([]adminGameStats, 0, len(stats))}
		for _, s := range stats {
			names := make([]string, 0, len(s.View.Participants))
			for _, p := range s.View.Participants {
				names = append(names, p.Name)
			}
			resp.Games = append(resp.Games, adminGameStats{
				GameID:        s.GameID,
				Phase:         string(s.View.Phase),
				PlayerNames:   names,
				Connections:   s.View.NumClients,
				Version:       s.View.Version,
				DrawPileCount: len(s.View.State.DrawPile),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func lookup(h *hub.Hub, id string) *session.Session {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{ID: id, Reply: reply}
	return <-reply
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrUnknownParticipant):
		return http.StatusNotFound
	case errors.Is(err, session.ErrFull), errors.Is(err, session.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, session.ErrAlreadyStarted), errors.Is(err, session.ErrNotEnoughPlayers):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

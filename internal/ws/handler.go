// Package ws binds one duplex channel per connected participant: snapshots
// out, action proposals in. The session actor owns all state; this layer only
// translates between the wire and the inbox.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/hub"
	"github.com/atarrant/uno-session-backend/internal/protocol"
	"github.com/atarrant/uno-session-backend/internal/session"
)

const (
	writeTimeout        = 3 * time.Second
	defaultOutboxBuffer = 8
)

func Handler(h *hub.Hub, log *zap.Logger, outboxBuffer int) http.HandlerFunc {
	log = log.Named("ws")
	if outboxBuffer < 1 {
		outboxBuffer = defaultOutboxBuffer
	}

	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("game_id")
		playerID := r.URL.Query().Get("player_id")
		if gameID == "" || playerID == "" {
			http.Error(w, "missing game_id or player_id", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{ID: gameID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}

		out := make(chan protocol.Snapshot, outboxBuffer)
		attachReply := make(chan error, 1)
		sess.Inbox() <- session.Attach{ParticipantID: playerID, Outbox: out, Reply: attachReply}
		if err := <-attachReply; err != nil {
			conn.Close(websocket.StatusPolicyViolation, "unknown participant")
			return
		}
		defer func() { sess.Inbox() <- session.Detach{ParticipantID: playerID, Outbox: out} }()

		log.Info("channel attached",
			zap.String("game_id", gameID), zap.String("player_id", playerID))

		// Writer: drain the outbox until the session closes it. A close
		// during shutdown gets the service-restart code so clients know not
		// to retry this address.
		writeCtx, writeCancel := context.WithCancel(context.Background())
		defer writeCancel()
		go func() {
			for snap := range out {
				payload, err := protocol.EncodeSnapshot(snap)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				writeErr := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if writeErr != nil {
					return
				}
			}
			select {
			case <-sess.Done():
				conn.Close(websocket.StatusServiceRestart, "server shutting down")
			default:
				conn.Close(websocket.StatusNormalClosure, "bye")
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or network fault; either way the participant
				// record survives, only the channel is detached.
				return
			}

			cm, err := protocol.DecodeClient(data)
			if err != nil {
				payload, _ := protocol.EncodeSnapshot(protocol.ErrorSnapshot(err))
				_ = conn.Write(r.Context(), websocket.MessageText, payload)
				continue
			}

			if cm.Type == protocol.TypeLeaveGame {
				sess.Inbox() <- session.Leave{ParticipantID: playerID}
				conn.Close(websocket.StatusNormalClosure, "left game")
				return
			}

			if cm.Type == protocol.TypeChat {
				sess.Inbox() <- session.Chat{ParticipantID: playerID, Text: cm.Message}
				continue
			}

			sess.Inbox() <- session.FromClient{
				ParticipantID: playerID,
				Cmd:           toCommand(cm, playerID),
			}
		}
	}
}

func toCommand(m protocol.ClientMessage, playerID string) game.Command {
	cmd := game.Command{Player: playerID}
	switch m.Type {
	case protocol.TypePlayCard:
		cmd.Type = game.CmdPlayCard
		cmd.Index = m.Index
		cmd.WildColour = m.WildColour
	case protocol.TypePickCard:
		cmd.Type = game.CmdPickCard
	case protocol.TypeCallUno:
		cmd.Type = game.CmdCallUno
	}
	return cmd
}

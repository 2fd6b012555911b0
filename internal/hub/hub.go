// Package hub is the session registry: it creates sessions, hands out their
// ids and routes lookups. Like a session, the hub is a single goroutine fed
// by a typed inbox.
package hub

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// CreateSession makes a new session under a fresh 6-digit id.
type CreateSession struct {
	Reply chan *session.Session
}

type GetSession struct {
	ID    string
	Reply chan *session.Session
}

type RemoveSession struct {
	ID string
}

// GetStats reflects every registered session for the admin endpoint.
type GetStats struct {
	Reply chan []SessionStats
}

type SessionStats struct {
	GameID string
	View   session.View
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (GetStats) isHubMsg()      {}
func (ShutdownHub) isHubMsg()   {}

type Options struct {
	Capacity   int
	MinPlayers int
	Rules      game.Rules
	Logger     *zap.Logger
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	opts     Options
	rng      *rand.Rand
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.Logger
}

func NewHub(parent context.Context, opts Options, rng *rand.Rand) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		opts:     opts,
		rng:      rng,
		ctx:      ctx,
		cancel:   cancel,
		log:      opts.Logger.Named("hub"),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				id := h.newID()
				sess := session.New(h.ctx, id, session.Options{
					Capacity:   h.opts.Capacity,
					MinPlayers: h.opts.MinPlayers,
					Rules:      h.opts.Rules,
					Rand:       rand.New(rand.NewSource(h.rng.Int63())),
					Logger:     h.opts.Logger,
				})
				h.sessions[id] = sess
				h.watch(id, sess)
				h.log.Info("session created", zap.String("game_id", id))
				msg.Reply <- sess

			case GetSession:
				msg.Reply <- h.sessions[msg.ID] // may be nil

			case RemoveSession:
				if sess := h.sessions[msg.ID]; sess != nil {
					select {
					case sess.Inbox() <- session.Shutdown{}:
					case <-sess.Done():
						// already stopped on its own
					}
					delete(h.sessions, msg.ID)
					h.log.Info("session removed", zap.String("game_id", msg.ID))
				}

			case GetStats:
				msg.Reply <- h.collectStats()

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// watch unregisters a session once its goroutine stops, whether the stop
// came from a RemoveSession, a shutdown, or the last participant leaving.
func (h *Hub) watch(id string, sess *session.Session) {
	go func() {
		<-sess.Done()
		select {
		case h.inbox <- RemoveSession{ID: id}:
		case <-h.ctx.Done():
		}
	}()
}

func (h *Hub) collectStats() []SessionStats {
	stats := make([]SessionStats, 0, len(h.sessions))
	for id, sess := range h.sessions {
		reply := make(chan session.View, 1)
		select {
		case sess.Inbox() <- session.GetState{Reply: reply}:
		case <-sess.Done():
			continue
		}
		select {
		case v := <-reply:
			stats = append(stats, SessionStats{GameID: id, View: v})
		case <-sess.Done():
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].GameID < stats[j].GameID })
	return stats
}

func (h *Hub) shutdown() {
	for id, sess := range h.sessions {
		select {
		case sess.Inbox() <- session.Shutdown{}:
		case <-sess.Done():
		}
		delete(h.sessions, id)
	}
	h.cancel()
}

// newID picks an unused 6-digit numeric id, the shape players type in by
// hand.
func (h *Hub) newID() string {
	for {
		id := fmt.Sprintf("%06d", 100000+h.rng.Intn(900000))
		if _, taken := h.sessions[id]; !taken {
			return id
		}
	}
}

// Package session holds the single-writer actor that owns one game session:
// its participants, its phase, and (while a game runs) its game state. All
// mutations flow through the inbox one at a time.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/protocol"
)

type Session struct {
	id      string
	inbox   chan Msg
	phase   Phase
	version int

	participants []Participant // insertion order = seat order; [0] is host
	capacity     int
	minPlayers   int
	rules        game.Rules
	state        game.State

	clients map[string]chan protocol.Snapshot
	rng     *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

type Options struct {
	Capacity   int
	MinPlayers int
	Rules      game.Rules
	Rand       *rand.Rand
	Logger     *zap.Logger
}

func New(parent context.Context, id string, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		id:           id,
		inbox:        make(chan Msg, 64),
		phase:        PhaseLobby,
		participants: []Participant{},
		capacity:     opts.Capacity,
		minPlayers:   opts.MinPlayers,
		rules:        opts.Rules,
		clients:      make(map[string]chan protocol.Snapshot),
		rng:          opts.Rand,
		ctx:          ctx,
		cancel:       cancel,
		log:          opts.Logger.Named("session").With(zap.String("game_id", id)),
	}

	go s.loop()
	return s
}

// Inbox exposes the message channel to the ws layer, the registry and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) ID() string { return s.id }

// Done is closed when the session shuts down. The ws layer uses it to tell a
// server-initiated close apart from an ordinary drop.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- s.handleJoin(msg)
			case Leave:
				if s.handleLeave(msg.ParticipantID) {
					s.shutdown()
					return
				}
			case Chat:
				s.handleChat(msg)
			case Attach:
				msg.Reply <- s.handleAttach(msg)
			case Detach:
				s.handleDetach(msg)
			case Start:
				msg.Reply <- s.handleStart(msg.ParticipantID)
			case FromClient:
				s.handleCommand(msg)
			case GetState:
				msg.Reply <- View{
					Version:      s.version,
					Phase:        s.phase,
					NumClients:   len(s.clients),
					Participants: append([]Participant(nil), s.participants...),
					State:        s.state,
				}
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleJoin(msg Join) JoinResult {
	// Retry with an issued id is a no-op; the participant already holds a
	// seat and keeps it.
	if msg.ParticipantID != "" {
		if s.find(msg.ParticipantID) >= 0 {
			return JoinResult{ParticipantID: msg.ParticipantID}
		}
	}
	if s.phase != PhaseLobby {
		return JoinResult{Err: ErrAlreadyStarted}
	}
	if len(s.participants) >= s.capacity {
		return JoinResult{Err: ErrFull}
	}

	id := uuid.NewString()
	s.participants = append(s.participants, Participant{ID: id, Name: msg.Name})
	s.log.Info("participant joined", zap.String("player_id", id), zap.String("name", msg.Name))

	s.version++
	s.broadcast()
	return JoinResult{ParticipantID: id}
}

// handleLeave reports whether the session is now empty and should stop.
func (s *Session) handleLeave(participantID string) bool {
	idx := s.find(participantID)
	if idx < 0 {
		return false
	}
	s.log.Info("participant left", zap.String("player_id", participantID))

	s.participants = append(s.participants[:idx], s.participants[idx+1:]...)
	if ch, ok := s.clients[participantID]; ok {
		close(ch)
		delete(s.clients, participantID)
	}

	if len(s.participants) == 0 {
		s.log.Info("session empty, shutting down")
		return true
	}

	if s.phase == PhaseGame {
		s.state = s.state.RemovePlayer(participantID)
		if s.state.Terminal {
			s.phase = PhaseTerminal
		}
	}

	s.version++
	s.broadcast()
	return false
}

func (s *Session) handleAttach(msg Attach) error {
	if s.find(msg.ParticipantID) < 0 {
		return ErrUnknownParticipant
	}
	// A reconnect replaces the old channel; whatever it had buffered is
	// superseded by the fresh full snapshot below.
	if old, ok := s.clients[msg.ParticipantID]; ok {
		close(old)
	}
	s.clients[msg.ParticipantID] = msg.Outbox
	s.setConnected(msg.ParticipantID, true)

	msg.Outbox <- s.renderFor(msg.ParticipantID)
	return nil
}

func (s *Session) handleDetach(msg Detach) {
	// Only detach the channel that is actually bound; a stale handler racing
	// a reconnect must not tear down the replacement.
	if current, ok := s.clients[msg.ParticipantID]; ok && current == msg.Outbox {
		close(current)
		delete(s.clients, msg.ParticipantID)
		s.setConnected(msg.ParticipantID, false)
		s.log.Info("participant disconnected", zap.String("player_id", msg.ParticipantID))
	}
}

func (s *Session) handleStart(participantID string) error {
	if s.phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	idx := s.find(participantID)
	if idx < 0 {
		return ErrUnknownParticipant
	}
	if idx != 0 {
		return ErrNotHost
	}
	if len(s.participants) < s.minPlayers {
		return ErrNotEnoughPlayers
	}

	order := make([]string, len(s.participants))
	for i, p := range s.participants {
		order[i] = p.ID
	}
	s.state = game.NewState(order, s.rules, s.rng)
	s.phase = PhaseGame
	s.log.Info("game started", zap.Int("players", len(order)))

	s.version++
	s.broadcast()
	return nil
}

func (s *Session) handleCommand(msg FromClient) {
	if s.phase != PhaseGame {
		s.replyError(msg.ParticipantID, game.ErrInvalidPhase)
		return
	}

	events, next, err := game.Apply(s.state, msg.Cmd)
	if err != nil {
		s.replyError(msg.ParticipantID, err)
		return
	}

	s.state = next
	if s.state.Terminal {
		s.phase = PhaseTerminal
	}
	for _, ev := range events {
		s.log.Debug("event", zap.String("type", string(ev.Type)), zap.String("player_id", ev.Player))
	}

	s.version++
	s.broadcast()
}

// handleChat relays a chat line to every connected participant. Chat never
// touches game state or the version counter.
func (s *Session) handleChat(msg Chat) {
	idx := s.find(msg.ParticipantID)
	if idx < 0 || msg.Text == "" {
		return
	}
	snap := protocol.Snapshot{
		Type:       protocol.TypeChat,
		GameID:     s.id,
		PlayerName: s.participants[idx].Name,
		Message:    msg.Text,
	}
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			s.drop(id)
		}
	}
}

// replyError reports a rejection to the proposing participant only.
func (s *Session) replyError(participantID string, err error) {
	ch, ok := s.clients[participantID]
	if !ok {
		return
	}
	select {
	case ch <- protocol.ErrorSnapshot(err):
	default:
		s.drop(participantID)
	}
}

// broadcast renders a fresh snapshot per participant (hands are private, so
// no two participants see the same payload) and pushes without blocking. A
// channel that cannot keep up is dropped; the participant record survives.
func (s *Session) broadcast() {
	for id, ch := range s.clients {
		select {
		case ch <- s.renderFor(id):
		default:
			s.drop(id)
		}
	}
}

func (s *Session) drop(participantID string) {
	if ch, ok := s.clients[participantID]; ok {
		close(ch)
		delete(s.clients, participantID)
		s.setConnected(participantID, false)
		s.log.Warn("dropped slow channel", zap.String("player_id", participantID))
	}
}

func (s *Session) shutdown() {
	// Cancel before closing outboxes so a writer woken by the close
	// already sees Done and reports the restart close code.
	s.cancel()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
}

func (s *Session) find(participantID string) int {
	for i, p := range s.participants {
		if p.ID == participantID {
			return i
		}
	}
	return -1
}

func (s *Session) setConnected(participantID string, connected bool) {
	if idx := s.find(participantID); idx >= 0 {
		s.participants[idx].Connected = connected
	}
}

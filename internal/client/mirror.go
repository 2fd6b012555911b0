// Package client holds the reactive mirror contract: a passive cache of the
// last snapshot a channel delivered. It proposes actions and re-derives its
// view; it never mutates the mirror optimistically and never decides legality
// beyond cosmetic hints.
package client

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/protocol"
)

// ChannelEvent is the explicit enumeration the channel lifecycle collapses
// into. Every open/close/error/message callback funnels through Dispatch.
type ChannelEventType string

const (
	EventOpen    ChannelEventType = "open"
	EventMessage ChannelEventType = "message"
	EventError   ChannelEventType = "error"
	EventClosed  ChannelEventType = "closed"
)

// CloseCodeShutdown is the channel close code meaning the server itself is
// going away. 1012 per RFC 6455 registrations (service restart).
const CloseCodeShutdown = 1012

type ChannelEvent struct {
	Type      ChannelEventType
	Payload   []byte // message events only
	CloseCode int    // closed events only
}

// Recovery tells the caller what to do after a dispatch.
type Recovery int

const (
	// RecoveryNone: keep going.
	RecoveryNone Recovery = iota
	// RecoveryReconnect: transient fault; reopen the channel with the same
	// credential and wait for the fresh full snapshot.
	RecoveryReconnect
	// RecoveryReturnToEntry: the server is shutting down; do not retry,
	// return to the entry point.
	RecoveryReturnToEntry
)

// Credential is the explicit (session, participant) pair the caller holds and
// presents on every reconnect. Nothing is read from ambient storage.
type Credential struct {
	GameID   string
	PlayerID string
}

var (
	ErrEmptyName        = errors.New("display name must not be empty")
	ErrBadGameID        = errors.New("game id must be numeric")
	ErrNoSnapshot       = errors.New("no snapshot received yet")
	ErrNoSuchCard       = errors.New("no card at that index")
	ErrNoPendingWild    = errors.New("no wild card awaiting a colour")
	ErrColourNotAllowed = errors.New("colour not in palette")
)

// ValidateJoinInput is the pre-network check: bad local input is surfaced as
// a local cue and never sent to the server.
func ValidateJoinInput(name, gameID string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if _, err := strconv.Atoi(gameID); err != nil {
		return ErrBadGameID
	}
	return nil
}

// Mirror caches exactly one snapshot and replaces it atomically. Readers
// never observe a partial update.
type Mirror struct {
	cred Credential

	mu       sync.RWMutex
	snapshot protocol.Snapshot
	received bool
	chat     []ChatLine

	pendingWild  bool
	pendingIndex int
}

// ChatLine is one relayed chat message.
type ChatLine struct {
	From string
	Text string
}

func NewMirror(cred Credential) *Mirror {
	return &Mirror{cred: cred}
}

func (m *Mirror) Credential() Credential { return m.cred }

// Dispatch consumes one channel event and reports the required recovery.
func (m *Mirror) Dispatch(ev ChannelEvent) Recovery {
	switch ev.Type {
	case EventOpen:
		// Anything buffered from a previous channel is stale; the server
		// guarantees a full snapshot on attach, so just wait for it.
		return RecoveryNone

	case EventMessage:
		snap, err := protocol.DecodeSnapshot(ev.Payload)
		if err != nil {
			return RecoveryNone
		}
		if snap.Type == protocol.TypeError {
			// Rejection of our own proposal; state is unchanged.
			return RecoveryNone
		}
		if snap.Type == protocol.TypeChat {
			// Chat is appended to the log, never swapped in as state.
			m.mu.Lock()
			m.chat = append(m.chat, ChatLine{From: snap.PlayerName, Text: snap.Message})
			m.mu.Unlock()
			return RecoveryNone
		}
		m.mu.Lock()
		m.snapshot = snap
		m.received = true
		m.pendingWild = false
		m.mu.Unlock()
		return RecoveryNone

	case EventClosed:
		if ev.CloseCode == CloseCodeShutdown {
			return RecoveryReturnToEntry
		}
		return RecoveryReconnect

	case EventError:
		return RecoveryReconnect
	}
	return RecoveryNone
}

// Phase exposes the current discriminant to the presentation layer.
func (m *Mirror) Phase() (protocol.MessageType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot.Type, m.received
}

func (m *Mirror) Snapshot() (protocol.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.received
}

// SelectCard is step one of playing a card. For a non-wild card it returns
// the single play message; for a wild it arms the colour prompt and returns
// nil, after which ChooseColour completes the play. Either way exactly one
// message crosses the wire.
func (m *Mirror) SelectCard(index int) (*protocol.ClientMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.received || m.snapshot.Type != protocol.TypeGame {
		return nil, ErrNoSnapshot
	}
	if index < 0 || index >= len(m.snapshot.PlayerHand) {
		return nil, ErrNoSuchCard
	}

	card := m.snapshot.PlayerHand[index]
	if card.Action == game.ActionWild || card.Action == game.ActionWildDrawFour {
		m.pendingWild = true
		m.pendingIndex = index
		return nil, nil
	}

	return &protocol.ClientMessage{Type: protocol.TypePlayCard, Index: index}, nil
}

// ChooseColour is step two for a wild card.
func (m *Mirror) ChooseColour(colour game.Colour) (*protocol.ClientMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pendingWild {
		return nil, ErrNoPendingWild
	}
	if !game.ValidColour(colour) {
		return nil, ErrColourNotAllowed
	}

	m.pendingWild = false
	return &protocol.ClientMessage{
		Type:       protocol.TypePlayCard,
		Index:      m.pendingIndex,
		WildColour: colour,
	}, nil
}

func (m *Mirror) PickCard() protocol.ClientMessage {
	return protocol.ClientMessage{Type: protocol.TypePickCard}
}

func (m *Mirror) CallUno() protocol.ClientMessage {
	return protocol.ClientMessage{Type: protocol.TypeCallUno}
}

func (m *Mirror) LeaveGame() protocol.ClientMessage {
	return protocol.ClientMessage{Type: protocol.TypeLeaveGame}
}

func (m *Mirror) SendChat(text string) protocol.ClientMessage {
	return protocol.ClientMessage{Type: protocol.TypeChat, Message: text}
}

// ChatLog returns a copy of the relayed chat lines in arrival order.
func (m *Mirror) ChatLog() []ChatLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ChatLine, len(m.chat))
	copy(out, m.chat)
	return out
}

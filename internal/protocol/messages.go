// Package protocol defines the JSON wire messages exchanged over a session
// channel. Field naming is snake_case throughout; the camelCase variants seen
// in older clients are treated as drift, not as a second dialect.
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/atarrant/uno-session-backend/internal/game"
)

type MessageType string

const (
	// Server -> client
	TypeLobby    MessageType = "lobby"
	TypeGame     MessageType = "game"
	TypeGameOver MessageType = "game_over"
	TypeError    MessageType = "error"

	// Client -> server
	TypePlayCard  MessageType = "play_card"
	TypePickCard  MessageType = "pick_card"
	TypeCallUno   MessageType = "call_uno"
	TypeLeaveGame MessageType = "leave_game"

	// Both directions: a client sends a chat line, the session relays it to
	// everyone with the sender's name attached.
	TypeChat MessageType = "message"
)

// HandCard is one card in the recipient's own hand. IsPlayable is a cosmetic
// hint only; the server re-validates every play.
type HandCard struct {
	Colour     game.Colour `json:"colour"`
	Action     game.Action `json:"action"`
	IsPlayable bool        `json:"is_playable"`
}

// OpponentHand exposes an opponent only as a name and a card count. Hand
// contents never cross the wire to anyone but their owner.
type OpponentHand struct {
	PlayerName string `json:"player_name"`
	Count      int    `json:"count"`
}

// Snapshot is the server -> client state message. The Type discriminant says
// which field group is populated; a Snapshot is always complete for its
// discriminant, so a reconnecting client needs no prior context.
type Snapshot struct {
	Type     MessageType `json:"type"`
	GameID   string      `json:"game_id,omitempty"`
	PlayerID string      `json:"player_id,omitempty"`

	// lobby
	IsHost      bool     `json:"is_host,omitempty"`
	PlayerNames []string `json:"player_names,omitempty"`

	// game
	Discard           *game.Card     `json:"discard,omitempty"`
	PlayerHand        []HandCard     `json:"player_hand,omitempty"`
	IsTurn            bool           `json:"is_turn,omitempty"`
	UnoCalled         bool           `json:"uno_called,omitempty"`
	CurrentPlayerName string         `json:"current_player_name,omitempty"`
	OpponentHands     []OpponentHand `json:"opponent_hands,omitempty"`
	DrawPileCount     int            `json:"draw_pile_count,omitempty"`

	// game_over
	WinnerName string         `json:"winner_name,omitempty"`
	Score      int            `json:"score,omitempty"`
	Scores     map[string]int `json:"scores,omitempty"`

	// message (chat relay)
	PlayerName string `json:"player_name,omitempty"`

	// error (sent only to the proposer, never broadcast); Message doubles as
	// the chat text for the message discriminant.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ClientMessage is the client -> server action proposal. A wild play carries
// its chosen colour in the same message; colour selection is never a second
// round trip.
type ClientMessage struct {
	Type       MessageType `json:"type"`
	Index      int         `json:"index"`
	WildColour game.Colour `json:"wild_colour,omitempty"`
	Message    string      `json:"message,omitempty"`
}

var ErrUnknownType = errors.New("unknown message type")

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	switch s.Type {
	case TypeLobby, TypeGame, TypeGameOver, TypeError, TypeChat:
		return s, nil
	default:
		return Snapshot{}, ErrUnknownType
	}
}

func EncodeClient(m ClientMessage) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeClient(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMessage{}, err
	}
	switch m.Type {
	case TypePlayCard, TypePickCard, TypeCallUno, TypeLeaveGame, TypeChat:
		return m, nil
	default:
		return ClientMessage{}, ErrUnknownType
	}
}

// ErrorSnapshot wraps a validator rejection for the proposing participant.
func ErrorSnapshot(err error) Snapshot {
	return Snapshot{Type: TypeError, Code: ErrorCode(err), Message: err.Error()}
}

// ErrorCode maps a rejection to its stable wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrIllegalCard):
		return "illegal_card"
	case errors.Is(err, game.ErrColourRequired):
		return "colour_required"
	case errors.Is(err, game.ErrIllegalCall):
		return "illegal_call"
	case errors.Is(err, game.ErrUnknownPlayer):
		return "unknown_player"
	case errors.Is(err, ErrUnknownType):
		return "bad_message"
	default:
		return "internal"
	}
}

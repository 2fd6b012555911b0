package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atarrant/uno-session-backend/internal/game"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	discard := game.Card{Colour: game.ColourRed, Action: "5"}
	cases := []struct {
		name string
		snap Snapshot
	}{
		{
			name: "lobby",
			snap: Snapshot{
				Type:        TypeLobby,
				GameID:      "123456",
				PlayerID:    "p1",
				IsHost:      true,
				PlayerNames: []string{"ana", "ben"},
			},
		},
		{
			name: "game",
			snap: Snapshot{
				Type:     TypeGame,
				GameID:   "123456",
				PlayerID: "p1",
				Discard:  &discard,
				PlayerHand: []HandCard{
					{Colour: game.ColourRed, Action: "3", IsPlayable: true},
					{Action: game.ActionWild, IsPlayable: true},
				},
				IsTurn:            true,
				UnoCalled:         true,
				CurrentPlayerName: "ana",
				OpponentHands:     []OpponentHand{{PlayerName: "ben", Count: 7}},
				DrawPileCount:     80,
			},
		},
		{
			name: "game over",
			snap: Snapshot{
				Type:       TypeGameOver,
				GameID:     "123456",
				PlayerID:   "p1",
				WinnerName: "ana",
				Score:      42,
				Scores:     map[string]int{"ana": 42, "ben": 42},
			},
		},
		{
			name: "error",
			snap: Snapshot{Type: TypeError, Code: "not_your_turn", Message: "not your turn"},
		},
		{
			name: "chat",
			snap: Snapshot{Type: TypeChat, GameID: "123456", PlayerName: "ana", Message: "uno soon"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeSnapshot(tc.snap)
			require.NoError(t, err)

			got, err := DecodeSnapshot(data)
			require.NoError(t, err)
			assert.Equal(t, tc.snap, got)
		})
	}
}

func TestClientMessage_RoundTrip(t *testing.T) {
	cases := []ClientMessage{
		{Type: TypePlayCard, Index: 3},
		{Type: TypePlayCard, Index: 0, WildColour: game.ColourGreen},
		{Type: TypePickCard},
		{Type: TypeCallUno},
		{Type: TypeLeaveGame},
		{Type: TypeChat, Message: "gg"},
	}
	for _, msg := range cases {
		t.Run(string(msg.Type), func(t *testing.T) {
			data, err := EncodeClient(msg)
			require.NoError(t, err)

			got, err := DecodeClient(data)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
}

func TestDecode_RejectsUnknownDiscriminants(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"type":"gameOver"}`))
	assert.ErrorIs(t, err, ErrUnknownType, "drifted camelCase discriminant is not accepted")

	_, err = DecodeClient([]byte(`{"type":"playCard"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeClient([]byte(`not json`))
	assert.Error(t, err)
}

func TestErrorCode_Taxonomy(t *testing.T) {
	assert.Equal(t, "invalid_phase", ErrorCode(game.ErrInvalidPhase))
	assert.Equal(t, "not_your_turn", ErrorCode(game.ErrNotYourTurn))
	assert.Equal(t, "illegal_card", ErrorCode(game.ErrIllegalCard))
	assert.Equal(t, "colour_required", ErrorCode(game.ErrColourRequired))
	assert.Equal(t, "illegal_call", ErrorCode(game.ErrIllegalCall))
	assert.Equal(t, "bad_message", ErrorCode(ErrUnknownType))
	assert.Equal(t, "internal", ErrorCode(assert.AnError))
}

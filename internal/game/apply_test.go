package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testState builds a deterministic mid-game state: three players a, b, c,
// turn on a, red 5 on the discard.
func testState() State {
	return State{
		Order: []string{"a", "b", "c"},
		Hands: map[string][]Card{
			"a": {{Colour: ColourRed, Action: "3"}, {Colour: ColourBlue, Action: "7"}, {Action: ActionWild}},
			"b": {{Colour: ColourGreen, Action: "2"}, {Colour: ColourYellow, Action: "9"}},
			"c": {{Colour: ColourRed, Action: ActionSkip}, {Colour: ColourBlue, Action: "1"}},
		},
		DrawPile:    []Card{{Colour: ColourGreen, Action: "4"}, {Colour: ColourYellow, Action: "6"}, {Colour: ColourBlue, Action: "8"}, {Colour: ColourRed, Action: "9"}, {Colour: ColourGreen, Action: "1"}},
		DiscardPile: []Card{{Colour: ColourRed, Action: "5"}},
		Direction:   1,
		UnoCalled:   map[string]bool{},
		Rules:       DefaultRules(),
		rng:         rand.New(rand.NewSource(1)),
	}
}

func TestApply_RejectsWhenNotYourTurn(t *testing.T) {
	s := testState()
	before := s.Hands["b"]

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "b", Index: 0})

	require.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, before, next.Hands["b"], "rejection must not mutate state")
	assert.Equal(t, "a", next.CurrentPlayer())
}

func TestApply_RejectsUnknownPlayer(t *testing.T) {
	s := testState()
	_, _, err := Apply(s, Command{Type: CmdPlayCard, Player: "zz", Index: 0})
	require.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestApply_PlayCardLegality(t *testing.T) {
	cases := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{
			name: "matching colour accepted",
			cmd:  Command{Type: CmdPlayCard, Player: "a", Index: 0}, // red 3 on red 5
		},
		{
			name:    "no colour or action match rejected",
			cmd:     Command{Type: CmdPlayCard, Player: "a", Index: 1}, // blue 7 on red 5
			wantErr: ErrIllegalCard,
		},
		{
			name:    "index out of range rejected",
			cmd:     Command{Type: CmdPlayCard, Player: "a", Index: 9},
			wantErr: ErrIllegalCard,
		},
		{
			name:    "wild without colour rejected",
			cmd:     Command{Type: CmdPlayCard, Player: "a", Index: 2},
			wantErr: ErrColourRequired,
		},
		{
			name:    "wild with off-palette colour rejected",
			cmd:     Command{Type: CmdPlayCard, Player: "a", Index: 2, WildColour: "pink"},
			wantErr: ErrColourRequired,
		},
		{
			name: "wild with chosen colour accepted",
			cmd:  Command{Type: CmdPlayCard, Player: "a", Index: 2, WildColour: ColourGreen},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testState()
			_, next, err := Apply(s, tc.cmd)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, s.Hands["a"], next.Hands["a"])
				return
			}
			require.NoError(t, err)
			assert.Len(t, next.Hands["a"], 2)
		})
	}
}

func TestApply_AcceptedPlayMovesCardAndTurn(t *testing.T) {
	s := testState()

	events, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 0})
	require.NoError(t, err)

	assert.Equal(t, Card{Colour: ColourRed, Action: "3"}, next.Top())
	assert.Len(t, next.Hands["a"], 2)
	assert.Equal(t, "b", next.CurrentPlayer())
	assert.True(t, containsEvent(events, EvtCardPlayed))
	assert.True(t, containsEvent(events, EvtTurnAdvanced))

	// Source state untouched.
	assert.Len(t, s.Hands["a"], 3)
	assert.Equal(t, Card{Colour: ColourRed, Action: "5"}, s.Top())
}

func TestApply_WildResolvesColourOnDiscard(t *testing.T) {
	s := testState()

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 2, WildColour: ColourBlue})
	require.NoError(t, err)
	assert.Equal(t, Card{Colour: ColourBlue, Action: ActionWild}, next.Top())
}

func TestApply_SkipJumpsOneSeat(t *testing.T) {
	s := testState()
	s.Hands["a"] = append(s.Hands["a"], Card{Colour: ColourRed, Action: ActionSkip})

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 3})
	require.NoError(t, err)
	assert.Equal(t, "c", next.CurrentPlayer())
}

func TestApply_ReverseFlipsDirection(t *testing.T) {
	s := testState()
	s.Hands["a"] = append(s.Hands["a"], Card{Colour: ColourRed, Action: ActionReverse})

	events, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 3})
	require.NoError(t, err)
	assert.Equal(t, -1, next.Direction)
	assert.Equal(t, "c", next.CurrentPlayer(), "reverse hands the turn to the previous seat")
	assert.True(t, containsEvent(events, EvtDirectionReversed))
}

func TestApply_ReverseActsAsSkipWithTwoPlayers(t *testing.T) {
	s := testState()
	s.Order = []string{"a", "b"}
	delete(s.Hands, "c")
	s.Hands["a"] = append(s.Hands["a"], Card{Colour: ColourRed, Action: ActionReverse})

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 3})
	require.NoError(t, err)
	assert.Equal(t, "a", next.CurrentPlayer())
}

func TestApply_DrawTwoFeedsAndSkipsNextSeat(t *testing.T) {
	s := testState()
	s.Hands["a"] = append(s.Hands["a"], Card{Colour: ColourRed, Action: ActionDrawTwo})

	events, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 3})
	require.NoError(t, err)
	assert.Len(t, next.Hands["b"], 4)
	assert.Equal(t, "c", next.CurrentPlayer())
	assert.True(t, containsEvent(events, EvtCardsDrawn))
}

func TestApply_WildDrawFourFeedsFour(t *testing.T) {
	s := testState()
	s.Hands["a"] = append(s.Hands["a"], Card{Action: ActionWildDrawFour})

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 3, WildColour: ColourYellow})
	require.NoError(t, err)
	assert.Len(t, next.Hands["b"], 6)
	assert.Equal(t, ColourYellow, next.Top().Colour)
	assert.Equal(t, "c", next.CurrentPlayer())
}

func TestApply_PickCardDrawsAndEndsTurn(t *testing.T) {
	s := testState()

	events, next, err := Apply(s, Command{Type: CmdPickCard, Player: "a"})
	require.NoError(t, err)
	assert.Len(t, next.Hands["a"], 4)
	assert.Equal(t, "b", next.CurrentPlayer())
	assert.True(t, containsEvent(events, EvtCardsDrawn))
}

func TestApply_PickCardRejectedOffTurn(t *testing.T) {
	s := testState()
	_, _, err := Apply(s, Command{Type: CmdPickCard, Player: "c"})
	require.ErrorIs(t, err, ErrNotYourTurn)
}

func TestApply_EmptyHandEndsGameWithScores(t *testing.T) {
	s := testState()
	s.Hands["a"] = []Card{{Colour: ColourRed, Action: "3"}}
	s.UnoCalled["a"] = true
	// b holds green 2 + yellow 9 = 11; c holds skip (20) + blue 1 = 21.

	events, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 0})
	require.NoError(t, err)

	require.True(t, next.Terminal)
	assert.Equal(t, "a", next.Winner)
	assert.Equal(t, 11, next.Scores["b"])
	assert.Equal(t, 21, next.Scores["c"])
	assert.Equal(t, 32, next.Scores["a"], "winner scores the combined total")
	assert.True(t, containsEvent(events, EvtGameCompleted))
}

func TestApply_TerminalStateRejectsEverything(t *testing.T) {
	s := testState()
	s.Terminal = true

	for _, cmd := range []Command{
		{Type: CmdPlayCard, Player: "a", Index: 0},
		{Type: CmdPickCard, Player: "a"},
		{Type: CmdCallUno, Player: "a"},
	} {
		_, _, err := Apply(s, cmd)
		require.ErrorIs(t, err, ErrInvalidPhase)
	}
}

func TestApply_PlayToUnoWithoutCallMarksVulnerable(t *testing.T) {
	s := testState()
	s.Hands["a"] = []Card{{Colour: ColourRed, Action: "3"}, {Colour: ColourRed, Action: "7"}}

	events, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "a", next.Vulnerable)
	assert.True(t, containsEvent(events, EvtUnoMissed))
}

func TestApply_CallUnoForSelfClearsVulnerability(t *testing.T) {
	s := testState()
	s.Hands["a"] = []Card{{Colour: ColourRed, Action: "7"}}
	s.Vulnerable = "a"
	s.Turn = 1 // someone else's turn; the post-play window still allows the call

	events, next, err := Apply(s, Command{Type: CmdCallUno, Player: "a"})
	require.NoError(t, err)
	assert.True(t, next.UnoCalled["a"])
	assert.Empty(t, next.Vulnerable)
	assert.True(t, containsEvent(events, EvtUnoCalled))
}

func TestApply_CallUnoCatchesVulnerablePlayer(t *testing.T) {
	s := testState()
	s.Hands["a"] = []Card{{Colour: ColourRed, Action: "7"}}
	s.Vulnerable = "a"
	s.Turn = 1

	events, next, err := Apply(s, Command{Type: CmdCallUno, Player: "b"})
	require.NoError(t, err)
	assert.Len(t, next.Hands["a"], 1+s.Rules.MissedUnoPenalty)
	assert.Empty(t, next.Vulnerable)
	assert.True(t, containsEvent(events, EvtPenaltyDrawn))
}

func TestApply_CallUnoWithFullHandRejected(t *testing.T) {
	s := testState()
	_, _, err := Apply(s, Command{Type: CmdCallUno, Player: "b"})
	require.ErrorIs(t, err, ErrIllegalCall)
}

func TestApply_VulnerabilityExpiresOnNextAction(t *testing.T) {
	s := testState()
	s.Vulnerable = "c"

	_, next, err := Apply(s, Command{Type: CmdPlayCard, Player: "a", Index: 0})
	require.NoError(t, err)
	assert.Empty(t, next.Vulnerable, "the table moved on; c can no longer be caught")
}

func TestApply_UnsupportedCommand(t *testing.T) {
	s := testState()
	_, _, err := Apply(s, Command{Type: "jump", Player: "a"})
	require.True(t, errors.Is(err, ErrUnsupportedCommand))
}

func containsEvent(events []Event, eventType EventType) bool {
	for _, ev := range events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

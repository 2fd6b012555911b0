package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/protocol"
)

func TestToCommand(t *testing.T) {
	cases := []struct {
		name string
		in   protocol.ClientMessage
		want game.Command
	}{
		{
			name: "play card carries index and colour",
			in:   protocol.ClientMessage{Type: protocol.TypePlayCard, Index: 3, WildColour: game.ColourGreen},
			want: game.Command{Type: game.CmdPlayCard, Player: "p1", Index: 3, WildColour: game.ColourGreen},
		},
		{
			name: "pick card",
			in:   protocol.ClientMessage{Type: protocol.TypePickCard},
			want: game.Command{Type: game.CmdPickCard, Player: "p1"},
		},
		{
			name: "call uno",
			in:   protocol.ClientMessage{Type: protocol.TypeCallUno},
			want: game.Command{Type: game.CmdCallUno, Player: "p1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toCommand(tc.in, "p1"))
		})
	}
}

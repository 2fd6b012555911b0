package session

import (
	"github.com/atarrant/uno-session-backend/internal/game"
	"github.com/atarrant/uno-session-backend/internal/protocol"
)

// Msg is the session inbox sum type. Everything that can touch session state
// arrives as one of these and is applied by the single session goroutine, so
// mutations form one total order per session.
type Msg interface{ isSessionMsg() }

// Join admits a participant in the lobby phase. Presenting a previously
// issued ParticipantID makes the join an idempotent retry.
type Join struct {
	Name          string
	ParticipantID string
	Reply         chan JoinResult
}

type JoinResult struct {
	ParticipantID string
	Err           error
}

// Leave removes a participant for good. This is the only destructive exit;
// a dropped connection alone never removes anyone.
type Leave struct{ ParticipantID string }

// Attach binds a live channel to a participant, replacing any prior one. The
// new channel always receives an immediate full snapshot.
type Attach struct {
	ParticipantID string
	Outbox        chan protocol.Snapshot
	Reply         chan error
}

// Detach records that a participant's channel went away. The participant
// record survives for reconnection.
type Detach struct {
	ParticipantID string
	Outbox        chan protocol.Snapshot
}

// Start moves the session from lobby to active game. Host only, and only
// with enough players.
type Start struct {
	ParticipantID string
	Reply         chan error
}

// FromClient carries an in-game action proposal. Rejections are returned to
// the proposing channel only, never broadcast.
type FromClient struct {
	ParticipantID string
	Cmd           game.Command
}

// Chat relays a free-text line to everyone in the session, in any phase.
type Chat struct {
	ParticipantID string
	Text          string
}

// GetState reflects internal state for tests without data races.
type GetState struct{ Reply chan View }

type Shutdown struct{}

func (Join) isSessionMsg()       {}
func (Leave) isSessionMsg()      {}
func (Attach) isSessionMsg()     {}
func (Detach) isSessionMsg()     {}
func (Start) isSessionMsg()      {}
func (FromClient) isSessionMsg() {}
func (Chat) isSessionMsg()       {}
func (GetState) isSessionMsg()   {}
func (Shutdown) isSessionMsg()   {}

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseGame     Phase = "active_game"
	PhaseTerminal Phase = "terminal"
)

// Participant is one seated player. Connected tracks whether a channel is
// currently bound; the record itself outlives any connection.
type Participant struct {
	ID        string
	Name      string
	Connected bool
}

// View is the test-only reflection of a session.
type View struct {
	Version      int
	Phase        Phase
	NumClients   int
	Participants []Participant
	State        game.State
}

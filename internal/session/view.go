package session

import (
	"github.com/atarrant/uno-session-backend/internal/protocol"
)

// renderFor builds the full snapshot for one participant's view of the
// session. It is always complete for the current phase; a client needs no
// prior message to make sense of it.
func (s *Session) renderFor(participantID string) protocol.Snapshot {
	switch s.phase {
	case PhaseGame:
		return s.renderGame(participantID)
	case PhaseTerminal:
		return s.renderTerminal(participantID)
	default:
		return s.renderLobby(participantID)
	}
}

func (s *Session) renderLobby(participantID string) protocol.Snapshot {
	names := make([]string, len(s.participants))
	for i, p := range s.participants {
		names[i] = p.Name
	}
	return protocol.Snapshot{
		Type:        protocol.TypeLobby,
		GameID:      s.id,
		PlayerID:    participantID,
		IsHost:      len(s.participants) > 0 && s.participants[0].ID == participantID,
		PlayerNames: names,
	}
}

func (s *Session) renderGame(participantID string) protocol.Snapshot {
	top := s.state.Top()
	isTurn := s.state.CurrentPlayer() == participantID

	hand := s.state.Hands[participantID]
	playerHand := make([]protocol.HandCard, len(hand))
	for i, c := range hand {
		playerHand[i] = protocol.HandCard{
			Colour:     c.Colour,
			Action:     c.Action,
			IsPlayable: isTurn && c.Matches(top),
		}
	}

	opponents := make([]protocol.OpponentHand, 0, len(s.participants)-1)
	for _, p := range s.participants {
		if p.ID == participantID {
			continue
		}
		opponents = append(opponents, protocol.OpponentHand{
			PlayerName: p.Name,
			Count:      s.state.HandCount(p.ID),
		})
	}

	return protocol.Snapshot{
		Type:              protocol.TypeGame,
		GameID:            s.id,
		PlayerID:          participantID,
		Discard:           &top,
		PlayerHand:        playerHand,
		IsTurn:            isTurn,
		UnoCalled:         s.state.UnoCalled[participantID],
		CurrentPlayerName: s.nameOf(s.state.CurrentPlayer()),
		OpponentHands:     opponents,
		DrawPileCount:     len(s.state.DrawPile),
	}
}

func (s *Session) renderTerminal(participantID string) protocol.Snapshot {
	scores := make(map[string]int, len(s.state.Scores))
	for id, score := range s.state.Scores {
		scores[s.nameOf(id)] = score
	}
	return protocol.Snapshot{
		Type:       protocol.TypeGameOver,
		GameID:     s.id,
		PlayerID:   participantID,
		WinnerName: s.nameOf(s.state.Winner),
		Score:      s.state.Scores[participantID],
		Scores:     scores,
	}
}

func (s *Session) nameOf(participantID string) string {
	if idx := s.find(participantID); idx >= 0 {
		return s.participants[idx].Name
	}
	return ""
}

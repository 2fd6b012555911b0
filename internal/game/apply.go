package game

type CommandType string

const (
	CmdPlayCard CommandType = "play_card"
	CmdPickCard CommandType = "pick_card"
	CmdCallUno  CommandType = "call_uno"
)

// Command is an in-game action proposal, already attributed to one player by
// the channel it arrived on.
type Command struct {
	Type       CommandType
	Player     string
	Index      int    // hand index, play_card only
	WildColour Colour // chosen colour for a wild, play_card only
}

type EventType string

const (
	EvtCardPlayed        EventType = "CardPlayed"
	EvtCardsDrawn        EventType = "CardsDrawn"
	EvtTurnAdvanced      EventType = "TurnAdvanced"
	EvtDirectionReversed EventType = "DirectionReversed"
	EvtUnoCalled         EventType = "UnoCalled"
	EvtUnoMissed         EventType = "UnoMissed"
	EvtPenaltyDrawn      EventType = "PenaltyDrawn"
	EvtGameCompleted     EventType = "GameCompleted"
)

type Event struct {
	Type   EventType
	Player string
	Card   Card
	Count  int
}

// Apply validates cmd against s and, on acceptance, returns the events and the
// next state. A rejection returns s untouched; the caller reports the error to
// the proposer only.
//
// Checks run in order: phase, turn, legality. No check mutates state; mutation
// happens on a clone only after every check has passed.
func Apply(s State, cmd Command) ([]Event, State, error) {
	if s.Terminal {
		return nil, s, ErrInvalidPhase
	}
	if _, ok := s.Hands[cmd.Player]; !ok {
		return nil, s, ErrUnknownPlayer
	}

	switch cmd.Type {
	case CmdPlayCard:
		return applyPlay(s, cmd)
	case CmdPickCard:
		return applyPick(s, cmd)
	case CmdCallUno:
		return applyCallUno(s, cmd)
	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyPlay(s State, cmd Command) ([]Event, State, error) {
	if cmd.Player != s.CurrentPlayer() {
		return nil, s, ErrNotYourTurn
	}

	hand := s.Hands[cmd.Player]
	if cmd.Index < 0 || cmd.Index >= len(hand) {
		return nil, s, ErrIllegalCard
	}
	card := hand[cmd.Index]
	if !card.Matches(s.Top()) {
		return nil, s, ErrIllegalCard
	}
	if card.IsWild() {
		if !ValidColour(cmd.WildColour) {
			return nil, s, ErrColourRequired
		}
		card.Colour = cmd.WildColour
	}

	next := s.clone()
	next.expireVulnerability(cmd.Player)

	next.Hands[cmd.Player] = append(hand[:cmd.Index:cmd.Index], hand[cmd.Index+1:]...)
	next.DiscardPile = append(next.DiscardPile, card)

	events := []Event{{Type: EvtCardPlayed, Player: cmd.Player, Card: card}}

	remaining := len(next.Hands[cmd.Player])
	if remaining == 0 {
		next.finish(cmd.Player)
		events = append(events, Event{Type: EvtGameCompleted, Player: cmd.Player})
		return events, next, nil
	}
	if remaining > next.Rules.UnoHandSize {
		next.UnoCalled[cmd.Player] = false
	} else if !next.UnoCalled[cmd.Player] {
		// Down to uno without a call: not a rejection, but catchable until
		// the table's next action lands.
		next.Vulnerable = cmd.Player
		events = append(events, Event{Type: EvtUnoMissed, Player: cmd.Player})
	}

	seats := 1
	switch card.Action {
	case ActionReverse:
		next.Direction = -next.Direction
		events = append(events, Event{Type: EvtDirectionReversed})
		if len(next.Order) == 2 {
			// Reverse in a two-player game acts as a skip.
			seats = 2
		}
	case ActionSkip:
		seats = 2
	case ActionDrawTwo:
		victim := next.peek(1)
		n := next.drawN(victim, 2)
		events = append(events, Event{Type: EvtCardsDrawn, Player: victim, Count: n})
		seats = 2
	case ActionWildDrawFour:
		victim := next.peek(1)
		n := next.drawN(victim, 4)
		events = append(events, Event{Type: EvtCardsDrawn, Player: victim, Count: n})
		seats = 2
	}

	next.advance(seats)
	events = append(events, Event{Type: EvtTurnAdvanced, Player: next.CurrentPlayer()})
	return events, next, nil
}

func applyPick(s State, cmd Command) ([]Event, State, error) {
	if cmd.Player != s.CurrentPlayer() {
		return nil, s, ErrNotYourTurn
	}

	next := s.clone()
	next.Vulnerable = ""

	n := next.drawN(cmd.Player, next.Rules.DrawCount)
	if len(next.Hands[cmd.Player]) > next.Rules.UnoHandSize {
		next.UnoCalled[cmd.Player] = false
	}
	next.advance(1)

	events := []Event{
		{Type: EvtCardsDrawn, Player: cmd.Player, Count: n},
		{Type: EvtTurnAdvanced, Player: next.CurrentPlayer()},
	}
	return events, next, nil
}

func applyCallUno(s State, cmd Command) ([]Event, State, error) {
	// Calling for yourself: legal on your own turn, or in the window right
	// after the play that brought you to the threshold.
	if len(s.Hands[cmd.Player]) <= s.Rules.UnoHandSize &&
		(cmd.Player == s.CurrentPlayer() || s.Vulnerable == cmd.Player) {
		next := s.clone()
		next.UnoCalled[cmd.Player] = true
		if next.Vulnerable == cmd.Player {
			next.Vulnerable = ""
		}
		return []Event{{Type: EvtUnoCalled, Player: cmd.Player}}, next, nil
	}

	// Calling someone else out: lands only while they are catchable.
	if s.Vulnerable != "" && s.Vulnerable != cmd.Player {
		next := s.clone()
		victim := next.Vulnerable
		next.Vulnerable = ""
		n := next.drawN(victim, next.Rules.MissedUnoPenalty)
		next.UnoCalled[victim] = false
		events := []Event{
			{Type: EvtUnoCalled, Player: cmd.Player},
			{Type: EvtPenaltyDrawn, Player: victim, Count: n},
		}
		return events, next, nil
	}

	return nil, s, ErrIllegalCall
}

// peek returns the player the given number of seats ahead of the turn pointer
// in the current direction, without moving it.
func (s *State) peek(seats int) string {
	n := len(s.Order)
	return s.Order[((s.Turn+seats*s.Direction)%n+n)%n]
}

// expireVulnerability closes the missed-call window: once the table moves on,
// the player who forgot to call can no longer be caught. The actor's own
// window is left open so their play can re-arm it.
func (s *State) expireVulnerability(actor string) {
	if s.Vulnerable != "" && s.Vulnerable != actor {
		s.Vulnerable = ""
	}
}

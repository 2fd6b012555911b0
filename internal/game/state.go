package game

import "math/rand"

// Rules are the configurable knobs of a match. The uno threshold and penalty
// are deliberately rules rather than constants; observed deployments differ
// on both.
type Rules struct {
	HandSize         int // cards dealt to each player at start
	DrawCount        int // cards taken by a pick_card action
	UnoHandSize      int // hand size at or below which uno must be called
	MissedUnoPenalty int // cards drawn by a player caught without a call
}

func DefaultRules() Rules {
	return Rules{
		HandSize:         7,
		DrawCount:        1,
		UnoHandSize:      1,
		MissedUnoPenalty: 2,
	}
}

// State is one match in progress. It is owned by a single session goroutine
// and only ever replaced wholesale by Apply; hand contents leave this package
// only through the owning player's snapshot.
type State struct {
	Order       []string // seat order, player ids
	Hands       map[string][]Card
	DrawPile    []Card
	DiscardPile []Card // last element is the discard top
	Turn        int    // index into Order
	Direction   int    // +1 clockwise, -1 anti-clockwise
	UnoCalled   map[string]bool
	Vulnerable  string // player id catchable by a call_uno, "" when none
	Terminal    bool
	Winner      string
	Scores      map[string]int
	Rules       Rules

	rng *rand.Rand
}

// NewState deals a fresh match for the given seat order. The starting discard
// is redrawn until it is a number card and the first turn is random, matching
// the house convention.
func NewState(order []string, rules Rules, rng *rand.Rand) State {
	s := State{
		Order:     append([]string(nil), order...),
		Hands:     make(map[string][]Card, len(order)),
		Direction: 1,
		UnoCalled: make(map[string]bool, len(order)),
		Rules:     rules,
		rng:       rng,
	}

	deck := newDeck()
	shuffle(deck, rng)
	s.DrawPile = deck

	for _, id := range order {
		hand := make([]Card, 0, rules.HandSize)
		for i := 0; i < rules.HandSize; i++ {
			card, _ := s.drawOne()
			hand = append(hand, card)
		}
		s.Hands[id] = hand
	}

	for {
		start, _ := s.drawOne()
		s.DiscardPile = append(s.DiscardPile, start)
		if start.IsNumber() {
			break
		}
	}

	s.Turn = rng.Intn(len(order))
	return s
}

// Top returns the discard top. Only valid once a match has been dealt.
func (s State) Top() Card {
	return s.DiscardPile[len(s.DiscardPile)-1]
}

func (s State) CurrentPlayer() string {
	return s.Order[s.Turn]
}

func (s State) HandCount(player string) int {
	return len(s.Hands[player])
}

// clone deep-copies everything Apply may mutate so a rejected command can
// never leave a partial write behind.
func (s State) clone() State {
	next := s
	next.Order = append([]string(nil), s.Order...)
	next.DrawPile = append([]Card(nil), s.DrawPile...)
	next.DiscardPile = append([]Card(nil), s.DiscardPile...)
	next.Hands = make(map[string][]Card, len(s.Hands))
	for id, hand := range s.Hands {
		next.Hands[id] = append([]Card(nil), hand...)
	}
	next.UnoCalled = make(map[string]bool, len(s.UnoCalled))
	for id, called := range s.UnoCalled {
		next.UnoCalled[id] = called
	}
	if s.Scores != nil {
		next.Scores = make(map[string]int, len(s.Scores))
		for id, score := range s.Scores {
			next.Scores[id] = score
		}
	}
	return next
}

// RemovePlayer takes a player out of a running match: their hand goes to the
// bottom of the draw pile (wilds reset to colourless) and the turn pointer is
// kept on a live seat. With one seat left the match ends in that player's
// favour.
func (s State) RemovePlayer(id string) State {
	next := s.clone()
	idx := -1
	for i, pid := range next.Order {
		if pid == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return next
	}

	hand := next.Hands[id]
	for i := range hand {
		if hand[i].IsWild() {
			hand[i].Colour = ColourNone
		}
	}
	next.DrawPile = append(next.DrawPile, hand...)
	delete(next.Hands, id)
	delete(next.UnoCalled, id)
	if next.Vulnerable == id {
		next.Vulnerable = ""
	}

	next.Order = append(next.Order[:idx], next.Order[idx+1:]...)
	if idx < next.Turn {
		next.Turn--
	}
	if len(next.Order) > 0 && next.Turn >= len(next.Order) {
		next.Turn = 0
	}

	if !next.Terminal && len(next.Order) == 1 {
		next.finish(next.Order[0])
	}
	return next
}

// advance moves the turn pointer the given number of seats in the current
// direction.
func (s *State) advance(seats int) {
	n := len(s.Order)
	s.Turn = ((s.Turn+seats*s.Direction)%n + n) % n
}

// finish computes the terminal score mapping: every non-winner scores what is
// left in their own hand, the winner scores the combined total.
func (s *State) finish(winner string) {
	s.Terminal = true
	s.Winner = winner
	s.Scores = make(map[string]int, len(s.Order))
	total := 0
	for _, id := range s.Order {
		if id == winner {
			continue
		}
		v := HandValue(s.Hands[id])
		s.Scores[id] = v
		total += v
	}
	s.Scores[winner] = total
}

package game

import "math/rand"

// newDeck builds the full 108-card deck, unshuffled. Per colour: one 0, two
// each of 1-9, two skip, two reverse, two draw_two. Four of each wild.
func newDeck() []Card {
	cards := make([]Card, 0, 108)
	for _, colour := range Palette {
		cards = append(cards, Card{Colour: colour, Action: "0"})
		for n := '1'; n <= '9'; n++ {
			cards = append(cards,
				Card{Colour: colour, Action: Action(n)},
				Card{Colour: colour, Action: Action(n)})
		}
		for _, a := range []Action{ActionSkip, ActionReverse, ActionDrawTwo} {
			cards = append(cards,
				Card{Colour: colour, Action: a},
				Card{Colour: colour, Action: a})
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			Card{Action: ActionWild},
			Card{Action: ActionWildDrawFour})
	}
	return cards
}

func shuffle(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// drawOne pops the next card from the draw pile, folding the discard pile
// (minus its top card) back in when the pile runs dry. The second return is
// false only when every card is held in hands, in which case the draw is
// simply skipped.
func (s *State) drawOne() (Card, bool) {
	if len(s.DrawPile) == 0 && len(s.DiscardPile) > 1 {
		top := s.DiscardPile[len(s.DiscardPile)-1]
		s.DrawPile = append(s.DrawPile, s.DiscardPile[:len(s.DiscardPile)-1]...)
		s.DiscardPile = []Card{top}
		for i := range s.DrawPile {
			if s.DrawPile[i].IsWild() {
				s.DrawPile[i].Colour = ColourNone
			}
		}
		shuffle(s.DrawPile, s.rng)
	}
	if len(s.DrawPile) == 0 {
		return Card{}, false
	}
	card := s.DrawPile[0]
	s.DrawPile = s.DrawPile[1:]
	return card, true
}

func (s *State) drawN(player string, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		card, ok := s.drawOne()
		if !ok {
			break
		}
		s.Hands[player] = append(s.Hands[player], card)
		drawn++
	}
	return drawn
}

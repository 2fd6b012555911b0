package game

// Colour is one of the four deck colours. Wild cards carry ColourNone until
// the acting player resolves them.
type Colour string

const (
	ColourRed    Colour = "red"
	ColourYellow Colour = "yellow"
	ColourGreen  Colour = "green"
	ColourBlue   Colour = "blue"
	ColourNone   Colour = ""
)

// Palette is the set of colours a wild card may be resolved to.
var Palette = []Colour{ColourRed, ColourYellow, ColourGreen, ColourBlue}

func ValidColour(c Colour) bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Action is the face token of a card: a numeral "0".."9" or a named special.
type Action string

const (
	ActionSkip         Action = "skip"
	ActionReverse      Action = "reverse"
	ActionDrawTwo      Action = "draw_two"
	ActionWild         Action = "wild"
	ActionWildDrawFour Action = "wild_draw_four"
)

type Card struct {
	Colour Colour `json:"colour"`
	Action Action `json:"action"`
}

func (c Card) IsWild() bool {
	return c.Action == ActionWild || c.Action == ActionWildDrawFour
}

func (c Card) IsNumber() bool {
	return len(c.Action) == 1 && c.Action[0] >= '0' && c.Action[0] <= '9'
}

// Matches reports whether c may be played onto top. Wilds match anything;
// otherwise colour or action must line up.
func (c Card) Matches(top Card) bool {
	if c.IsWild() {
		return true
	}
	return c.Colour == top.Colour || c.Action == top.Action
}

// Value is the card's score weight when it is left in a losing hand.
func (c Card) Value() int {
	switch c.Action {
	case ActionWild, ActionWildDrawFour:
		return 50
	case ActionSkip, ActionReverse, ActionDrawTwo:
		return 20
	default:
		return int(c.Action[0] - '0')
	}
}

// HandValue sums the score weights of a hand.
func HandValue(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += c.Value()
	}
	return total
}

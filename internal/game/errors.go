package game

import "errors"

var (
	ErrInvalidPhase       = errors.New("action not valid in current phase")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrIllegalCard        = errors.New("card cannot be played")
	ErrColourRequired     = errors.New("wild card requires a chosen colour")
	ErrIllegalCall        = errors.New("uno call not available")
	ErrUnknownPlayer      = errors.New("player not in game")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

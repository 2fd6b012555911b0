package session

import "errors"

var (
	ErrNotFound           = errors.New("session not found")
	ErrFull               = errors.New("session is full")
	ErrAlreadyStarted     = errors.New("session has already started")
	ErrNotHost            = errors.New("only the host can start the session")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrUnknownParticipant = errors.New("participant not in session")
)

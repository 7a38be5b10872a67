package apperror

import "errors"

var (
	ErrMissingPlayerID   = errors.New("player id is required")
	ErrMissingFields     = errors.New("missing game id or name")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameFull          = errors.New("game is full")
	ErrNotInGame         = errors.New("player is not part of this game")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrRoundNotFinished  = errors.New("round is not finished yet")
	ErrUnknownAction     = errors.New("unknown action")
	ErrMalformedMessage  = errors.New("malformed message")

	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
)

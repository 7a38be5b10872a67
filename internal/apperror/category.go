package apperror

import "errors"

// Kind tells the transport how a rejected action is reported to the caller.
type Kind int

const (
	// KindInternal is any fault that is not a known rejection.
	KindInternal Kind = iota
	// KindProtocol covers structural rejections: missing fields, unknown game, full game.
	KindProtocol
	// KindSoft covers illegal moves the client can recover from.
	KindSoft
)

var softErrors = []error{
	ErrNotYourTurn,
	ErrCellOccupied,
	ErrGameIsNotStarted,
	ErrGameFinished,
}

var messages = []struct {
	err  error
	text string
}{
	{ErrMissingPlayerID, "Missing playerId"},
	{ErrMissingFields, "Missing gameId or name"},
	{ErrGameNotFound, "Game not found"},
	{ErrGameAlreadyExists, "Game already exists"},
	{ErrGameFull, "Game full"},
	{ErrNotInGame, "You are not part of this game"},
	{ErrInvalidCell, "Invalid move index"},
	{ErrRoundNotFinished, "Round not finished yet"},
	{ErrUnknownAction, "Unknown action"},
	{ErrMalformedMessage, "Malformed message"},
	{ErrNotYourTurn, "Not your turn"},
	{ErrCellOccupied, "Cell already occupied"},
	{ErrGameIsNotStarted, "Game is not in progress"},
	{ErrGameFinished, "Game is not in progress"},
}

// Category classifies err. Unknown errors are internal.
func Category(err error) Kind {
	for _, soft := range softErrors {
		if errors.Is(err, soft) {
			return KindSoft
		}
	}

	for _, m := range messages {
		if errors.Is(err, m.err) {
			return KindProtocol
		}
	}

	return KindInternal
}

// Message returns the client facing text for a known error, or fallback otherwise.
func Message(err error, fallback string) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}

	return fallback
}

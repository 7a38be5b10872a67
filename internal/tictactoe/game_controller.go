package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// WinCombos is the fixed evaluation order: rows top to bottom, columns left to right,
// then the main diagonal and the anti-diagonal. The first uniform line decides the result.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// NewGame returns an empty game waiting for its first player.
func NewGame() *entity.Game {
	return &entity.Game{
		CurrentPlayer: entity.PlayerX,
		Status:        entity.StatusWaiting,
		Round:         1,
	}
}

// EvaluateBoard returns the mark of the first uniform line, ResultDraw for a full board
// without one, and ResultNone otherwise.
func EvaluateBoard(board entity.Board) entity.Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Result(a)
		}
	}

	for _, cell := range board {
		if cell == entity.EmptyCell {
			return entity.ResultNone
		}
	}

	return entity.ResultDraw
}

// ResetRound clears the board for the next round. Seats, scores and creator are kept.
func ResetRound(game *entity.Game) {
	game.Board = entity.Board{}
	game.CurrentPlayer = entity.PlayerX
	game.Status = entity.StatusPlaying
	game.Winner = entity.ResultNone
	game.Round++
}

// TakeSeat puts the player into the first open seat and starts the game once both seats are taken.
func TakeSeat(game *entity.Game, playerID, name string) (entity.Mark, error) {
	mark, ok := game.OpenSeat()
	if !ok {
		return entity.EmptyCell, apperror.ErrGameFull
	}

	seat := game.Seat(mark)
	seat.ID = playerID
	seat.Name = name

	if game.IsFull() {
		game.Status = entity.StatusPlaying
	}

	return mark, nil
}

// MakeTurn places player's mark on cell, passes the turn and settles the round if it is over.
func MakeTurn(game *entity.Game, player entity.Mark, cell int) error {
	if err := validateMove(game, player, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = player
	game.CurrentPlayer = player.Opponent()

	updateGameStatus(game)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, player entity.Mark, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	switch {
	case game.IsFinished():
		return apperror.ErrGameFinished
	case !game.IsPlaying():
		return apperror.ErrGameIsNotStarted
	}

	if game.CurrentPlayer != player {
		return apperror.ErrNotYourTurn
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - finishes the round and counts the score when the board is decided.
func updateGameStatus(game *entity.Game) {
	result := EvaluateBoard(game.Board)

	switch result {
	case entity.ResultX:
		game.Scores.X++
	case entity.ResultO:
		game.Scores.O++
	case entity.ResultDraw:
		game.Scores.Draws++
	default:
		return
	}

	game.Winner = result
	game.Status = entity.StatusFinished
}

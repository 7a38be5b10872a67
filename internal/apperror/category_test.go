package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	t.Run("Illegal moves are soft", func(t *testing.T) {
		// Given: errors describing an illegal move, some of them wrapped
		errs := []error{
			ErrNotYourTurn,
			fmt.Errorf("invalid turn: %w", ErrCellOccupied),
			ErrGameIsNotStarted,
			ErrGameFinished,
		}

		// Then: every one of them is reported as soft
		for _, err := range errs {
			assert.Equal(t, KindSoft, Category(err), err.Error())
		}
	})

	t.Run("Structural rejections are protocol errors", func(t *testing.T) {
		// Given: a wrapped not found error
		err := fmt.Errorf("failed to get game: %w", ErrGameNotFound)

		// Then: it is reported as a protocol error
		assert.Equal(t, KindProtocol, Category(err))
		assert.Equal(t, KindProtocol, Category(ErrGameFull))
		assert.Equal(t, KindProtocol, Category(ErrInvalidCell))
	})

	t.Run("Unknown errors are internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, Category(errors.New("boom")))
	})
}

func TestMessage(t *testing.T) {
	t.Run("Known error maps to client text", func(t *testing.T) {
		// When: a wrapped sentinel is translated
		text := Message(fmt.Errorf("join: %w", ErrGameFull), "Error joining game")

		// Then: the client facing text is returned
		assert.Equal(t, "Game full", text)
	})

	t.Run("Unknown error falls back", func(t *testing.T) {
		text := Message(errors.New("boom"), "Error joining game")

		assert.Equal(t, "Error joining game", text)
	})
}

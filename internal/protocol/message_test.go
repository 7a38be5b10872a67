package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

func TestDecodeInbound(t *testing.T) {
	t.Run("Create game carries the name", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"create game","data":{"name":"Alice"}}`))

		require.NoError(t, err)
		assert.Equal(t, CreateGame{Name: "Alice"}, msg)
	})

	t.Run("Join game carries the name", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"join game","data":{"name":"Bob"}}`))

		require.NoError(t, err)
		assert.Equal(t, JoinGame{Name: "Bob"}, msg)
	})

	t.Run("Make move carries the index", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"make move","data":{"index":0}}`))

		require.NoError(t, err)
		assert.Equal(t, MakeMove{Index: 0}, msg)
	})

	t.Run("Make move without index is out of range", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"make move","data":{}}`))

		require.NoError(t, err)
		assert.Equal(t, MakeMove{Index: -1}, msg)
	})

	t.Run("Actions without payload accept a missing or null data", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"type":"restart round"}`))
		require.NoError(t, err)
		assert.Equal(t, RestartRound{}, msg)

		msg, err = DecodeInbound([]byte(`{"type":"offer rematch","data":null}`))
		require.NoError(t, err)
		assert.Equal(t, OfferRematch{}, msg)

		msg, err = DecodeInbound([]byte(`{"type":"restart game","data":{}}`))
		require.NoError(t, err)
		assert.Equal(t, RestartGame{}, msg)
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"type":"surrender","data":{}}`))

		require.ErrorIs(t, err, apperror.ErrUnknownAction)
		assert.Contains(t, err.Error(), "surrender")
	})

	t.Run("Broken JSON is malformed", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"type":`))

		require.ErrorIs(t, err, apperror.ErrMalformedMessage)
	})

	t.Run("Wrongly typed payload is malformed", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"type":"make move","data":{"index":"four"}}`))

		require.ErrorIs(t, err, apperror.ErrMalformedMessage)
	})
}

func TestOutbound_Encode(t *testing.T) {
	t.Run("Seated game events carry the symbol", func(t *testing.T) {
		game := entity.Game{CurrentPlayer: entity.PlayerX, Status: entity.StatusWaiting, Round: 1, Creator: "alice"}

		data, err := GameCreated(game, entity.PlayerX).Encode()
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"type":"game created",
			"data":{
				"symbol":"X",
				"game":{
					"board":[null,null,null,null,null,null,null,null,null],
					"currentPlayer":"X",
					"status":"waiting",
					"round":1,
					"scores":{"X":0,"O":0,"draws":0},
					"players":{"X":{"id":null,"name":null},"O":{"id":null,"name":null}},
					"creator":"alice",
					"winner":null
				}
			}
		}`, string(data))
	})

	t.Run("Errors carry the message as data", func(t *testing.T) {
		data, err := SoftError("Not your turn").Encode()
		require.NoError(t, err)

		assert.JSONEq(t, `{"type":"soft error","data":"Not your turn"}`, string(data))
	})

	t.Run("Rematch offer names the requester", func(t *testing.T) {
		data, err := RematchOffered("bob").Encode()
		require.NoError(t, err)

		assert.JSONEq(t, `{"type":"rematch offered","data":{"from":"bob"}}`, string(data))
	})
}

func TestPeekType(t *testing.T) {
	assert.Equal(t, "dance", PeekType([]byte(`{"type":"dance","data":{}}`)))
	assert.Equal(t, "make move", PeekType([]byte(`{"type":"make move"}`)))
	assert.Empty(t, PeekType([]byte(`not json`)))
}

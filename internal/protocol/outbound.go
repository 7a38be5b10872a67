package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const (
	EventReconnected        = "reconnected"
	EventGameCreated        = "game created"
	EventGameJoined         = "game joined"
	EventGameStarted        = "game started"
	EventGameUpdate         = "game update"
	EventSoftError          = "soft error"
	EventError              = "error"
	EventRoundRestarted     = "round restarted"
	EventGameRestarted      = "game restarted"
	EventRematchOffered     = "rematch offered"
	EventPlayerDisconnected = "player disconnected"
)

// Outbound is an event sent to one connection or to a game's group. Build it with the constructors below.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type seatedGame struct {
	Game   entity.Game `json:"game"`
	Symbol entity.Mark `json:"symbol"`
}

type rematch struct {
	From string `json:"from"`
}

func Reconnected(game entity.Game, symbol entity.Mark) Outbound {
	return Outbound{Type: EventReconnected, Data: seatedGame{Game: game, Symbol: symbol}}
}

func GameCreated(game entity.Game, symbol entity.Mark) Outbound {
	return Outbound{Type: EventGameCreated, Data: seatedGame{Game: game, Symbol: symbol}}
}

func GameJoined(game entity.Game) Outbound {
	return Outbound{Type: EventGameJoined, Data: game}
}

func GameStarted(game entity.Game) Outbound {
	return Outbound{Type: EventGameStarted, Data: game}
}

func GameUpdate(game entity.Game) Outbound {
	return Outbound{Type: EventGameUpdate, Data: game}
}

func RoundRestarted(game entity.Game) Outbound {
	return Outbound{Type: EventRoundRestarted, Data: game}
}

func GameRestarted(game entity.Game) Outbound {
	return Outbound{Type: EventGameRestarted, Data: game}
}

func PlayerDisconnected(game entity.Game) Outbound {
	return Outbound{Type: EventPlayerDisconnected, Data: game}
}

func RematchOffered(from string) Outbound {
	return Outbound{Type: EventRematchOffered, Data: rematch{From: from}}
}

func Error(message string) Outbound {
	return Outbound{Type: EventError, Data: message}
}

func SoftError(message string) Outbound {
	return Outbound{Type: EventSoftError, Data: message}
}

// Encode renders the event as a text frame.
func (that Outbound) Encode() ([]byte, error) {
	data, err := json.Marshal(that)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", that.Type, err)
	}

	return data, nil
}

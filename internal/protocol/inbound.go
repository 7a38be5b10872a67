// Package protocol defines the messages exchanged with game clients.
//
// Every frame is an envelope {"type": ..., "data": ...}. The set of inbound actions and
// outbound events is closed; decoding an unknown action type is an error.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
)

const (
	ActionCreateGame   = "create game"
	ActionJoinGame     = "join game"
	ActionMakeMove     = "make move"
	ActionRestartRound = "restart round"
	ActionOfferRematch = "offer rematch"
	ActionRestartGame  = "restart game"
)

// Inbound is an action sent by a client.
type Inbound interface {
	Action() string
}

type CreateGame struct {
	Name string `json:"name"`
}

type JoinGame struct {
	Name string `json:"name"`
}

// MakeMove carries the cell index. A missing index decodes as -1 so it fails validation.
type MakeMove struct {
	Index int `json:"index"`
}

type RestartRound struct{}

type OfferRematch struct{}

type RestartGame struct{}

func (CreateGame) Action() string   { return ActionCreateGame }
func (JoinGame) Action() string     { return ActionJoinGame }
func (MakeMove) Action() string     { return ActionMakeMove }
func (RestartRound) Action() string { return ActionRestartRound }
func (OfferRematch) Action() string { return ActionOfferRematch }
func (RestartGame) Action() string  { return ActionRestartGame }

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeInbound parses a client frame into one of the inbound actions.
func DecodeInbound(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	var msg Inbound

	switch env.Type {
	case ActionCreateGame:
		msg = &CreateGame{}
	case ActionJoinGame:
		msg = &JoinGame{}
	case ActionMakeMove:
		msg = &MakeMove{Index: -1}
	case ActionRestartRound:
		return RestartRound{}, nil
	case ActionOfferRematch:
		return OfferRematch{}, nil
	case ActionRestartGame:
		return RestartGame{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, env.Type)
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, msg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperror.ErrMalformedMessage, env.Type, err)
		}
	}

	switch m := msg.(type) {
	case *CreateGame:
		return *m, nil
	case *JoinGame:
		return *m, nil
	case *MakeMove:
		return *m, nil
	}

	return msg, nil
}

// PeekType returns the frame's type field, or an empty string when raw is not an envelope.
func PeekType(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}

	return env.Type
}

package entity

import "encoding/json"

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Mark is a seat symbol or the content of a board cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

// Opponent returns the other seat symbol.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

// Result is the outcome of a board evaluation.
type Result string

const (
	ResultNone Result = ""
	ResultX    Result = "X"
	ResultO    Result = "O"
	ResultDraw Result = "draw"
)

func (that Result) MarshalJSON() ([]byte, error) {
	if that == ResultNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

type Board [9]Mark

type Scores struct {
	X     int `json:"X"`
	O     int `json:"O"`
	Draws int `json:"draws"`
}

type Seats struct {
	X Player `json:"X"`
	O Player `json:"O"`
}

// Game is the aggregate root of a session. It is a plain value: copying it yields an independent snapshot.
type Game struct {
	Board         Board  `json:"board"`
	CurrentPlayer Mark   `json:"currentPlayer"`
	Status        string `json:"status"`
	Round         int    `json:"round"`
	Scores        Scores `json:"scores"`
	Players       Seats  `json:"players"`
	Creator       string `json:"creator"`
	Winner        Result `json:"winner"`
}

func (that Game) MarshalJSON() ([]byte, error) {
	type plain Game

	return json.Marshal(struct {
		plain
		Creator *string `json:"creator"`
	}{
		plain:   plain(that),
		Creator: nullable(that.Creator),
	})
}

// Seat returns the player sitting at mark.
func (that *Game) Seat(mark Mark) *Player {
	if mark == PlayerX {
		return &that.Players.X
	}
	return &that.Players.O
}

// SeatOf returns the symbol occupied by playerID.
func (that *Game) SeatOf(playerID string) (Mark, bool) {
	switch {
	case playerID == "":
		return EmptyCell, false
	case that.Players.X.ID == playerID:
		return PlayerX, true
	case that.Players.O.ID == playerID:
		return PlayerO, true
	default:
		return EmptyCell, false
	}
}

// OpenSeat returns the first free seat, X before O.
func (that *Game) OpenSeat() (Mark, bool) {
	switch {
	case !that.Players.X.IsSeated():
		return PlayerX, true
	case !that.Players.O.IsSeated():
		return PlayerO, true
	default:
		return EmptyCell, false
	}
}

func (that *Game) IsFull() bool {
	return that.Players.X.IsSeated() && that.Players.O.IsSeated()
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

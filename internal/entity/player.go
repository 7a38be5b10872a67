package entity

import "encoding/json"

// Player is a seat in a game. An empty ID means the seat is free.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (that Player) IsSeated() bool {
	return that.ID != ""
}

func (that Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	}{
		ID:   nullable(that.ID),
		Name: nullable(that.Name),
	})
}

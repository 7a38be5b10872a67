package pkg

import "github.com/google/uuid"

// GenerateConnectionID - generates a unique id for a websocket connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}

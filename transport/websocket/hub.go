package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-server/internal/protocol"
)

// Hub tracks live connections, the game group each one joined and the player each one belongs to.
// All delivery is a non-blocking enqueue onto the client's send buffer.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]*Client
	players map[string]map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
		players: make(map[string]map[string]*Client),
	}
}

// Send delivers event to one connection.
func (that *Hub) Send(connID string, event protocol.Outbound) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	client, ok := that.clients[connID]
	if !ok {
		return
	}

	that.deliver(event, client)
}

// Broadcast delivers event to every connection in the game's group.
func (that *Hub) Broadcast(gameID string, event protocol.Outbound) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	that.deliver(event, values(that.groups[gameID])...)
}

// SendToPlayer delivers event to every live connection of the player.
func (that *Hub) SendToPlayer(playerID string, event protocol.Outbound) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	that.deliver(event, values(that.players[playerID])...)
}

// JoinGroup adds the connection to the game's group. Joining twice is a no-op.
func (that *Hub) JoinGroup(connID, gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	client, ok := that.clients[connID]
	if !ok {
		return
	}

	addTo(that.groups, gameID, client)
	client.games[gameID] = struct{}{}
}

// CloseAll drops every connection. Used on shutdown, since hijacked connections outlive http.Server.Shutdown.
func (that *Hub) CloseAll() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.clients {
		client.kick()
	}
}

// Len returns the number of live connections.
func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Hub) register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.session.ConnID] = client
	addTo(that.players, client.session.PlayerID, client)

	that.logger.Info("client registered", "connID", client.session.ConnID, "playerID", client.session.PlayerID,
		"total", len(that.clients))
}

func (that *Hub) unregister(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[client.session.ConnID]; !ok {
		return
	}

	delete(that.clients, client.session.ConnID)
	removeFrom(that.players, client.session.PlayerID, client)

	for gameID := range client.games {
		removeFrom(that.groups, gameID, client)
	}

	close(client.send)

	that.logger.Info("client unregistered", "connID", client.session.ConnID, "playerID", client.session.PlayerID,
		"remaining", len(that.clients))
}

// deliver must be called with mu held.
func (that *Hub) deliver(event protocol.Outbound, clients ...*Client) {
	if len(clients) == 0 {
		return
	}

	data, err := event.Encode()
	if err != nil {
		that.logger.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			that.logger.Warn("send buffer full, dropping client", "connID", client.session.ConnID)
			client.kick()
		}
	}
}

func addTo(index map[string]map[string]*Client, key string, client *Client) {
	if index[key] == nil {
		index[key] = make(map[string]*Client)
	}
	index[key][client.session.ConnID] = client
}

func removeFrom(index map[string]map[string]*Client, key string, client *Client) {
	set, ok := index[key]
	if !ok {
		return
	}

	delete(set, client.session.ConnID)

	if len(set) == 0 {
		delete(index, key)
	}
}

func values(set map[string]*Client) []*Client {
	clients := make([]*Client, 0, len(set))
	for _, client := range set {
		clients = append(clients, client)
	}

	return clients
}

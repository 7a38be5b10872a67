package repository

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// CommitFunc observes every committed mutation. It runs while the game's lock is held,
// so it must not block; it sees commits of one game in order.
type CommitFunc func(id string, game entity.Game)

type gameEntry struct {
	mu   sync.Mutex
	game *entity.Game
}

// GameRegistry owns all games of the process. The map is guarded by one lock and
// each game by its own, so mutations of one game are serialized without blocking others.
// Callers never hold references into the registry: reads return copies and writes go through Update or Replace.
type GameRegistry struct {
	mu        sync.RWMutex
	games     map[string]*gameEntry
	observers []CommitFunc
}

func NewGameRegistry(observers ...CommitFunc) *GameRegistry {
	return &GameRegistry{
		games:     make(map[string]*gameEntry),
		observers: observers,
	}
}

// Create stores game under id unless the id is taken.
func (that *GameRegistry) Create(id string, game *entity.Game, notify ...func(game entity.Game)) (entity.Game, error) {
	entry := &gameEntry{game: game}

	that.mu.Lock()
	if _, ok := that.games[id]; ok {
		that.mu.Unlock()
		return entity.Game{}, fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	that.games[id] = entry
	that.mu.Unlock()

	return that.commit(id, entry, notify), nil
}

// Get returns a copy of the game stored under id.
func (that *GameRegistry) Get(id string) (entity.Game, error) {
	entry, err := that.entry(id)
	if err != nil {
		return entity.Game{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return *entry.game, nil
}

// Update runs fn with exclusive access to the game. The change is committed only when fn returns nil;
// fn must leave the game untouched when it fails. Each notify receives the committed game before the lock
// is released, so notifications about one game are made in commit order. They must not block.
func (that *GameRegistry) Update(id string, fn func(game *entity.Game) error, notify ...func(game entity.Game)) (entity.Game, error) {
	entry, err := that.entry(id)
	if err != nil {
		return entity.Game{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err = fn(entry.game); err != nil {
		return entity.Game{}, err
	}

	return that.commit(id, entry, notify), nil
}

// Replace swaps the stored game for a new one. The id must exist.
func (that *GameRegistry) Replace(id string, game *entity.Game, notify ...func(game entity.Game)) (entity.Game, error) {
	entry, err := that.entry(id)
	if err != nil {
		return entity.Game{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.game = game

	return that.commit(id, entry, notify), nil
}

// ForEach visits a copy of every game until visit returns false. Each copy is consistent;
// the walk as a whole is not atomic.
func (that *GameRegistry) ForEach(visit func(id string, game entity.Game) bool) {
	that.mu.RLock()
	ids := make([]string, 0, len(that.games))
	entries := make([]*gameEntry, 0, len(that.games))
	for id, entry := range that.games {
		ids = append(ids, id)
		entries = append(entries, entry)
	}
	that.mu.RUnlock()

	for i, entry := range entries {
		entry.mu.Lock()
		game := *entry.game
		entry.mu.Unlock()

		if !visit(ids[i], game) {
			return
		}
	}
}

func (that *GameRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games)
}

func (that *GameRegistry) entry(id string) (*gameEntry, error) {
	that.mu.RLock()
	entry, ok := that.games[id]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return entry, nil
}

// commit must be called with entry.mu held.
func (that *GameRegistry) commit(id string, entry *gameEntry, notify []func(game entity.Game)) entity.Game {
	snapshot := *entry.game
	for _, observe := range that.observers {
		observe(id, snapshot)
	}

	for _, fn := range notify {
		fn(snapshot)
	}

	return snapshot
}

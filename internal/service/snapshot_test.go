package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

type mockSnapshotRepo struct {
	mock.Mock

	mu    sync.Mutex
	saved []entity.Game
}

func (that *mockSnapshotRepo) CreateOrUpdate(ctx context.Context, id string, game entity.Game) error {
	args := that.Called(ctx, id, game)

	that.mu.Lock()
	that.saved = append(that.saved, game)
	that.mu.Unlock()

	return args.Error(0)
}

func (that *mockSnapshotRepo) savedGames() []entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Game(nil), that.saved...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSnapshotService_Run(t *testing.T) {
	t.Run("Writes snapshots in commit order", func(t *testing.T) {
		// Given: a repository that accepts every write
		repo := &mockSnapshotRepo{}
		repo.On("CreateOrUpdate", mock.Anything, "g1", mock.AnythingOfType("entity.Game")).Return(nil)

		svc := NewSnapshotService(discardLogger(), repo, 8)

		// When: three commits are enqueued and the writer runs
		for round := 1; round <= 3; round++ {
			svc.Enqueue("g1", entity.Game{Round: round})
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Run(ctx) }()

		require.Eventually(t, func() bool {
			return len(repo.savedGames()) == 3
		}, time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-done)

		// Then: they were written in the order they were committed
		saved := repo.savedGames()
		for i, game := range saved {
			assert.Equal(t, i+1, game.Round)
		}
		repo.AssertNumberOfCalls(t, "CreateOrUpdate", 3)
	})

	t.Run("Keeps going after a failed write", func(t *testing.T) {
		repo := &mockSnapshotRepo{}
		repo.On("CreateOrUpdate", mock.Anything, "bad", mock.Anything).Return(errors.New("redis down"))
		repo.On("CreateOrUpdate", mock.Anything, "good", mock.Anything).Return(nil)

		svc := NewSnapshotService(discardLogger(), repo, 8)
		svc.Enqueue("bad", entity.Game{})
		svc.Enqueue("good", entity.Game{})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Run(ctx) }()

		require.Eventually(t, func() bool {
			return len(repo.savedGames()) == 2
		}, time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
		repo.AssertExpectations(t)
	})

	t.Run("Drains pending snapshots on shutdown", func(t *testing.T) {
		repo := &mockSnapshotRepo{}
		repo.On("CreateOrUpdate", mock.Anything, "g1", mock.Anything).Return(nil)

		svc := NewSnapshotService(discardLogger(), repo, 8)
		svc.Enqueue("g1", entity.Game{Round: 1})
		svc.Enqueue("g1", entity.Game{Round: 2})

		// When: the writer starts with an already cancelled context
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, svc.Run(ctx))

		// Then: nothing queued is lost
		assert.Len(t, repo.savedGames(), 2)
	})
}

func TestSnapshotService_Enqueue(t *testing.T) {
	// Given: a writer that is not running and a queue of one
	repo := &mockSnapshotRepo{}
	svc := NewSnapshotService(discardLogger(), repo, 1)

	// When: more snapshots arrive than the queue holds
	done := make(chan struct{})
	go func() {
		svc.Enqueue("g1", entity.Game{Round: 1})
		svc.Enqueue("g1", entity.Game{Round: 2})
		close(done)
	}()

	// Then: Enqueue does not block and the overflow is dropped
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Len(t, svc.queue, 1)
}

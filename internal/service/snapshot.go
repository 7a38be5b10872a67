package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const drainTimeout = 5 * time.Second

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, id string, game entity.Game) error
}

type snapshot struct {
	id   string
	game entity.Game
}

// SnapshotService mirrors committed games into the snapshot repository from a single goroutine,
// so writes of one game reach the store in commit order.
type SnapshotService struct {
	logger *slog.Logger
	repo   snapshotRepo
	queue  chan snapshot
}

func NewSnapshotService(logger *slog.Logger, repo snapshotRepo, queueSize int) *SnapshotService {
	return &SnapshotService{
		logger: logger.With("component", "snapshot"),
		repo:   repo,
		queue:  make(chan snapshot, queueSize),
	}
}

// Enqueue never blocks; when the queue is full the snapshot is dropped.
// Its signature matches repository.CommitFunc.
func (that *SnapshotService) Enqueue(id string, game entity.Game) {
	select {
	case that.queue <- snapshot{id: id, game: game}:
	default:
		that.logger.Warn("snapshot queue full, dropping snapshot", "gameID", id)
	}
}

// Run writes queued snapshots until ctx is done, then drains what is left.
func (that *SnapshotService) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	for {
		select {
		case s := <-that.queue:
			that.save(ctx, s)
		case <-ctx.Done():
			log.Info("stopping snapshot writer", "pending", len(that.queue))
			that.drain()
			return nil
		}
	}
}

func (that *SnapshotService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case s := <-that.queue:
			that.save(ctx, s)
		default:
			return
		}
	}
}

func (that *SnapshotService) save(ctx context.Context, s snapshot) {
	if err := that.repo.CreateOrUpdate(ctx, s.id, s.game); err != nil {
		that.logger.Error("failed to save snapshot", "gameID", s.id, "error", err)
	}
}

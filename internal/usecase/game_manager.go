package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-server/internal/tictactoe"
)

// gameRegistry runs notify callbacks under the game's lock, in commit order.
type gameRegistry interface {
	Create(id string, game *entity.Game, notify ...func(game entity.Game)) (entity.Game, error)
	Get(id string) (entity.Game, error)
	Update(id string, fn func(game *entity.Game) error, notify ...func(game entity.Game)) (entity.Game, error)
	Replace(id string, game *entity.Game, notify ...func(game entity.Game)) (entity.Game, error)
	ForEach(visit func(id string, game entity.Game) bool)
}

// transport delivers events. Calls must not block on network I/O.
type transport interface {
	Send(connID string, event protocol.Outbound)
	Broadcast(gameID string, event protocol.Outbound)
	JoinGroup(connID, gameID string)
	SendToPlayer(playerID string, event protocol.Outbound)
}

// Session is the connection context fixed at connect time.
type Session struct {
	ConnID   string
	PlayerID string
	GameID   string
}

var failureMessages = map[string]string{
	protocol.ActionCreateGame:   "Error creating game",
	protocol.ActionJoinGame:     "Error joining game",
	protocol.ActionMakeMove:     "Error making move",
	protocol.ActionRestartRound: "Error restarting round",
	protocol.ActionRestartGame:  "Error restarting game",
	protocol.ActionOfferRematch: "Error offering rematch",
}

const defaultFailureMessage = "Error processing action"

// GameManager runs the game protocol for every connection. All state lives in the registry;
// every read-modify-write of a game happens inside registry.Update, and the events it causes are
// handed to the transport from the registry's notify callback so each group hears them in commit order.
type GameManager struct {
	logger    *slog.Logger
	games     gameRegistry
	transport transport
}

func NewGameManager(logger *slog.Logger, games gameRegistry, transport transport) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		games:     games,
		transport: transport,
	}
}

// Connect validates a new connection and restores its seat when the player is already in the bound game.
func (that *GameManager) Connect(ctx context.Context, sess Session) error {
	log := that.logger.With("method", "Connect", "playerID", sess.PlayerID, "gameID", sess.GameID)

	if sess.PlayerID == "" {
		return apperror.ErrMissingPlayerID
	}

	log.InfoContext(ctx, "player connected", "connID", sess.ConnID)

	if sess.GameID == "" {
		return nil
	}

	game, err := that.games.Get(sess.GameID)
	if err != nil {
		return nil //nolint: nilerr // no game to rejoin yet
	}

	symbol, ok := game.SeatOf(sess.PlayerID)
	if !ok {
		return nil
	}

	that.transport.JoinGroup(sess.ConnID, sess.GameID)
	that.transport.Send(sess.ConnID, protocol.Reconnected(game, symbol))

	log.InfoContext(ctx, "player rejoined game", "symbol", symbol)

	return nil
}

// Handle runs one inbound action. Failures are reported to the caller only.
func (that *GameManager) Handle(ctx context.Context, sess Session, msg protocol.Inbound) {
	log := that.logger.With("method", "Handle", "action", msg.Action(), "playerID", sess.PlayerID, "gameID", sess.GameID)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "recovered from panic in action", "panic", r)
			that.transport.Send(sess.ConnID, protocol.Error(failureMessage(msg.Action())))
		}
	}()

	var err error

	switch m := msg.(type) {
	case protocol.CreateGame:
		err = that.createGame(ctx, log, sess, m)
	case protocol.JoinGame:
		err = that.joinGame(ctx, log, sess, m)
	case protocol.MakeMove:
		err = that.makeMove(ctx, log, sess, m)
	case protocol.RestartRound:
		err = that.restartRound(ctx, log, sess)
	case protocol.RestartGame:
		err = that.restartGame(ctx, log, sess)
	case protocol.OfferRematch:
		err = that.offerRematch(ctx, log, sess)
	default:
		err = fmt.Errorf("%w: %s", apperror.ErrUnknownAction, msg.Action())
	}

	if err != nil {
		that.Reject(ctx, sess, msg.Action(), err)
	}
}

// Reject reports err to the caller in the category it belongs to.
func (that *GameManager) Reject(ctx context.Context, sess Session, action string, err error) {
	log := that.logger.With("method", "Reject", "action", action, "playerID", sess.PlayerID, "gameID", sess.GameID)

	fallback := failureMessage(action)

	switch apperror.Category(err) {
	case apperror.KindSoft:
		log.InfoContext(ctx, "illegal move rejected", "reason", err)
		that.transport.Send(sess.ConnID, protocol.SoftError(apperror.Message(err, fallback)))
	case apperror.KindProtocol:
		text := apperror.Message(err, fallback)
		if errors.Is(err, apperror.ErrUnknownAction) && action != "" {
			text += ": " + action
		}

		log.WarnContext(ctx, "action rejected", "reason", err)
		that.transport.Send(sess.ConnID, protocol.Error(text))
	default:
		log.ErrorContext(ctx, "action failed", "error", err)
		that.transport.Send(sess.ConnID, protocol.Error(fallback))
	}
}

// Disconnect tells the creator of every game the player sits in that the player left.
func (that *GameManager) Disconnect(ctx context.Context, sess Session) {
	log := that.logger.With("method", "Disconnect", "playerID", sess.PlayerID)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "recovered from panic in disconnect", "panic", r)
		}
	}()

	log.WarnContext(ctx, "player disconnected", "connID", sess.ConnID)

	that.games.ForEach(func(id string, game entity.Game) bool {
		if _, ok := game.SeatOf(sess.PlayerID); !ok || game.Creator == "" {
			return true
		}

		that.transport.SendToPlayer(game.Creator, protocol.PlayerDisconnected(game))
		log.InfoContext(ctx, "notified creator", "gameID", id, "creator", game.Creator)

		return true
	})
}

func (that *GameManager) createGame(ctx context.Context, log *slog.Logger, sess Session, msg protocol.CreateGame) error {
	if sess.GameID == "" || msg.Name == "" {
		return apperror.ErrMissingFields
	}

	game := tictactoe.NewGame()
	game.Creator = sess.PlayerID

	symbol, err := tictactoe.TakeSeat(game, sess.PlayerID, msg.Name)
	if err != nil {
		return fmt.Errorf("failed to seat creator: %w", err)
	}

	_, err = that.games.Create(sess.GameID, game, func(created entity.Game) {
		that.transport.JoinGroup(sess.ConnID, sess.GameID)
		that.transport.Send(sess.ConnID, protocol.GameCreated(created, symbol))
	})
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	log.InfoContext(ctx, "game created")

	return nil
}

func (that *GameManager) joinGame(ctx context.Context, log *slog.Logger, sess Session, msg protocol.JoinGame) error {
	if sess.GameID == "" || msg.Name == "" {
		return apperror.ErrMissingFields
	}

	var (
		symbol  entity.Mark
		started bool
	)

	_, err := that.games.Update(sess.GameID, func(game *entity.Game) error {
		if seat, ok := game.SeatOf(sess.PlayerID); ok {
			symbol = seat
			return nil
		}

		wasFull := game.IsFull()

		var err error
		if symbol, err = tictactoe.TakeSeat(game, sess.PlayerID, msg.Name); err != nil {
			return err
		}

		started = !wasFull && game.IsFull()

		return nil
	}, func(game entity.Game) {
		that.transport.JoinGroup(sess.ConnID, sess.GameID)
		that.transport.Send(sess.ConnID, protocol.GameJoined(game))

		if started {
			that.transport.Broadcast(sess.GameID, protocol.GameStarted(game))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	log.InfoContext(ctx, "player joined game", "symbol", symbol)

	if started {
		log.InfoContext(ctx, "game started")
	}

	return nil
}

func (that *GameManager) makeMove(ctx context.Context, log *slog.Logger, sess Session, msg protocol.MakeMove) error {
	if msg.Index < 0 || msg.Index >= len(entity.Board{}) {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidCell, msg.Index)
	}

	game, err := that.games.Update(sess.GameID, func(game *entity.Game) error {
		symbol, ok := game.SeatOf(sess.PlayerID)
		if !ok {
			return apperror.ErrNotInGame
		}

		return tictactoe.MakeTurn(game, symbol, msg.Index)
	}, that.broadcast(sess.GameID, protocol.GameUpdate))
	if err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	log.InfoContext(ctx, "player made a move", "index", msg.Index, "status", game.Status, "winner", game.Winner)

	return nil
}

func (that *GameManager) restartRound(ctx context.Context, log *slog.Logger, sess Session) error {
	game, err := that.games.Update(sess.GameID, func(game *entity.Game) error {
		if !game.IsFinished() {
			return apperror.ErrRoundNotFinished
		}

		tictactoe.ResetRound(game)

		return nil
	}, that.broadcast(sess.GameID, protocol.RoundRestarted))
	if err != nil {
		return fmt.Errorf("failed to restart round: %w", err)
	}

	log.InfoContext(ctx, "round restarted", "round", game.Round)

	return nil
}

func (that *GameManager) restartGame(ctx context.Context, log *slog.Logger, sess Session) error {
	if _, err := that.games.Replace(sess.GameID, tictactoe.NewGame(), that.broadcast(sess.GameID, protocol.GameRestarted)); err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	log.InfoContext(ctx, "game fully restarted")

	return nil
}

func (that *GameManager) offerRematch(ctx context.Context, log *slog.Logger, sess Session) error {
	if _, err := that.games.Get(sess.GameID); err != nil {
		return fmt.Errorf("failed to offer rematch: %w", err)
	}

	that.transport.Broadcast(sess.GameID, protocol.RematchOffered(sess.PlayerID))

	log.InfoContext(ctx, "rematch offered")

	return nil
}

// broadcast builds a notify callback that sends the committed game to the whole group.
func (that *GameManager) broadcast(gameID string, event func(game entity.Game) protocol.Outbound) func(game entity.Game) {
	return func(game entity.Game) {
		that.transport.Broadcast(gameID, event(game))
	}
}

func failureMessage(action string) string {
	if text, ok := failureMessages[action]; ok {
		return text
	}

	return defaultFailureMessage
}

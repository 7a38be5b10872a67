package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/config"
	"github.com/rocketscienceinc/tictactoe-server/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-server/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-server/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	Connect(ctx context.Context, sess usecase.Session) error
	Handle(ctx context.Context, sess usecase.Session, msg protocol.Inbound)
	Reject(ctx context.Context, sess usecase.Session, action string, err error)
	Disconnect(ctx context.Context, sess usecase.Session)
}

type Server struct {
	logger  *slog.Logger
	hub     *Hub
	manager gameManager
	conf    config.WebSocket

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, hub *Hub, manager gameManager, conf config.WebSocket) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		hub:     hub,
		manager: manager,
		conf:    conf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the websocket endpoint mounted at /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down server", "error", err)
		}

		that.hub.CloseAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and runs it until the peer goes away.
func (that *Server) serveWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	sess := usecase.Session{
		ConnID:   pkg.GenerateConnectionID(),
		PlayerID: req.URL.Query().Get("playerId"),
		GameID:   req.URL.Query().Get("gameId"),
	}

	if sess.PlayerID == "" {
		http.Error(writer, apperror.Message(apperror.ErrMissingPlayerID, "Bad request"), http.StatusBadRequest)
		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that.hub, conn, that.conf, sess)
	that.hub.register(client)

	go client.writePump()

	if err = that.manager.Connect(ctx, sess); err != nil {
		log.Error("failed to connect player", "playerID", sess.PlayerID, "error", err)
		that.hub.unregister(client)
		return
	}

	client.readPump(ctx, that.manager)

	that.manager.Disconnect(ctx, sess)
}

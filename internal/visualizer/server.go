// Package visualizer streams the snapshot history of a generated level to
// websocket clients, one JSON frame at a time.
package visualizer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/delvegen/internal/config"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/mapgen"
)

const writeTimeout = 10 * time.Second

// Server replays one level's frames to every client that connects.
type Server struct {
	cfg         config.VisualizerConfig
	frames      []Frame
	connLimiter *ConnLimiter
	upgrader    websocket.Upgrader
}

// NewServer prepares the frames of level for streaming
func NewServer(level *mapgen.Level, cfg config.VisualizerConfig) *Server {
	s := &Server{
		cfg:         cfg,
		frames:      Frames(level),
		connLimiter: NewConnLimiter(cfg.Connections),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("visualizer connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Handler returns the HTTP routes: /ws streams the frames.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("visualizer listening", "address", s.cfg.Listen, "frames", len(s.frames))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := realIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("visualizer connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go s.stream(conn, clientIP)
}

// stream writes every frame, pausing FrameDelay between them, then closes
// the connection normally. A client that hangs up ends the stream early.
func (s *Server) stream(conn *websocket.Conn, clientIP string) {
	defer func() {
		s.connLimiter.Release(clientIP)
		conn.Close()
	}()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for i, f := range s.frames {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(f); err != nil {
			logger.Debug("visualizer stream ended", "client_ip", clientIP, "frame", i, "error", err)
			return
		}
		if i == len(s.frames)-1 {
			break
		}
		select {
		case <-gone:
			logger.Debug("visualizer client left", "client_ip", clientIP, "frame", i)
			return
		case <-time.After(s.cfg.FrameDelay):
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))

	// Give the client a moment to answer the close.
	select {
	case <-gone:
	case <-time.After(time.Second):
	}
	logger.Debug("visualizer stream finished", "client_ip", clientIP, "frames", len(s.frames))
}

// Package httpapi is the JSON API in front of the session, thread and chat
// services. Errors from the services are mapped to status codes and
// {message, details?} bodies in one place, see writeError.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/dmitrijs2005/krishisahayak/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
}

type ThreadService interface {
	List(ctx context.Context, userID int64) ([]models.ThreadSummary, error)
	Get(ctx context.Context, userID int64, threadID string) (*models.Thread, error)
	Delete(ctx context.Context, userID int64, threadID string) (int64, error)
}

type ChatService interface {
	SendText(ctx context.Context, userID int64, threadID, message string) (string, error)
	SendImage(ctx context.Context, userID int64, threadID string, image []byte, mimeType, prompt string) (string, error)
}

// Pinger reports database reachability for GET /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Addr      string
	JWTSecret []byte

	// MaxImageBytes caps uploaded images; zero means 10 MiB.
	MaxImageBytes int64
}

type Server struct {
	opts    Options
	log     logging.Logger
	db      Pinger
	users   UserService
	threads ThreadService
	chats   ChatService
	metrics *metrics
	engine  *gin.Engine
}

func NewServer(opts Options, l logging.Logger, db Pinger, us UserService, ts ThreadService, cs ChatService) *Server {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}

	s := &Server{
		opts:    opts,
		log:     l.With("module", "http"),
		db:      db,
		users:   us,
		threads: ts,
		chats:   cs,
		metrics: newMetrics(),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// drains in-flight requests for up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

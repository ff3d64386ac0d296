package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	APIPrefix              = "/api/v1"
	DefaultShutdownTimeout = 5 * time.Second
)

type RouterOptions struct {
	// Events streams session events to the presentation layer. Nil disables the route.
	Events gin.HandlerFunc
	Logger logrus.FieldLogger
}

func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(requestID(), requestLogger(log), recovery(log))

	api := r.Group(APIPrefix)
	api.POST("/register", h.Register)
	api.POST("/addtime", h.AddTime)
	api.GET("/status", h.Status)
	api.GET("/license", h.GetLicense)
	api.POST("/license/activate", h.ActivateLicense)
	if opts.Events != nil {
		api.GET("/events", opts.Events)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route_not_found"})
	})

	return r
}

type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	log             logrus.FieldLogger
}

func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, log logrus.FieldLogger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		log:             log.WithField("component", "ingest_server"),
	}
}

// OnShutdown registers f to run when the server starts shutting down, so long-lived streams
// can end before the shutdown deadline.
func (s *Server) OnShutdown(f func()) {
	s.srv.RegisterOnShutdown(f)
}

// Serve binds the listener before returning control to the accept loop, so a bind failure is
// reported immediately. It returns once ctx is done and the server has shut down.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("ingestion server listening")
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve ingestion api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown ingestion api: %w", err)
	}
	s.log.Info("ingestion server stopped")
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/shared"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the player web service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the mux patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures [New].
type Options struct {
	Config shared.ServerConfig
	Logger *log.Logger
}

// NewRouter wires the upload endpoint, the SPA fallback and the middleware stack.
func NewRouter(opts Options) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	cfg := opts.Config

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(opts.Logger), CORS(cfg.AllowedOrigin))

	upload := http.Handler(NewUploadHandler(cfg.UploadsDir, opts.Logger))
	if cfg.UploadRate > 0 {
		burst := cfg.UploadBurst
		if burst <= 0 {
			burst = 1
		}
		upload = RateLimit(rate.NewLimiter(rate.Limit(cfg.UploadRate), burst))(upload)
	}
	router.Handle(http.MethodPost, "/api/upload", upload)
	router.Handler(NewSPAHandler(cfg.StaticDir))

	return router
}

// New builds the HTTP server for cfg.
func New(opts Options) *http.Server {
	return &http.Server{
		Addr:              opts.Config.Addr(),
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 15 * time.Second,
	}
}

// Run serves srv on ln until ctx is cancelled, then shuts it down gracefully.
//
// A nil listener listens on srv.Addr.
func Run(ctx context.Context, srv *http.Server, ln net.Listener) error {
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", srv.Addr); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return <-serverErr
	}
}

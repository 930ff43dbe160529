// Package bridge exposes the camview service over a local HTTP API so a
// desktop or browser front end can drive it. Replies are service.Result
// JSON documents.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/rs/zerolog"

	"github.com/five82/camview/internal/service"
)

const (
	serviceName     = "camview-bridge"
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configure the bridge.
type Options struct {
	Service        *service.Service
	Logger         zerolog.Logger
	AccessLog      io.Writer // request log sink; nil discards
	AllowedOrigins []string  // nil allows loopback pages only
}

// Server serves the bridge routes. Handlers run one at a time.
type Server struct {
	svc     *service.Service
	log     zerolog.Logger
	mu      sync.Mutex
	handler http.Handler
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{svc: opts.Service, log: opts.Logger}

	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = io.Discard
	}
	httpLogger := httplog.NewLogger(serviceName, httplog.Options{
		LogLevel: slog.LevelDebug,
		JSON:     true,
		Concise:  true,
		Writer:   accessLog,
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	policy := newOriginPolicy(origins)

	router := chi.NewRouter()
	router.Use(httplog.RequestLogger(httpLogger))
	router.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return policy.allowed(origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	router.Use(policy.guard)

	router.Route("/api", func(r chi.Router) {
		r.Get("/key", s.serial(s.handleGetKey))
		r.Put("/key", s.serial(s.handleSetKey))
		r.Post("/key/register", s.serial(s.handleRegister))
		r.Post("/key/validate", s.serial(s.handleValidate))

		r.Post("/cameras/search", s.serial(s.handleSearch))
		r.Get("/cameras/{id}", s.serial(s.handleGetCamera))
		r.Get("/cameras/{id}/image-url", s.serial(s.handleImageURL))
		r.Post("/cameras/{id}/download", s.serial(s.handleDownload))

		r.Get("/server/info", s.serial(s.handleServerInfo))
		r.Get("/settings", s.serial(s.handleSettings))
		r.Put("/settings/url", s.serial(s.handleSetURL))
		r.Get("/locations", s.serial(s.handleLocations))
	})

	s.handler = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", listener.Addr().String()).Msg("bridge listening")
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve bridge: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown bridge: %w", err)
	}
	s.log.Info().Msg("bridge stopped")
	return nil
}

// serial keeps one request in flight, matching the one-call-at-a-time model.
func (s *Server) serial(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

type keyRequest struct {
	APIKey string `json:"apiKey"`
}

type registerRequest struct {
	Email string `json:"email"`
}

type searchRequest struct {
	Lat     any            `json:"lat"`
	Lng     any            `json:"lng"`
	Radius  any            `json:"radius"`
	Options map[string]any `json:"options"`
}

type downloadRequest struct {
	Path string `json:"path"`
}

type urlRequest struct {
	APIURL string `json:"apiUrl"`
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.GetKey())
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeResult(w, s.svc.SetKey(req.APIKey))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeResult(w, s.svc.Register(r.Context(), req.Email))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Validate(r.Context()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeResult(w, s.svc.Search(r.Context(), service.SearchRequest{
		Lat:     formField(req.Lat),
		Lng:     formField(req.Lng),
		Radius:  formField(req.Radius),
		Options: req.Options,
	}))
}

func (s *Server) handleGetCamera(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Get(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleImageURL(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.GetImageURL(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dest, err := s.downloadPath(req.Path)
	if err != nil {
		writeResult(w, service.Result{Error: err.Error()})
		return
	}
	writeResult(w, s.svc.Download(r.Context(), chi.URLParam(r, "id"), dest))
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.ServerInfo(r.Context()))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Settings())
}

func (s *Server) handleSetURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeResult(w, s.svc.SetURL(req.APIURL))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.svc.Locations(r.URL.Query().Get("category")))
}

// downloadPath confines a requested file name to the download directory.
// Blank keeps the service default name.
func (s *Server) downloadPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if !filepath.IsLocal(name) {
		return "", errors.New("download path must be a relative name inside the download directory")
	}
	return filepath.Join(s.svc.DownloadDir(), name), nil
}

// decodeBody reads a JSON body into dst. An empty body leaves dst zero.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(service.Result{Error: "Invalid request format"})
		return false
	}
	return true
}

// writeResult answers 200 for every decoded request; the body says whether
// the operation succeeded.
func writeResult(w http.ResponseWriter, res service.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}

// formField turns a JSON number or string into form text for the service.
func formField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

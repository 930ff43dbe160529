// Package service is the collaborator surface the camview shells call.
// Every operation validates its input, drives the camera client, records
// the outcome in the session store, and answers with a uniform Result so
// shells never handle raw errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/geo"
	"github.com/five82/camview/internal/state"
)

// ErrBusy is reported when an operation starts while another is in flight.
var ErrBusy = errors.New("another operation is in progress")

// Result is the uniform reply of every operation.
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Error)
}

// SearchRequest carries raw form input; the service parses and checks it.
type SearchRequest struct {
	Lat     string
	Lng     string
	Radius  string // blank uses the default radius
	Options map[string]any
}

// ImageInfo is the GetImageURL payload.
type ImageInfo struct {
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Text string `json:"text" yaml:"text"`
}

// Settings is the read-only view shown on the settings screen.
type Settings struct {
	APIKey      string    `json:"apiKey" yaml:"apiKey"`
	APIURL      string    `json:"apiUrl" yaml:"apiUrl"`
	KeyState    string    `json:"keyState" yaml:"keyState"`
	LastUpdated time.Time `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// Options configure a Service.
type Options struct {
	API           camera.API
	State         *state.Store // nil allocates a private store
	Logger        zerolog.Logger
	DefaultRadius int    // zero uses geo.DefaultRadius
	DownloadDir   string // directory for default download names; blank is the working dir
}

// Service implements the shell-facing operations.
type Service struct {
	api         camera.API
	state       *state.Store
	log         zerolog.Logger
	radius      int
	downloadDir string
	now         func() time.Time
}

// New builds a Service and seeds the key state from the client configuration.
func New(opts Options) *Service {
	store := opts.State
	if store == nil {
		store = &state.Store{}
	}
	radius := opts.DefaultRadius
	if !geo.RadiusInRange(radius) {
		radius = geo.DefaultRadius
	}
	s := &Service{
		api:         opts.API,
		state:       store,
		log:         opts.Logger,
		radius:      radius,
		downloadDir: opts.DownloadDir,
		now:         time.Now,
	}
	if opts.API.Config().HasKey() {
		store.SetKeyState(state.KeySet)
	}
	return s
}

// State exposes the session store for read-only display.
func (s *Service) State() *state.Store {
	return s.state
}

// DefaultRadius returns the radius used when a search leaves it blank.
func (s *Service) DefaultRadius() int {
	return s.radius
}

// DownloadDir returns the directory default-named downloads go to.
func (s *Service) DownloadDir() string {
	return s.downloadDir
}

// GetKey returns the stored API key, or nil data when none is set.
func (s *Service) GetKey() Result {
	cfg := s.api.Config()
	if !cfg.HasKey() {
		return Result{Success: true}
	}
	return Result{Success: true, Data: cfg.Key()}
}

// SetKey stores a manually entered key.
func (s *Service) SetKey(key string) Result {
	key = strings.TrimSpace(key)
	if key == "" {
		return fail(&geo.ValidationError{Field: "apiKey", Message: "API key is required"})
	}
	return s.run("set-key", func() (any, error) {
		if err := s.api.SetAPIKey(key); err != nil {
			return nil, err
		}
		s.state.SetKeyState(state.KeySet)
		return MaskKey(key), nil
	})
}

// Register obtains and stores a key for email.
func (s *Service) Register(ctx context.Context, email string) Result {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fail(&geo.ValidationError{Field: "email", Message: "Please enter a valid email address"})
	}
	return s.run("register", func() (any, error) {
		key, err := s.api.RegisterAPIKey(ctx, email)
		if err != nil {
			return nil, err
		}
		s.state.SetKeyState(state.KeySet)
		return key, nil
	})
}

// Validate checks the stored key against the server. Data is the verdict;
// an invalid key is kept.
func (s *Service) Validate(ctx context.Context) Result {
	return s.run("validate", func() (any, error) {
		if !s.api.Config().HasKey() {
			s.state.SetKeyState(state.KeyUnset)
			return false, nil
		}
		valid := s.api.ValidateAPIKey(ctx)
		if valid {
			s.state.SetKeyState(state.KeyValid)
		} else {
			s.state.SetKeyState(state.KeyInvalid)
		}
		return valid, nil
	})
}

// Search lists cameras around a coordinate.
func (s *Service) Search(ctx context.Context, req SearchRequest) Result {
	point := geo.ValidateCoordinates(req.Lat, req.Lng)
	if !point.Valid {
		return fail(point.Err())
	}
	radius, err := geo.ValidateRadius(req.Radius, s.radius)
	if err != nil {
		return fail(err)
	}
	return s.run("search", func() (any, error) {
		return s.api.SearchCameras(ctx, point.Lat, point.Lng, radius, req.Options)
	})
}

// Get returns camera details.
func (s *Service) Get(ctx context.Context, cameraID string) Result {
	id, err := cameraIDFrom(cameraID)
	if err != nil {
		return fail(err)
	}
	return s.run("get-camera", func() (any, error) {
		return s.api.GetCamera(ctx, id)
	})
}

// GetImageURL returns the image URL text and, when present, the URL itself.
func (s *Service) GetImageURL(ctx context.Context, cameraID string) Result {
	id, err := cameraIDFrom(cameraID)
	if err != nil {
		return fail(err)
	}
	return s.run("image-url", func() (any, error) {
		res, err := s.api.GetCameraImageURL(ctx, id)
		if err != nil {
			return nil, err
		}
		url, _ := camera.ImageURL(res)
		return ImageInfo{URL: url, Text: res.Text()}, nil
	})
}

// Download saves the camera's current image. A blank destination uses
// DefaultFilename inside the download directory.
func (s *Service) Download(ctx context.Context, cameraID, dest string) Result {
	id, err := cameraIDFrom(cameraID)
	if err != nil {
		return fail(err)
	}
	dest = strings.TrimSpace(dest)
	if dest == "" {
		dest = filepath.Join(s.downloadDir, DefaultFilename(id, s.now()))
	}
	return s.run("download", func() (any, error) {
		return s.api.DownloadCameraImage(ctx, id, dest)
	})
}

// ServerInfo returns server info and usage statistics.
func (s *Service) ServerInfo(ctx context.Context) Result {
	return s.run("server-info", func() (any, error) {
		return s.api.GetServerInfo(ctx)
	})
}

// Settings returns the masked key and endpoint.
func (s *Service) Settings() Result {
	cfg := s.api.Config()
	return Result{Success: true, Data: Settings{
		APIKey:      MaskKey(cfg.Key()),
		APIURL:      cfg.Endpoint(),
		KeyState:    s.state.Snapshot().KeyState.String(),
		LastUpdated: cfg.LastUpdated,
	}}
}

// SetURL changes the endpoint. Blank restores the default.
func (s *Service) SetURL(rawURL string) Result {
	return s.run("set-url", func() (any, error) {
		if err := s.api.SetAPIURL(rawURL); err != nil {
			return nil, err
		}
		return s.api.Config().Endpoint(), nil
	})
}

// Locations lists the built-in popular locations in category.
func (s *Service) Locations(category string) Result {
	return Result{Success: true, Data: geo.ByCategory(category)}
}

// DefaultFilename names a downloaded image camera_<id>_<YYYY-MM-DD>.jpg.
// Separators and ".." in the id become underscores so the name stays a
// single path element.
func DefaultFilename(cameraID string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, cameraID)
	safe = strings.ReplaceAll(safe, "..", "_")
	return fmt.Sprintf("camera_%s_%s.jpg", safe, now.Format(time.DateOnly))
}

// MaskKey shows the first 20 characters of a key.
func MaskKey(key string) string {
	if key == "" {
		return "Not set"
	}
	if len(key) <= 20 {
		return key
	}
	return key[:20] + "..."
}

func (s *Service) run(op string, fn func() (any, error)) Result {
	if !s.state.Begin(op) {
		return fail(ErrBusy)
	}
	started := time.Now()
	data, err := fn()
	s.state.Finish(op, err)
	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Dur("elapsed", time.Since(started)).Msg("operation failed")
		return fail(err)
	}
	s.log.Debug().Str("op", op).Dur("elapsed", time.Since(started)).Msg("operation finished")
	return Result{Success: true, Data: data}
}

func fail(err error) Result {
	return Result{Error: err.Error()}
}

func cameraIDFrom(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", &geo.ValidationError{Field: "cameraId", Message: "Camera ID is required"}
	}
	return id, nil
}

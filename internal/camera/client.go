package camera

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/camview/internal/config"
)

// API is the set of camera operations used by the service layer.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	Config() config.Configuration
	SetAPIKey(key string) error
	SetAPIURL(rawURL string) error
	RegisterAPIKey(ctx context.Context, email string) (string, error)
	Call(ctx context.Context, tool string, args map[string]any) (*ToolResult, error)
	SearchCameras(ctx context.Context, lat, lng float64, radius int, opts map[string]any) (*ToolResult, error)
	GetCamera(ctx context.Context, cameraID string) (*ToolResult, error)
	GetCameraImageURL(ctx context.Context, cameraID string) (*ToolResult, error)
	DownloadCameraImage(ctx context.Context, cameraID, destPath string) (string, error)
	GetServerInfo(ctx context.Context) (*ToolResult, error)
	ValidateAPIKey(ctx context.Context) bool
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// KeyStore persists configuration changes made through the client.
// *config.Store satisfies it.
type KeyStore interface {
	SetAPIKey(cfg config.Configuration, key string) (config.Configuration, error)
	SetAPIURL(cfg config.Configuration, rawURL string) (config.Configuration, error)
}

// Registrar issues an API key for an email address.
type Registrar interface {
	Register(ctx context.Context, email string) (string, error)
}

// LocalRegistrar synthesizes a key on the client side. The service offers
// no issuing endpoint yet; swap in a Registrar that calls one when it does.
type LocalRegistrar struct {
	Now func() time.Time
}

// Register returns mcp_live_<random><unix-millis>.
func (r LocalRegistrar) Register(_ context.Context, _ string) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("mcp_live_%s%d", suffix, now().UnixMilli()), nil
}

// Client talks to the camera service JSON-RPC endpoint.
type Client struct {
	cfg       config.Configuration
	store     KeyStore
	http      *http.Client
	log       zerolog.Logger
	registrar Registrar
	userAgent string
	nextID    func() int64
}

// Options configure a Client.
type Options struct {
	Config     config.Configuration
	Store      KeyStore // nil keeps changes in memory only
	HTTPClient *http.Client
	Timeout    time.Duration // ignored when HTTPClient is set
	Logger     zerolog.Logger
	Registrar  Registrar
}

const (
	defaultUserAgent = "camview/0.1"
	defaultTimeout   = 30 * time.Second
)

// NewClient builds a Client around an explicitly loaded configuration.
func NewClient(opts Options) (*Client, error) {
	if err := config.ValidateEndpoint(opts.Config.Endpoint()); err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	registrar := opts.Registrar
	if registrar == nil {
		registrar = LocalRegistrar{}
	}

	return &Client{
		cfg:       opts.Config,
		store:     opts.Store,
		http:      httpClient,
		log:       opts.Logger,
		registrar: registrar,
		userAgent: defaultUserAgent,
		nextID:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Config returns a copy of the client's current configuration.
func (c *Client) Config() config.Configuration {
	return c.cfg
}

// SetAPIKey replaces the key and persists it.
func (c *Client) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key is empty")
	}
	if c.store == nil {
		c.cfg = c.cfg.WithKey(key)
		return nil
	}
	cfg, err := c.store.SetAPIKey(c.cfg, key)
	if err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	c.cfg = cfg
	return nil
}

// SetAPIURL replaces the endpoint and persists it. Blank restores the default.
func (c *Client) SetAPIURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" {
		if err := config.ValidateEndpoint(rawURL); err != nil {
			return err
		}
	}
	if c.store == nil {
		c.cfg.APIURL = rawURL
		c.cfg.APIURL = c.cfg.Endpoint()
		return nil
	}
	cfg, err := c.store.SetAPIURL(c.cfg, rawURL)
	if err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	c.cfg = cfg
	return nil
}

// RegisterAPIKey obtains a key for email from the registrar and persists it.
func (c *Client) RegisterAPIKey(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("registration failed: email is required")
	}
	key, err := c.registrar.Register(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}
	if err := c.SetAPIKey(key); err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}
	c.log.Info().Msg("api key registered")
	return key, nil
}

// Call invokes a named tool with one JSON-RPC POST.
func (c *Client) Call(ctx context.Context, tool string, args map[string]any) (*ToolResult, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if !c.cfg.HasKey() {
		return nil, ErrUnauthenticated
	}
	if args == nil {
		args = map[string]any{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      c.nextID(),
		Method:  methodToolCall,
		Params:  toolCallParams{Name: tool, Arguments: args},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Key())
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	result, err := c.do(ctx, req)
	event := c.log.Info()
	if err != nil {
		event = c.log.Warn().Err(err)
	}
	event.Str("tool", tool).Dur("elapsed", time.Since(started)).Msg("tool call")
	return result, err
}

func (c *Client) do(ctx context.Context, req *http.Request) (*ToolResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, normalizeTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payload rpcResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != nil {
		msg := strings.TrimSpace(payload.Error.Message)
		if msg == "" {
			msg = "Unknown API error"
		}
		return nil, &RPCError{Code: payload.Error.Code, Message: msg}
	}
	if payload.Result == nil {
		return &ToolResult{}, nil
	}
	return payload.Result, nil
}

// GetServerInfo returns server info and usage statistics.
func (c *Client) GetServerInfo(ctx context.Context) (*ToolResult, error) {
	return c.Call(ctx, ToolServerInfo, nil)
}

// SearchCameras lists cameras within radius miles of a point. Extra option
// keys are forwarded, but lat, lng and radius always carry the coerced
// values: an option named lat, lng or radius is overwritten, unlike the
// JavaScript client where options were spread last and won.
func (c *Client) SearchCameras(ctx context.Context, lat, lng float64, radius int, opts map[string]any) (*ToolResult, error) {
	args := make(map[string]any, len(opts)+3)
	for k, v := range opts {
		args[k] = v
	}
	args["lat"] = lat
	args["lng"] = lng
	args["radius"] = radius
	return c.Call(ctx, ToolSearchCameras, args)
}

// GetCamera returns the details text for a camera.
func (c *Client) GetCamera(ctx context.Context, cameraID string) (*ToolResult, error) {
	return c.Call(ctx, ToolGetCamera, map[string]any{"cameraId": cameraID})
}

// GetCameraImageURL returns text carrying the camera's current image URL.
func (c *Client) GetCameraImageURL(ctx context.Context, cameraID string) (*ToolResult, error) {
	return c.Call(ctx, ToolGetCameraImageURL, map[string]any{"cameraId": cameraID})
}

// DownloadCameraImage resolves the camera's image URL, fetches it and writes
// the body to destPath. Nothing is written unless the fetch succeeds.
func (c *Client) DownloadCameraImage(ctx context.Context, cameraID, destPath string) (string, error) {
	result, err := c.GetCameraImageURL(ctx, cameraID)
	if err != nil {
		return "", err
	}
	imageURL, ok := ImageURL(result)
	if !ok {
		return "", ErrNoImageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", normalizeTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &DownloadError{StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	c.log.Info().Str("camera", cameraID).Str("path", destPath).Int("bytes", len(data)).Msg("image downloaded")
	return destPath, nil
}

// ValidateAPIKey reports whether a server info call succeeds. Callers that
// need the failure reason call GetServerInfo directly.
func (c *Client) ValidateAPIKey(ctx context.Context) bool {
	_, err := c.GetServerInfo(ctx)
	return err == nil
}

package bridge

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/config"
	"github.com/five82/camview/internal/service"
)

type upstream struct {
	server *httptest.Server
	calls  atomic.Int32
	text   string

	mu    sync.Mutex
	tools []string
}

func (u *upstream) called() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.tools...)
}

func newUpstream(t *testing.T, text string) *upstream {
	t.Helper()
	u := &upstream{text: text}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		var body struct {
			Params struct {
				Name string `json:"name"`
			} `json:"params"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		u.tools = append(u.tools, body.Params.Name)
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":`+quote(u.text)+`}]}}`)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newBridge(t *testing.T, endpoint, key string) (*httptest.Server, *config.Store) {
	t.Helper()
	store, err := config.NewStore(filepath.Join(t.TempDir(), "config.json"), zerolog.Nop())
	require.NoError(t, err)
	cfg := store.Load()
	cfg.APIURL = endpoint
	if key != "" {
		cfg = cfg.WithKey(key)
	}
	client, err := camera.NewClient(camera.Options{Config: cfg, Store: store, Logger: zerolog.Nop()})
	require.NoError(t, err)

	svc := service.New(service.Options{API: client, Logger: zerolog.Nop(), DownloadDir: t.TempDir()})
	srv := httptest.NewServer(New(Options{Service: svc, Logger: zerolog.Nop()}).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) (int, service.Result) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var res service.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return resp.StatusCode, res
}

func TestKeyRoutes(t *testing.T) {
	up := newUpstream(t, "hello")
	srv, store := newBridge(t, up.server.URL, "")

	status, res := do(t, http.MethodGet, srv.URL+"/api/key", "")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, res.Success)
	assert.Nil(t, res.Data)

	_, res = do(t, http.MethodPut, srv.URL+"/api/key", `{"apiKey":"mcp_live_manual"}`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "mcp_live_manual", store.Load().Key())

	_, res = do(t, http.MethodGet, srv.URL+"/api/key", "")
	assert.Equal(t, "mcp_live_manual", res.Data)

	_, res = do(t, http.MethodPost, srv.URL+"/api/key/validate", "")
	assert.Equal(t, true, res.Data)
	assert.Equal(t, []string{camera.ToolServerInfo}, up.called())
}

func TestRegisterRoute(t *testing.T) {
	up := newUpstream(t, "hello")
	srv, store := newBridge(t, up.server.URL, "")

	_, res := do(t, http.MethodPost, srv.URL+"/api/key/register", `{"email":"nope"}`)
	assert.False(t, res.Success)
	assert.Equal(t, "Please enter a valid email address", res.Error)

	_, res = do(t, http.MethodPost, srv.URL+"/api/key/register", `{"email":"me@example.com"}`)
	require.True(t, res.Success, res.Error)
	key, _ := res.Data.(string)
	assert.True(t, strings.HasPrefix(key, "mcp_live_"))
	assert.Equal(t, key, store.Load().Key())
	assert.Zero(t, up.calls.Load())
}

func TestSearchRoute(t *testing.T) {
	up := newUpstream(t, "Found 3 cameras")
	srv, _ := newBridge(t, up.server.URL, "k")

	_, res := do(t, http.MethodPost, srv.URL+"/api/cameras/search", `{"lat":37.7749,"lng":"-122.4194","radius":25}`)
	require.True(t, res.Success, res.Error)
	data, _ := res.Data.(map[string]any)
	content, _ := data["content"].([]any)
	require.Len(t, content, 1)
	assert.Equal(t, "Found 3 cameras", content[0].(map[string]any)["text"])

	_, res = do(t, http.MethodPost, srv.URL+"/api/cameras/search", `{"lat":91,"lng":0}`)
	assert.Equal(t, "Latitude must be between -90 and 90", res.Error)
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestSearchRoute_MalformedBody(t *testing.T) {
	up := newUpstream(t, "")
	srv, _ := newBridge(t, up.server.URL, "k")

	status, res := do(t, http.MethodPost, srv.URL+"/api/cameras/search", `{"lat":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request format", res.Error)
}

func TestCameraRoutes(t *testing.T) {
	up := newUpstream(t, "Image: https://x.test/a.jpg")
	srv, _ := newBridge(t, up.server.URL, "k")

	_, res := do(t, http.MethodGet, srv.URL+"/api/cameras/cam1", "")
	require.True(t, res.Success, res.Error)

	_, res = do(t, http.MethodGet, srv.URL+"/api/cameras/cam1/image-url", "")
	require.True(t, res.Success, res.Error)
	info, _ := res.Data.(map[string]any)
	assert.Equal(t, "https://x.test/a.jpg", info["url"])
	assert.Equal(t, []string{camera.ToolGetCamera, camera.ToolGetCameraImageURL}, up.called())
}

func TestDownloadRoute_NoImageURL(t *testing.T) {
	up := newUpstream(t, "camera offline")
	srv, _ := newBridge(t, up.server.URL, "k")

	_, res := do(t, http.MethodPost, srv.URL+"/api/cameras/cam1/download", "")
	assert.False(t, res.Success)
	assert.Equal(t, camera.ErrNoImageURL.Error(), res.Error)
	assert.Equal(t, int32(1), up.calls.Load())
}

func TestServerInfoWithoutKey(t *testing.T) {
	up := newUpstream(t, "hello")
	srv, _ := newBridge(t, up.server.URL, "")

	_, res := do(t, http.MethodGet, srv.URL+"/api/server/info", "")
	assert.False(t, res.Success)
	assert.Equal(t, camera.ErrUnauthenticated.Error(), res.Error)
	assert.Zero(t, up.calls.Load())
}

func TestSettingsRoutes(t *testing.T) {
	up := newUpstream(t, "")
	srv, store := newBridge(t, up.server.URL, "")

	_, res := do(t, http.MethodPut, srv.URL+"/api/settings/url", `{"apiUrl":"https://other.test/mcp"}`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "https://other.test/mcp", store.Load().APIURL)

	_, res = do(t, http.MethodGet, srv.URL+"/api/settings", "")
	settings, _ := res.Data.(map[string]any)
	assert.Equal(t, "Not set", settings["apiKey"])
	assert.Equal(t, "https://other.test/mcp", settings["apiUrl"])
}

func TestLocationsRoute(t *testing.T) {
	up := newUpstream(t, "")
	srv, _ := newBridge(t, up.server.URL, "")

	_, res := do(t, http.MethodGet, srv.URL+"/api/locations?category=Urban", "")
	locations, _ := res.Data.([]any)
	assert.Len(t, locations, 4)
	first, _ := locations[0].(map[string]any)
	assert.Equal(t, "Urban", first["category"])
}

func preflight(t *testing.T, url, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodOptions, url, bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCORSPreflight_LoopbackOrigin(t *testing.T) {
	up := newUpstream(t, "")
	srv, _ := newBridge(t, up.server.URL, "")

	resp := preflight(t, srv.URL+"/api/cameras/search", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight(t, srv.URL+"/api/cameras/search", "http://127.0.0.1:8080")
	assert.Equal(t, "http://127.0.0.1:8080", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestForeignOriginRefused(t *testing.T) {
	up := newUpstream(t, "")
	srv, store := newBridge(t, up.server.URL, "mcp_live_secret")

	resp := preflight(t, srv.URL+"/api/settings/url", "https://evil.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/key", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	got, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = got.Body.Close() }()
	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, got.StatusCode)
	assert.Empty(t, got.Header.Get("Access-Control-Allow-Origin"))
	assert.NotContains(t, string(body), "mcp_live_secret")

	// A simple cross-site POST must not reach the service either.
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/settings/url", strings.NewReader(`{"apiUrl":"https://evil.example/rpc"}`))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	got2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = got2.Body.Close()
	assert.Equal(t, http.StatusForbidden, got2.StatusCode)
	assert.NotEqual(t, "https://evil.example/rpc", store.Load().Endpoint())
	assert.Empty(t, up.called())
}

func TestExplicitOriginsReplaceDefault(t *testing.T) {
	p := newOriginPolicy([]string{"https://app.example.com", "https://*.tools.example"})
	assert.True(t, p.allowed("https://app.example.com"))
	assert.True(t, p.allowed("https://cams.tools.example"))
	assert.False(t, p.allowed("http://localhost:5173"))
	assert.False(t, p.allowed("https://evil.example"))

	d := newOriginPolicy(defaultOrigins)
	assert.True(t, d.allowed("http://localhost"))
	assert.True(t, d.allowed("http://[::1]:3000"))
	assert.False(t, d.allowed("https://localhost.evil.example"))
	assert.False(t, d.allowed("http://127.0.0.1.evil.example"))
}

func TestDownloadRoute_RejectsEscapingPath(t *testing.T) {
	up := newUpstream(t, "Image: http://127.0.0.1:1/a.jpg")
	srv, _ := newBridge(t, up.server.URL, "mcp_live_test")

	for _, path := range []string{"/etc/passwd", "../outside.jpg", "a/../../b.jpg"} {
		status, res := do(t, http.MethodPost, srv.URL+"/api/cameras/cam1/download", `{"path":`+quote(path)+`}`)
		assert.Equal(t, http.StatusOK, status, path)
		assert.False(t, res.Success, path)
		assert.Contains(t, res.Error, "download directory", path)
	}
	assert.Empty(t, up.called())
}

package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/config"
	"github.com/five82/camview/internal/prefs"
	"github.com/five82/camview/internal/service"
	"github.com/five82/camview/internal/state"
)

// stubAPI answers every camera call with a fixed text result.
type stubAPI struct {
	cfg   config.Configuration
	valid bool
	text  string
	tools []string
}

func (s *stubAPI) Config() config.Configuration { return s.cfg }

func (s *stubAPI) SetAPIKey(key string) error {
	s.cfg = s.cfg.WithKey(key)
	return nil
}

func (s *stubAPI) SetAPIURL(rawURL string) error {
	s.cfg.APIURL = rawURL
	s.cfg.APIURL = s.cfg.Endpoint()
	return nil
}

func (s *stubAPI) RegisterAPIKey(_ context.Context, _ string) (string, error) {
	s.cfg = s.cfg.WithKey("mcp_live_registered")
	return "mcp_live_registered", nil
}

func (s *stubAPI) Call(_ context.Context, tool string, _ map[string]any) (*camera.ToolResult, error) {
	s.tools = append(s.tools, tool)
	return &camera.ToolResult{Content: []camera.Content{{Type: "text", Text: s.text}}}, nil
}

func (s *stubAPI) SearchCameras(ctx context.Context, _, _ float64, _ int, _ map[string]any) (*camera.ToolResult, error) {
	return s.Call(ctx, camera.ToolSearchCameras, nil)
}

func (s *stubAPI) GetCamera(ctx context.Context, _ string) (*camera.ToolResult, error) {
	return s.Call(ctx, camera.ToolGetCamera, nil)
}

func (s *stubAPI) GetCameraImageURL(ctx context.Context, _ string) (*camera.ToolResult, error) {
	return s.Call(ctx, camera.ToolGetCameraImageURL, nil)
}

func (s *stubAPI) DownloadCameraImage(_ context.Context, _, dest string) (string, error) {
	return dest, nil
}

func (s *stubAPI) GetServerInfo(ctx context.Context) (*camera.ToolResult, error) {
	return s.Call(ctx, camera.ToolServerInfo, nil)
}

func (s *stubAPI) ValidateAPIKey(context.Context) bool { return s.valid }

func newTestModel(t *testing.T, api *stubAPI) Model {
	t.Helper()
	svc := service.New(service.Options{API: api})
	m := New(Options{
		Service:   svc,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// ready returns a model with a stored key whose startup validation has
// already finished.
func ready(t *testing.T) (Model, *stubAPI) {
	t.Helper()
	api := &stubAPI{cfg: config.Default().WithKey("mcp_live_abc"), valid: true, text: "ok"}
	m := newTestModel(t, api)
	m = drain(t, m, m.Init())
	return m, api
}

// drain runs cmd and feeds its service results back into the model.
// Only call it with commands from start, runValidate or loadActivity;
// text input blink commands sleep.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case resultMsg, activityMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestNewWithoutKeyStartsInSetup(t *testing.T) {
	m := newTestModel(t, &stubAPI{cfg: config.Default()})
	if m.screen != screenSetup {
		t.Fatalf("screen = %v, want setup", m.screen)
	}
	if m.busy {
		t.Fatal("busy = true, want false without a key")
	}
	if cmd := m.Init(); cmd != nil {
		t.Fatal("Init() returned a command without a key")
	}
	if view := m.View(); !strings.Contains(view, "Register with email") {
		t.Fatalf("setup view missing register option:\n%s", view)
	}
}

func TestStartupValidatesStoredKey(t *testing.T) {
	m, api := ready(t)
	if m.busy {
		t.Fatal("busy after validation finished")
	}
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
	if m.status != "API key is valid" || m.statusKind != statusSuccess {
		t.Fatalf("status = %q (%v), want valid success", m.status, m.statusKind)
	}
	if got := m.snapshot().KeyState; got != state.KeyValid {
		t.Fatalf("key state = %v, want valid", got)
	}
	if len(api.tools) != 1 || api.tools[0] != camera.ToolServerInfo {
		t.Fatalf("tools = %v, want one server info call", api.tools)
	}
}

func TestStartupInvalidKeyIsKept(t *testing.T) {
	api := &stubAPI{cfg: config.Default().WithKey("mcp_live_stale")}
	m := newTestModel(t, api)
	m = drain(t, m, m.Init())
	if m.statusKind != statusError {
		t.Fatalf("statusKind = %v, want error", m.statusKind)
	}
	if !api.cfg.HasKey() {
		t.Fatal("invalid key was cleared")
	}
	if got := m.snapshot().KeyState; got != state.KeyInvalid {
		t.Fatalf("key state = %v, want invalid", got)
	}
}

func TestSetupRegisterFlow(t *testing.T) {
	api := &stubAPI{cfg: config.Default()}
	m := newTestModel(t, api)

	m, _ = press(m, "1")
	if m.screen != screenForm || m.form.kind != formRegister {
		t.Fatalf("screen = %v kind = %v, want register form", m.screen, m.form.kind)
	}
	m = typeText(m, "me@example.com")
	m, cmd := press(m, "enter")
	if !m.busy {
		t.Fatal("submit did not mark the model busy")
	}
	m = drain(t, m, cmd)

	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
	if !strings.Contains(m.status, "mcp_live_registered") {
		t.Fatalf("status = %q, want registered key", m.status)
	}
	if got := m.snapshot().KeyState; got != state.KeySet {
		t.Fatalf("key state = %v, want set", got)
	}
}

func TestSearchValidationErrorStaysOnForm(t *testing.T) {
	m, api := ready(t)
	calls := len(api.tools)

	m, _ = press(m, "1")
	m = typeText(m, "abc")
	m, _ = press(m, "tab")
	m = typeText(m, "10")
	m, _ = press(m, "tab")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	if m.screen != screenForm {
		t.Fatalf("screen = %v, want form", m.screen)
	}
	if m.statusKind != statusError || m.status == "" {
		t.Fatalf("status = %q (%v), want an error", m.status, m.statusKind)
	}
	if len(api.tools) != calls {
		t.Fatalf("tools = %v, want no new calls", api.tools)
	}
}

func TestSearchShowsResult(t *testing.T) {
	m, api := ready(t)
	api.text = "Found 2 cameras"

	m, _ = press(m, "1")
	m = typeText(m, "37.7749")
	m, _ = press(m, "tab")
	m = typeText(m, "-122.4194")
	m, _ = press(m, "tab")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	if m.screen != screenResult {
		t.Fatalf("screen = %v, want result (status %q)", m.screen, m.status)
	}
	if m.resultTitle != "Camera Search Results" {
		t.Fatalf("resultTitle = %q", m.resultTitle)
	}
	if !strings.Contains(m.result.View(), "Found 2 cameras") {
		t.Fatalf("result view missing text:\n%s", m.result.View())
	}

	m, _ = press(m, "esc")
	if m.screen != screenMenu {
		t.Fatalf("screen after esc = %v, want menu", m.screen)
	}
}

func TestBusyIgnoresKeys(t *testing.T) {
	m, _ := ready(t)
	m, cmd := press(m, "6")
	if !m.busy || cmd == nil {
		t.Fatal("server info did not start")
	}
	m, _ = press(m, "7")
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu while busy", m.screen)
	}

	m = drain(t, m, cmd)
	if m.busy || m.screen != screenResult {
		t.Fatalf("busy = %v screen = %v, want result", m.busy, m.screen)
	}
}

func TestLocationsPrefillSearch(t *testing.T) {
	m, _ := ready(t)
	m, _ = press(m, "5")
	if m.screen != screenLocations {
		t.Fatalf("screen = %v, want locations", m.screen)
	}

	m, _ = press(m, "f")
	if m.category != "National Park" {
		t.Fatalf("category = %q, want National Park", m.category)
	}
	locs := m.visibleLocations()
	if len(locs) != 5 {
		t.Fatalf("len(locations) = %d, want 5", len(locs))
	}

	m, _ = press(m, "j", "enter")
	if m.screen != screenForm || m.form.kind != formSearch {
		t.Fatalf("screen = %v kind = %v, want search form", m.screen, m.form.kind)
	}
	if m.form.back != screenLocations {
		t.Fatalf("back = %v, want locations", m.form.back)
	}
	if got := m.form.value(0); got != "44.428" {
		t.Fatalf("lat = %q, want 44.428", got)
	}
	if got := m.form.value(2); got != "50" {
		t.Fatalf("radius = %q, want 50", got)
	}

	m, _ = press(m, "esc")
	if m.screen != screenLocations {
		t.Fatalf("screen after esc = %v, want locations", m.screen)
	}
}

func TestCycleThemePersistsPrefs(t *testing.T) {
	m, _ := ready(t)
	m.prefs.TimeoutSeconds = 12

	m, _ = press(m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	saved := prefs.Load(m.prefsPath)
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
	if saved.TimeoutSeconds != 12 {
		t.Fatalf("saved timeout = %d, want 12", saved.TimeoutSeconds)
	}
}

func TestSettingsOpensURLForm(t *testing.T) {
	m, _ := ready(t)
	m, _ = press(m, "7")
	if m.screen != screenSettings {
		t.Fatalf("screen = %v, want settings", m.screen)
	}
	if view := m.View(); !strings.Contains(view, "mcp_live_abc") {
		t.Fatalf("settings view missing key:\n%s", view)
	}

	m, _ = press(m, "u")
	if m.screen != screenForm || m.form.kind != formSetURL {
		t.Fatalf("screen = %v kind = %v, want url form", m.screen, m.form.kind)
	}
	m = typeText(m, "https://cams.example.com/rpc")
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)
	if m.screen != screenSettings {
		t.Fatalf("screen = %v, want settings", m.screen)
	}
	if !strings.Contains(m.status, "https://cams.example.com/rpc") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestActivityLoadsLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camview.log")
	line := `{"level":"info","tool":"get_camera","time":"2026-01-02T03:04:05Z","message":"tool call"}` + "\n"
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m, _ := ready(t)
	m.logPath = path
	m, cmd := press(m, "8")
	if m.screen != screenActivity {
		t.Fatalf("screen = %v, want activity", m.screen)
	}
	m = drain(t, m, cmd)

	if len(m.entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(m.entries))
	}
	if !strings.Contains(m.activity.View(), "tool call") {
		t.Fatalf("activity view missing message:\n%s", m.activity.View())
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m, _ := ready(t)
	m, _ = press(m, "?")
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	m, _ = press(m, "x")
	if m.showHelp {
		t.Fatal("help still shown")
	}
}

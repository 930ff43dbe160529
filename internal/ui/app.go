package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/camview/internal/geo"
	"github.com/five82/camview/internal/logtail"
	"github.com/five82/camview/internal/prefs"
	"github.com/five82/camview/internal/service"
	"github.com/five82/camview/internal/state"
)

// screen represents the current active screen.
type screen int

const (
	screenSetup screen = iota
	screenMenu
	screenForm
	screenResult
	screenLocations
	screenSettings
	screenActivity
)

// statusKind colors the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

type menuItem struct {
	key   string
	label string
}

var mainMenu = []menuItem{
	{"1", "Search cameras by location"},
	{"2", "Get camera details"},
	{"3", "Get camera image URL"},
	{"4", "Download camera image"},
	{"5", "Popular locations"},
	{"6", "API usage and server info"},
	{"7", "Settings"},
	{"8", "Activity log"},
	{"0", "Exit"},
}

var setupMenu = []menuItem{
	{"1", "Register with email"},
	{"2", "Enter an existing API key"},
	{"0", "Exit"},
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Service    *service.Service
	Prefs      prefs.Prefs
	PrefsPath  string // empty uses prefs.DefaultPath()
	LogPath    string // activity log shown on the activity screen
	ConfigPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	svc        *service.Service
	prefs      prefs.Prefs
	prefsPath  string
	logPath    string
	configPath string
	keys       keyMap

	// UI state
	theme   Theme
	screen  screen
	width   int
	height  int
	ready   bool
	cursor  int
	busy    bool
	spinner spinner.Model

	// Status line
	status     string
	statusKind statusKind

	// Screens
	form        form
	resultTitle string
	resultBack  screen
	result      viewport.Model
	category    string
	activity    viewport.Model
	entries     []logtail.Entry

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:        ctx,
		svc:        opts.Service,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		logPath:    opts.LogPath,
		configPath: opts.ConfigPath,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.Prefs.Theme),
		screen:     screenMenu,
		spinner:    sp,
		category:   geo.CategoryAll,
		result:     viewport.New(80, 20),
		activity:   viewport.New(80, 20),
	}
	if m.snapshot().KeyState == state.KeyUnset {
		m.screen = screenSetup
	} else {
		m.busy = true // Init validates the stored key
	}
	return m
}

// Init implements tea.Model. With a stored key the session starts by
// validating it.
func (m Model) Init() tea.Cmd {
	if m.screen == screenSetup {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.runValidate())
}

func (m Model) snapshot() state.Snapshot {
	if m.svc == nil {
		return state.Snapshot{}
	}
	return m.svc.State().Snapshot()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.busy = false
		return m.handleResult(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil
	}

	if m.screen == screenForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// Requests are serial; only quitting is allowed while one runs.
	if m.busy {
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Forms own every printable key.
	if m.screen == screenForm {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	}

	switch m.screen {
	case screenSetup:
		return m.handleMenuKey(msg, setupMenu)
	case screenMenu:
		return m.handleMenuKey(msg, mainMenu)
	case screenResult:
		return m.handleResultKey(msg)
	case screenLocations:
		return m.handleLocationsKey(msg)
	case screenSettings:
		return m.handleSettingsKey(msg)
	case screenActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

// cycleTheme switches to the next theme and persists the choice.
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.setStatus(statusError, fmt.Sprintf("save prefs: %v", err))
		}
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg, items []menuItem) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.chooseMenu(items[m.cursor].key)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	for i, item := range items {
		if msg.String() == item.key {
			m.cursor = i
			return m.chooseMenu(item.key)
		}
	}
	return m, nil
}

func (m Model) chooseMenu(choice string) (tea.Model, tea.Cmd) {
	if m.screen == screenSetup {
		switch choice {
		case "1":
			return m.openForm(formRegister, screenSetup)
		case "2":
			return m.openForm(formSetKey, screenSetup)
		case "0":
			return m, tea.Quit
		}
		return m, nil
	}

	switch choice {
	case "1":
		return m.openForm(formSearch, screenMenu)
	case "2":
		return m.openForm(formCamera, screenMenu)
	case "3":
		return m.openForm(formImageURL, screenMenu)
	case "4":
		return m.openForm(formDownload, screenMenu)
	case "5":
		m.screen = screenLocations
		m.cursor = 0
		return m, nil
	case "6":
		return m.start(opServerInfo, func(ctx context.Context) service.Result {
			return m.svc.ServerInfo(ctx)
		})
	case "7":
		m.screen = screenSettings
		return m, nil
	case "8":
		m.screen = screenActivity
		return m, m.loadActivity()
	case "0":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) openForm(kind formKind, back screen) (tea.Model, tea.Cmd) {
	m.form = newForm(kind, m.svc.DefaultRadius(), back)
	m.screen = screenForm
	m.clearStatus()
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = m.form.back
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if !m.form.onLastField() {
			return m, m.form.setFocus(m.form.focus + 1)
		}
		return m.submitForm()
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.setFocus(m.form.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.setFocus(m.form.focus - 1)
	}
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	switch f.kind {
	case formSearch:
		req := f.searchRequest()
		return m.start(opSearch, func(ctx context.Context) service.Result {
			return m.svc.Search(ctx, req)
		})
	case formCamera:
		id := f.value(0)
		return m.start(opCamera, func(ctx context.Context) service.Result {
			return m.svc.Get(ctx, id)
		})
	case formImageURL:
		id := f.value(0)
		return m.start(opImageURL, func(ctx context.Context) service.Result {
			return m.svc.GetImageURL(ctx, id)
		})
	case formDownload:
		id, dest := f.value(0), f.value(1)
		return m.start(opDownload, func(ctx context.Context) service.Result {
			return m.svc.Download(ctx, id, dest)
		})
	case formRegister:
		email := f.value(0)
		return m.start(opRegister, func(ctx context.Context) service.Result {
			return m.svc.Register(ctx, email)
		})
	case formSetKey:
		apiKey := f.value(0)
		return m.start(opSetKey, func(context.Context) service.Result {
			return m.svc.SetKey(apiKey)
		})
	case formSetURL:
		url := f.value(0)
		return m.start(opSetURL, func(context.Context) service.Result {
			return m.svc.SetURL(url)
		})
	}
	return m, nil
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Select) {
		m.screen = m.resultBack
		return m, nil
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) clearStatus() {
	m.status = ""
}

// contentHeight is the space left after header, command bar, status line
// and the screen title.
func (m Model) contentHeight() int {
	return maxInt(3, m.height-6)
}

func (m *Model) resizeViewports() {
	w := maxInt(20, m.width-4)
	h := m.contentHeight()
	m.result.Width, m.result.Height = w, h
	m.activity.Width, m.activity.Height = w, h
}

// renderContent renders the main content area based on current screen.
func (m Model) renderContent() string {
	switch m.screen {
	case screenSetup:
		return m.renderMenu("Welcome to camview", "No API key is configured. Register or enter an existing key.", setupMenu)
	case screenMenu:
		return m.renderMenu("Main Menu", "", mainMenu)
	case screenForm:
		return m.renderForm()
	case screenResult:
		return m.renderResult()
	case screenLocations:
		return m.renderLocations()
	case screenSettings:
		return m.renderSettings()
	case screenActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}

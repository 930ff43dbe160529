package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/camview/internal/geo"
	"github.com/five82/camview/internal/service"
)

// formKind identifies what a submitted form does.
type formKind int

const (
	formSearch formKind = iota
	formCamera
	formImageURL
	formDownload
	formRegister
	formSetKey
	formSetURL
)

// form is a small stack of labelled text inputs.
type form struct {
	kind   formKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	back   screen // where esc returns to
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	in.CharLimit = 256
	in.Width = 48
	return in
}

// newForm builds the form for kind. Prefilled values come from the
// locations screen.
func newForm(kind formKind, defaultRadius int, back screen) form {
	f := form{kind: kind, back: back}
	switch kind {
	case formSearch:
		f.title = "Search Cameras"
		f.labels = []string{"Latitude", "Longitude", "Radius (miles)"}
		f.inputs = []textinput.Model{
			newInput("37.7749"),
			newInput("-122.4194"),
			newInput(strconv.Itoa(defaultRadius)),
		}
	case formCamera:
		f.title = "Camera Details"
		f.labels = []string{"Camera ID"}
		f.inputs = []textinput.Model{newInput("camera id")}
	case formImageURL:
		f.title = "Camera Image URL"
		f.labels = []string{"Camera ID"}
		f.inputs = []textinput.Model{newInput("camera id")}
	case formDownload:
		f.title = "Download Image"
		f.labels = []string{"Camera ID", "Save as"}
		f.inputs = []textinput.Model{
			newInput("camera id"),
			newInput("camera_<id>_<date>.jpg"),
		}
	case formRegister:
		f.title = "Register API Key"
		f.labels = []string{"Email"}
		f.inputs = []textinput.Model{newInput("you@example.com")}
	case formSetKey:
		f.title = "Enter API Key"
		f.labels = []string{"API key"}
		in := newInput("mcp_live_...")
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
		f.inputs = []textinput.Model{in}
	case formSetURL:
		f.title = "Change API URL"
		f.labels = []string{"API URL"}
		f.inputs = []textinput.Model{newInput("blank restores the default")}
	}
	f.inputs[0].Focus()
	return f
}

// prefillLocation fills a search form from a popular location.
func (f *form) prefillLocation(loc geo.Location) {
	if f.kind != formSearch {
		return
	}
	f.inputs[0].SetValue(strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	f.inputs[1].SetValue(strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	f.inputs[2].SetValue(strconv.Itoa(loc.RadiusMiles))
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
		} else {
			f.inputs[idx].Blur()
		}
	}
	return cmd
}

func (f form) onLastField() bool {
	return f.focus == len(f.inputs)-1
}

// update routes a message to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// searchRequest converts the search form into a service request.
func (f form) searchRequest() service.SearchRequest {
	return service.SearchRequest{Lat: f.value(0), Lng: f.value(1), Radius: f.value(2)}
}

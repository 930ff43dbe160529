package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/camview/internal/service"
)

// operation identifies an in-flight service call.
type operation int

const (
	opValidate operation = iota
	opRegister
	opSetKey
	opSetURL
	opSearch
	opCamera
	opImageURL
	opDownload
	opServerInfo
)

var operationTitles = map[operation]string{
	opValidate:   "Validating API key",
	opRegister:   "Registering",
	opSetKey:     "Saving API key",
	opSetURL:     "Saving API URL",
	opSearch:     "Camera Search Results",
	opCamera:     "Camera Details",
	opImageURL:   "Camera Image URL",
	opDownload:   "Downloading image",
	opServerInfo: "API Usage and Server Info",
}

// Messages

type resultMsg struct {
	op  operation
	res service.Result
}

// Commands

// start marks the model busy and runs fn off the UI goroutine.
func (m Model) start(op operation, fn func(ctx context.Context) service.Result) (tea.Model, tea.Cmd) {
	m.busy = true
	m.clearStatus()
	ctx := m.ctx
	run := func() tea.Msg {
		return resultMsg{op: op, res: fn(ctx)}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m Model) runValidate() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return resultMsg{op: opValidate, res: svc.Validate(ctx)}
	}
}

// handleResult applies a finished operation to the model.
func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	res := msg.res
	if !res.Success {
		m.setStatus(statusError, res.Error)
		return m, nil
	}

	switch msg.op {
	case opValidate:
		if valid, _ := res.Data.(bool); valid {
			m.setStatus(statusSuccess, "API key is valid")
		} else {
			m.setStatus(statusError, "API key is invalid or the server rejected it. Replace it from Settings.")
		}
		if m.screen == screenSetup {
			m.screen = screenMenu
			m.cursor = 0
		}
		return m, nil

	case opRegister, opSetKey:
		m.screen = screenMenu
		m.cursor = 0
		note := "API key saved. Press 7 then v to validate it."
		if msg.op == opRegister {
			note = fmt.Sprintf("API key registered: %v", res.Data)
		}
		m.setStatus(statusSuccess, note)
		return m, nil

	case opSetURL:
		m.screen = screenSettings
		m.setStatus(statusSuccess, fmt.Sprintf("API URL set to %v", res.Data))
		return m, nil

	case opDownload:
		m.screen = screenMenu
		m.setStatus(statusSuccess, fmt.Sprintf("Image saved to %v", res.Data))
		return m, nil
	}

	m.resultTitle = operationTitles[msg.op]
	m.resultBack = screenMenu
	m.result.SetContent(wrapText(resultText(res.Data), m.result.Width))
	m.result.GotoTop()
	m.screen = screenResult
	return m, nil
}

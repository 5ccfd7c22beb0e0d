package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avask/termapi/internal/bindings"
	"github.com/avask/termapi/internal/curl"
	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/stream"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.sending && !m.discover.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case responseMsg:
		return m.handleResponse(msg)

	case discoveryMsg:
		return m.handleDiscovery(msg)

	case wsConnectedMsg:
		return m.handleWSConnected(msg)

	case wsSentMsg:
		if msg.err != nil {
			m.setStatus(errdef.Message(msg.err), statusError)
		} else {
			m.ws.message.Reset()
		}
		return m, nil

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case streamClosedMsg:
		return m.handleStreamClosed(msg)

	case curlImportedMsg:
		return m.handleCurlImported(msg)

	case curlExportedMsg:
		if msg.err != nil {
			m.setStatus(errdef.Message(msg.err), statusError)
		} else {
			m.setStatus("curl command copied to clipboard", statusSuccess)
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.setStatus(errdef.Message(msg.err), statusWarn)
			return m, nil
		}
		return m, m.histList.SetItems(historyItems(m.deps.History.Entries()))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := bindings.NormalizeKeyString(msg.String())

	if m.chordPrefix != "" {
		prefix := m.chordPrefix
		m.chordPrefix = ""
		if binding, ok := m.deps.Keys.ResolveChord(prefix, key); ok {
			return m.dispatch(binding.Action)
		}
		return m, nil
	}

	if binding, ok := m.deps.Keys.MatchSingle(key); ok {
		if bindingUsable(key, m.textEntryActive()) {
			return m.dispatch(binding.Action)
		}
	}

	if m.deps.Keys.HasChordPrefix(key) && !m.textEntryActive() {
		m.chordPrefix = key
		return m, nil
	}

	if key == "enter" && m.tab == tabDiscover && !m.discover.focusRoot {
		return m.adoptSelectedEndpoint()
	}

	if key == "enter" && m.tab == tabHistory && m.histList.FilterState() != list.Filtering {
		return m.adoptSelectedHistory()
	}

	return m, m.updateFocused(msg)
}

// bindingUsable keeps plain-character shortcuts from firing while the user is
// typing into an input; modifier combos and field cycling always win.
func bindingUsable(key string, typing bool) bool {
	if !typing {
		return true
	}
	if key == "tab" || key == "shift+tab" {
		return true
	}
	return strings.Contains(key, "+") && !strings.HasPrefix(key, "shift+")
}

func (m *Model) dispatch(action bindings.ActionID) (tea.Model, tea.Cmd) {
	switch action {
	case bindings.ActionQuit:
		m.closeWebSocket()
		return m, tea.Quit

	case bindings.ActionCancelRun:
		if m.cancelSend != nil {
			m.cancelSend()
			return m, nil
		}
		if m.tab == tabWebSocket && m.ws.conn != nil {
			return m, m.wsCloseCmd(m.ws.conn)
		}
		return m, nil

	case bindings.ActionSendRequest:
		return m.sendCurrent()

	case bindings.ActionNextTab:
		m.switchTab((m.tab + 1) % tabCount)
		return m, nil

	case bindings.ActionPrevTab:
		m.switchTab((m.tab + tabCount - 1) % tabCount)
		return m, nil

	case bindings.ActionNextField:
		m.cycleFocus(1)
		return m, nil

	case bindings.ActionPrevField:
		m.cycleFocus(-1)
		return m, nil

	case bindings.ActionCycleMethod:
		if m.tab == tabHTTP {
			m.http.method = m.http.method.Next()
		}
		return m, nil

	case bindings.ActionImportCurl:
		return m, m.importCurlCmd()

	case bindings.ActionExportCurl:
		if m.tab == tabHTTP {
			return m, m.exportCurlCmd(m.buildHTTPRequest())
		}
		return m, nil

	case bindings.ActionRunDiscovery:
		m.switchTab(tabDiscover)
		return m.startDiscovery()

	case bindings.ActionTabHTTP:
		m.switchTab(tabHTTP)
		return m, nil
	case bindings.ActionTabWebSocket:
		m.switchTab(tabWebSocket)
		return m, nil
	case bindings.ActionTabGraphQL:
		m.switchTab(tabGraphQL)
		return m, nil
	case bindings.ActionTabDiscover:
		m.switchTab(tabDiscover)
		return m, nil
	case bindings.ActionTabHistory:
		m.switchTab(tabHistory)
		return m, m.loadHistoryCmd()
	}
	return m, nil
}

func (m *Model) sendCurrent() (tea.Model, tea.Cmd) {
	switch m.tab {
	case tabHTTP:
		req := m.buildHTTPRequest()
		if err := req.Validate(); err != nil {
			m.setStatus(errdef.Message(err), statusError)
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelSend = cancel
		m.sending = true
		m.setStatus(fmt.Sprintf("%s %s ...", req.Method, req.URL), statusInfo)
		return m, tea.Batch(m.spin.Tick, m.sendHTTPCmd(ctx, req))

	case tabGraphQL:
		ctx, cancel := context.WithCancel(context.Background())
		m.cancelSend = cancel
		m.sending = true
		m.setStatus("sending graphql query ...", statusInfo)
		return m, tea.Batch(m.spin.Tick, m.sendGraphQLCmd(ctx))

	case tabWebSocket:
		if m.ws.conn == nil {
			url := strings.TrimSpace(m.ws.url.Value())
			if url == "" {
				m.setStatus("websocket url must not be empty", statusError)
				return m, nil
			}
			m.setStatus("connecting "+url+" ...", statusInfo)
			return m, m.wsConnectCmd(url)
		}
		payload := m.ws.message.Value()
		if strings.TrimSpace(payload) == "" {
			return m, nil
		}
		return m, m.wsSendCmd(m.ws.conn, payload)

	case tabDiscover:
		return m.startDiscovery()
	}
	return m, nil
}

func (m *Model) startDiscovery() (tea.Model, tea.Cmd) {
	root := strings.TrimSpace(m.discover.root.Value())
	if root == "" {
		m.setStatus("workspace root must not be empty", statusError)
		return m, nil
	}
	if m.discover.busy {
		m.setStatus("discovery already running", statusWarn)
		return m, nil
	}
	m.discover.busy = true
	m.setStatus("scanning "+root+" ...", statusInfo)
	return m, tea.Batch(m.spin.Tick, m.discoverCmd(root))
}

func (m *Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	m.cancelSend = nil

	if msg.err != nil {
		m.setStatus(errdef.Message(msg.err), statusError)
		return m, nil
	}

	m.response = msg.response
	m.responseVP.SetContent(renderResponseBody(msg.response))
	m.responseVP.GotoTop()

	if msg.response.Failed() {
		m.setStatus(
			fmt.Sprintf("send failed: %s (%s)", msg.response.Err, msg.response.ErrDetail),
			statusError,
		)
	} else {
		m.setStatus(
			fmt.Sprintf("%s in %s", msg.response.Status, msg.response.Latency.Round(timeRound)),
			statusSuccess,
		)
	}
	return m, m.loadHistoryCmd()
}

func (m *Model) handleDiscovery(msg discoveryMsg) (tea.Model, tea.Cmd) {
	m.discover.busy = false
	if msg.err != nil {
		level := statusError
		if errdef.IsCode(msg.err, errdef.CodeDiscovery) {
			level = statusWarn
		}
		m.setStatus(errdef.Message(msg.err), level)
		return m, nil
	}

	m.setStatus(
		fmt.Sprintf("found %d endpoints in %s", msg.catalog.Len(), msg.root),
		statusSuccess,
	)
	m.deps.Settings.Discovery.LastRoot = msg.root
	m.discover.focusRoot = false
	m.discover.root.Blur()
	return m, m.discover.results.SetItems(endpointItems(msg.catalog))
}

func (m *Model) handleWSConnected(msg wsConnectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(errdef.Message(msg.err), statusError)
		return m, nil
	}
	m.ws.conn = msg.conn
	m.ws.transcript = nil
	m.ws.focusURL = false
	m.ws.url.Blur()
	m.ws.message.Focus()
	m.setStatus("websocket connected", statusSuccess)

	m.ws.listener = msg.conn.Session().Subscribe()
	m.ws.transcript = append(m.ws.transcript, m.ws.listener.Snapshot.Events...)
	return m, wsListenCmd(msg.conn, m.ws.listener)
}

func (m *Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	conn := m.ws.conn
	if conn == nil || conn.Session().ID() != msg.sessionID {
		return m, nil
	}
	m.ws.transcript = append(m.ws.transcript, msg.event)
	return m, wsListenCmd(conn, m.ws.listener)
}

func (m *Model) handleStreamClosed(msg streamClosedMsg) (tea.Model, tea.Cmd) {
	if m.ws.conn == nil || m.ws.conn.Session().ID() != msg.sessionID {
		return m, nil
	}
	if m.ws.listener.Cancel != nil {
		m.ws.listener.Cancel()
		m.ws.listener = stream.Listener{}
	}
	m.ws.conn = nil
	m.ws.focusURL = true
	m.ws.url.Focus()
	m.ws.message.Blur()
	if msg.err != nil {
		m.setStatus("websocket closed: "+errdef.Message(msg.err), statusWarn)
	} else {
		m.setStatus("websocket closed", statusInfo)
	}
	return m, nil
}

func (m *Model) handleCurlImported(msg curlImportedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(errdef.Message(msg.err), statusError)
		return m, nil
	}
	m.applyImportedRequest(msg.request)
	m.switchTab(tabHTTP)
	if len(msg.warnings) > 0 {
		m.setStatus("imported with warnings: "+strings.Join(msg.warnings, "; "), statusWarn)
	} else {
		m.setStatus("curl command imported", statusSuccess)
	}
	return m, nil
}

// adoptSelectedHistory reloads a past request into the HTTP form. The stored
// curl command carries the full request; method and url cover entries saved
// before a body or headers existed.
func (m *Model) adoptSelectedHistory() (tea.Model, tea.Cmd) {
	item, ok := m.histList.SelectedItem().(historyItem)
	if !ok {
		return m, nil
	}
	if req, _, err := curl.Parse(item.entry.CurlCommand); err == nil && req != nil {
		m.applyImportedRequest(req)
	} else {
		if method, perr := model.ParseMethod(item.entry.Method); perr == nil {
			m.http.method = method
		}
		m.http.url.SetValue(item.entry.URL)
	}
	m.switchTab(tabHTTP)
	m.setStatus("history entry loaded", statusSuccess)
	return m, nil
}

func (m *Model) adoptSelectedEndpoint() (tea.Model, tea.Cmd) {
	item, ok := m.discover.results.SelectedItem().(endpointItem)
	if !ok {
		return m, nil
	}
	m.adoptEndpoint(item.endpoint)
	m.switchTab(tabHTTP)
	m.setStatus("endpoint loaded: "+item.endpoint.Title(), statusSuccess)
	return m, nil
}

func (m *Model) setStatus(text string, level statusLevel) {
	m.status = statusMsg{text: text, level: level}
}

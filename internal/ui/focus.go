package ui

import (
	"encoding/base64"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"nhooyr.io/websocket"

	"github.com/avask/termapi/internal/discovery"
	"github.com/avask/termapi/internal/model"
)

func (m *Model) switchTab(tab tabKind) {
	m.tab = tab
	m.chordPrefix = ""
	m.applyFocus()
}

// cycleFocus moves focus within the active tab; delta is +1 or -1.
func (m *Model) cycleFocus(delta int) {
	switch m.tab {
	case tabHTTP:
		n := int(httpFieldCount)
		m.http.focus = httpFormField((int(m.http.focus) + delta + n) % n)
	case tabWebSocket:
		if m.ws.conn == nil {
			m.ws.focusURL = true
		} else {
			m.ws.focusURL = !m.ws.focusURL
		}
	case tabGraphQL:
		n := int(gqlFieldCount)
		m.gql.focus = gqlFormField((int(m.gql.focus) + delta + n) % n)
	case tabDiscover:
		m.discover.focusRoot = !m.discover.focusRoot
	}
	m.applyFocus()
}

// applyFocus reconciles component focus state with the model's focus fields.
// Components not on the active tab are always blurred.
func (m *Model) applyFocus() {
	m.http.url.Blur()
	m.http.headers.Blur()
	m.http.body.Blur()
	m.ws.url.Blur()
	m.ws.message.Blur()
	m.gql.endpoint.Blur()
	m.gql.query.Blur()
	m.gql.variables.Blur()
	m.discover.root.Blur()

	switch m.tab {
	case tabHTTP:
		switch m.http.focus {
		case httpFieldURL:
			m.http.url.Focus()
		case httpFieldHeaders:
			m.http.headers.Focus()
		case httpFieldBody:
			m.http.body.Focus()
		}
	case tabWebSocket:
		if m.ws.focusURL {
			m.ws.url.Focus()
		} else {
			m.ws.message.Focus()
		}
	case tabGraphQL:
		switch m.gql.focus {
		case gqlFieldEndpoint:
			m.gql.endpoint.Focus()
		case gqlFieldQuery:
			m.gql.query.Focus()
		case gqlFieldVariables:
			m.gql.variables.Focus()
		}
	case tabDiscover:
		if m.discover.focusRoot {
			m.discover.root.Focus()
		}
	}
}

// textEntryActive reports whether the focused component consumes plain
// character keys.
func (m *Model) textEntryActive() bool {
	switch m.tab {
	case tabHTTP, tabWebSocket, tabGraphQL:
		return true
	case tabDiscover:
		return m.discover.focusRoot || m.discover.results.FilterState() == list.Filtering
	case tabHistory:
		return m.histList.FilterState() == list.Filtering
	}
	return false
}

// updateFocused routes a message to whichever component currently has focus.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.tab {
	case tabHTTP:
		switch m.http.focus {
		case httpFieldURL:
			m.http.url, cmd = m.http.url.Update(msg)
		case httpFieldHeaders:
			m.http.headers, cmd = m.http.headers.Update(msg)
		case httpFieldBody:
			m.http.body, cmd = m.http.body.Update(msg)
		}
	case tabWebSocket:
		if m.ws.focusURL {
			m.ws.url, cmd = m.ws.url.Update(msg)
		} else {
			m.ws.message, cmd = m.ws.message.Update(msg)
		}
	case tabGraphQL:
		switch m.gql.focus {
		case gqlFieldEndpoint:
			m.gql.endpoint, cmd = m.gql.endpoint.Update(msg)
		case gqlFieldQuery:
			m.gql.query, cmd = m.gql.query.Update(msg)
		case gqlFieldVariables:
			m.gql.variables, cmd = m.gql.variables.Update(msg)
		}
	case tabDiscover:
		if m.discover.focusRoot {
			m.discover.root, cmd = m.discover.root.Update(msg)
		} else {
			m.discover.results, cmd = m.discover.results.Update(msg)
		}
	case tabHistory:
		m.histList, cmd = m.histList.Update(msg)
	}
	return cmd
}

func (m *Model) resize() {
	formWidth := m.width - 6
	if formWidth < 20 {
		formWidth = 20
	}

	m.http.url.Width = formWidth
	m.http.headers.SetWidth(formWidth)
	m.http.body.SetWidth(formWidth)

	m.ws.url.Width = formWidth
	m.ws.message.Width = formWidth

	m.gql.endpoint.Width = formWidth
	m.gql.query.SetWidth(formWidth)
	m.gql.variables.SetWidth(formWidth)

	m.discover.root.Width = formWidth

	listHeight := m.height - 10
	if listHeight < 5 {
		listHeight = 5
	}
	m.discover.results.SetSize(m.width-4, listHeight)
	m.histList.SetSize(m.width-4, listHeight)

	m.responseVP.Width = m.width - 4
	vpHeight := m.height / 3
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.responseVP.Height = vpHeight
	if m.response != nil {
		m.responseVP.SetContent(renderResponseBody(m.response))
	}
}

// applyImportedRequest loads a parsed request into the HTTP form. Auth is
// re-expressed as explicit header lines so the form stays the single source
// of truth for what gets sent.
func (m *Model) applyImportedRequest(req *model.HTTPRequest) {
	if req == nil {
		return
	}
	m.http.method = req.Method
	m.http.url.SetValue(req.URL)
	m.http.body.SetValue(req.Body)

	lines := make([]string, 0, len(req.Headers)+1)
	for _, header := range req.Headers {
		if !header.Enabled {
			continue
		}
		lines = append(lines, header.Name+": "+header.Value)
	}
	if line := authHeaderLine(req.Auth); line != "" {
		lines = append(lines, line)
	}
	m.http.headers.SetValue(strings.Join(lines, "\n"))
}

func authHeaderLine(auth model.Auth) string {
	switch auth.Kind {
	case model.AuthBasic:
		cred := base64.StdEncoding.EncodeToString([]byte(auth.Username + ":" + auth.Password))
		return "Authorization: Basic " + cred
	case model.AuthBearer:
		return "Authorization: Bearer " + auth.Token
	case model.AuthAPIKey:
		header := auth.Header
		if header == "" {
			header = "X-API-Key"
		}
		return header + ": " + auth.Value
	}
	return ""
}

// adoptEndpoint copies a discovered route into the HTTP form. Discovery only
// knows the path template, so the workspace root's host is left to the user.
func (m *Model) adoptEndpoint(ep discovery.Endpoint) {
	if method, err := model.ParseMethod(ep.Method); err == nil {
		m.http.method = method
	} else {
		m.http.method = model.MethodGet
	}
	m.http.url.SetValue(ep.Path)
	m.http.focus = httpFieldURL
	m.applyFocus()
}

func (m *Model) closeWebSocket() {
	if m.ws.listener.Cancel != nil {
		m.ws.listener.Cancel()
	}
	if m.ws.conn != nil {
		_ = m.ws.conn.Close(websocket.StatusNormalClosure, "shutdown")
		m.ws.conn = nil
	}
}

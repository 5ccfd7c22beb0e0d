package ui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"nhooyr.io/websocket"

	"github.com/avask/termapi/internal/curl"
	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/history"
	"github.com/avask/termapi/internal/httpclient"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/stream"
)

func (m *Model) clientOptions() httpclient.Options {
	req := m.deps.Settings.Request
	return httpclient.Options{
		Timeout:            req.Timeout(),
		FollowRedirects:    req.FollowRedirects,
		InsecureSkipVerify: req.InsecureSkipVerify,
	}
}

// buildHTTPRequest assembles the canonical request from the form fields.
// Header lines are "Name: value"; malformed lines are ignored.
func (m *Model) buildHTTPRequest() *model.HTTPRequest {
	req := &model.HTTPRequest{
		Method: m.http.method,
		URL:    strings.TrimSpace(m.http.url.Value()),
		Body:   m.http.body.Value(),
	}
	for _, line := range strings.Split(m.http.headers.Value(), "\n") {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		req.Headers.Add(name, strings.TrimSpace(value))
	}
	return req
}

func (m *Model) sendHTTPCmd(ctx context.Context, req *model.HTTPRequest) tea.Cmd {
	deps := m.deps
	opts := m.clientOptions()
	return func() tea.Msg {
		resp, err := deps.Client.Execute(ctx, req, deps.Resolver, opts)
		if err == nil && deps.History != nil {
			entry := history.NewEntry(req, resp, deps.Environment, curl.Command(req))
			_ = deps.History.Append(entry)
		}
		return responseMsg{response: resp, err: err}
	}
}

func (m *Model) sendGraphQLCmd(ctx context.Context) tea.Cmd {
	deps := m.deps
	opts := m.clientOptions()
	req := &model.GraphQLRequest{
		Endpoint:  strings.TrimSpace(m.gql.endpoint.Value()),
		Query:     m.gql.query.Value(),
		Variables: m.gql.variables.Value(),
	}
	return func() tea.Msg {
		resp, err := deps.Client.ExecuteGraphQL(ctx, req, deps.Resolver, opts)
		return responseMsg{response: resp, err: err}
	}
}

func (m *Model) discoverCmd(root string) tea.Cmd {
	engine := m.deps.Engine
	return func() tea.Msg {
		catalog, err := engine.Discover(context.Background(), root)
		return discoveryMsg{root: root, catalog: catalog, err: err}
	}
}

func (m *Model) wsConnectCmd(url string) tea.Cmd {
	return func() tea.Msg {
		conn, err := stream.Dial(context.Background(), url, stream.DialOptions{})
		return wsConnectedMsg{conn: conn, err: err}
	}
}

func (m *Model) wsSendCmd(conn *stream.Conn, payload string) tea.Cmd {
	return func() tea.Msg {
		return wsSentMsg{err: conn.Send(context.Background(), payload)}
	}
}

// wsListenCmd delivers the next transcript event. The update loop re-issues
// it after each message so the session drains without a dedicated goroutine
// outside bubbletea's control.
func wsListenCmd(conn *stream.Conn, l stream.Listener) tea.Cmd {
	session := conn.Session()
	return func() tea.Msg {
		select {
		case evt, ok := <-l.C:
			if !ok {
				return streamClosedMsg{sessionID: session.ID(), err: session.Err()}
			}
			return streamEventMsg{sessionID: session.ID(), event: evt}
		case <-session.Done():
			return streamClosedMsg{sessionID: session.ID(), err: session.Err()}
		}
	}
}

func (m *Model) wsCloseCmd(conn *stream.Conn) tea.Cmd {
	return func() tea.Msg {
		err := conn.Close(websocket.StatusNormalClosure, "user disconnect")
		return streamClosedMsg{sessionID: conn.Session().ID(), err: err}
	}
}

func (m *Model) importCurlCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadAll()
		if err != nil {
			return curlImportedMsg{err: errdef.Wrap(errdef.CodeImport, err, "read clipboard")}
		}
		req, warnings, err := curl.Parse(text)
		return curlImportedMsg{request: req, warnings: warnings, err: err}
	}
}

func (m *Model) exportCurlCmd(req *model.HTTPRequest) tea.Cmd {
	return func() tea.Msg {
		if err := req.Validate(); err != nil {
			return curlExportedMsg{err: err}
		}
		return curlExportedMsg{err: clipboard.WriteAll(curl.Command(req))}
	}
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	store := m.deps.History
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historyLoadedMsg{err: store.Load()}
	}
}

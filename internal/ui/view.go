package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/stream"
)

const timeRound = time.Millisecond

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case tabHTTP:
		b.WriteString(m.renderHTTP())
	case tabWebSocket:
		b.WriteString(m.renderWebSocket())
	case tabGraphQL:
		b.WriteString(m.renderGraphQL())
	case tabDiscover:
		b.WriteString(m.renderDiscover())
	case tabHistory:
		b.WriteString(m.histList.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, int(tabCount))
	for t := tabKind(0); t < tabCount; t++ {
		style := tabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(t.title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHTTP() string {
	var b strings.Builder

	urlLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		methodStyle.Render(string(m.http.method)),
		m.fieldBox(m.http.url.View(), m.http.focus == httpFieldURL),
	)
	b.WriteString(urlLine)
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Headers"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.http.headers.View(), m.http.focus == httpFieldHeaders))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Body"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.http.body.View(), m.http.focus == httpFieldBody))
	b.WriteString("\n")

	b.WriteString(m.renderResponsePane())
	return b.String()
}

func (m *Model) renderWebSocket() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("URL"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.ws.url.View(), m.ws.focusURL))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Message"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.ws.message.View(), !m.ws.focusURL))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Transcript"))
	b.WriteString("\n")
	b.WriteString(m.renderTranscript())
	return b.String()
}

func (m *Model) renderTranscript() string {
	if len(m.ws.transcript) == 0 {
		if m.ws.conn == nil {
			return helpStyle.Render("not connected")
		}
		return helpStyle.Render("connected, no messages yet")
	}

	limit := m.height / 2
	if limit < 4 {
		limit = 4
	}
	events := m.ws.transcript
	if len(events) > limit {
		events = events[len(events)-limit:]
	}

	var b strings.Builder
	for _, evt := range events {
		b.WriteString(renderStreamEvent(evt))
		b.WriteString("\n")
	}
	return b.String()
}

func renderStreamEvent(evt *stream.Event) string {
	stamp := evt.Timestamp.Format("15:04:05.000")
	switch evt.Direction {
	case stream.DirSend:
		return fmt.Sprintf("%s [send] %s", stamp, evt.Payload)
	case stream.DirReceive:
		return fmt.Sprintf("%s [recv] %s", stamp, evt.Payload)
	default:
		if evt.Reason != "" {
			return fmt.Sprintf("%s [close] %d %s", stamp, evt.Code, evt.Reason)
		}
		return fmt.Sprintf("%s [close] %d", stamp, evt.Code)
	}
}

func (m *Model) renderGraphQL() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Endpoint"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.gql.endpoint.View(), m.gql.focus == gqlFieldEndpoint))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Query"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.gql.query.View(), m.gql.focus == gqlFieldQuery))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Variables"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.gql.variables.View(), m.gql.focus == gqlFieldVariables))
	b.WriteString("\n")

	b.WriteString(m.renderResponsePane())
	return b.String()
}

func (m *Model) renderDiscover() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Workspace root"))
	b.WriteString("\n")
	b.WriteString(m.fieldBox(m.discover.root.View(), m.discover.focusRoot))
	b.WriteString("\n")
	if m.discover.busy {
		b.WriteString(m.spin.View())
		b.WriteString(" scanning...")
		b.WriteString("\n")
	}
	b.WriteString(m.discover.results.View())
	return b.String()
}

func (m *Model) renderResponsePane() string {
	if m.sending {
		return m.spin.View() + " sending..."
	}
	if m.response == nil {
		return helpStyle.Render("no response yet")
	}

	var b strings.Builder
	if m.response.Failed() {
		b.WriteString(responseStatusErr.Render(
			fmt.Sprintf("%s: %s", m.response.Err, m.response.ErrDetail),
		))
	} else {
		style := responseStatusOK
		if m.response.StatusCode >= 400 {
			style = responseStatusErr
		}
		b.WriteString(style.Render(m.response.Status))
	}
	b.WriteString(helpStyle.Render(
		fmt.Sprintf("  %s", m.response.Latency.Round(timeRound)),
	))
	b.WriteString("\n")
	b.WriteString(m.responseVP.View())
	return b.String()
}

func renderResponseBody(resp *model.Response) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, header := range resp.Headers {
		b.WriteString(header.Name)
		b.WriteString(": ")
		b.WriteString(header.Value)
		b.WriteString("\n")
	}
	if len(resp.Headers) > 0 && resp.Body != "" {
		b.WriteString("\n")
	}
	b.WriteString(resp.Body)
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.status.text == "" {
		return ""
	}
	return statusStyleFor(m.status.level).Render(m.status.text)
}

func (m *Model) renderHelp() string {
	if m.chordPrefix != "" {
		return helpStyle.Render(m.chordPrefix + " ... (1-5 jumps to a tab)")
	}
	var hints []string
	switch m.tab {
	case tabHTTP:
		hints = []string{
			"ctrl+enter send", "ctrl+t method", "ctrl+b import curl",
			"ctrl+y export curl", "tab next field",
		}
	case tabWebSocket:
		if m.ws.conn == nil {
			hints = []string{"ctrl+enter connect", "tab switch field"}
		} else {
			hints = []string{"ctrl+enter send", "ctrl+c disconnect"}
		}
	case tabGraphQL:
		hints = []string{"ctrl+enter send", "tab next field"}
	case tabDiscover:
		if m.discover.focusRoot {
			hints = []string{"ctrl+enter scan", "tab results"}
		} else {
			hints = []string{"enter load endpoint", "/ filter", "tab root"}
		}
	case tabHistory:
		hints = []string{"/ filter"}
	}
	hints = append(hints, "ctrl+left/right tabs", "ctrl+q quit")
	return helpStyle.Render(strings.Join(hints, " · "))
}

// fieldBox wraps a component view in a border that signals focus.
func (m *Model) fieldBox(view string, focused bool) string {
	if focused {
		return focusedBorderStyle.Render(view)
	}
	return blurredBorderStyle.Render(view)
}

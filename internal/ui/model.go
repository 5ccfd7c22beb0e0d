package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avask/termapi/internal/bindings"
	"github.com/avask/termapi/internal/config"
	"github.com/avask/termapi/internal/discovery"
	"github.com/avask/termapi/internal/history"
	"github.com/avask/termapi/internal/httpclient"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/stream"
	"github.com/avask/termapi/internal/vars"
)

var _ tea.Model = (*Model)(nil)

type tabKind int

const (
	tabHTTP tabKind = iota
	tabWebSocket
	tabGraphQL
	tabDiscover
	tabHistory
	tabCount
)

func (t tabKind) title() string {
	switch t {
	case tabHTTP:
		return "HTTP"
	case tabWebSocket:
		return "WebSocket"
	case tabGraphQL:
		return "GraphQL"
	case tabDiscover:
		return "Discover"
	case tabHistory:
		return "History"
	}
	return "?"
}

type httpFormField int

const (
	httpFieldURL httpFormField = iota
	httpFieldHeaders
	httpFieldBody
	httpFieldCount
)

type httpForm struct {
	method  model.Method
	url     textinput.Model
	headers textarea.Model
	body    textarea.Model
	focus   httpFormField
}

type wsForm struct {
	url      textinput.Model
	message  textinput.Model
	conn     *stream.Conn
	listener stream.Listener
	// transcript mirrors the session events for rendering.
	transcript []*stream.Event
	focusURL   bool
}

type gqlFormField int

const (
	gqlFieldEndpoint gqlFormField = iota
	gqlFieldQuery
	gqlFieldVariables
	gqlFieldCount
)

type gqlForm struct {
	endpoint  textinput.Model
	query     textarea.Model
	variables textarea.Model
	focus     gqlFormField
}

type discoverForm struct {
	root    textinput.Model
	results list.Model
	busy    bool
	// focusRoot switches key input between the root field and the results.
	focusRoot bool
}

// Deps carries everything the shell consumes but does not own.
type Deps struct {
	Settings    config.Settings
	Client      *httpclient.Client
	Engine      *discovery.Engine
	History     *history.Store
	Resolver    *vars.Resolver
	Keys        *bindings.Map
	Environment string
	Version     string
}

type Model struct {
	deps Deps

	tab         tabKind
	chordPrefix string

	http     httpForm
	ws       wsForm
	gql      gqlForm
	discover discoverForm
	histList list.Model

	response   *model.Response
	responseVP viewport.Model
	spin       spinner.Model
	sending    bool
	cancelSend context.CancelFunc

	status statusMsg

	width  int
	height int
	ready  bool
}

func New(deps Deps) *Model {
	if deps.Keys == nil {
		deps.Keys = bindings.DefaultMap()
	}

	m := &Model{
		deps: deps,
		tab:  tabHTTP,
	}
	m.http = newHTTPForm()
	m.ws = newWSForm()
	m.gql = newGQLForm()
	m.discover = newDiscoverForm(deps.Settings.Discovery.LastRoot)
	m.histList = newHistoryList()
	m.responseVP = viewport.New(0, 0)

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.http.url.Focus()
	return m
}

func newHTTPForm() httpForm {
	url := textinput.New()
	url.Placeholder = "https://api.example.com/users"
	url.Prompt = ""

	headers := textarea.New()
	headers.Placeholder = "Content-Type: application/json"
	headers.SetHeight(4)
	headers.ShowLineNumbers = false

	body := textarea.New()
	body.Placeholder = `{"key": "value"}`
	body.SetHeight(8)
	body.ShowLineNumbers = false

	return httpForm{
		method:  model.MethodGet,
		url:     url,
		headers: headers,
		body:    body,
	}
}

func newWSForm() wsForm {
	url := textinput.New()
	url.Placeholder = "wss://echo.example.com/socket"
	url.Prompt = ""

	message := textinput.New()
	message.Placeholder = `{"subscribe": "events"}`
	message.Prompt = ""

	return wsForm{url: url, message: message, focusURL: true}
}

func newGQLForm() gqlForm {
	endpoint := textinput.New()
	endpoint.Placeholder = "https://api.example.com/graphql"
	endpoint.Prompt = ""

	query := textarea.New()
	query.Placeholder = "query { viewer { login } }"
	query.SetHeight(8)
	query.ShowLineNumbers = false

	variables := textarea.New()
	variables.Placeholder = `{"first": 10}`
	variables.SetHeight(4)
	variables.ShowLineNumbers = false

	return gqlForm{endpoint: endpoint, query: query, variables: variables}
}

func newDiscoverForm(lastRoot string) discoverForm {
	root := textinput.New()
	root.Placeholder = "/path/to/workspace"
	root.Prompt = ""
	if lastRoot != "" {
		root.SetValue(lastRoot)
	}

	results := list.New(nil, newEndpointDelegate(), 0, 0)
	results.Title = "Endpoints"
	results.SetShowStatusBar(false)
	results.SetFilteringEnabled(true)
	results.DisableQuitKeybindings()

	return discoverForm{root: root, results: results, focusRoot: true}
}

func newHistoryList() list.Model {
	l := list.New(nil, newHistoryDelegate(), 0, 0)
	l.Title = "History"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}

// Settings exposes the possibly-updated settings after the program exits,
// e.g. the last discovery root.
func (m *Model) Settings() config.Settings {
	return m.deps.Settings
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadHistoryCmd())
}

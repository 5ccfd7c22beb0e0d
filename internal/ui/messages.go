package ui

import (
	"github.com/avask/termapi/internal/discovery"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/stream"
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

type responseMsg struct {
	response *model.Response
	err      error
}

type discoveryMsg struct {
	root    string
	catalog *discovery.Catalog
	err     error
}

type wsConnectedMsg struct {
	conn *stream.Conn
	err  error
}

type wsSentMsg struct {
	err error
}

type streamEventMsg struct {
	sessionID string
	event     *stream.Event
}

type streamClosedMsg struct {
	sessionID string
	err       error
}

type curlImportedMsg struct {
	request  *model.HTTPRequest
	warnings []string
	err      error
}

type curlExportedMsg struct {
	err error
}

type historyLoadedMsg struct {
	err error
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mattn/go-runewidth"

	"github.com/avask/termapi/internal/discovery"
	"github.com/avask/termapi/internal/history"
)

const itemDescWidth = 70

type endpointItem struct {
	endpoint discovery.Endpoint
}

func (i endpointItem) Title() string {
	return i.endpoint.Title()
}

func (i endpointItem) Description() string {
	desc := fmt.Sprintf(
		"%s · %s · %s",
		i.endpoint.Framework,
		i.endpoint.Confidence,
		i.endpoint.Location(),
	)
	return runewidth.Truncate(desc, itemDescWidth, "…")
}

func (i endpointItem) FilterValue() string {
	return i.endpoint.Title() + " " + string(i.endpoint.Framework)
}

func newEndpointDelegate() list.ItemDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	return d
}

func endpointItems(catalog *discovery.Catalog) []list.Item {
	if catalog == nil {
		return nil
	}
	endpoints := catalog.Endpoints()
	items := make([]list.Item, 0, len(endpoints))
	for _, ep := range endpoints {
		items = append(items, endpointItem{endpoint: ep})
	}
	return items
}

type historyItem struct {
	entry history.Entry
}

func (i historyItem) Title() string {
	return fmt.Sprintf("%s %s", i.entry.Method, i.entry.URL)
}

func (i historyItem) Description() string {
	status := i.entry.Status
	if i.entry.Error != "" {
		status = i.entry.Error
	}
	desc := fmt.Sprintf(
		"%s · %s · %s",
		i.entry.ExecutedAt.Format("2006-01-02 15:04:05"),
		status,
		i.entry.Duration,
	)
	return runewidth.Truncate(desc, itemDescWidth, "…")
}

func (i historyItem) FilterValue() string {
	return i.entry.Method + " " + i.entry.URL
}

func newHistoryDelegate() list.ItemDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	return d
}

func historyItems(entries []history.Entry) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, historyItem{entry: entry})
	}
	return items
}

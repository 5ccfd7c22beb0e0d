package curl

import (
	"fmt"
	"sort"
	"strings"
)

const warnFlagFormat = "unsupported flag %s (ignored)"

type warningCollector struct {
	seen map[string]struct{}
}

func newWarningCollector() *warningCollector {
	return &warningCollector{}
}

func (c *warningCollector) add(msg string) {
	if c == nil {
		return
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[msg] = struct{}{}
}

func (c *warningCollector) flag(flag string) {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return
	}
	c.add(fmt.Sprintf(warnFlagFormat, flag))
}

func (c *warningCollector) list() []string {
	if c == nil || len(c.seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.seen))
	for msg := range c.seen {
		out = append(out, msg)
	}
	sort.Strings(out)
	return out
}

package entity

import (
	"strings"
	"time"
)

// BrowserHeaderNames are the headers taken from a HeaderSet for outgoing
// requests, in the order they are sent.
var BrowserHeaderNames = []string{"User-Agent", "Sec-Ch-Ua-Platform", "Sec-Ch-Ua"}

// HeaderSet is one browser-like set of HTTP request headers, keyed by
// lower-cased header name as returned by the headers API.
type HeaderSet map[string]string

// Get returns the value for name, ignoring case.
func (h HeaderSet) Get(name string) string {
	if v, ok := h[strings.ToLower(name)]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// UserAgent is a shortcut for Get("user-agent").
func (h HeaderSet) UserAgent() string {
	return h.Get("user-agent")
}

// BrowserHeaders returns the non-empty BrowserHeaderNames values keyed by canonical name.
func (h HeaderSet) BrowserHeaders() map[string]string {
	out := make(map[string]string, len(BrowserHeaderNames))
	for _, name := range BrowserHeaderNames {
		if v := h.Get(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// BrowserHeaderLines renders the browser headers as "Name:value" lines.
func (h HeaderSet) BrowserHeaderLines() []string {
	var lines []string
	for _, name := range BrowserHeaderNames {
		if v := h.Get(name); v != "" {
			lines = append(lines, name+":"+v)
		}
	}
	return lines
}

// HeaderSnapshot is the persisted header list with the time it was fetched.
type HeaderSnapshot struct {
	Headers   []HeaderSet
	FetchedAt time.Time
}

// Stale reports whether the snapshot must be refetched: it is empty, has no
// timestamp, or is older than maxAge at now.
func (s *HeaderSnapshot) Stale(now time.Time, maxAge time.Duration) bool {
	if s == nil || len(s.Headers) == 0 || s.FetchedAt.IsZero() {
		return true
	}
	return now.Sub(s.FetchedAt) > maxAge
}

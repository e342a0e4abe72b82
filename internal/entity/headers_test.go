package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeaderSetBrowserHeaders(t *testing.T) {
	h := HeaderSet{
		"user-agent":         "Mozilla/5.0",
		"sec-ch-ua-platform": `"Windows"`,
		"accept":             "text/html",
	}

	assert.Equal(t, map[string]string{
		"User-Agent":         "Mozilla/5.0",
		"Sec-Ch-Ua-Platform": `"Windows"`,
	}, h.BrowserHeaders())
	assert.Equal(t, []string{"User-Agent:Mozilla/5.0", `Sec-Ch-Ua-Platform:"Windows"`}, h.BrowserHeaderLines())
}

func TestHeaderSetGetIgnoresCase(t *testing.T) {
	h := HeaderSet{"User-Agent": "ua"}
	assert.Equal(t, "ua", h.Get("user-agent"))
	assert.Equal(t, "ua", h.UserAgent())
	assert.Equal(t, "", h.Get("sec-ch-ua"))
}

func TestHeaderSnapshotStale(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	headers := []HeaderSet{{"user-agent": "ua"}}

	tests := []struct {
		name string
		snap *HeaderSnapshot
		want bool
	}{
		{"nil", nil, true},
		{"empty", &HeaderSnapshot{FetchedAt: now}, true},
		{"no timestamp", &HeaderSnapshot{Headers: headers}, true},
		{"fresh", &HeaderSnapshot{Headers: headers, FetchedAt: now.Add(-11 * time.Hour)}, false},
		{"exactly max age", &HeaderSnapshot{Headers: headers, FetchedAt: now.Add(-12 * time.Hour)}, false},
		{"old", &HeaderSnapshot{Headers: headers, FetchedAt: now.Add(-13 * time.Hour)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Stale(now, 12*time.Hour))
		})
	}
}

func TestAudioRequestQuery(t *testing.T) {
	r := AudioRequest{Title: "Yesterday", Artist: "The Beatles"}
	assert.Equal(t, "Yesterday The Beatles audio", r.Query())
	assert.Equal(t, "Yesterday audio", AudioRequest{Title: " Yesterday "}.Query())
}

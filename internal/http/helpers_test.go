package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"financepro/internal/core"
)

func TestRateLimiterWindow(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(3)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatalf("fourth request should be limited")
	}
	if !rl.allow("5.6.7.8") {
		t.Fatalf("other clients are independent")
	}
	if rl.rejected() != 1 {
		t.Errorf("rejected = %d", rl.rejected())
	}

	clock = clock.Add(2 * time.Minute)
	if !rl.allow("1.2.3.4") {
		t.Fatalf("window should reset after a minute")
	}

	clock = clock.Add(time.Hour)
	if n := rl.cleanupStaleEntries(); n != 2 {
		t.Errorf("cleaned %d entries, want 2", n)
	}
	if rl.activeClients() != 0 {
		t.Errorf("active clients = %d", rl.activeClients())
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.9:5555", "", "203.0.113.9"},
		{"untrusted proxy ignored", "203.0.113.9:5555", "198.51.100.1", "203.0.113.9"},
		{"trusted proxy", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "127.0.0.1:80", "not-an-ip", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrTransactionNotFound, http.StatusNotFound},
		{core.ErrNotificationNotFound, http.StatusNotFound},
		{core.ErrReadOnlyMethod, http.StatusConflict},
		{core.ErrSelfTransfer, http.StatusConflict},
		{fmt.Errorf("%w: debt", core.ErrInvalidEntity), http.StatusUnprocessableEntity},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrUnknownCommand, http.StatusBadRequest},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if d, err := parseDate(""); err != nil || !d.IsZero() {
		t.Errorf("empty date should be zero, got %v %v", d, err)
	}
	d, err := parseDate("2025-03-01")
	if err != nil || d.Year() != 2025 || d.Month() != time.March || d.Day() != 1 {
		t.Errorf("parseDate = %v, %v", d, err)
	}
	if _, err := parseDate("2025-03-01T10:00:00Z"); err != nil {
		t.Errorf("RFC 3339 should parse: %v", err)
	}
	if _, err := parseDate("yesterday"); err == nil {
		t.Errorf("expected error")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  rent\x00\x07 march\n "); got != "rent march" {
		t.Errorf("sanitizeInput = %q", got)
	}
}

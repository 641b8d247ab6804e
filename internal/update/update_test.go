package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.9", true},
		{"1.10.0", "1.9.0", true},
		{"1.2.0", "1.2.0", false},
		{"1.2", "1.2.0", false},
		{"1.2.1", "1.2", true},
		{"1.0.0", "2.0.0", false},
		{"2.0.0-rc1", "1.9.0", true},
	}
	for _, tt := range tests {
		if got := newer(tt.latest, tt.current); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c := NewChecker()
	c.URL = srv.URL
	c.Client = srv.Client()
	return c
}

func TestCheck(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v1.3.0"}`)

	res := c.Check(context.Background(), "v1.2.0")
	if res == nil || res.LatestVersion != "1.3.0" {
		t.Fatalf("expected 1.3.0, got %+v", res)
	}
	if res := c.Check(context.Background(), "1.3.0"); res != nil {
		t.Errorf("expected nil when current, got %+v", res)
	}
	if res := c.Check(context.Background(), "dev"); res != nil {
		t.Errorf("expected nil for dev builds, got %+v", res)
	}
}

func TestCheckFailures(t *testing.T) {
	if res := newTestChecker(t, http.StatusNotFound, "").Check(context.Background(), "1.0.0"); res != nil {
		t.Errorf("expected nil on 404, got %+v", res)
	}
	if res := newTestChecker(t, http.StatusOK, "not json").Check(context.Background(), "1.0.0"); res != nil {
		t.Errorf("expected nil on bad body, got %+v", res)
	}
}

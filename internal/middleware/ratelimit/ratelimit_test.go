package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	clock := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	rl.now = func() time.Time { return clock }
	t.Cleanup(rl.Stop)
	return rl, &clock
}

func TestLimiterWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other clients are independent")
	}

	*clock = clock.Add(61 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("new window should allow again")
	}
	if got := rl.GetMetrics(); got.TotalHits != 1 || got.ClientCount != 2 {
		t.Errorf("metrics = %+v", got)
	}
}

func TestLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 10)
	rl.Allow("a")
	*clock = clock.Add(5 * time.Minute)
	rl.Allow("b")
	*clock = clock.Add(6 * time.Minute)

	if n := rl.cleanupStaleEntries(); n != 1 {
		t.Errorf("removed %d, want 1", n)
	}
	if rl.ActiveClients() != 1 {
		t.Errorf("ActiveClients() = %d", rl.ActiveClients())
	}
}

func TestMiddlewareOnlyLimitsMutations(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPost, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodDelete, http.StatusTooManyRequests},
	}
	for i, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/transactions", nil))
		if rr.Code != tt.want {
			t.Errorf("request %d (%s) status = %d, want %d", i, tt.method, rr.Code, tt.want)
		}
		if tt.want == http.StatusTooManyRequests && rr.Header().Get("Retry-After") != "60" {
			t.Error("missing Retry-After header")
		}
	}
}

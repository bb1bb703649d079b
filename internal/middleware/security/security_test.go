package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector(nil)
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"direct", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"untrusted peer ignores forwarding", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7"},
		{"trusted proxy forwards", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"}, "198.51.100.4"},
		{"invalid forwarded falls back to real ip", "127.0.0.1:80", map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"no port", "192.0.2.1", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector(nil)
	tests := []struct {
		name   string
		method string
		target string
		ua     string
		want   bool
	}{
		{"normal api call", http.MethodGet, "/api/summary?month=2025-05", "curl/8.0", false},
		{"path traversal", http.MethodGet, "/api/../../etc/passwd", "", true},
		{"sql injection in query", http.MethodGet, "/api/transactions?search=1%20union%20select", "", true},
		{"scanner agent", http.MethodGet, "/", "sqlmap/1.7", true},
		{"long url", http.MethodGet, "/api/transactions?search=" + strings.Repeat("a", 2100), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.ua)
			if got := d.DetectSuspiciousRequest(r); got != tt.want {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
		})
	}
	if d.SuspiciousRequests() != 4 {
		t.Errorf("SuspiciousRequests() = %d, want 4", d.SuspiciousRequests())
	}
}

func TestDetectorMiddlewareBlocksTrace(t *testing.T) {
	d := NewDetector(nil)
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("TRACE", "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("TRACE status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/.env", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("suspicious GET should only be logged, status = %d", rr.Code)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, k := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if rr.Header().Get(k) == "" {
			t.Errorf("missing %s", k)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector(nil)
	if err := d.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Error("expected error")
	}
	if err := d.AddTrustedProxy("203.0.113.0/24"); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:1"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	if got := d.ExtractClientIP(r); got != "198.51.100.1" {
		t.Errorf("ExtractClientIP() = %q", got)
	}
}

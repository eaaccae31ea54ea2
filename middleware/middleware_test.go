package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"whoisrecord/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(400, err.Error())
			return
		}
		c.JSON(200, body)
	})
	return r
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
	return resp.Error.Code
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := perform(r, httptest.NewRequest("GET", "/ping", nil))
	if id := w.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated id = %q", id)
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	if id := perform(r, req).Header().Get(RequestIDHeader); id != "trace-123" {
		t.Errorf("propagated id = %q", id)
	}

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	if id := perform(r, req).Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("oversized id not replaced: %q", id)
	}
}

func issueToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/token", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	w := perform(r, req)
	if w.Code != 200 {
		t.Fatalf("token status = %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Data.Token == "" {
		t.Fatalf("token body = %s", w.Body.String())
	}
	return resp.Data.Token
}

func TestAuthTokenLifecycle(t *testing.T) {
	auth := NewAuth("test-secret", nil)
	r := gin.New()
	r.POST("/token", auth.GenerateToken())
	r.GET("/private", auth.Required(), func(c *gin.Context) { c.String(200, "ok") })

	call := func(token, remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/private", nil)
		req.RemoteAddr = remote
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return perform(r, req)
	}

	if code := decodeError(t, call("", "203.0.113.7:1")); code != "MISSING_TOKEN" {
		t.Errorf("missing token code = %s", code)
	}
	if code := decodeError(t, call("garbage", "203.0.113.7:1")); code != "INVALID_TOKEN" {
		t.Errorf("garbage token code = %s", code)
	}

	token := issueToken(t, r)
	if code := decodeError(t, call(token, "198.51.100.1:1")); code != "IP_BINDING_FAILED" {
		t.Errorf("foreign ip code = %s", code)
	}
	if w := call(token, "203.0.113.7:1"); w.Code != 200 {
		t.Fatalf("first use status = %d body=%s", w.Code, w.Body.String())
	}
	if code := decodeError(t, call(token, "203.0.113.7:1")); code != "TOKEN_REUSED" {
		t.Errorf("replay code = %s", code)
	}

	other := NewAuth("other-secret", nil)
	r2 := gin.New()
	r2.GET("/private", other.Required(), func(c *gin.Context) { c.String(200, "ok") })
	req := httptest.NewRequest("GET", "/private", nil)
	req.RemoteAddr = "203.0.113.7:1"
	req.Header.Set("Authorization", "Bearer "+issueToken(t, r))
	if code := decodeError(t, perform(r2, req)); code != "INVALID_TOKEN" {
		t.Errorf("wrong secret code = %s", code)
	}
}

func TestAuthTokenIssueLimit(t *testing.T) {
	auth := NewAuth("s", nil)
	r := gin.New()
	r.POST("/token", auth.GenerateToken())
	for i := 0; i < tokensPerMinute; i++ {
		issueToken(t, r)
	}
	req := httptest.NewRequest("POST", "/token", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	w := perform(r, req)
	if w.Code != 429 {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestNormalizeIP(t *testing.T) {
	tests := []struct{ in, want string }{
		{" 203.0.113.7 ", "203.0.113.7"},
		{"::ffff:203.0.113.7", "203.0.113.7"},
		{"2001:DB8::1", "2001:db8::1"},
		{"not-an-ip", "not-an-ip"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeIP(tt.in); got != tt.want {
			t.Errorf("normalizeIP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRateLimitMemory(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	cfg.Rate = 1
	cfg.Period = time.Hour
	cfg.Burst = 2
	cfg.ExcludeIPs = []string{"10.0.0.0/8"}
	r := newEngine(RateLimitWithConfig(cfg))

	get := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = remote
		return perform(r, req)
	}

	for i := 0; i < 2; i++ {
		if w := get("198.51.100.2:1"); w.Code != 200 {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w := get("198.51.100.2:1")
	if w.Code != 429 || w.Header().Get("Retry-After") != "3600" {
		t.Errorf("status = %d retry-after = %q", w.Code, w.Header().Get("Retry-After"))
	}
	if code := decodeError(t, w); code != "TOO_MANY_REQUESTS" {
		t.Errorf("code = %s", code)
	}

	// 其他IP与排除网段不受影响
	if w := get("198.51.100.3:1"); w.Code != 200 {
		t.Errorf("other ip status = %d", w.Code)
	}
	for i := 0; i < 5; i++ {
		if w := get("10.1.2.3:1"); w.Code != 200 {
			t.Fatalf("excluded ip status = %d", w.Code)
		}
	}
}

func TestSizeLimit(t *testing.T) {
	r := newEngine(SizeLimitWithConfig(SizeLimitConfig{Limit: 16, Message: "too big"}))

	w := perform(r, httptest.NewRequest("POST", "/echo", strings.NewReader(`{"a":"b"}`)))
	if w.Code != 200 {
		t.Errorf("small body status = %d", w.Code)
	}

	w = perform(r, httptest.NewRequest("POST", "/echo", strings.NewReader(`{"a":"`+strings.Repeat("b", 64)+`"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body status = %d", w.Code)
	}

	// 未知长度的请求体
	req := httptest.NewRequest("POST", "/echo", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	if w := perform(r, req); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("chunked body status = %d", w.Code)
	}
}

func TestErrorHandlerRecovers(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(http.ErrHandlerTimeout) })

	for _, path := range []string{"/panic", "/err"} {
		w := perform(r, httptest.NewRequest("GET", path, nil))
		if w.Code != 500 {
			t.Errorf("%s status = %d", path, w.Code)
		}
		if code := decodeError(t, w); code != "INTERNAL_SERVER_ERROR" {
			t.Errorf("%s code = %s", path, code)
		}
	}
}

func TestSecurityAndCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:3000"}), SecurityWithConfig(DefaultSecurityConfig()))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := perform(r, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	if w := perform(r, req); w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d", w.Code)
	}
}

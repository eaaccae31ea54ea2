package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"whoisrecord/middleware"
	"whoisrecord/parsers"
	"whoisrecord/providers"
	"whoisrecord/record"
	"whoisrecord/services"
	"whoisrecord/types"
	"whoisrecord/utils"
)

const exampleBody = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Registrar URL: http://res-dom.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar IANA ID: 376
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
>>> Last update of whois database: 2024-09-01T10:00:00Z <<<
`

const verisignHost = "whois.verisign-grs.com"

// stubProvider 按查询值返回固定的原始响应
type stubProvider struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
	calls  int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, q utils.Query) (*providers.Response, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	body, ok := p.bodies[q.Value]
	if !ok {
		body = "No match for \"" + strings.ToUpper(q.Value) + "\".\n"
	}
	return &providers.Response{
		Server: &types.Server{Type: "tld", Allocation: "." + q.TLD, Host: verisignHost},
		Parts:  []types.Part{{Body: body, Host: verisignHost}},
	}, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, p providers.Provider, pool bool) *gin.Engine {
	t.Helper()
	reg, err := parsers.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	m := services.NewRecordManager(reg, record.DefaultCatalog(), nil)
	m.AddProvider(p)

	container := &services.ServiceContainer{RecordManager: m}
	if pool {
		container.WorkerPool = services.NewWorkerPool(2)
		container.WorkerPool.Start()
		t.Cleanup(container.WorkerPool.Stop)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ServiceMiddleware(container))
	r.GET("/api/health", HealthCheckHandler("test"))
	r.GET("/api/v1/catalog", CatalogHandler)
	r.GET("/api/v1/whois/:query", WhoisHandler)
	r.GET("/api/v1/whois/:query/:member", MemberHandler)
	r.POST("/api/v1/whois/compare", WhoisComparisonHandler)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
	Meta    *utils.MetaInfo `json:"meta"`
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func TestWhoisHandler(t *testing.T) {
	for _, pool := range []bool{false, true} {
		p := &stubProvider{bodies: map[string]string{"example.com": exampleBody}}
		r := newTestRouter(t, p, pool)

		code, env := do(t, r, "GET", "/api/v1/whois/www.Example.COM?support=true", "")
		if code != 200 || !env.Success {
			t.Fatalf("pool=%v status = %d error = %+v", pool, code, env.Error)
		}
		if env.Meta == nil || env.Meta.Provider != "stub" || env.Meta.RequestID == "" {
			t.Errorf("meta = %+v", env.Meta)
		}

		var view struct {
			Query      string              `json:"query"`
			Properties map[string]any      `json:"properties"`
			Response   ResponseFlags       `json:"response"`
			Support    map[string][]string `json:"support"`
			Backends   []string            `json:"backends"`
		}
		if err := json.Unmarshal(env.Data, &view); err != nil {
			t.Fatal(err)
		}
		if view.Query != "example.com" {
			t.Errorf("query = %q", view.Query)
		}
		if view.Properties["domain"] != "example.com" || view.Properties["registered"] != true {
			t.Errorf("properties = %v", view.Properties)
		}
		if got := view.Properties["expires_on"]; got != "2025-08-13T04:00:00Z" {
			t.Errorf("expires_on = %v", got)
		}
		if len(view.Backends) != 1 || view.Backends[0] != parsers.KindVerisign {
			t.Errorf("backends = %v", view.Backends)
		}
		if s := view.Support["registrant_contacts"]; len(s) != 1 || s[0] != "unsupported" {
			t.Errorf("support = %v", s)
		}
		if view.Response.Throttled || view.Response.Unavailable {
			t.Errorf("response flags = %+v", view.Response)
		}
	}
}

func TestWhoisHandlerErrors(t *testing.T) {
	r := newTestRouter(t, &stubProvider{err: errors.New("connection refused")}, false)

	code, env := do(t, r, "GET", "/api/v1/whois/not_a_domain!", "")
	if code != 400 || env.Error.Code != "INVALID_QUERY" {
		t.Errorf("invalid query: %d %+v", code, env.Error)
	}

	code, env = do(t, r, "GET", "/api/v1/whois/example.com", "")
	if code != 502 || env.Error.Code != "LOOKUP_FAILED" {
		t.Errorf("provider failure: %d %+v", code, env.Error)
	}
}

func TestMemberHandler(t *testing.T) {
	p := &stubProvider{bodies: map[string]string{"example.com": exampleBody}}
	r := newTestRouter(t, p, false)

	tests := []struct {
		member string
		want   any
	}{
		{"domain", "example.com"},
		{"registered?", true},
		{"available?", false},
		{"available", false},
		{"response_throttled?", false},
		{"registrant_contacts", nil},
		{"content", exampleBody},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			code, env := do(t, r, "GET", "/api/v1/whois/example.com/"+tt.member, "")
			if code != 200 {
				t.Fatalf("status = %d error = %+v", code, env.Error)
			}
			var data struct {
				Member string `json:"member"`
				Value  any    `json:"value"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatal(err)
			}
			if data.Member != tt.member || data.Value != tt.want {
				t.Errorf("value = %#v, want %#v", data.Value, tt.want)
			}
		})
	}

	calls := p.callCount()
	for _, name := range []string{"unknown_name", "created_on%3F%3F", "parser"} {
		code, env := do(t, r, "GET", "/api/v1/whois/example.com/"+name, "")
		if code != 404 || env.Error.Code != "UNKNOWN_MEMBER" {
			t.Errorf("%s: %d %+v", name, code, env.Error)
		}
	}
	if p.callCount() != calls {
		t.Error("unknown members must not trigger a lookup")
	}
}

func TestCatalogHandler(t *testing.T) {
	r := newTestRouter(t, &stubProvider{}, false)
	code, env := do(t, r, "GET", "/api/v1/catalog", "")
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	var data struct {
		Properties []string `json:"properties"`
		Methods    []string `json:"methods"`
		Hosts      []string `json:"hosts"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Properties) != len(record.DefaultCatalog().Properties()) || data.Properties[0] != record.PropDisclaimer {
		t.Errorf("properties = %v", data.Properties)
	}
	if len(data.Methods) == 0 || len(data.Hosts) == 0 {
		t.Errorf("methods = %v hosts = %v", data.Methods, data.Hosts)
	}
}

func TestWhoisComparisonHandler(t *testing.T) {
	p := &stubProvider{bodies: map[string]string{
		"example.com": exampleBody,
		"example.net": exampleBody,
	}}
	r := newTestRouter(t, p, true)

	later := strings.Replace(exampleBody, "2024-09-01T10:00:00Z", "2024-09-02T11:00:00Z", 1)
	renewed := strings.Replace(exampleBody, "2025-08-13", "2026-08-13", 1)

	side := func(body string) string {
		b, _ := json.Marshal(CompareSide{Parts: []types.Part{{Body: body, Host: verisignHost}}})
		return string(b)
	}

	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantChanged bool
	}{
		{"timestamp only", `{"left":` + side(exampleBody) + `,"right":` + side(later) + `}`, 200, false},
		{"renewed", `{"left":` + side(exampleBody) + `,"right":` + side(renewed) + `}`, 200, true},
		{"query vs parts", `{"left":{"query":"example.com"},"right":` + side(exampleBody) + `}`, 200, false},
		{"two queries", `{"left":{"query":"example.com"},"right":{"query":"example.org"}}`, 200, true},
		{"backend kinds differ", `{"left":` + side(exampleBody) + `,"right":{"parts":[{"body":"x","host":"whois.unknown.test"}]}}`, 200, true},
		{"empty side", `{"left":{},"right":` + side(exampleBody) + `}`, 400, false},
		{"bad json", `{`, 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, r, "POST", "/api/v1/whois/compare", tt.body)
			if code != tt.wantCode {
				t.Fatalf("status = %d error = %+v", code, env.Error)
			}
			if code != 200 {
				return
			}
			var res CompareResult
			if err := json.Unmarshal(env.Data, &res); err != nil {
				t.Fatal(err)
			}
			if res.Changed != tt.wantChanged || res.Unchanged == res.Changed {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestHealthCheckHandler(t *testing.T) {
	r := newTestRouter(t, &stubProvider{}, false)
	req := httptest.NewRequest("GET", "/api/health?detailed=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Status   string                    `json:"status"`
		Version  string                    `json:"version"`
		Services map[string]map[string]any `json:"services"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "up" || body.Version != "test" {
		t.Errorf("body = %+v", body)
	}
	if body.Services["redis"]["status"] != "disabled" {
		t.Errorf("redis = %v", body.Services["redis"])
	}
	if _, ok := body.Services["whois"]["providers"]; !ok {
		t.Errorf("detailed health missing providers: %v", body.Services["whois"])
	}
}

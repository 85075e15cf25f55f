package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vedsharma/soar/internal/config"
	"github.com/vedsharma/soar/internal/format"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/progress"
	"github.com/vedsharma/soar/internal/reqlog"
	"github.com/vedsharma/soar/internal/testutil"
)

type testConfig struct {
	url            string
	key            string
	sendFullBody   bool
	retryRatelimit bool
	saveRequests   bool
}

func writeConfig(t *testing.T, tc testConfig) *config.Resolver {
	t.Helper()

	lib := t.TempDir()
	content := fmt.Sprintf(`version: 1.2.0
application:
  url: %q
  key: %q
client:
  url: %q
  key: ""
logs:
  show_debug: false
  show_http: false
  show_websocket: false
  use_colour: false
http:
  save_requests: %t
  send_full_body: %t
  retry_ratelimit: %t
core:
  ignore_warnings: false
  stop_at_sys_error: false
  save_error_logs: false
`, tc.url, tc.key, tc.url, tc.saveRequests, tc.sendFullBody, tc.retryRatelimit)

	if err := os.WriteFile(filepath.Join(lib, config.GlobalFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return config.NewResolver(lib, t.TempDir())
}

func newTestSession(t *testing.T, resolver *config.Resolver, surface string, out *bytes.Buffer) *Session {
	t.Helper()
	return NewSession(surface, resolver, model.FlagOptions{Silent: true},
		WithPrinter(format.NewPrinter(out, out, false)),
	)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func TestHandleRequestMissingAuth(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	tests := []struct {
		name    string
		cfg     testConfig
		surface string
		field   string
	}{
		{"missing key", testConfig{url: server.URL}, config.Application, "key"},
		{"missing url", testConfig{key: "ptla_key"}, config.Application, "url"},
		{"client surface", testConfig{url: server.URL, key: "ptla_key"}, config.Client, "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := newTestSession(t, writeConfig(t, tt.cfg), tt.surface, &out)

			_, err := s.HandleRequest("GET", "/api/application/users", nil)

			var authErr *MissingAuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("HandleRequest() error = %v, want *MissingAuthError", err)
			}
			if authErr.Surface != tt.surface || authErr.Field != tt.field {
				t.Errorf("MissingAuthError = %+v", authErr)
			}
		})
	}

	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestHandleRequestUnsupportedMethod(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, config.NewResolver("", ""), config.Application, &out)

	for _, method := range []string{"HEAD", "OPTIONS", "trace"} {
		if _, err := s.HandleRequest(method, "/api/application/users", nil); !errors.Is(err, ErrUnsupportedMethod) {
			t.Errorf("HandleRequest(%s) error = %v, want ErrUnsupportedMethod", method, err)
		}
	}
}

func TestHandleRequestSendsHeadersAndBody(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var out bytes.Buffer
	s := newTestSession(t, writeConfig(t, testConfig{url: server.URL + "/", key: "ptla_secret"}), config.Application, &out)

	body := model.NewObject()
	body.Set("name", "Frankfurt")
	body.Set("short", "fra")

	if _, err := s.HandleRequest("post", "/api/application/locations", body); err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}

	if got.Method != "POST" || got.URL.Path != "/api/application/locations" {
		t.Errorf("request = %s %s", got.Method, got.URL.Path)
	}
	for header, want := range map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer ptla_secret",
		"User-Agent":    "Soar Client v1.2.0",
	} {
		if v := got.Header.Get(header); v != want {
			t.Errorf("%s = %q, want %q", header, v, want)
		}
	}
	if string(gotBody) != `{"name":"Frankfurt","short":"fra"}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestHandleRequestClassification(t *testing.T) {
	const user = `{"object":"user","attributes":{"id":1,"username":"admin"}}`
	const list = `{"object":"list","data":[{"object":"user","attributes":{"id":1}}],"meta":{}}`
	const bare = `{"id":7,"name":"plain"}`

	tests := []struct {
		name         string
		handler      http.HandlerFunc
		sendFullBody bool
		want         string
		wantNil      bool
		wantRaw      string
		wantErr      any
	}{
		{name: "204 is nil", handler: jsonHandler(204, ""), wantNil: true},
		{name: "attributes", handler: jsonHandler(200, user), want: `{"id":1,"username":"admin"}`},
		{name: "data", handler: jsonHandler(200, list), want: `[{"object":"user","attributes":{"id":1}}]`},
		{name: "full body when neither", handler: jsonHandler(201, bare), want: bare},
		{name: "full body enabled", handler: jsonHandler(200, user), sendFullBody: true, want: user},
		{
			name: "non json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				io.WriteString(w, "wings config")
			},
			wantRaw: "wings config",
		},
		{
			name: "json with charset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				io.WriteString(w, user)
			},
			want: `{"id":1,"username":"admin"}`,
		},
		{name: "server error", handler: jsonHandler(502, `{}`), wantErr: &StatusError{}},
		{name: "redirect is unclassified", handler: jsonHandler(302, ``), wantErr: &StatusError{}},
		{name: "429 without retry", handler: jsonHandler(429, `{"errors":[{"code":"TooManyRequestsHttpException","status":"429","detail":"Too Many Attempts."}]}`), wantErr: &APIError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			var out bytes.Buffer
			s := newTestSession(t, writeConfig(t, testConfig{url: server.URL, key: "k", sendFullBody: tt.sendFullBody}), config.Application, &out)

			got, err := s.HandleRequest("GET", "/api/application/users/1", nil)

			switch want := tt.wantErr.(type) {
			case *StatusError:
				if !errors.As(err, &want) {
					t.Fatalf("error = %v, want *StatusError", err)
				}
				return
			case *APIError:
				if !errors.As(err, &want) {
					t.Fatalf("error = %v, want *APIError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("HandleRequest() error = %v", err)
			}

			switch {
			case tt.wantNil:
				if got != nil {
					t.Errorf("HandleRequest() = %#v, want nil", got)
				}
			case tt.wantRaw != "":
				raw, ok := got.([]byte)
				if !ok || string(raw) != tt.wantRaw {
					t.Errorf("HandleRequest() = %#v, want raw %q", got, tt.wantRaw)
				}
			default:
				encoded, err := model.MarshalJSON(got)
				if err != nil {
					t.Fatal(err)
				}
				if string(encoded) != tt.want {
					t.Errorf("HandleRequest() = %s, want %s", encoded, tt.want)
				}
			}
		})
	}
}

func TestHandleRequestAPIError(t *testing.T) {
	server := httptest.NewServer(jsonHandler(403, `{"errors":[
		{"code":"AccessDeniedHttpException","status":"403","detail":"This action is unauthorized."},
		{"code":"ValidationException","status":"422"}
	]}`))
	defer server.Close()

	var out bytes.Buffer
	s := newTestSession(t, writeConfig(t, testConfig{url: server.URL, key: "k"}), config.Application, &out)

	_, err := s.HandleRequest("DELETE", "/api/application/users/3", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 403 || len(apiErr.Errors) != 2 {
		t.Fatalf("APIError = %+v", apiErr)
	}
	if apiErr.Errors[0].Code != "AccessDeniedHttpException" || apiErr.Errors[1].Detail != "" {
		t.Errorf("Errors = %+v", apiErr.Errors)
	}
	if !apiErr.Forbidden() {
		t.Error("Forbidden() = false")
	}
}

func TestHandleRequestRetriesRateLimit(t *testing.T) {
	var calls int32
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, r.Method+" "+r.URL.Path+" "+string(b))

		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		jsonHandler(200, `{"attributes":{"id":2}}`)(w, r)
	}))
	defer server.Close()

	var out bytes.Buffer
	resolver := writeConfig(t, testConfig{url: server.URL, key: "k", retryRatelimit: true, saveRequests: true})
	s := newTestSession(t, resolver, config.Application, &out)

	body := model.NewObject()
	body.Set("email", "new@example.com")

	got, err := s.HandleRequest("PATCH", "/api/application/users/2", body)
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}
	if encoded, _ := model.MarshalJSON(got); string(encoded) != `{"id":2}` {
		t.Errorf("HandleRequest() = %s", encoded)
	}

	if len(bodies) != 4 {
		t.Fatalf("server received %d requests, want 4", len(bodies))
	}
	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Errorf("retried request %q differs from %q", b, bodies[0])
		}
	}

	if n := strings.Count(out.String(), "Rate Limited"); n != 3 {
		t.Errorf("printed %d rate limit warnings, want 3:\n%s", n, out.String())
	}

	// only the terminal response is logged
	l, _ := reqlog.Open(resolver.LibraryPath, nil)
	logs, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Response != 200 || logs[0].Method != "PATCH" {
		t.Errorf("request log = %+v", logs)
	}
}

func TestRateLimitRetryPrintsOneFinalLine(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		jsonHandler(200, `{"attributes":{"id":2}}`)(w, r)
	}))
	defer server.Close()

	var out, indicatorOut bytes.Buffer
	resolver := writeConfig(t, testConfig{url: server.URL, key: "k", retryRatelimit: true})
	s := NewSession(config.Application, resolver, model.FlagOptions{},
		WithPrinter(format.NewPrinter(&out, &out, false)),
		WithIndicator(progress.New(&indicatorOut, progress.Spinner)),
	)

	if _, err := s.HandleRequest("GET", "/api/application/users/2", nil); err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}

	got := indicatorOut.String()
	if strings.Contains(got, "failed") {
		t.Errorf("rate limited attempts printed a failure line:\n%s", got)
	}
	if n := strings.Count(got, "fetched /api/application/users/2"); n != 1 {
		t.Errorf("printed %d done lines, want 1:\n%s", n, got)
	}
	if n := strings.Count(out.String(), "Rate Limited"); n != 2 {
		t.Errorf("printed %d rate limit warnings, want 2", n)
	}
}

func TestHandleRequestLogsFailures(t *testing.T) {
	server := httptest.NewServer(jsonHandler(404, `{"errors":[{"code":"NotFoundHttpException","status":"404","detail":"not found"}]}`))
	defer server.Close()

	var out bytes.Buffer
	resolver := writeConfig(t, testConfig{url: server.URL, key: "k", saveRequests: true})
	logPath := filepath.Join(t.TempDir(), "lib")
	l, _ := reqlog.Open(logPath, nil)

	s := NewSession(config.Application, resolver, model.FlagOptions{Silent: true},
		WithPrinter(format.NewPrinter(&out, &out, false)),
		WithRequestLog(l),
		WithLogType(model.LogTypeRaw),
	)

	if _, err := s.HandleRequest("GET", "/api/application/servers/9", nil); err == nil {
		t.Fatal("HandleRequest() expected error")
	}

	logs, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("request log has %d entries, want 1", len(logs))
	}
	if logs[0].Response != 404 || logs[0].Type != model.LogTypeRaw || logs[0].Path != "/api/application/servers/9" {
		t.Errorf("entry = %+v", logs[0])
	}
	if strings.HasPrefix(logs[0].Domain, "http") {
		t.Errorf("domain kept its scheme: %q", logs[0].Domain)
	}
}

func TestHandleRequestConfigError(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, config.NewResolver("", t.TempDir()), config.Application, &out)

	_, err := s.HandleRequest("GET", "/api/application/users", nil)

	var cfgErr *config.Error
	if !errors.As(err, &cfgErr) || cfgErr.Kind != config.MissingEnv {
		t.Errorf("error = %v, want MissingEnv config error", err)
	}
}

func TestHandleRequestReplay(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "application_user")
	defer cleanup()

	var out bytes.Buffer
	s := NewSession(config.Application,
		writeConfig(t, testConfig{url: "https://panel.example.com", key: "ptla_replay"}),
		model.FlagOptions{Silent: true},
		WithPrinter(format.NewPrinter(&out, &out, false)),
		WithHTTPClient(testutil.VCRHTTPClient(r)),
	)

	got, err := s.HandleRequest("GET", "/api/application/users/1", nil)
	if err != nil {
		t.Fatalf("HandleRequest() error = %v", err)
	}

	obj, ok := got.(*model.Object)
	if !ok {
		t.Fatalf("HandleRequest() = %T, want *model.Object", got)
	}
	keys := obj.Keys()
	if keys[0] != "id" || keys[len(keys)-1] != "updated_at" {
		t.Errorf("keys = %v", keys)
	}
	if v, _ := obj.Get("id"); v != json.Number("1") {
		t.Errorf("id = %#v", v)
	}

	_, err = s.HandleRequest("GET", "/api/application/users/99", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Errors[0].Code != "NotFoundHttpException" {
		t.Errorf("error = %v, want NotFoundHttpException", err)
	}
}

func TestEstimateSize(t *testing.T) {
	obj := model.NewObject()
	obj.Set("a", "hi")
	obj.Set("b", json.Number("5"))
	obj.Set("c", true)

	if got := EstimateSize(obj); got != 16 {
		t.Errorf("EstimateSize() = %d, want 16", got)
	}

	tests := []struct {
		name string
		v    any
		want int
	}{
		{"nil", nil, 0},
		{"go int", 5, 8},
		{"unicode string", "né", 4},
		{"map", map[string]any{"a": "hi", "b": 5, "c": true}, 16},
		{"nested", []any{obj, []any{false}}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSize(tt.v); got != tt.want {
				t.Errorf("EstimateSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

package http

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/vedsharma/soar/internal/config"
	"github.com/vedsharma/soar/internal/format"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/progress"
	"github.com/vedsharma/soar/internal/reqlog"
	"github.com/vedsharma/soar/internal/version"
)

// Session issues requests against one API surface for one command
type Session struct {
	surface     string
	resolver    *config.Resolver
	opts        model.FlagOptions
	preferLocal bool
	logType     string

	httpClient *http.Client
	printer    *format.Printer
	logger     *slog.Logger
	reqlog     *reqlog.Log
	indicator  *progress.Indicator
}

// Option configures a Session
type Option func(*Session)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.httpClient = c }
}

// WithPrinter sets where warnings and http traces are printed
func WithPrinter(p *format.Printer) Option {
	return func(s *Session) { s.printer = p }
}

// WithLogger sets the debug trace logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRequestLog sets the request log appended to when http.save_requests is on
func WithRequestLog(l *reqlog.Log) Option {
	return func(s *Session) { s.reqlog = l }
}

// WithLogType sets the type tag written to the request log
func WithLogType(t string) Option {
	return func(s *Session) { s.logType = t }
}

// WithPreferLocal makes every config load prefer the workspace file
func WithPreferLocal(local bool) Option {
	return func(s *Session) { s.preferLocal = local }
}

// WithIndicator replaces the progress indicator shown while requests run
func WithIndicator(ind *progress.Indicator) Option {
	return func(s *Session) { s.indicator = ind }
}

// NewSession creates a session for the application or client surface
func NewSession(surface string, resolver *config.Resolver, opts model.FlagOptions, options ...Option) *Session {
	s := &Session{
		surface:  surface,
		resolver: resolver,
		opts:     opts,
		logType:  model.LogTypeDirect,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.printer == nil {
		s.printer = format.NewPrinter(os.Stdout, os.Stderr, false)
	}
	if s.opts.Silent {
		s.indicator = nil
	} else if s.indicator == nil {
		s.indicator = progress.New(os.Stderr, progress.Spinner)
	}

	return s
}

// Surface returns the API surface this session talks to
func (s *Session) Surface() string {
	return s.surface
}

type outcome int

const (
	done outcome = iota
	retry
)

// HandleRequest sends one request and classifies the response. It returns
// nil for 204, the decoded payload for 200 and 201, and an error for every
// other status. Rate limited requests are retried until the panel answers
// with something else when http.retry_ratelimit is on.
func (s *Session) HandleRequest(method, path string, body any) (any, error) {
	method = strings.ToUpper(method)
	if !supportedMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = model.MarshalJSON(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	for {
		result, next, err := s.attempt(method, path, body, payload)
		if next == retry {
			continue
		}
		return result, err
	}
}

func (s *Session) attempt(method, path string, body any, payload []byte) (any, outcome, error) {
	cfg, err := s.resolver.Load(s.preferLocal)
	if err != nil {
		return nil, done, err
	}

	auth := cfg.Auth(s.surface)
	if auth.URL == "" {
		return nil, done, &MissingAuthError{Surface: s.surface, Field: "url"}
	}
	if auth.Key == "" {
		return nil, done, &MissingAuthError{Surface: s.surface, Field: "key"}
	}

	log := s.debugLogger(cfg)
	showHTTP := cfg.Logs.ShowHTTP && !s.opts.Silent

	reqURL := strings.TrimRight(auth.URL, "/") + path
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer " + auth.Key,
		"User-Agent":    version.UserAgent(),
	}

	log.Debug("starting http request",
		"method", method,
		"url", reqURL,
		"payload_bytes", EstimateSize(body),
	)

	s.startIndicator(method, path)

	resp, err := NewClient(s.httpClient, log).Do(method, reqURL, headers, payload)
	if err != nil {
		s.stopIndicator(true)
		return nil, done, fmt.Errorf("request to %s failed: %w", path, err)
	}

	log.Debug("received response", "status", resp.StatusCode, "duration_ms", resp.Duration.Milliseconds(), "bytes", len(resp.Body))
	if showHTTP {
		s.printer.HTTP(fmt.Sprintf("%s %s -> %d", method, path, resp.StatusCode))
	}

	if resp.StatusCode == http.StatusTooManyRequests && cfg.HTTP.RetryRatelimit {
		// the retry draws its own indicator
		if s.indicator != nil {
			s.indicator.Abort()
		}
		if !cfg.Core.IgnoreWarnings {
			s.printer.Warn("Rate Limited", fmt.Sprintf("the panel rate limited %s %s, retrying", method, path))
		}
		return nil, retry, nil
	}

	result, err := s.classify(cfg, resp)
	s.stopIndicator(err != nil)
	s.record(cfg, auth, method, path, resp.StatusCode)

	return result, done, err
}

func (s *Session) classify(cfg *config.Config, resp *Response) (any, error) {
	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil

	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if !isJSON(resp.Header.Get("Content-Type")) {
			return resp.Body, nil
		}
		v, err := model.DecodeJSON(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response body: %w", err)
		}
		if cfg.HTTP.SendFullBody {
			return v, nil
		}
		return unwrap(v), nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, parseAPIError(resp.StatusCode, resp.Body)
	}

	return nil, &StatusError{StatusCode: resp.StatusCode}
}

// unwrap returns the data or attributes member of a response body
func unwrap(v any) any {
	obj, ok := v.(*model.Object)
	if !ok {
		return v
	}
	if data, ok := obj.Get("data"); ok {
		return data
	}
	if attrs, ok := obj.Get("attributes"); ok {
		return attrs
	}
	return v
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (s *Session) record(cfg *config.Config, auth config.Auth, method, path string, status int) {
	if !cfg.HTTP.SaveRequests {
		return
	}

	if s.reqlog == nil {
		l, err := reqlog.Open(s.resolver.LibraryPath, s.printer)
		if err != nil {
			return
		}
		s.reqlog = l
	}

	s.reqlog.Append(reqlog.Entry{
		Method:   method,
		Response: status,
		Type:     s.logType,
		Domain:   auth.URL,
		Path:     path,
	}, cfg.Core.IgnoreWarnings)
}

func (s *Session) debugLogger(cfg *config.Config) *slog.Logger {
	if s.opts.Silent || !(s.opts.DebugMode || cfg.Logs.ShowDebug) {
		return discardLogger()
	}
	if s.logger != nil {
		return s.logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var verbs = map[string][2]string{
	http.MethodGet:    {"fetching", "fetched"},
	http.MethodPost:   {"creating", "created"},
	http.MethodPatch:  {"updating", "updated"},
	http.MethodPut:    {"updating", "updated"},
	http.MethodDelete: {"deleting", "deleted"},
}

func supportedMethod(method string) bool {
	_, ok := verbs[method]
	return ok
}

func (s *Session) startIndicator(method, path string) {
	if s.indicator == nil {
		return
	}

	verb := verbs[method]
	s.indicator.Configure(progress.Templates{
		Running: fmt.Sprintf("%s %s", verb[0], path),
		Done:    fmt.Sprintf("%s %s (%sms taken)", verb[1], path, progress.Elapsed),
		Failed:  fmt.Sprintf("failed %s %s (%sms taken)", verb[0], path, progress.Elapsed),
	})
	s.indicator.Start()
}

func (s *Session) stopIndicator(errored bool) {
	if s.indicator != nil {
		s.indicator.Stop(errored)
	}
}

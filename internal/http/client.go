package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// MaxResponseSize limits response body to 50MB to prevent memory exhaustion
	MaxResponseSize = 50 * 1024 * 1024

	// Default timeout for HTTP requests
	DefaultTimeout = 30 * time.Second
)

// Response is a fully read panel response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Client wraps the standard http.Client with size limits and URL checks
type Client struct {
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a new HTTP client. A nil httpClient gets the default timeout.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Client{client: httpClient, logger: logger}
}

// Do executes one request and reads the whole response body
func (c *Client) Do(method, reqURL string, headers map[string]string, body []byte) (*Response, error) {
	if err := c.validateURL(reqURL); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	// Read response body with size limit to prevent memory exhaustion
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(respBody)) > MaxResponseSize {
		respBody = respBody[:MaxResponseSize]
		c.logger.Warn("response body truncated", "limit_bytes", MaxResponseSize)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

// validateURL rejects non-http schemes and cloud metadata endpoints
func (c *Client) validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	if scheme == "http" {
		c.logger.Debug("using insecure HTTP connection", "host", hostname)
	}
	if isPrivateOrReservedHost(hostname) {
		c.logger.Debug("panel is on a private or loopback address", "host", hostname)
	}

	if isCloudMetadataEndpoint(hostname) {
		return fmt.Errorf("blocked request to cloud metadata endpoint: %s", hostname)
	}

	return nil
}

func isPrivateOrReservedHost(hostname string) bool {
	lower := strings.ToLower(hostname)
	if lower == "localhost" || lower == "::1" {
		return true
	}

	privatePatterns := []string{
		"10.",
		"127.",
		"192.168.",
		"172.16.", "172.17.", "172.18.", "172.19.",
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
		"0.",
		"169.254.",
	}

	for _, pattern := range privatePatterns {
		if strings.HasPrefix(hostname, pattern) {
			return true
		}
	}

	return false
}

func isCloudMetadataEndpoint(hostname string) bool {
	metadataHosts := map[string]bool{
		"169.254.169.254":          true, // AWS, GCP, Azure metadata
		"metadata.google.internal": true,
		"metadata.goog":            true,
		"100.100.100.200":          true, // Alibaba Cloud metadata
		"169.254.170.2":            true, // AWS ECS task metadata
	}

	return metadataHosts[strings.ToLower(hostname)]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

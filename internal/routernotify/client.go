// Package routernotify implements C5, the single outbound operation a Cx
// gateway uses to tell the SIP router to clear bindings (§4.5): a plain
// net/http client in the shape of the teacher's pkg/client/go/arasauth
// client (baseURL + *http.Client + a request/response helper pair), since
// this is the one place in the system that is itself an HTTP client rather
// than a server.
package routernotify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/jsonresp"
)

// Config configures the router notifier HTTP client.
type Config struct {
	// BaseURL is the router's base address, e.g. "http://sprout:9888".
	BaseURL string

	// Timeout bounds a single DeregisterBindings call. Default: 5s.
	Timeout time.Duration
}

// DefaultConfig returns the stock client configuration.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// Client implements domain.RouterNotifier against the router's HTTP
// surface (§4.5).
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New constructs a Client. httpClient may be nil, in which case one is
// built from cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// DeregisterBindings implements domain.RouterNotifier: DELETE
// /registrations?send-notifications={true|false} with the JSON body
// described in §4.4.1. trail is carried as a header for cross-component
// correlation; the router is not required to echo it back.
func (c *Client) DeregisterBindings(ctx context.Context, sendNotifications bool, registrations []domain.RouterRegistration, trail string) (int, error) {
	body, err := jsonresp.BuildDeregisterBindingsBody(registrations)
	if err != nil {
		return 0, fmt.Errorf("routernotify: encode body: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/registrations?send-notifications=" +
		url.QueryEscape(strconv.FormatBool(sendNotifications))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("routernotify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if trail != "" {
		req.Header.Set("X-Trail-Id", trail)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("routernotify: request failed", zap.Error(err), zap.String("trail", trail))
		}
		return 0, fmt.Errorf("routernotify: do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.ReadAll(resp.Body)

	return resp.StatusCode, nil
}

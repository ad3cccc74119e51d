// Package transport issues authenticated HTTP calls against the legacy
// dashboard. It owns re-login on session expiry, anti-forgery token refresh,
// and bounded retry of transient upstream failures. Request/response mapping
// stays in the translator package; transport only moves bytes.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/config"
	"github.com/brandon/mcp-videoteam/internal/session"
	"github.com/brandon/mcp-videoteam/internal/translator"
)

const userAgent = "videoteam-bridge/1.0"

// retryBaseDelay is the first backoff step for transient upstream failures.
var retryBaseDelay = 500 * time.Millisecond

// RequestSpec describes one call against the dashboard.
type RequestSpec struct {
	Method string
	Path   string
	Query  url.Values
	// Form, when set, is sent urlencoded. The dashboard rejects JSON bodies.
	Form url.Values
	// Ajax adds the request-identifying header some endpoints require to
	// return JSON instead of a full HTML page.
	Ajax    bool
	Referer string
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Client executes authenticated requests using session state from the store.
type Client struct {
	cfg     *config.Config
	store   *session.Store
	http    *http.Client
	baseURL *url.URL
	logger  *logrus.Logger

	// authMu serializes login and token refresh; the dashboard's session
	// state is not safe under concurrent mutation from the same identity.
	authMu sync.Mutex
}

// New creates a transport client, installing any persisted cookies into the
// jar.
func New(cfg *config.Config, store *session.Store, logger *logrus.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		cfg:   cfg,
		store: store,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.RequestTimeout,
			// Redirects are signals here (302 == login success, 302 to the
			// login page == session expired), so they are never followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: base,
		logger:  logger,
	}

	c.installCookies(store.State().Cookies)
	return c, nil
}

func (c *Client) installCookies(cookies []session.Cookie) {
	if len(cookies) == 0 {
		return
	}
	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		httpCookies = append(httpCookies, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   ck.Domain,
			Path:     ck.Path,
			Expires:  ck.Expires,
			Secure:   ck.Secure,
			HttpOnly: ck.HTTPOnly,
		})
	}
	c.http.Jar.SetCookies(c.baseURL, httpCookies)
}

func (c *Client) exportCookies() []session.Cookie {
	httpCookies := c.http.Jar.Cookies(c.baseURL)
	cookies := make([]session.Cookie, 0, len(httpCookies))
	for _, ck := range httpCookies {
		cookies = append(cookies, session.Cookie{
			Name:  ck.Name,
			Value: ck.Value,
		})
	}
	return cookies
}

// Do executes the request. Transient upstream failures are retried with
// bounded exponential backoff; an expired-session signal triggers a single
// re-login and one retry before surfacing AuthExpired. Completed exchanges
// with other statuses are returned as-is for the caller to classify.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	resp, err := c.doWithRetry(ctx, spec)
	if err != nil {
		return nil, err
	}

	if !c.authExpired(resp) {
		return resp, nil
	}

	c.logger.WithField("path", spec.Path).Info("Session expired, re-authenticating")
	c.store.Clear()
	if err := c.Login(ctx); err != nil {
		return nil, bridgerr.Wrap(bridgerr.KindAuthExpired, err, "re-login after session expiry failed")
	}

	resp, err = c.doWithRetry(ctx, spec)
	if err != nil {
		return nil, err
	}
	if c.authExpired(resp) {
		return nil, bridgerr.New(bridgerr.KindAuthExpired, "session invalid immediately after re-login").WithStatus(resp.StatusCode)
	}
	return resp, nil
}

// authExpired reports whether a response is the dashboard's way of saying
// the session is gone: a 401, or a redirect to the login page.
func (c *Client) authExpired(resp *Response) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusMovedPermanently {
		loc := resp.Header.Get("Location")
		return strings.Contains(loc, translator.PathLogin)
	}
	return false
}

func (c *Client) doWithRetry(ctx context.Context, spec RequestSpec) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, bridgerr.Wrap(bridgerr.KindUpstreamUnavailable, ctx.Err(), "request canceled during backoff")
			case <-time.After(delay):
			}
		}

		resp, err := c.doOnce(ctx, spec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, bridgerr.Wrap(bridgerr.KindUpstreamUnavailable, ctx.Err(), "request canceled")
			}
			lastErr = err
			c.logger.WithError(err).WithFields(logrus.Fields{
				"path":    spec.Path,
				"attempt": attempt + 1,
			}).Warn("Request failed, will retry")
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("upstream returned %d", resp.StatusCode)
			c.logger.WithFields(logrus.Fields{
				"path":    spec.Path,
				"status":  resp.StatusCode,
				"attempt": attempt + 1,
			}).Warn("Transient upstream status, will retry")
			continue
		}

		return resp, nil
	}

	return nil, bridgerr.Wrap(bridgerr.KindUpstreamUnavailable, lastErr, "upstream unavailable after %d attempts", c.cfg.MaxRetries+1)
}

func retryableStatus(code int) bool {
	return code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}

func (c *Client) doOnce(ctx context.Context, spec RequestSpec) (*Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + spec.Path
	if spec.Query != nil {
		u.RawQuery = spec.Query.Encode()
	}

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if spec.Form != nil {
		body = bytes.NewBufferString(spec.Form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if spec.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if spec.Ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	}
	if spec.Referer != "" {
		req.Header.Set("Referer", spec.Referer)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       data,
		Header:     httpResp.Header,
	}, nil
}

// RequireOK converts any non-2xx completed exchange into an upstream-rejected
// error. Endpoints with bespoke status semantics classify on their own.
func RequireOK(resp *Response, what string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return bridgerr.New(bridgerr.KindUpstreamRejected, "%s returned %d", what, resp.StatusCode).WithStatus(resp.StatusCode)
}

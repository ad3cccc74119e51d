package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/brandon/mcp-videoteam/internal/bridgerr"
	"github.com/brandon/mcp-videoteam/internal/translator"
)

// Login performs a fresh credential login: fetch the login page, extract the
// anti-forgery token, POST the credential form, and expect a redirect. The
// remember cookie gives the session its long life. The resulting cookie set
// is persisted immediately.
func (c *Client) Login(ctx context.Context) error {
	c.authMu.Lock()
	defer c.authMu.Unlock()

	page, err := c.doWithRetry(ctx, RequestSpec{Path: translator.PathLogin})
	if err != nil {
		return err
	}
	if err := RequireOK(page, "login page"); err != nil {
		return err
	}

	token, err := translator.ExtractFormToken(page.Body)
	if err != nil {
		return err
	}

	resp, err := c.doWithRetry(ctx, RequestSpec{
		Method:  http.MethodPost,
		Path:    translator.PathLogin,
		Form:    translator.BuildLoginForm(c.cfg.Email, c.cfg.Password, token),
		Referer: c.cfg.BaseURL + translator.PathLogin,
	})
	if err != nil {
		return err
	}

	// A redirect away from the login page signals success; a 200 means the
	// form was re-rendered with an error.
	if resp.StatusCode != http.StatusFound || c.authExpired(resp) {
		return bridgerr.New(bridgerr.KindAuthExpired, "login rejected").WithStatus(resp.StatusCode)
	}

	c.store.SetCookies(c.exportCookies())
	c.store.SetToken(token)
	c.store.MarkValidated()
	if err := c.store.Persist(); err != nil {
		c.logger.WithError(err).Warn("Failed to persist session after login")
	}

	c.logger.Info("Logged in to dashboard")
	return nil
}

// ValidateSession runs the cheap authenticated probe. Any unexpected status
// or body shape reads as invalid, never as a hard error.
func (c *Client) ValidateSession(ctx context.Context) bool {
	resp, err := c.doWithRetry(ctx, RequestSpec{Path: translator.PathLoginCheck, Ajax: true})
	if err != nil {
		c.logger.WithError(err).Debug("Login check probe failed")
		return false
	}
	if !translator.ParseLoginCheck(resp.StatusCode, resp.Body) {
		return false
	}
	c.store.MarkValidated()
	return true
}

// EnsureAuthenticated validates the current session, logging in afresh when
// the probe fails. Empty persisted state is valid input; it just means a
// credential login.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if !c.store.State().Empty() && c.ValidateSession(ctx) {
		return nil
	}
	return c.Login(ctx)
}

// FreshToken unconditionally re-fetches an authenticated page and extracts a
// new anti-forgery token. Required before the assignment submission, whose
// token is single-use.
func (c *Client) FreshToken(ctx context.Context) (string, error) {
	c.authMu.Lock()
	defer c.authMu.Unlock()

	page, err := c.doWithRetry(ctx, RequestSpec{Path: translator.PathLogin})
	if err != nil {
		return "", err
	}
	if err := RequireOK(page, "token page"); err != nil {
		return "", err
	}

	token, err := translator.ExtractFormToken(page.Body)
	if err != nil {
		return "", err
	}

	c.store.SetToken(token)
	if err := c.store.Persist(); err != nil {
		c.logger.WithError(err).Warn("Failed to persist session after token refresh")
	}
	return token, nil
}

// Token returns the cached anti-forgery token, refreshing it when its age
// exceeds the configured threshold.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, fetchedAt := c.store.Token()
	if token != "" && time.Since(fetchedAt) < c.cfg.TokenMaxAge {
		return token, nil
	}
	return c.FreshToken(ctx)
}

package myclinic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Login performs the form login handshake and stores the session and the
// credentials on success. Failures are reported and reduced to false.
func (c *Client) Login(ctx context.Context, identity, secret string) bool {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	err := c.login(ctx, identity, secret)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		c.tel.ReportWarning(report_client_login, err, identity)
		loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))
		return false
	}
	loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", true)))
	return true
}

func (c *Client) login(ctx context.Context, identity, secret string) error {
	loginError := func(err error) error {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	c.loginMutex.Lock()
	defer c.loginMutex.Unlock()

	res, err := c.send(c.http.R().SetContext(ctx), http.MethodGet, pathSignIn)
	if err != nil {
		return loginError(fmt.Errorf("sign in page: %w", err))
	}
	cookie := extractSessionCookie(res.Header().Values("Set-Cookie"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return loginError(&ParseError{What: "sign in page", Err: err})
	}
	token := extractCsrfToken(doc)
	if token == "" {
		return loginError(&ParseError{What: "csrf token"})
	}

	req := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(url.Values{
			"authenticity_token":            {token},
			"user[organization][subdomain]": {c.opts.Subdomain},
			"user[username]":                {identity},
			"user[password]":                {secret},
			"button":                        {""},
		}).
		SetHeaders(map[string]string{
			"Content-Type":              "application/x-www-form-urlencoded",
			"Origin":                    c.opts.BaseUrl,
			"Referer":                   c.referer(pathSignIn),
			"Sec-Fetch-Site":            "same-origin",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-User":            "?1",
			"Sec-Fetch-Dest":            "document",
			"Upgrade-Insecure-Requests": "1",
		})
	if cookie != "" {
		req.SetHeader("Cookie", sessionCookieName+"="+cookie)
	}
	res, err = c.send(req, http.MethodPost, pathSignIn)
	if err != nil {
		return loginError(fmt.Errorf("submit: %w", err))
	}

	// a rejected login renders the form again
	if res.StatusCode() == http.StatusOK {
		doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
		if err == nil && doc.Find(`input[name="user[password]"]`).Length() > 0 {
			return loginError(fmt.Errorf("credentials rejected"))
		}
	}

	newCookie := extractSessionCookie(res.Header().Values("Set-Cookie"))
	if newCookie == "" {
		return loginError(fmt.Errorf("no session cookie after submit"))
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.state = sessionState{
		cookie:    newCookie,
		csrfToken: token,
		credentials: &credentials{
			identity: identity,
			secret:   secret,
		},
	}
	return nil
}

// IsAuthenticated is true when a session cookie is held.
func (c *Client) IsAuthenticated() bool {
	return c.snapshot().cookie != ""
}

// SessionCookie returns the current session cookie, empty when logged out.
func (c *Client) SessionCookie() string {
	return c.snapshot().cookie
}

func (c *Client) hasCredentials() bool {
	return c.snapshot().credentials != nil
}

// EnsureAuthenticated is a no-op with a live session, otherwise it logs in
// again with the stored credentials or fails with ErrNotAuthenticated.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	if c.IsAuthenticated() {
		return nil
	}
	if !c.hasCredentials() {
		return ErrNotAuthenticated
	}
	return c.reauthenticate(ctx)
}

// reauthenticate logs in with the stored credentials, concurrent callers share
// a single handshake.
func (c *Client) reauthenticate(ctx context.Context) error {
	_, err, _ := c.relogins.Do("login", func() (any, error) {
		if c.IsAuthenticated() {
			return nil, nil
		}
		creds := c.snapshot().credentials
		if creds == nil {
			return nil, ErrNotAuthenticated
		}

		reauthCounter.Add(ctx, 1)
		err := c.login(ctx, creds.identity, creds.secret)
		if err != nil {
			c.tel.ReportWarning(report_client_reauthenticate, err, creds.identity)
			return nil, err
		}
		return nil, nil
	})
	return err
}

// invalidate drops the session cookie if it is still `cookie`, a session that
// was renewed in the meantime is kept.
func (c *Client) invalidate(cookie string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.state.cookie == cookie {
		c.state.cookie = ""
	}
}

// RefreshCsrfToken reloads the token from the home page, failures are
// reported and the previous token is kept.
func (c *Client) RefreshCsrfToken(ctx context.Context) {
	err := c.refreshCsrfToken(ctx)
	if err != nil {
		c.tel.ReportWarning(report_client_refresh_csrf, err)
	}
}

func (c *Client) refreshCsrfToken(ctx context.Context) error {
	token, err := c.pageCsrfToken(ctx, pathHome)
	if err != nil {
		return err
	}
	c.setCsrfToken(token)
	return nil
}

// pageCsrfToken fetches an html page with the session and extracts its token.
func (c *Client) pageCsrfToken(ctx context.Context, path string) (string, error) {
	res, err := c.send(c.request(ctx), http.MethodGet, path)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return "", &ParseError{What: path, Err: err}
	}
	token := extractCsrfToken(doc)
	if token == "" {
		return "", &ParseError{What: "csrf token"}
	}
	return token, nil
}

// isUnauthorized reports whether err is the site rejecting the session.
func isUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionRejected)
}

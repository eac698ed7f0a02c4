package myclinic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxReauthRetries bounds how many times an operation is re-run after the
// site rejected the session and a re-login succeeded.
const maxReauthRetries = 1

// request starts a request carrying the session cookie.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	cookie := c.SessionCookie()
	if cookie != "" {
		req.SetHeader("Cookie", sessionCookieName+"="+cookie)
	}
	return req
}

// xhrRequest starts a request that looks like the site's own ajax calls.
func (c *Client) xhrRequest(ctx context.Context) *resty.Request {
	return c.request(ctx).SetHeaders(map[string]string{
		"X-Csrf-Token":     c.csrfToken(),
		"X-Requested-With": "XMLHttpRequest",
		"Accept":           "application/json, text/javascript, */*; q=0.01",
	})
}

// send executes req and maps failures into UpstreamError. 401, 403 and
// redirects to the sign in page wrap ErrSessionRejected.
func (c *Client) send(req *resty.Request, method, path string) (*resty.Response, error) {
	res, err := req.Execute(method, path)
	if err != nil {
		return nil, &UpstreamError{Method: method, Path: path, Err: err}
	}

	status := res.StatusCode()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return res, &UpstreamError{Method: method, Path: path, Status: status, Err: ErrSessionRejected}
	case status >= 300 && status < 400 && redirectsToSignIn(res):
		return res, &UpstreamError{Method: method, Path: path, Status: status, Err: ErrSessionRejected}
	case res.IsError():
		return res, &UpstreamError{Method: method, Path: path, Status: status}
	}
	return res, nil
}

func redirectsToSignIn(res *resty.Response) bool {
	location := res.Header().Get("Location")
	return strings.Contains(location, pathSignIn)
}

// withReauth runs op with an authenticated session. When op fails because the
// session was rejected it logs in again with the stored credentials and runs
// op once more, a failed re-login returns the original failure.
func (c *Client) withReauth(ctx context.Context, op func(ctx context.Context) error) error {
	err := c.EnsureAuthenticated(ctx)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		used := c.SessionCookie()
		err = op(ctx)
		if err == nil || !isUnauthorized(err) || attempt >= maxReauthRetries {
			return err
		}

		c.invalidate(used)
		if !c.hasCredentials() {
			return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
		reloginErr := c.reauthenticate(ctx)
		if reloginErr != nil {
			return err
		}
	}
}

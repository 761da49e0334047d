// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// DefaultEndpoint is the Polygon instance used when New is given an empty
// endpoint.
const DefaultEndpoint = "https://polygon.codeforces.com"

// ErrNotLoggedIn is returned by every operation that needs an authenticated
// session when there is none, either because Login was never called or
// because the last attempt failed.
var ErrNotLoggedIn = errors.New("not logged in to polygon")

// HTTPClient represents the functionality we need from an *http.Client, or
// similar.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Credentials are the two sets of secrets Polygon needs: the account login for
// the web interface, and the API key pair for the signed API.
type Credentials struct {
	Username  string
	Password  string
	APIKey    string
	APISecret string
}

// Client drives a Polygon account through the same web pages a browser would
// use, plus the official signed API for the things it does expose.
//
// A Client starts out anonymous. Login moves it to the authenticated state,
// and every other operation requires that state. The Client is not safe for
// concurrent use: a Login from one goroutine drops the edit sessions another
// goroutine may be relying on.
type Client struct {
	ccid            string
	sessions        map[string]string
	contests        []Contest
	contestProblems map[string]map[string]Problem

	creds    Credentials
	c        HTTPClient
	endpoint string
	log      *slog.Logger

	now   func() time.Time
	nonce func() (string, error)
}

// New returns a new *Client. You must call Login before any other operation.
//
// The HTTPClient being passed in cannot follow redirects automatically and
// must keep cookies between requests. NewHTTPClient returns one that does
// both. An empty endpoint means DefaultEndpoint.
func New(c HTTPClient, endpoint string, creds Credentials) (*Client, error) {
	if c == nil {
		return nil, errors.New("must provide an http client")
	}

	if len(endpoint) == 0 {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid endpoint %q", endpoint)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("endpoint %q must be an http or https URL", endpoint)
	}

	client := &Client{
		creds:    creds,
		c:        c,
		endpoint: strings.TrimRight(endpoint, "/"),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		nonce:    randomNonce,
	}

	client.clearSession()

	return client, nil
}

// NewHTTPClient returns an *http.Client suitable for New: it keeps cookies in a
// public-suffix aware jar and hands redirects back to the caller instead of
// following them.
func NewHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	c := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return c, nil
}

// SetLogger sets the logger used for request and login diagnostics. A nil
// logger is ignored.
func (c *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		c.log = l
	}
}

// LoggedIn reports whether the last Login succeeded.
func (c *Client) LoggedIn() bool { return len(c.ccid) > 0 }

// clearSession drops the ccid and every cache tied to it. A new login issues
// new edit sessions, so nothing cached under the old one is reusable.
func (c *Client) clearSession() {
	c.ccid = ""
	c.sessions = make(map[string]string)
	c.contests = nil
	c.contestProblems = make(map[string]map[string]Problem)
}

func (c *Client) get(url string, val url.Values) (*http.Response, error) {
	req, err := getReq(url, val)
	if err != nil {
		return nil, err
	}

	return c.c.Do(req)
}

func (c *Client) postForm(url string, query, val url.Values) (*http.Response, error) {
	req, err := postFormReq(url, query, val)
	if err != nil {
		return nil, err
	}

	return c.c.Do(req)
}

// Login starts a new web session with the configured username and password.
//
// Polygon's login page carries a ccid token in a meta tag. That token has to
// be sent back with the credentials, and then with every later request made
// through the web interface. A successful login answers with a 302 redirect;
// anything else, including a 200 re-rendering the form, is a failed login.
//
// Caches are dropped before anything else happens, so a failed attempt also
// leaves the client anonymous. The boolean result is false for a rejected
// login; the error is reserved for transport failures and a login page that
// does not carry a ccid.
func (c *Client) Login() (bool, error) {
	c.clearSession()

	if len(c.creds.Username) == 0 || len(c.creds.Password) == 0 {
		return false, errors.New("both a username and password must be provided")
	}

	ccid, err := c.getCCID()
	if err != nil {
		return false, errors.Wrap(err, "failed to get login page")
	}

	v := url.Values{
		"login":     []string{c.creds.Username},
		"password":  []string{c.creds.Password},
		"submit":    []string{"Login"},
		"submitted": []string{"true"},
	}

	resp, err := c.postForm(c.endpoint+"/login", url.Values{"ccid": []string{ccid}}, v)
	if err != nil {
		return false, errors.Wrap(err, "failed to action log in request")
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusFound {
		c.log.Info("polygon login rejected", "username", c.creds.Username, "status", resp.Status)
		return false, nil
	}

	c.ccid = ccid

	c.log.Info("logged in to polygon", "username", c.creds.Username)

	return true, nil
}

// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

func (c *Client) requireSession() error {
	if len(c.ccid) == 0 {
		return ErrNotLoggedIn
	}

	return nil
}

// resolve turns a path or a scraped link into an absolute URL on the
// endpoint. Absolute links are returned unchanged.
func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.endpoint + "/")
	if err != nil {
		return "", errors.Wrapf(err, "invalid endpoint %q", c.endpoint)
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid link %q", ref)
	}

	return base.ResolveReference(r).String(), nil
}

// send issues a request against the web interface. The ccid is added to the
// query and, for requests that carry one, to the multipart body. Redirects are
// returned as-is; several callers read the Location header.
//
// The caller owns the response body.
func (c *Client) send(method, path string, query, body url.Values) (*http.Response, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	query = cloneValues(query)
	query.Set("ccid", c.ccid)

	var req *http.Request

	if method == http.MethodGet {
		req, err = getReq(u, query)
	} else {
		body = cloneValues(body)
		body.Set("ccid", c.ccid)
		req, err = multipartReq(method, u, query, body)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %q", path)
	}

	c.log.Debug("polygon web request", "method", method, "path", path)

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to make %s request to %q", method, path)
	}

	return resp, nil
}

// unofficial is send plus edit sessions: when the query or the body names a
// problemId without a session, the problem's edit session is resolved and
// added first.
func (c *Client) unofficial(method, path string, query, body url.Values) (*http.Response, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	query, body = cloneValues(query), cloneValues(body)

	if err := c.injectSession(query); err != nil {
		return nil, err
	}

	if err := c.injectSession(body); err != nil {
		return nil, err
	}

	return c.send(method, path, query, body)
}

func (c *Client) injectSession(v url.Values) error {
	pid := v.Get("problemId")
	if len(pid) == 0 || len(v.Get("session")) > 0 {
		return nil
	}

	s, err := c.SessionID(pid)
	if err != nil {
		return err
	}

	v.Set("session", s)

	return nil
}

// expectStatus closes resp and returns an error unless its status is one of
// the codes provided.
func expectStatus(resp *http.Response, what string, codes ...int) error {
	defer discardAndClose(resp)

	for _, code := range codes {
		if resp.StatusCode == code {
			return nil
		}
	}

	return errors.Errorf("%s: unexpected HTTP response status: %s", what, resp.Status)
}

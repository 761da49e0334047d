// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// getCCID reads the ccid from the login page. A session cookie still held in
// the jar makes Polygon redirect away from /login; the page it redirects to
// carries the ccid too, so one redirect is followed.
func (c *Client) getCCID() (string, error) {
	resp, err := c.get(c.endpoint+"/login", nil)
	if err != nil {
		return "", err
	}

	if loc := resp.Header.Get("Location"); isRedirect(resp.StatusCode) && len(loc) > 0 {
		discardAndClose(resp)

		u, err := c.resolve(loc)
		if err != nil {
			return "", err
		}

		c.log.Debug("polygon login page redirected", "location", u)

		if resp, err = c.get(u, nil); err != nil {
			return "", err
		}
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected HTTP response status: %s", resp.Status)
	}

	ccid, err := parseCCID(resp.Body)

	// errors.Wrap returns nil if err is nil, otherwise wraps the error
	return ccid, errors.Wrap(err, "failed to retrieve ccid")
}

func isRedirect(code int) bool {
	return code == http.StatusFound || code == http.StatusSeeOther
}

// parseCCID looks for <meta name="ccid" content="..."> in an HTML page.
func parseCCID(r io.Reader) (string, error) {
	t := html.NewTokenizer(r)

	for {
		tt := t.Next()

		// if this is an error token we've reached the end
		if tt == html.ErrorToken {
			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := t.Token()

		if token.DataAtom != atom.Meta {
			continue
		}

		var name, content string

		for _, attr := range token.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "content":
				content = attr.Val
			}
		}

		if name != "ccid" {
			continue
		}

		if len(content) == 0 {
			return "", errors.New("ccid meta tag has an empty content attribute")
		}

		return content, nil
	}

	return "", errors.New("unable to find ccid meta tag in the page")
}

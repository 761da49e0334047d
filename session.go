// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"net/url"

	"github.com/pkg/errors"
)

// SessionID returns the edit session for a problem, starting one if this login
// has not done so yet. Every web request scoped to a problem needs it.
//
// Polygon answers /edit-start with a redirect to the problem editor, and the
// session id is the "session" query parameter of that redirect. The id is
// cached until the next Login.
func (c *Client) SessionID(problemID string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}

	if len(problemID) == 0 {
		return "", errors.New("must provide a problem id")
	}

	if s, ok := c.sessions[problemID]; ok {
		return s, nil
	}

	resp, err := c.postForm(
		c.endpoint+"/edit-start",
		url.Values{"ccid": []string{c.ccid}},
		url.Values{"problemId": []string{problemID}},
	)
	if err != nil {
		return "", errors.Wrapf(err, "failed to start editing problem %s", problemID)
	}

	defer discardAndClose(resp)

	loc := resp.Header.Get("Location")
	if len(loc) == 0 {
		return "", errors.Errorf("edit-start for problem %s did not redirect (%s)", problemID, resp.Status)
	}

	s, err := sessionFromLocation(loc)
	if err != nil {
		return "", errors.Wrapf(err, "edit-start for problem %s", problemID)
	}

	c.sessions[problemID] = s

	c.log.Debug("started polygon edit session", "problem_id", problemID, "session", s)

	return s, nil
}

func sessionFromLocation(loc string) (string, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse redirect location %q", loc)
	}

	s := u.Query().Get("session")
	if len(s) == 0 {
		return "", errors.Errorf("redirect location %q has no session parameter", loc)
	}

	return s, nil
}

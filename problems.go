// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/atom"
)

const (
	defaultCommitMessage   = "Committed by bot"
	defaultTestDescription = "uploaded by bot"

	// problemLinkStyle is the inline style of the div holding the problem's
	// canonical link on the general info page. It has no class or id.
	problemLinkStyle = "font-size:11px;text-align:right;color:gray;overflow-wrap:break;word-break: break-all;padding-top:5px;"
)

var workingCopyRegexp = regexp.MustCompile(`/edit-stop\?workingCopyId=(\d+)`)

// Problems lists the problems visible to the API key's owner.
func (c *Client) Problems() ([]Problem, error) {
	var ps []Problem

	if err := c.official("problems.list", nil, &ps); err != nil {
		return nil, err
	}

	return ps, nil
}

// ProblemTests returns the tests of the main testset, without their inputs.
func (c *Client) ProblemTests(problemID string) ([]Test, error) {
	v := url.Values{
		"problemId": []string{problemID},
		"noInputs":  []string{"true"},
		"testset":   []string{"tests"},
	}

	var ts []Test

	if err := c.official("problem.tests", v, &ts); err != nil {
		return nil, err
	}

	return ts, nil
}

// GiveAccess grants users read access, or write access if write is set, to a
// problem. It reports whether Polygon redirected back to the access page,
// which is how it acknowledges the change.
func (c *Client) GiveAccess(problemID string, users []string, write bool) (bool, error) {
	if len(users) == 0 {
		return false, errors.New("must provide at least one user")
	}

	typ := "Read"
	if write {
		typ = "Write"
	}

	body := url.Values{
		"problemId":   []string{problemID},
		"submitted":   []string{"true"},
		"users_added": []string{strings.Join(users, ",")},
		"type":        []string{typ},
	}

	resp, err := c.unofficial(http.MethodPost, "access", url.Values{"action": []string{"add"}}, body)
	if err != nil {
		return false, err
	}

	defer discardAndClose(resp)

	loc := resp.Header.Get("Location")

	return strings.Contains(loc, "access"), nil
}

// UploadSolution saves a main-correct (OK) solution under name, replacing an
// existing file of the same name.
func (c *Client) UploadSolution(problemID, name, content string) error {
	v := url.Values{
		"problemId":     []string{problemID},
		"checkExisting": []string{"true"},
		"name":          []string{name},
		"file":          []string{content},
		"tag":           []string{"OK"},
	}

	return c.official("problem.saveSolution", v, nil)
}

// UploadTest saves test number index of the main testset. An empty
// description is replaced with a default one.
func (c *Client) UploadTest(problemID string, index int, content, description string) error {
	if index < 1 {
		return errors.Errorf("test index must be positive, got %d", index)
	}

	if len(description) == 0 {
		description = defaultTestDescription
	}

	v := url.Values{
		"problemId":       []string{problemID},
		"testset":         []string{"tests"},
		"testIndex":       []string{strconv.Itoa(index)},
		"testInput":       []string{content},
		"checkExisting":   []string{"true"},
		"testDescription": []string{description},
	}

	return c.official("problem.saveTest", v, nil)
}

// Commit commits the pending changes of the problem's working copy as a minor
// change, propagating it to every contest.
func (c *Client) Commit(problemID, message string) error {
	if len(message) == 0 {
		message = defaultCommitMessage
	}

	body := url.Values{
		"submitted":    []string{"true"},
		"message":      []string{message},
		"problemId":    []string{problemID},
		"minorChanges": []string{"on"},
		"allContests":  []string{"true"},
	}

	resp, err := c.unofficial(http.MethodPost, "edit-commit", url.Values{"action": []string{"add"}}, body)
	if err != nil {
		return err
	}

	return expectStatus(resp, "commit problem "+problemID, http.StatusOK, http.StatusFound)
}

// WorkingCopies returns the ids of the working copies linked from one page of
// the problem list.
func (c *Client) WorkingCopies(page int) ([]string, error) {
	resp, err := c.send(http.MethodGet, "problems", url.Values{"page": []string{strconv.Itoa(page)}}, nil)
	if err != nil {
		return nil, err
	}

	defer discardAndClose(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read problem list")
	}

	var ids []string

	for _, m := range workingCopyRegexp.FindAllSubmatch(body, -1) {
		ids = append(ids, string(m[1]))
	}

	return ids, nil
}

// DiscardWorkingCopy drops a working copy and its uncommitted changes.
func (c *Client) DiscardWorkingCopy(workingCopyID string) error {
	resp, err := c.send(http.MethodPost, "edit-stop", nil, url.Values{"workingCopyId": []string{workingCopyID}})
	if err != nil {
		return err
	}

	return expectStatus(resp, "discard working copy "+workingCopyID, http.StatusOK, http.StatusFound)
}

// ProblemLink returns the canonical link of a problem as shown on its general
// info page. Reading this page does not start an edit session.
func (c *Client) ProblemLink(problemID string) (string, error) {
	resp, err := c.send(http.MethodGet, "generalInfo", url.Values{"problemId": []string{problemID}}, nil)
	if err != nil {
		return "", err
	}

	defer discardAndClose(resp)

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return "", err
	}

	div := findFirst(doc, hasAttr(atom.Div, "style", problemLinkStyle))
	if div == nil {
		return "", errors.Errorf("unable to find the link of problem %s in the page", problemID)
	}

	return strings.TrimSpace(textContent(div)), nil
}

// CreatePackage queues a full package build for the problem.
func (c *Client) CreatePackage(problemID string) error {
	query := url.Values{
		"action":     []string{"create"},
		"createFull": []string{"true"},
	}

	resp, err := c.unofficial(http.MethodPost, "package", query, url.Values{"problemId": []string{problemID}})
	if err != nil {
		return err
	}

	return expectStatus(resp, "create package for problem "+problemID, http.StatusOK, http.StatusFound)
}

// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// both contest tables open with two header rows
const headerRows = 2

// Contests returns the contests listed on the contest page. The list is
// fetched once per login.
func (c *Client) Contests() ([]Contest, error) {
	if c.contests != nil {
		return c.contests, nil
	}

	resp, err := c.unofficial(http.MethodGet, "contests", nil, nil)
	if err != nil {
		return nil, err
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected HTTP response status for contest list: %s", resp.Status)
	}

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return nil, err
	}

	contests, err := parseContests(doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contest list")
	}

	c.contests = contests

	return contests, nil
}

func parseContests(doc *html.Node) ([]Contest, error) {
	table, err := findTable(doc, "contest-list-grid")
	if err != nil {
		return nil, err
	}

	rows := tableRows(table)

	contests := make([]Contest, 0, len(rows))

	for i := headerRows; i < len(rows); i++ {
		cells := rowCells(rows[i])
		if len(cells) == 0 {
			continue
		}

		ct, err := parseContestRow(cellTexts(cells))
		if err != nil {
			return nil, errors.Wrapf(err, "contest row %d", i)
		}

		contests = append(contests, ct)
	}

	return contests, nil
}

func parseContestRow(texts []string) (Contest, error) {
	id, err := field(texts, 1, "id")
	if err != nil {
		return Contest{}, err
	}

	name, err := field(texts, 2, "name")
	if err != nil {
		return Contest{}, err
	}

	author, err := field(texts, 3, "author")
	if err != nil {
		return Contest{}, err
	}

	// the name cell also carries the "problems" link
	if i := strings.Index(name, "problems"); i >= 0 {
		name = name[:i]
	}

	return Contest{ID: id, Name: strings.TrimSpace(name), Author: author}, nil
}

// ContestProblems returns the problems of a contest keyed by their index in
// the contest (A, B, ...). Results are kept per contest until the next login.
func (c *Client) ContestProblems(contestID string) (map[string]Problem, error) {
	if ps, ok := c.contestProblems[contestID]; ok {
		return ps, nil
	}

	var ps map[string]Problem

	if err := c.official("contest.problems", url.Values{"contestId": []string{contestID}}, &ps); err != nil {
		return nil, err
	}

	c.contestProblems[contestID] = ps

	return ps, nil
}

// ContestInfo scrapes the problem table of a contest page. It is always
// fetched fresh.
//
// A row whose identity columns are missing is dropped. A row whose details
// cell does not have the expected shape is kept, with Placeholder in the
// detail fields. Both cases are logged at warning level.
func (c *Client) ContestInfo(contestID string) ([]ContestProblem, error) {
	resp, err := c.unofficial(http.MethodGet, "contest", url.Values{"contestId": []string{contestID}}, nil)
	if err != nil {
		return nil, err
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected HTTP response status for contest %s: %s", contestID, resp.Status)
	}

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return nil, err
	}

	table, err := findTable(doc, "problem-list-grid")
	if err != nil {
		return nil, errors.Wrapf(err, "contest %s", contestID)
	}

	rows := tableRows(table)

	problems := make([]ContestProblem, 0, len(rows))

	for i := headerRows; i < len(rows); i++ {
		cells := rowCells(rows[i])
		if len(cells) == 0 {
			continue
		}

		p, err := parseContestProblemRow(rows[i], cells)
		if err != nil {
			c.log.Warn("skipping unreadable contest problem row", "contest_id", contestID, "row", i, "error", err)
			continue
		}

		d, err := parseProblemDetails(textContent(cells[5]))
		if err != nil {
			c.log.Warn("contest problem details unreadable", "contest_id", contestID, "problem_id", p.ProblemID, "error", err)
			d = placeholderDetails()
		}

		p.Statement, p.Tests = d.statement, d.tests
		p.TimeLimit, p.MemoryLimit = d.timeLimit, d.memoryLimit
		p.Checker = d.checker

		problems = append(problems, p)
	}

	return problems, nil
}

// parseContestProblemRow reads the identity columns of a contest problem row:
// the problem id and name from the row attributes, the index and revision from
// the cells. The details cell must exist but is not read here.
func parseContestProblemRow(row *html.Node, cells []*html.Node) (ContestProblem, error) {
	texts := cellTexts(cells)

	idx, err := field(texts, 4, "index")
	if err != nil {
		return ContestProblem{}, err
	}

	if _, err := field(texts, 5, "details"); err != nil {
		return ContestProblem{}, err
	}

	rev, err := field(texts, 6, "revision")
	if err != nil {
		return ContestProblem{}, err
	}

	// the revision cell reads like "12 by someone 2024-01-01 ..."; keep the
	// first three words
	if words := strings.Split(rev, " "); len(words) > 3 {
		rev = strings.Join(words[:3], " ")
	}

	id, _ := attr(row, "problemid")
	name, _ := attr(row, "problemname")

	p := ContestProblem{
		Index:     idx,
		ProblemID: id,
		Name:      name,
		Revision:  rev,
	}

	return p, nil
}

type problemDetails struct {
	statement   string
	tests       string
	timeLimit   string
	memoryLimit string
	checker     string
}

func placeholderDetails() problemDetails {
	return problemDetails{
		statement:   Placeholder,
		tests:       Placeholder,
		timeLimit:   Placeholder,
		memoryLimit: Placeholder,
		checker:     Placeholder,
	}
}

// parseProblemDetails reads the multi-line details cell of a contest problem
// row. Non-blank lines, in order, are: statement language, test count (either
// "tests(N)" or a bare value), "TL / ML", two lines not used here, and the
// checker.
func parseProblemDetails(raw string) (problemDetails, error) {
	var lines []string

	for _, l := range strings.Split(strings.TrimSpace(raw), "\n") {
		if l = normalizeSpace(l); len(l) > 0 {
			lines = append(lines, l)
		}
	}

	if len(lines) < 6 {
		return problemDetails{}, errors.Errorf("details cell has %d lines, want at least 6", len(lines))
	}

	tests := lines[1]
	if strings.HasPrefix(tests, "tests(") {
		tests = strings.SplitN(tests, ")", 2)[0]
		tests = tests[strings.Index(tests, "(")+1:]
	}

	limits := strings.Split(lines[2], "/")
	if len(limits) != 2 {
		return problemDetails{}, errors.Errorf("limits %q are not in the form TL / ML", lines[2])
	}

	tl := strings.Split(strings.TrimSpace(limits[0]), " ")[0]
	ml := strings.TrimSpace(limits[1])

	d := problemDetails{
		statement:   lines[0],
		tests:       tests,
		timeLimit:   tl,
		memoryLimit: ml,
		checker:     lines[5],
	}

	return d, nil
}

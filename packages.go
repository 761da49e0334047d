// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PackageLink returns the download link of the Linux build of the problem's
// most recent package. ok is false when there is no such package: none was
// built yet, or the latest one has no Linux download.
func (c *Client) PackageLink(problemID string) (link string, ok bool, err error) {
	resp, err := c.unofficial(http.MethodGet, "package", url.Values{"problemId": []string{problemID}}, nil)
	if err != nil {
		return "", false, err
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Errorf("unexpected HTTP response status for packages of problem %s: %s", problemID, resp.Status)
	}

	doc, err := parseHTML(resp.Body)
	if err != nil {
		return "", false, err
	}

	link, ok, err = parsePackageLink(doc)
	if err != nil {
		return "", false, errors.Wrapf(err, "problem %s", problemID)
	}

	return link, ok, nil
}

// parsePackageLink reads the first data row of the package table (newest
// first) and returns the link of the download labelled "Linux".
func parsePackageLink(doc *html.Node) (string, bool, error) {
	table, err := findTable(doc, "grid", "tablesorter")
	if err != nil {
		return "", false, err
	}

	rows := tableRows(table)
	if len(rows) < 2 {
		return "", false, nil
	}

	cell := findFirst(rows[1], hasAttr(atom.Td, "align", "center"))
	if cell == nil {
		return "", false, nil
	}

	for _, div := range findAll(cell, isElement(atom.Div)) {
		if normalizeSpace(textContent(div)) != "Linux" {
			continue
		}

		a := findFirst(div, isElement(atom.A))
		if a == nil {
			continue
		}

		if href, _ := attr(a, "href"); len(href) > 0 {
			return href, true, nil
		}
	}

	return "", false, nil
}

// DownloadPackage downloads the Linux build of the problem's latest package
// through the problem's edit session. ok is false, with a nil error, when
// there is no such package.
func (c *Client) DownloadPackage(problemID string) (pkg *Package, ok bool, err error) {
	link, ok, err := c.PackageLink(problemID)
	if err != nil || !ok {
		return nil, false, err
	}

	s, err := c.SessionID(problemID)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.unofficial(http.MethodGet, link, url.Values{"session": []string{s}}, nil)
	if err != nil {
		return nil, false, err
	}

	defer discardAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Errorf("unexpected HTTP response status downloading %q: %s", link, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read package of problem %s", problemID)
	}

	pkg = &Package{
		Link:     link,
		FileName: packageFileName(resp, link),
		Data:     data,
	}

	c.log.Debug("downloaded polygon package", "problem_id", problemID, "bytes", len(data))

	return pkg, true, nil
}

// packageFileName prefers the name from Content-Disposition and falls back to
// the last element of the link's path.
func packageFileName(resp *http.Response, link string) string {
	if cd := resp.Header.Get("Content-Disposition"); len(cd) > 0 {
		if _, params, err := mime.ParseMediaType(cd); err == nil && len(params["filename"]) > 0 {
			return params["filename"]
		}
	}

	if u, err := url.Parse(link); err == nil && len(u.Path) > 0 {
		if base := path.Base(u.Path); base != "/" && base != "." {
			return base
		}
	}

	return ""
}

// DownloadContest downloads the package of every problem of a contest, in the
// order of the contest page, and hands each result to fn. A problem without a
// Linux package is reported with a nil package and a nil error. A failed
// download is passed to fn and does not stop the walk; an error returned by fn
// does.
func (c *Client) DownloadContest(contestID string, fn func(ContestProblem, *Package, error) error) error {
	problems, err := c.ContestInfo(contestID)
	if err != nil {
		return err
	}

	for _, p := range problems {
		pkg, _, err := c.DownloadPackage(p.ProblemID)

		if ferr := fn(p, pkg, err); ferr != nil {
			return ferr
		}
	}

	return nil
}

// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	polygon "github.com/VNOI-Admin/polygon-bot"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// renderContests writes at most limit contests; a limit of 0 or less writes
// all of them.
func renderContests(w io.Writer, contests []polygon.Contest, limit int) error {
	if limit > 0 && len(contests) > limit {
		contests = contests[:limit]
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tName\tAuthor")

	for _, c := range contests {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Author)
	}

	return tw.Flush()
}

func renderContestInfo(w io.Writer, problems []polygon.ContestProblem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tName\tStatement\tTests\tTL\tML\tChecker\tRevision")

	for _, p := range problems {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Index, p.ProblemID, p.Name, p.Statement, p.Tests,
			p.TimeLimit, p.MemoryLimit, p.Checker, p.Revision)
	}

	return tw.Flush()
}

// renderContestProblems writes the problems in index order.
func renderContestProblems(w io.Writer, problems map[string]polygon.Problem) error {
	indexes := make([]string, 0, len(problems))
	for idx := range problems {
		indexes = append(indexes, idx)
	}

	sort.Strings(indexes)

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tID\tName\tOwner\tRevision")

	for _, idx := range indexes {
		p := problems[idx]
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\n", idx, p.ID, p.Name, p.Owner, p.Revision)
	}

	return tw.Flush()
}

func renderProblems(w io.Writer, problems []polygon.Problem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tName\tOwner\tAccess\tRevision\tPackage\tModified")

	for _, p := range problems {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%t\n",
			p.ID, p.Name, p.Owner, p.AccessType, p.Revision, p.LatestPackage, p.Modified)
	}

	return tw.Flush()
}

func renderTestSummary(w io.Writer, s polygon.TestSummary) error {
	if _, err := fmt.Fprintf(w, "%d tests, %s points\n", s.Total, formatPoints(s.Points)); err != nil {
		return err
	}

	if len(s.Groups) == 0 {
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "Group\tTests\tPoints")

	for _, g := range s.Groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Name, g.Tests, formatPoints(g.Points))
	}

	return tw.Flush()
}

func renderWorkingCopies(w io.Writer, ids []string) error {
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "no working copies")
		return err
	}

	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}

	return nil
}

// downloadLine describes the outcome of one problem of a contest download.
func downloadLine(p polygon.ContestProblem, pkg *polygon.Package, err error) string {
	prefix := fmt.Sprintf("%s (%s)", p.Index, p.ProblemID)

	switch {
	case err != nil:
		return fmt.Sprintf("%s: failed: %s", prefix, err)
	case pkg == nil:
		return prefix + ": no Linux package"
	default:
		return fmt.Sprintf("%s: %s, %d bytes", prefix, pkg.FileName, len(pkg.Data))
	}
}

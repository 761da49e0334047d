// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

// GroupSummary is the number of tests and the points of one test group.
type GroupSummary struct {
	Name   string
	Tests  int
	Points float64
}

// TestSummary aggregates a problem's tests.
type TestSummary struct {
	Total  int
	Points float64

	// Groups is empty when no test belongs to a group. Groups appear in the
	// order their first test does.
	Groups []GroupSummary
}

// SummarizeTests totals tests and points, overall and per group. Tests
// without a group only count toward the overall totals.
func SummarizeTests(tests []Test) TestSummary {
	s := TestSummary{Total: len(tests)}

	pos := make(map[string]int)

	for _, t := range tests {
		s.Points += t.Points

		if len(t.Group) == 0 {
			continue
		}

		i, ok := pos[t.Group]
		if !ok {
			i = len(s.Groups)
			pos[t.Group] = i
			s.Groups = append(s.Groups, GroupSummary{Name: t.Group})
		}

		s.Groups[i].Tests++
		s.Groups[i].Points += t.Points
	}

	return s
}

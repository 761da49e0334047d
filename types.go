// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

// Placeholder is used for contest problem fields that could not be read from
// the page.
const Placeholder = "-"

// Problem is a problem as described by the official API.
type Problem struct {
	ID            int64  `json:"id"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	Deleted       bool   `json:"deleted"`
	Favourite     bool   `json:"favourite"`
	AccessType    string `json:"accessType"`
	Revision      int    `json:"revision"`
	LatestPackage int    `json:"latestPackage"`
	Modified      bool   `json:"modified"`
}

// Test is a test of a problem as described by the official API. Input is
// empty when the tests were requested without inputs.
type Test struct {
	Index                          int     `json:"index"`
	Manual                         bool    `json:"manual"`
	Input                          string  `json:"input"`
	Description                    string  `json:"description"`
	UseInStatements                bool    `json:"useInStatements"`
	ScriptLine                     string  `json:"scriptLine"`
	Group                          string  `json:"group"`
	Points                         float64 `json:"points"`
	VerifyInputOutputForStatements bool    `json:"verifyInputOutputForStatements"`
}

// Contest is a row of the contest list page.
type Contest struct {
	ID     string
	Name   string
	Author string
}

// ContestProblem is a row of a contest page. The detail fields (Statement
// through Checker) hold Placeholder when the row's detail cell could not be
// read.
type ContestProblem struct {
	Index       string
	ProblemID   string
	Name        string
	Statement   string
	Tests       string
	TimeLimit   string
	MemoryLimit string
	Checker     string
	Revision    string
}

// Package is a downloaded problem package.
type Package struct {
	Link     string
	FileName string
	Data     []byte
}

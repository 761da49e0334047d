// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Package polygon is a client for the Polygon problem preparation system
// (polygon.codeforces.com). It drives two interfaces at once:
//
// The official API, which is signed with an API key and secret and covers
// listing problems, tests and contest problems, and uploading solutions and
// tests.
//
// The web interface, driven through a logged in cookie session, for the things
// the API does not expose: granting access, committing, working copies,
// building and downloading packages, and the contest pages. Every request
// carries the ccid token scraped at login, and every request about a specific
// problem carries that problem's edit session.
//
// The web interface is undocumented and scraped from HTML, so it may break
// whenever Polygon changes its pages. Scraping failures are returned as errors
// naming what could not be found.
package polygon

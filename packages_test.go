// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const tdPackagePage = `<html><body>
<table class="grid tablesorter">
  <tr><th>#</th><th>Revision</th><th>Download</th></tr>
  <tr>
    <td>3</td>
    <td>12</td>
    <td align="center">
      <div><a href="/p/jury/pkg/download.zip?type=standard">Standard</a></div>
      <div> <a href="/p/jury/pkg/download.zip?type=linux">Linux</a> </div>
      <div><a href="/p/jury/pkg/download.zip?type=windows">Windows</a></div>
    </td>
  </tr>
  <tr>
    <td>2</td>
    <td>10</td>
    <td align="center"><div><a href="/p/jury/pkg/old.zip">Linux</a></div></td>
  </tr>
</table>
</body></html>`

const tdNoLinuxPackagePage = `<html><body>
<table class="grid tablesorter">
  <tr><th>#</th><th>Revision</th><th>Download</th></tr>
  <tr><td>1</td><td>2</td><td align="center"><div><a href="/p/jury/pkg/w.zip">Windows</a></div></td></tr>
</table>
</body></html>`

func Test_parsePackageLink(t *testing.T) {
	tests := []struct {
		n  string
		p  string
		l  string
		ok bool
		e  string
	}{
		{n: "no_table", p: `<table class="grid"></table>`, e: "unable to find table.grid.tablesorter"},
		{n: "header_only", p: `<table class="grid tablesorter"><tr><th>#</th></tr></table>`},
		{
			n: "no_centered_cell",
			p: `<table class="grid tablesorter"><tr><th></th></tr><tr><td><div><a href="/x">Linux</a></div></td></tr></table>`,
		},
		{n: "no_linux", p: tdNoLinuxPackagePage},
		{
			n: "linux_without_href",
			p: `<table class="grid tablesorter"><tr><th></th></tr><tr><td align="center"><div><a>Linux</a></div></td></tr></table>`,
		},
		{n: "latest_linux", p: tdPackagePage, l: "/p/jury/pkg/download.zip?type=linux", ok: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			doc, err := parseHTML(strings.NewReader(tt.p))
			if err != nil {
				t.Fatalf("parseHTML() unexpected error: %s", err)
			}

			l, ok, err := parsePackageLink(doc)
			if err != nil {
				if len(tt.e) > 0 {
					if !strings.Contains(err.Error(), tt.e) {
						t.Fatalf("%q not found in error %q", tt.e, err.Error())
					}
					return
				}
				t.Fatalf("parsePackageLink() unexpected error: %s", err)
			}

			if len(tt.e) > 0 {
				t.Fatalf("parsePackageLink() expected error containing %q", tt.e)
			}

			if l != tt.l || ok != tt.ok {
				t.Fatalf("parsePackageLink() = %q, %t; want %q, %t", l, ok, tt.l, tt.ok)
			}
		})
	}
}

func TestClient_DownloadPackage(t *testing.T) {
	f := newFakePolygon(t)
	f.pages["/package"] = tdPackagePage
	f.pkg = []byte("PK\x03\x04 not really a zip")

	c := f.loggedInClient(t)

	pkg, ok, err := c.DownloadPackage("101")
	if err != nil {
		t.Fatalf("c.DownloadPackage() unexpected error: %s", err)
	}

	if !ok {
		t.Fatal("c.DownloadPackage() ok = false, want true")
	}

	want := &Package{
		Link:     "/p/jury/pkg/download.zip?type=linux",
		FileName: "sum-3$linux.zip",
		Data:     f.pkg,
	}

	if diff := cmp.Diff(want, pkg); diff != "" {
		t.Fatalf("package differs (-want +got):\n%s", diff)
	}

	q := f.lastQuery("/p/jury/pkg/download.zip")

	if s := q.Get("session"); s != "sess-101" {
		t.Errorf("download session = %q, want %q", s, "sess-101")
	}

	if typ := q.Get("type"); typ != "linux" {
		t.Errorf("download type = %q, want %q", typ, "linux")
	}

	// the package listing and the download share one edit session
	if n := f.count("/edit-start"); n != 1 {
		t.Errorf("POST /edit-start count = %d, want 1", n)
	}
}

func TestClient_DownloadPackage_notAvailable(t *testing.T) {
	f := newFakePolygon(t)
	f.pages["/package"] = tdNoLinuxPackagePage

	c := f.loggedInClient(t)

	pkg, ok, err := c.DownloadPackage("101")
	if err != nil {
		t.Fatalf("c.DownloadPackage() unexpected error: %s", err)
	}

	if ok || pkg != nil {
		t.Fatalf("c.DownloadPackage() = %v, %t; want <nil>, false", pkg, ok)
	}
}

func TestClient_DownloadPackage_badStatus(t *testing.T) {
	f := newFakePolygon(t)
	f.pages["/package"] = strings.Replace(tdPackagePage, "/p/jury/pkg/download.zip?type=linux", "/p/jury/pkg/missing.zip", 1)

	c := f.loggedInClient(t)

	_, ok, err := c.DownloadPackage("101")
	if err == nil {
		t.Fatal("c.DownloadPackage() expected an error")
	}

	if ok {
		t.Fatal("c.DownloadPackage() ok = true, want false")
	}

	if !strings.Contains(err.Error(), http.StatusText(http.StatusNotFound)) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestClient_DownloadContest(t *testing.T) {
	f := newFakePolygon(t)
	f.pages["/contest"] = tdContestPage
	f.pages["/package?problemId=101"] = tdPackagePage
	f.pages["/package?problemId=102"] = tdNoLinuxPackagePage
	f.pkg = []byte("zip bytes")

	c := f.loggedInClient(t)

	type result struct {
		Index string
		Data  []byte
		Err   bool
	}

	var got []result

	err := c.DownloadContest("1234", func(p ContestProblem, pkg *Package, err error) error {
		r := result{Index: p.Index, Err: err != nil}
		if pkg != nil {
			r.Data = pkg.Data
		}

		got = append(got, r)

		return nil
	})
	if err != nil {
		t.Fatalf("c.DownloadContest() unexpected error: %s", err)
	}

	want := []result{
		{Index: "A", Data: []byte("zip bytes")},
		{Index: "B"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results differ (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")

	var calls int

	err = c.DownloadContest("1234", func(ContestProblem, *Package, error) error {
		calls++
		return stop
	})

	if err != stop {
		t.Fatalf("c.DownloadContest() error = %v, want %v", err, stop)
	}

	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
}

func Test_packageFileName(t *testing.T) {
	tests := []struct {
		n string
		h string // Content-Disposition
		l string
		o string
	}{
		{n: "header", h: `attachment; filename="a.zip"`, l: "/p/x/b.zip", o: "a.zip"},
		{n: "bad_header", h: `attachment; filename=`, l: "/p/x/b.zip?type=linux", o: "b.zip"},
		{n: "link_only", l: "/p/x/b.zip", o: "b.zip"},
		{n: "nothing", l: "?type=linux"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.n, func(t *testing.T) {
			resp := &http.Response{Header: make(http.Header), Body: http.NoBody}
			if len(tt.h) > 0 {
				resp.Header.Set("Content-Disposition", tt.h)
			}

			if name := packageFileName(resp, tt.l); name != tt.o {
				t.Fatalf("packageFileName() = %q, want %q", name, tt.o)
			}
		})
	}
}

// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	tdUsername  = "jury"
	tdPassword  = "not a real password"
	tdAPIKey    = "0123456789abcdef"
	tdAPISecret = "fedcba9876543210"
	tdCCID      = "3f1c0de5b2a94e07"
)

func newTestHTTPClient(jar *cookiejar.Jar) *http.Client {
	c := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   100 * time.Millisecond,
				KeepAlive: 2 * time.Second,
			}).DialContext,
			MaxIdleConns:          1,
			IdleConnTimeout:       1 * time.Second,
			TLSHandshakeTimeout:   1 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   1,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	if jar != nil {
		c.Jar = jar
	}

	return c
}

func newTestJar(t *testing.T) *cookiejar.Jar {
	t.Helper()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		t.Fatalf("cookiejar.New() unexpected error: %s", err)
	}

	return jar
}

// fakePolygon imitates the parts of Polygon the client talks to. Pages and API
// results are set per test; every request is counted by path.
type fakePolygon struct {
	t      *testing.T
	server *httptest.Server

	// loginStatus overrides the status of POST /login when non-zero
	loginStatus int

	pages   map[string]string // path, or path?problemId=N, -> HTML body
	results map[string]string // API method -> JSON result
	pkg     []byte

	mu     sync.Mutex
	calls  map[string]int
	query  map[string]url.Values
	bodies map[string]url.Values
}

func newFakePolygon(t *testing.T) *fakePolygon {
	f := &fakePolygon{
		t:       t,
		pages:   make(map[string]string),
		results: make(map[string]string),
		calls:   make(map[string]int),
		query:   make(map[string]url.Values),
		bodies:  make(map[string]url.Values),
	}

	f.server = httptest.NewServer(f.mux())
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakePolygon) record(r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			f.t.Errorf("server failure: r.ParseMultipartForm() failed: %s", err)
		}
	} else if err := r.ParseForm(); err != nil {
		f.t.Errorf("server failure: r.ParseForm() failed: %s", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[r.URL.Path]++
	f.query[r.URL.Path] = r.URL.Query()
	f.bodies[r.URL.Path] = r.PostForm
}

func (f *fakePolygon) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[path]
}

func (f *fakePolygon) lastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.query[path]
}

func (f *fakePolygon) lastBody(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bodies[path]
}

// web wraps handlers of the web interface: the ccid must be in the query.
func (f *fakePolygon) web(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		if ccid := r.URL.Query().Get("ccid"); ccid != tdCCID {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintf(w, "ccid = %q, want %q", ccid, tdCCID)
			return
		}

		h(w, r)
	}
}

func (f *fakePolygon) page(path string) http.HandlerFunc {
	return f.web(func(w http.ResponseWriter, r *http.Request) {
		body, ok := f.pages[path+"?problemId="+r.URL.Query().Get("problemId")]
		if !ok {
			body, ok = f.pages[path]
		}

		if !ok {
			http.NotFound(w, r)
			return
		}

		io.WriteString(w, body)
	})
}

func (f *fakePolygon) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", http.NotFound)

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		if r.Method == http.MethodGet {
			fmt.Fprintf(w, `<html><head><meta name="ccid" content="%s"/></head><body><form></form></body></html>`, tdCCID)
			return
		}

		if f.loginStatus != 0 {
			w.WriteHeader(f.loginStatus)
			return
		}

		if r.URL.Query().Get("ccid") != tdCCID || r.PostForm.Get("login") != tdUsername ||
			r.PostForm.Get("password") != tdPassword {
			io.WriteString(w, "<html><body>Invalid login or password</body></html>")
			return
		}

		http.Redirect(w, r, "/problems", http.StatusFound)
	})

	mux.HandleFunc("/edit-start", f.web(func(w http.ResponseWriter, r *http.Request) {
		pid := r.PostForm.Get("problemId")
		if pid == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		http.Redirect(w, r, "/generalInfo?problemId="+pid+"&session=sess-"+pid, http.StatusFound)
	}))

	for _, p := range []string{"/contests", "/contest", "/package", "/generalInfo", "/problems"} {
		mux.HandleFunc(p, f.page(p))
	}

	mux.HandleFunc("/access", f.web(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/access?problemId="+r.PostForm.Get("problemId"), http.StatusFound)
	}))

	mux.HandleFunc("/edit-commit", f.web(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/problems", http.StatusFound)
	}))

	mux.HandleFunc("/edit-stop", f.web(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/problems", http.StatusFound)
	}))

	mux.HandleFunc("/p/jury/pkg/download.zip", f.web(func(w http.ResponseWriter, r *http.Request) {
		if s := r.URL.Query().Get("session"); !strings.HasPrefix(s, "sess-") {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Disposition", `attachment; filename="sum-3$linux.zip"`)
		w.Write(f.pkg)
	}))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		method := strings.TrimPrefix(r.URL.Path, "/api/")

		p := make(url.Values)
		for k, vs := range r.PostForm {
			if k != "apiSig" {
				p[k] = vs
			}
		}

		sig := r.PostForm.Get("apiSig")
		if len(sig) < nonceLen || Signature(sig[:nonceLen], method, p, tdAPISecret) != sig {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"status":"FAILED","comment":"apiSig: Incorrect signature"}`)
			return
		}

		result, ok := f.results[method]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"status":"FAILED","comment":"unknown method %s"}`, method)
			return
		}

		fmt.Fprintf(w, `{"status":"OK","result":%s}`, result)
	})

	return mux
}

func (f *fakePolygon) client(t *testing.T) *Client {
	t.Helper()

	creds := Credentials{
		Username:  tdUsername,
		Password:  tdPassword,
		APIKey:    tdAPIKey,
		APISecret: tdAPISecret,
	}

	c, err := New(newTestHTTPClient(newTestJar(t)), f.server.URL, creds)
	if err != nil {
		t.Fatalf("New() unexpected error: %s", err)
	}

	return c
}

func (f *fakePolygon) loggedInClient(t *testing.T) *Client {
	t.Helper()

	c := f.client(t)

	ok, err := c.Login()
	if err != nil {
		t.Fatalf("c.Login() unexpected error: %s", err)
	}

	if !ok {
		t.Fatal("c.Login() = false, want true")
	}

	return c
}

// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const userAgent = `Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0`

func setUA(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
}

// setQuery overlays val on top of the query string already present in the
// request URL. Keys in val replace existing keys of the same name.
func setQuery(req *http.Request, val url.Values) {
	if len(val) == 0 {
		return
	}

	if len(req.URL.RawQuery) == 0 {
		req.URL.RawQuery = val.Encode()
		return
	}

	q := req.URL.Query()
	for k, vs := range val {
		q[k] = vs
	}

	req.URL.RawQuery = q.Encode()
}

func getReq(url string, val url.Values) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	setQuery(req, val)
	setUA(req)

	return req, nil
}

func postFormReq(url string, query, val url.Values) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(val.Encode()))
	if err != nil {
		return nil, err
	}

	setQuery(req, query)
	setUA(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req, nil
}

// multipartReq builds a request whose body is multipart/form-data. Polygon
// accepts both the API parameters and the web form fields in this encoding.
// Fields are written in key order so the body is stable.
func multipartReq(method, url string, query, val url.Values) (*http.Request, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(val))
	for k := range val {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range val[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, errors.Wrapf(err, "failed to write multipart field %q", k)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finish multipart body")
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}

	setQuery(req, query)
	setUA(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req, nil
}

// cloneValues copies v so the caller's map is never mutated by injected
// parameters.
func cloneValues(v url.Values) url.Values {
	c := make(url.Values, len(v)+2)

	for k, vs := range v {
		c[k] = append([]string(nil), vs...)
	}

	return c
}

// discardAndClose drains the body so the connection can be reused.
func discardAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

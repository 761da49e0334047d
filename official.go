// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const nonceLen = 6

// APIError is returned when the official API answers with a FAILED status.
type APIError struct {
	Method  string
	Comment string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("polygon API method %s failed: %s", e.Method, e.Comment)
}

type apiResponse struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

func randomNonce() (string, error) {
	b := make([]byte, nonceLen)
	letters := big.NewInt(26)

	for i := range b {
		n, err := rand.Int(rand.Reader, letters)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate API nonce")
		}

		b[i] = 'a' + byte(n.Int64())
	}

	return string(b), nil
}

// Signature computes the apiSig value for a call to method with params.
//
// The signed string is
//
//	<nonce>/<method>?<k1>=<v1>&<k2>=<v2>...#<secret>
//
// with the pairs sorted by key and then by value, compared as raw bytes, and
// neither keys nor values escaped. The result is the nonce followed by the
// lowercase hex SHA-512 of that string. Polygon rejects the call if any byte
// differs.
func Signature(nonce, method string, params url.Values, secret string) string {
	type pair struct{ k, v string }

	pairs := make([]pair, 0, len(params))

	for k, vs := range params {
		for _, v := range vs {
			pairs = append(pairs, pair{k: k, v: v})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})

	var sb strings.Builder

	sb.WriteString(nonce)
	sb.WriteByte('/')
	sb.WriteString(method)
	sb.WriteByte('?')

	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.k)
		sb.WriteByte('=')
		sb.WriteString(p.v)
	}

	sb.WriteByte('#')
	sb.WriteString(secret)

	sum := sha512.Sum512([]byte(sb.String()))

	return nonce + hex.EncodeToString(sum[:])
}

// signParams returns a copy of params with apiKey, time and apiSig set.
func (c *Client) signParams(method string, params url.Values) (url.Values, error) {
	nonce, err := c.nonce()
	if err != nil {
		return nil, err
	}

	p := cloneValues(params)
	p.Del("apiSig")
	p.Set("apiKey", c.creds.APIKey)
	p.Set("time", strconv.FormatInt(c.now().Unix(), 10))
	p.Set("apiSig", Signature(nonce, method, p, c.creds.APISecret))

	return p, nil
}

// official calls method on the signed API and decodes its result into v. A nil
// v discards the result.
func (c *Client) official(method string, params url.Values, v interface{}) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	if len(c.creds.APIKey) == 0 || len(c.creds.APISecret) == 0 {
		return errors.New("both an API key and secret must be provided")
	}

	p, err := c.signParams(method, params)
	if err != nil {
		return err
	}

	req, err := multipartReq(http.MethodPost, c.endpoint+"/api/"+method, nil, p)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", method)
	}

	c.log.Debug("polygon API request", "method", method)

	resp, err := c.c.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", method)
	}

	defer discardAndClose(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s response", method)
	}

	var ar apiResponse

	if err := json.Unmarshal(body, &ar); err != nil {
		return errors.Wrapf(err, "failed to decode %s response (%s)", method, resp.Status)
	}

	if ar.Status != "OK" {
		return &APIError{Method: method, Comment: ar.Comment}
	}

	if v == nil || len(ar.Result) == 0 {
		return nil
	}

	return errors.Wrapf(json.Unmarshal(ar.Result, v), "failed to decode %s result", method)
}

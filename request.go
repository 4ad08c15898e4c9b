package darwin

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/runtime"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Query is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order and duplicate keys exactly as added.
type Query []QueryParam

// QueryParam is a single key/value pair of a [Query].
type QueryParam struct {
	Key   string
	Value string
}

// Add appends key=value and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// AddInt appends key=value for an integer value.
func (q Query) AddInt(key string, value int64) Query {
	return q.Add(key, strconv.FormatInt(value, 10))
}

// Encode renders the query in insertion order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Execute runs one request through the client pipeline and decodes a 2xx
// body into a new Resp.
//
// It is the building block of every resource client and can be used to
// reach endpoints this package does not wrap yet:
//
//	type Storage struct {
//	    Slug string `json:"slug"`
//	}
//	storages, err := darwin.Execute[[]Storage](ctx, client, http.MethodGet,
//	    "teams/my-team/storage", nil, nil)
func Execute[Resp any](ctx context.Context, c *Client, method, p string, query Query, body any) (*Resp, error) {
	out := new(Resp)
	if err := c.do(ctx, "", method, p, query, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Do runs one request through the client pipeline. A 2xx body is decoded
// into out unless out is nil. body, when non-nil, is validated and encoded
// as JSON.
func (c *Client) Do(ctx context.Context, method, p string, query Query, body, out any) error {
	return c.do(ctx, "", method, p, query, body, out)
}

// buildURL joins the base URL, the endpoint path and the ordered query.
func (c *Client) buildURL(p string) string {
	u := *c.baseURL
	// Preserve any base path in the URL (e.g., /api). The endpoint path is
	// appended as is: no dot-segment cleaning.
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(p, "/")
	u.RawPath = ""
	u.RawQuery = ""
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, p string, query Query, body, out any) error {
	if op == "" {
		op = strings.ToLower(method) + " " + p
	}

	reqURL := c.buildURL(p)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req := &TransportRequest{
		Method: method,
		URL:    reqURL,
		Header: c.headers(),
	}

	if body != nil {
		if err := validateValue(body, c.formats); err != nil {
			return newEncodeError(op, validationPath(err), "invalid request body", err)
		}
		var buf bytes.Buffer
		if err := runtime.JSONProducer().Produce(&buf, body); err != nil {
			return newEncodeError(op, "", "failed to encode request body", err)
		}
		req.Body = buf.Bytes()
		req.Header.Set(runtime.HeaderContentType, runtime.JSONMime)
	}

	start := time.Now()
	resp, err := c.executor.Do(ctx, req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "path", p, "error", err)
		return transportError(ctx, op, req, err)
	}

	c.logger.Debug("request completed",
		"op", op,
		"method", method,
		"path", p,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    KindHTTPStatus,
			Op:      op,
			Method:  method,
			URL:     reqURL,
			Status:  resp.StatusCode,
			Body:    resp.Body,
			Message: http.StatusText(resp.StatusCode),
		}
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		if out != nil {
			return &Error{
				Kind:    KindDecode,
				Op:      op,
				Method:  method,
				URL:     reqURL,
				Message: "empty response body",
			}
		}
		return nil
	}

	if de := decodeBody(resp.Body, out, c.formats); de != nil {
		de.Op = op
		de.Method = method
		de.URL = reqURL
		return de
	}
	return nil
}

func (c *Client) headers() http.Header {
	h := make(http.Header, 4)
	h.Set(runtime.HeaderAccept, runtime.JSONMime)
	h.Set(runtime.HeaderAuthorization, "ApiKey "+c.apiKey)
	h.Set("User-Agent", c.userAgent)
	return h
}

// pathSegment matches a value that stays inside one URL path segment.
var pathSegment = regexp.MustCompile(`^[^/\\?#]+$`)

// requireSlug rejects a path argument that is empty or would leave its own
// path segment, before any request is built.
func requireSlug(op, name, value string) error {
	err := validation.Validate(value,
		validation.Required,
		validation.Match(pathSegment).Error("must be a single path segment"),
		validation.NotIn(".", "..").Error("must be a single path segment"),
	)
	if err != nil {
		return newEncodeError(op, name, name+" "+err.Error(), err)
	}
	return nil
}

// requireID rejects a non-positive numeric path argument.
func requireID(op, name string, id int64) error {
	if err := validation.Validate(id, validation.Required, validation.Min(int64(1))); err != nil {
		return newEncodeError(op, name, name+" "+err.Error(), err)
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

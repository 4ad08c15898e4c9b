package darwin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
)

// DefaultPageSize is used when a [PageRequest] leaves Size at zero.
const DefaultPageSize = 500

// PageRequest describes one page of a cursor-paginated listing.
//
// Cursor is opaque: pass back the Next value of the previous [Page]
// unchanged. An empty Cursor requests the first page.
type PageRequest struct {
	Size   int
	Cursor string
}

func (r PageRequest) query(q Query) Query {
	size := r.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	q = q.Add("page[size]", strconv.Itoa(size))
	if r.Cursor != "" {
		q = q.Add("page[from]", r.Cursor)
	}
	return q
}

// Page is one page of results.
type Page[T any] struct {
	Items []T

	// Next is the cursor of the following page; empty on the last page.
	Next string

	// Previous is the cursor of the preceding page, when the server sends it.
	Previous string

	// Count is the total number of matching records, when the server sends it.
	Count int
}

// HasNext returns true if another page can be requested.
func (p *Page[T]) HasNext() bool {
	return p.Next != ""
}

// NextRequest returns the request for the following page, keeping the size.
func (p *Page[T]) NextRequest(size int) PageRequest {
	return PageRequest{Size: size, Cursor: p.Next}
}

// pageInfo is the "page" object of v2 list responses.
type pageInfo struct {
	Count    *int    `json:"count,omitempty"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
}

// pageEnvelope is the wire shape of a v2 list response:
// {"items": [...], "page": {"count": n, "next": "...", "previous": "..."}}.
// Older responses put "next" at the top level; both are accepted. Null
// entries in "items" are skipped.
type pageEnvelope[T any] struct {
	Items []*T     `json:"items"`
	Page  pageInfo `json:"page"`
	Next  *string  `json:"next,omitempty"`
}

func (e *pageEnvelope[T]) Validate(formats strfmt.Registry) error {
	var res []error
	for i, item := range e.Items {
		if item == nil {
			continue
		}
		if err := validateValue(item, formats); err != nil {
			res = append(res, nameValidation("items."+strconv.Itoa(i), err))
		}
	}
	return compose(res)
}

// ListPage issues a single GET for one page of a cursor-paginated endpoint
// and returns it with its next-page token. It never follows pages on its
// own; loop on [Page.HasNext] to walk a listing:
//
//	req := darwin.PageRequest{Size: 100}
//	for {
//	    page, err := darwin.ListPage[darwin.Item](ctx, client, path, query, req)
//	    if err != nil {
//	        return err
//	    }
//	    process(page.Items)
//	    if !page.HasNext() {
//	        break
//	    }
//	    req = page.NextRequest(100)
//	}
func ListPage[T any](ctx context.Context, c *Client, p string, query Query, req PageRequest) (*Page[T], error) {
	return listPage[T](ctx, c, "", p, query, req)
}

func listPage[T any](ctx context.Context, c *Client, op, p string, query Query, req PageRequest) (*Page[T], error) {
	var env pageEnvelope[T]
	if err := c.do(ctx, op, http.MethodGet, p, req.query(query), nil, &env); err != nil {
		return nil, err
	}

	page := &Page[T]{Items: compact(env.Items)}
	switch {
	case env.Page.Next != nil:
		page.Next = *env.Page.Next
	case env.Next != nil:
		page.Next = *env.Next
	}
	if env.Page.Previous != nil {
		page.Previous = *env.Page.Previous
	}
	if env.Page.Count != nil {
		page.Count = *env.Page.Count
	}
	return page, nil
}

package darwin_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomblancdev/darwin-go"
)

// countingExecutor answers every request with status and body and counts
// the calls.
func countingExecutor(calls *int32, status int, body string) darwin.Executor {
	return darwin.ExecutorFunc(func(ctx context.Context, req *darwin.TransportRequest) (*darwin.TransportResponse, error) {
		atomic.AddInt32(calls, 1)
		return &darwin.TransportResponse{StatusCode: status, Header: http.Header{}, Body: []byte(body)}, nil
	})
}

// newExecutorClient returns a client whose transport is e.
func newExecutorClient(t *testing.T, e darwin.Executor) *darwin.Client {
	t.Helper()
	client, err := darwin.NewClient("https://darwin.test/api",
		darwin.WithAPIKey(testAPIKey),
		darwin.WithExecutor(e),
	)
	require.NoError(t, err)
	return client
}

// TestQuery_Encode verifies insertion order and escaping are preserved.
func TestQuery_Encode(t *testing.T) {
	q := darwin.Query{}.
		Add("b", "2").
		Add("a", "1").
		Add("b", "3").
		AddInt("page[size]", 10)

	assert.Equal(t, "b=2&a=1&b=3&page%5Bsize%5D=10", q.Encode())
	assert.Equal(t, "", darwin.Query(nil).Encode())
}

// TestDo_Headers verifies the request line and headers built by the pipeline.
//
// It verifies that:
//   - The endpoint path is joined under the base path
//   - The API key is sent as "Authorization: ApiKey <key>"
//   - JSON is requested and the SDK identifies itself
func TestDo_Headers(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/teams/acme", r.URL.Path)
		assert.Equal(t, "ApiKey "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "darwin-go/"+darwin.Version, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Content-Type"))

		mustEncode(w, map[string]interface{}{"id": 1, "slug": "acme", "name": "Acme"})
	})

	// Act
	team, err := client.Teams.Get(context.Background(), "acme")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), team.ID)
	assert.Equal(t, "Acme", team.Name)
}

// TestDo_QueryOrderOnWire verifies query parameters reach the server in
// the order they were added.
func TestDo_QueryOrderOnWire(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/teams/acme/items", r.URL.Path)
		assert.Equal(t, "dataset_ids=7&page%5Bsize%5D=2&page%5Bfrom%5D=c1", r.URL.RawQuery)
		assert.Equal(t, "2", r.URL.Query().Get("page[size]"))

		mustEncode(w, map[string]interface{}{"items": []interface{}{}, "page": map[string]interface{}{}})
	})

	// Act
	_, err := client.Items.List(context.Background(), "acme", 7, darwin.PageRequest{Size: 2, Cursor: "c1"})

	// Assert
	require.NoError(t, err)
}

// TestDo_RequestBody verifies a body is encoded as JSON with a content type.
func TestDo_RequestBody(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		mustDecode(r, &body)
		assert.Equal(t, "hello", body["msg"])

		mustEncode(w, map[string]interface{}{"echo": body["msg"]})
	})

	// Act
	var out struct {
		Echo string `json:"echo"`
	}
	err := client.Do(context.Background(), http.MethodPost, "echo", nil, map[string]string{"msg": "hello"}, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Echo)
}

// TestExecute verifies the generic entry point decodes into a new value.
func TestExecute(t *testing.T) {
	// Arrange
	type storage struct {
		Slug string `json:"slug"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/acme/storage", r.URL.Path)
		mustEncode(w, []map[string]string{{"slug": "s3"}, {"slug": "gcs"}})
	})

	// Act
	storages, err := darwin.Execute[[]storage](context.Background(), client, http.MethodGet, "teams/acme/storage", nil, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, *storages, 2)
	assert.Equal(t, "gcs", (*storages)[1].Slug)
}

// TestDo_EncodeErrorShortCircuits verifies an invalid body never reaches
// the transport.
func TestDo_EncodeErrorShortCircuits(t *testing.T) {
	// Arrange
	var calls int32
	client := newExecutorClient(t, countingExecutor(&calls, http.StatusOK, `{}`))

	// Act
	class, err := client.Classes.Create(context.Background(), "acme", darwin.AnnotationClassInput{})

	// Assert
	require.Error(t, err)
	assert.Nil(t, class)
	assert.Equal(t, darwin.KindEncode, darwin.KindOf(err))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))

	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "classes.create", apiErr.Op)
	assert.Equal(t, "name", apiErr.Path)
}

// TestDo_MissingPathArgument verifies empty slugs and ids are rejected
// before a request is built.
func TestDo_MissingPathArgument(t *testing.T) {
	// Arrange
	var calls int32
	client := newExecutorClient(t, countingExecutor(&calls, http.StatusOK, `{}`))
	ctx := context.Background()

	// Act
	_, slugErr := client.Teams.Get(ctx, "")
	_, idErr := client.Datasets.Get(ctx, 0)
	_, negErr := client.Classes.Get(ctx, -4)

	// Assert
	for _, err := range []error{slugErr, idErr, negErr} {
		assert.Equal(t, darwin.KindEncode, darwin.KindOf(err))
	}
	var apiErr *darwin.Error
	require.ErrorAs(t, slugErr, &apiErr)
	assert.Equal(t, "slug", apiErr.Path)
	require.ErrorAs(t, idErr, &apiErr)
	assert.Equal(t, "id", apiErr.Path)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

// TestDo_PathArgumentStaysInSegment verifies slugs and ids that would reach
// another endpoint are refused before the executor is called.
func TestDo_PathArgumentStaysInSegment(t *testing.T) {
	// Arrange
	var calls int32
	client := newExecutorClient(t, countingExecutor(&calls, http.StatusOK, `{"id": 7}`))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		path string
	}{
		{
			name: "parent segments in team slug",
			call: func() error {
				_, err := client.Teams.Get(ctx, "../datasets/7")
				return err
			},
			path: "slug",
		},
		{
			name: "traversal in item id",
			call: func() error {
				_, err := client.Items.Get(ctx, "acme", "abc/../../../../teams/x")
				return err
			},
			path: "id",
		},
		{
			name: "dot dot workflow id",
			call: func() error {
				_, err := client.Workflows.Get(ctx, "acme", "..")
				return err
			},
			path: "id",
		},
		{
			name: "single dot dataset slug",
			call: func() error {
				_, err := client.Datasets.ListExports(ctx, "acme", ".")
				return err
			},
			path: "dataset_slug",
		},
		{
			name: "query in slug",
			call: func() error {
				_, err := client.Teams.Get(ctx, "acme?x=1")
				return err
			},
			path: "slug",
		},
		{
			name: "fragment in slug",
			call: func() error {
				_, err := client.Teams.Get(ctx, "acme#top")
				return err
			},
			path: "slug",
		},
		{
			name: "backslash in comment item id",
			call: func() error {
				_, err := client.Items.AddCommentThread(ctx, "acme", `a\..\b`, darwin.CommentThread{})
				return err
			},
			path: "item_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.call()

			// Assert
			var apiErr *darwin.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, darwin.KindEncode, apiErr.Kind)
			assert.Equal(t, tt.path, apiErr.Path)
			assert.Contains(t, apiErr.Error(), "single path segment")
		})
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

// TestDo_EscapesPathSegment verifies other characters are escaped inside
// their segment and the base path is kept.
func TestDo_EscapesPathSegment(t *testing.T) {
	// Arrange
	var gotURL string
	client, err := darwin.NewClient("https://darwin.test/api/",
		darwin.WithAPIKey(testAPIKey),
		darwin.WithExecutor(darwin.ExecutorFunc(func(ctx context.Context, req *darwin.TransportRequest) (*darwin.TransportResponse, error) {
			gotURL = req.URL
			return &darwin.TransportResponse{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(`{"id": 1}`)}, nil
		})),
	)
	require.NoError(t, err)

	// Act
	_, err = client.Teams.Get(context.Background(), "my team%")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://darwin.test/api/teams/my%20team%25", gotURL)
}

// TestDo_RateLimited verifies a 429 keeps its status and raw body.
func TestDo_RateLimited(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusTooManyRequests, `{"errors":{"detail":"slow down"}}`)
	})

	// Act
	teams, err := client.Teams.List(context.Background())

	// Assert
	require.Error(t, err)
	assert.Nil(t, teams)
	assert.True(t, darwin.IsRateLimited(err))
	assert.ErrorIs(t, err, darwin.ErrRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, darwin.StatusOf(err))

	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, darwin.KindHTTPStatus, apiErr.Kind)
	assert.JSONEq(t, `{"errors":{"detail":"slow down"}}`, string(apiErr.Body))
	assert.Equal(t, "teams.list", apiErr.Op)
	assert.Equal(t, http.MethodGet, apiErr.Method)
}

// TestDo_NotFound verifies an unknown slug maps to ErrNotFound.
func TestDo_NotFound(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusNotFound, `{"errors":{"detail":"Not Found"}}`)
	})

	// Act
	team, err := client.Teams.Get(context.Background(), "missing")

	// Assert
	require.Error(t, err)
	assert.Nil(t, team)
	assert.True(t, darwin.IsNotFound(err))
	assert.False(t, darwin.IsRateLimited(err))
	assert.NotErrorIs(t, err, darwin.ErrServer)

	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.URL, "/api/teams/missing")
	assert.Contains(t, apiErr.Error(), "returned 404")
}

// TestDo_ServerError verifies every 5xx matches ErrServer.
func TestDo_ServerError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			// Arrange
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeRaw(w, status, `oops`)
			})

			// Act
			_, err := client.Datasets.Get(context.Background(), 3)

			// Assert
			assert.ErrorIs(t, err, darwin.ErrServer)
			assert.NotErrorIs(t, err, darwin.ErrNotFound)
			assert.Equal(t, status, darwin.StatusOf(err))
		})
	}
}

// TestDo_ContextCancellation verifies a cancelled context is reported as a
// cancelled transport failure.
func TestDo_ContextCancellation(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	team, err := client.Teams.Get(ctx, "acme")

	// Assert
	require.Error(t, err)
	assert.Nil(t, team)
	assert.True(t, darwin.IsCanceled(err))
	assert.True(t, darwin.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestDo_Timeout verifies deadline failures set Timeout.
func TestDo_Timeout(t *testing.T) {
	// Arrange
	client := newExecutorClient(t, darwin.ExecutorFunc(func(ctx context.Context, req *darwin.TransportRequest) (*darwin.TransportResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Act
	_, err := client.Teams.List(ctx)

	// Assert
	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, darwin.KindTransport, apiErr.Kind)
	assert.True(t, apiErr.Timeout)
	assert.False(t, apiErr.Canceled)
	assert.False(t, darwin.IsCanceled(err))
}

// TestDo_TransportFailure verifies executor errors keep their cause.
func TestDo_TransportFailure(t *testing.T) {
	// Arrange
	boom := errors.New("connection refused")
	client := newExecutorClient(t, darwin.ExecutorFunc(func(ctx context.Context, req *darwin.TransportRequest) (*darwin.TransportResponse, error) {
		return nil, boom
	}))

	// Act
	_, err := client.Teams.Get(context.Background(), "acme")

	// Assert
	assert.True(t, darwin.IsTransport(err))
	assert.False(t, darwin.IsCanceled(err))
	assert.ErrorIs(t, err, boom)
}

// TestDo_DecodeValidationPath verifies identity failures name the indexed
// path of the offending field.
func TestDo_DecodeValidationPath(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusOK, `{
			"id": "wf-1",
			"name": "triage",
			"stages": [
				{"id": "s-0", "type": "annotate", "config": {}, "edges": []},
				{"name": "review", "type": "review", "config": {}, "edges": []}
			]
		}`)
	})

	// Act
	wf, err := client.Workflows.Get(context.Background(), "acme", "wf-1")

	// Assert
	require.Error(t, err)
	assert.Nil(t, wf)
	assert.True(t, darwin.IsDecode(err))

	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "stages.1.id", apiErr.Path)
	assert.Equal(t, "workflows.get", apiErr.Op)
	assert.NotEmpty(t, apiErr.Snippet)
}

// TestDo_DecodeListPath verifies list responses name the element index.
func TestDo_DecodeListPath(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusOK, `[{"id": 1, "name": "a"}, {"name": "b"}]`)
	})

	// Act
	_, err := client.Teams.List(context.Background())

	// Assert
	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, darwin.KindDecode, apiErr.Kind)
	assert.Equal(t, "1.id", apiErr.Path)
}

// TestDo_DecodeTypeMismatch verifies a wrongly typed field is reported
// with its name and a payload snippet.
func TestDo_DecodeTypeMismatch(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusOK, `{"id": "not-a-number", "slug": "acme"}`)
	})

	// Act
	_, err := client.Teams.Get(context.Background(), "acme")

	// Assert
	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, darwin.KindDecode, apiErr.Kind)
	assert.Equal(t, "id", apiErr.Path)
	assert.Contains(t, apiErr.Snippet, "not-a-number")
}

// TestDo_MalformedBody verifies invalid JSON is a decode failure.
func TestDo_MalformedBody(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, http.StatusOK, `{"id": 1, "slug": `)
	})

	// Act
	_, err := client.Teams.Get(context.Background(), "acme")

	// Assert
	var apiErr *darwin.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, darwin.KindDecode, apiErr.Kind)
	assert.Contains(t, apiErr.Snippet, `"slug"`)
}

// TestDo_EmptyBody verifies a 2xx without a body fails when a result is
// expected and succeeds when none is.
func TestDo_EmptyBody(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	// Act
	_, getErr := client.Classes.Get(ctx, 5)
	deleteErr := client.Classes.Delete(ctx, 5)

	// Assert
	assert.True(t, darwin.IsDecode(getErr))
	assert.NoError(t, deleteErr)
}

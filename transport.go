package darwin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	httpclient "github.com/go-openapi/runtime/client"
	"github.com/hashicorp/go-hclog"
)

// maxResponseBodySize limits how much of a response body is buffered.
// Darwin list pages stay well below this.
const maxResponseBodySize = 64 << 20

// ErrResponseTooLarge is the cause of the KindTransport error returned when
// a response body exceeds the executor's size limit.
var ErrResponseTooLarge = errors.New("response body too large")

// TransportRequest is a fully built HTTP exchange handed to an [Executor].
type TransportRequest struct {
	Method string
	URL    string
	Header http.Header

	// Body is nil for requests without a payload.
	Body []byte
}

// TransportResponse is the raw outcome of an exchange.
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Executor performs a single network exchange.
//
// Implementations must not retry and must not interpret status codes: any
// response that arrived is returned as-is. A returned error always means no
// usable response was received.
type Executor interface {
	Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// ExecutorFunc adapts a function to the [Executor] interface.
type ExecutorFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Do calls f(ctx, req).
func (f ExecutorFunc) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// HTTPExecutor is the default [Executor], backed by net/http.
type HTTPExecutor struct {
	client  *http.Client
	logger  hclog.Logger
	maxBody int64
}

// NewHTTPExecutor wraps httpClient. A nil client uses a fresh http.Client
// with no timeout.
func NewHTTPExecutor(httpClient *http.Client, logger hclog.Logger) *HTTPExecutor {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HTTPExecutor{client: httpClient, logger: logger, maxBody: maxResponseBodySize}
}

// TLSOptions selects the TLS configuration of the executor built by
// [NewTLSExecutor]. File fields are paths to PEM files.
type TLSOptions struct {
	// CA is a PEM root certificate; the system pool is used when empty.
	CA string

	// Certificate and Key enable mutual TLS when both are set.
	Certificate string
	Key         string

	// ServerName overrides the name used to verify the server certificate.
	ServerName string

	// InsecureSkipVerify disables server certificate verification.
	InsecureSkipVerify bool

	// Timeout bounds a whole exchange. Zero means no timeout.
	Timeout time.Duration
}

// NewTLSExecutor builds an [HTTPExecutor] with a dedicated TLS stack.
func NewTLSExecutor(opts TLSOptions, logger hclog.Logger) (*HTTPExecutor, error) {
	httpClient, err := httpclient.TLSClient(httpclient.TLSClientOptions{
		CA:                 opts.CA,
		Certificate:        opts.Certificate,
		Key:                opts.Key,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})
	if err != nil {
		return nil, newConfigError("invalid TLS options", err)
	}
	httpClient.Timeout = opts.Timeout
	return NewHTTPExecutor(httpClient, logger), nil
}

// Do sends req and buffers the response body.
func (e *HTTPExecutor) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	var body io.Reader = http.NoBody
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		httpReq.Header[k] = v
	}

	e.logger.Trace("sending request", "method", req.Method, "url", req.URL, "bytes", len(req.Body))

	resp, err := e.client.Do(httpReq)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > e.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, e.maxBody)
	}

	e.logger.Trace("received response", "status", resp.StatusCode, "bytes", len(data))

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// transportError classifies an executor failure. The caller's context
// wins over the error text: a cancelled context is always reported as a
// cancellation even if the executor surfaced something else.
func transportError(ctx context.Context, op string, req *TransportRequest, err error) *Error {
	e := &Error{
		Kind:   KindTransport,
		Op:     op,
		Method: req.Method,
		URL:    req.URL,
		Cause:  err,
	}

	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		e.Canceled = true
		e.Message = "request cancelled"
	case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		e.Timeout = true
		e.Message = "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		e.Timeout = true
		e.Message = "request timed out"
	default:
		e.Message = "request failed"
	}
	return e
}

package darwin

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option configures a Client.
type Option func(*options)

// options collects construction-time settings. Nothing here is read again
// once [NewClient] returns.
type options struct {
	apiKey     string
	team       string
	timeout    time.Duration
	httpClient *http.Client
	executor   Executor
	tls        *TLSOptions
	userAgent  string
	logger     hclog.Logger
}

// WithAPIKey sets the API key sent as "Authorization: ApiKey <key>" on
// every request.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithTeam sets the default team slug returned by [Client.Team].
func WithTeam(slug string) Option {
	return func(o *options) {
		o.team = slug
	}
}

// WithTimeout sets the timeout of the default executor's HTTP client.
// It has no effect together with [WithExecutor].
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client for the default executor.
//
// The client's own Timeout is left untouched.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithExecutor replaces the transport entirely. It takes precedence over
// [WithHTTPClient], [WithTLS] and [WithTimeout].
func WithExecutor(e Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// WithTLS builds the executor with a dedicated TLS configuration.
// A zero Timeout in opts inherits the client timeout.
func WithTLS(opts TLSOptions) Option {
	return func(o *options) {
		o.tls = &opts
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

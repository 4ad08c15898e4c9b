package darwin

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultTimeout = 30 * time.Second

	// DefaultBaseURL is the public Darwin API.
	DefaultBaseURL = "https://darwin.v7labs.com/api"
)

// Client is the Darwin API client.
//
// A Client is immutable once built and safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	team      string
	userAgent string
	executor  Executor
	logger    hclog.Logger
	formats   strfmt.Registry

	// Teams manages teams and their memberships.
	Teams *TeamsService

	// Datasets manages datasets.
	Datasets *DatasetsService

	// Items manages dataset items.
	Items *ItemsService

	// Classes manages annotation classes.
	Classes *ClassesService

	// Workflows manages workflows and their stages.
	Workflows *WorkflowsService
}

// NewClient creates a new Darwin client for baseURL, e.g.
// "https://darwin.v7labs.com/api". An empty baseURL selects [DefaultBaseURL].
//
// It fails with a KindConfig error when the URL is not absolute, when no
// API key is set, or when the TLS options cannot be loaded.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	o := options{
		timeout:   defaultTimeout,
		userAgent: "darwin-go/" + Version,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, newConfigError("invalid base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, newConfigError("invalid base URL: "+baseURL, errors.New("scheme must be http or https and host must be set"))
	}
	if o.apiKey == "" {
		return nil, newConfigError("missing API key", nil)
	}

	logger := o.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	executor := o.executor
	switch {
	case executor != nil:
	case o.tls != nil:
		tlsOpts := *o.tls
		if tlsOpts.Timeout == 0 {
			tlsOpts.Timeout = o.timeout
		}
		executor, err = NewTLSExecutor(tlsOpts, logger)
		if err != nil {
			return nil, err
		}
	case o.httpClient != nil:
		executor = NewHTTPExecutor(o.httpClient, logger)
	default:
		executor = NewHTTPExecutor(&http.Client{Timeout: o.timeout}, logger)
	}

	c := &Client{
		baseURL:   u,
		apiKey:    o.apiKey,
		team:      o.team,
		userAgent: o.userAgent,
		executor:  executor,
		logger:    logger,
		formats:   strfmt.Default,
	}
	c.Teams = &TeamsService{client: c}
	c.Datasets = &DatasetsService{client: c}
	c.Items = &ItemsService{client: c}
	c.Classes = &ClassesService{client: c}
	c.Workflows = &WorkflowsService{client: c}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Team returns the default team slug set with [WithTeam], if any.
func (c *Client) Team() string {
	return c.team
}

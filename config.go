package darwin

import (
	"github.com/tomblancdev/darwin-go/config"
)

// NewClientFromConfig creates a client from a loaded configuration file.
//
// The endpoint, API key and default team come from the settings of team,
// or of the configured default team when team is empty. opts are applied
// after those settings and override them. A team that cannot be resolved
// is a KindConfig error.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := darwin.NewClientFromConfig(cfg, "")
func NewClientFromConfig(cfg *config.Config, team string, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, newConfigError("missing configuration", nil)
	}
	r, err := cfg.Resolve(team)
	if err != nil {
		return nil, newConfigError("cannot resolve team", err)
	}

	all := append([]Option{WithAPIKey(r.APIKey), WithTeam(r.Team)}, opts...)
	return NewClient(r.APIEndpoint, all...)
}

// Package darwin provides a Go client for the V7 Darwin annotation API.
//
// Darwin manages teams, datasets, dataset items, annotation classes and
// multi-stage annotation workflows. This package wraps its REST API with
// typed models, a single error type and a pluggable transport.
//
// # Installation
//
//	go get github.com/tomblancdev/darwin-go
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/tomblancdev/darwin-go"
//	)
//
//	func main() {
//	    client, err := darwin.NewClient("https://darwin.v7labs.com/api",
//	        darwin.WithAPIKey("my-api-key"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    team, err := client.Teams.Get(context.Background(), "my-team")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("Team: %s (%d)\n", team.Name, team.ID)
//	}
//
// # Client Configuration
//
// The client is configured with functional options:
//
//	client, err := darwin.NewClient(baseURL,
//	    darwin.WithAPIKey(key),
//	    darwin.WithTimeout(time.Minute),
//	    darwin.WithLogger(hclog.Default()),
//	)
//
// or from a darwin configuration file, see package config and
// [NewClientFromConfig].
//
// # Error Handling
//
// Every operation fails with a *[Error] whose Kind is one of
// [KindTransport], [KindHTTPStatus], [KindDecode], [KindEncode] or
// [KindConfig]:
//
//	items, err := client.Items.List(ctx, "my-team", datasetID, darwin.PageRequest{})
//	if err != nil {
//	    var apiErr *darwin.Error
//	    if errors.As(err, &apiErr) {
//	        switch {
//	        case errors.Is(err, darwin.ErrRateLimited):
//	            // back off and retry
//	        case apiErr.Kind == darwin.KindDecode:
//	            log.Printf("unexpected payload at %s: %s", apiErr.Path, apiErr.Snippet)
//	        }
//	    }
//	}
//
// The client never retries. Retry policy belongs to the caller.
//
// # Pagination
//
// Item listings are cursor-paginated. [ItemsService.List] fetches one page;
// the caller decides whether to request the next one with
// [Page.NextRequest].
//
// # Thread Safety
//
// The [Client] is safe for concurrent use by multiple goroutines.
// Each method call is independent and does not share state.
//
// # API Version Compatibility
//
// This SDK targets Darwin API v2. Use [IsCompatible] to check a version
// reported out of band.
package darwin

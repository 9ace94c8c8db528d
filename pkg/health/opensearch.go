package health

import (
	"context"
	"fmt"

	"github.com/opensearch-project/opensearch-go"
)

// SearchProbe checks OpenSearch cluster reachability.
type SearchProbe struct {
	client *opensearch.Client
}

// NewSearchProbe creates a new OpenSearch probe.
func NewSearchProbe(client *opensearch.Client) *SearchProbe {
	return &SearchProbe{client: client}
}

// Run pings the cluster with HEAD / and treats any non-2xx answer as a
// failure. Before the first request the client verifies the server with
// GET /; a failed verification is reported as a failure too.
func (p *SearchProbe) Run(ctx context.Context) Outcome {
	res, err := p.client.Ping(p.client.Ping.WithContext(ctx))
	if err != nil {
		return FromError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Failed(fmt.Sprintf("opensearch ping: %s", res.Status()))
	}
	return Ok()
}

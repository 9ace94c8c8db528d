package health

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CachePinger is satisfied by *redis.Client, *redis.ClusterClient and *redis.Ring.
type CachePinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// CacheProbe checks cache connectivity with a PING.
type CacheProbe struct {
	client CachePinger
}

// NewCacheProbe creates a new cache probe.
func NewCacheProbe(client CachePinger) *CacheProbe {
	return &CacheProbe{client: client}
}

// Run sends PING to the cache.
func (p *CacheProbe) Run(ctx context.Context) Outcome {
	return FromError(p.client.Ping(ctx).Err())
}

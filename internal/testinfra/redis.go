//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"HealthService/pkg/redis"
)

type RedisContainer struct {
	Container testcontainers.Container
	Client    *goredis.Client
	Addr      string
}

func NewRedis(ctx context.Context) (*RedisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}

	client, err := redis.NewClient(redis.Config{Address: endpoint})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Client:    client,
		Addr:      endpoint,
	}, nil
}

// Stop halts the container while keeping it around, simulating an outage.
func (c *RedisContainer) Stop(ctx context.Context) error {
	timeout := time.Second
	return c.Container.Stop(ctx, &timeout)
}

func (c *RedisContainer) Cleanup(ctx context.Context) {
	if c.Client != nil {
		_ = c.Client.Close()
	}
	if c.Container != nil {
		_ = c.Container.Terminate(ctx)
	}
}

// Package testutil starts throwaway backing services for integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 2 * time.Minute

// StartPostgres launches Postgres and returns its DSN. The container is
// terminated with t.Cleanup.
func StartPostgres(t *testing.T) string {
	t.Helper()

	c := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	})
	host := containerHost(t, c)
	port, err := c.MappedPort(context.Background(), "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, port.Port())
}

// StartRedis launches Redis and returns host:port.
func StartRedis(t *testing.T) string {
	t.Helper()

	c := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	})
	host := containerHost(t, c)
	port, err := c.MappedPort(context.Background(), "6379/tcp")
	require.NoError(t, err)
	return host + ":" + port.Port()
}

// StartRabbitMQ launches RabbitMQ and returns its AMQP URL.
func StartRabbitMQ(t *testing.T) string {
	t.Helper()

	c := start(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	})
	host := containerHost(t, c)
	port, err := c.MappedPort(context.Background(), "5672/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func start(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		terminateCtx, terminateCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer terminateCancel()
		_ = c.Terminate(terminateCtx)
	})
	return c
}

func containerHost(t *testing.T, c testcontainers.Container) string {
	t.Helper()

	host, err := c.Host(context.Background())
	require.NoError(t, err)
	return host
}

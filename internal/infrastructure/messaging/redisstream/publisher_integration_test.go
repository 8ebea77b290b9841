//go:build integration

package redisstream

import (
	"context"
	"testing"
	"time"

	"github.com/erp/bills/internal/infrastructure/event"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestPublisher_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	defer client.Close()

	p, err := NewPublisher(client, Options{Stream: "bill-created-it", MaxLen: 100}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, p.PublishBillCreated(ctx, testEvent()))

	entries, err := client.XRange(ctx, "bill-created-it", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	env, err := event.Unmarshal([]byte(entries[0].Values[FieldEnvelope].(string)))
	require.NoError(t, err)
	assert.Equal(t, "bill.created", env.EventName)
}

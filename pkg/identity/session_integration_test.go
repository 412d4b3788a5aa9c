//go:build integration

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestSessionResolve(t *testing.T) {
	client := startRedis(t)
	id := uuid.New()
	require.NoError(t, client.Set(context.Background(), "session:abc", id.String(), time.Minute).Err())
	s := Session{Client: client}

	r := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "abc"})
	got, err := s.Resolve(r)
	require.NoError(t, err)
	require.Equal(t, id, got)

	r = httptest.NewRequest(http.MethodGet, "/favorites", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "unknown"})
	_, err = s.Resolve(r)
	require.ErrorIs(t, err, ErrNoIdentity)
}

// Package identity resolves the caller identity supplied by the hosting
// environment and carries it through the request context.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"nftfavorites/pkg/favorites"
	"nftfavorites/pkg/logger"
)

// DefaultHeader carries the caller identity in header mode.
const DefaultHeader = "X-Caller-Identity"

// ErrNoIdentity is returned when a request carries no usable identity.
var ErrNoIdentity = errors.New("no caller identity")

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id favorites.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (favorites.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(favorites.Identity)
	return id, ok
}

// Resolver extracts the caller identity from a request.
type Resolver interface {
	Resolve(r *http.Request) (favorites.Identity, error)
}

// Header reads the identity from a request header set by a fronting gateway.
type Header struct {
	Name string
}

// Resolve implements Resolver.
func (h Header) Resolve(r *http.Request) (favorites.Identity, error) {
	name := h.Name
	if name == "" {
		name = DefaultHeader
	}
	raw := strings.TrimSpace(r.Header.Get(name))
	if raw == "" {
		return favorites.Identity{}, ErrNoIdentity
	}
	id, err := favorites.ParseIdentity(raw)
	if err != nil {
		return favorites.Identity{}, fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	return id, nil
}

// Session looks the identity up in Redis under <Prefix><session cookie>.
// Sessions are written by the hosting environment, never by this service.
type Session struct {
	Client goredis.UniversalClient
	Cookie string
	Prefix string
}

// Resolve implements Resolver.
func (s Session) Resolve(r *http.Request) (favorites.Identity, error) {
	cookie := s.Cookie
	if cookie == "" {
		cookie = "session_id"
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	c, err := r.Cookie(cookie)
	if err != nil || c.Value == "" {
		return favorites.Identity{}, ErrNoIdentity
	}
	raw, err := s.Client.Get(r.Context(), prefix+c.Value).Result()
	if errors.Is(err, goredis.Nil) {
		return favorites.Identity{}, ErrNoIdentity
	}
	if err != nil {
		return favorites.Identity{}, fmt.Errorf("lookup session: %w", err)
	}
	if raw == "" {
		return favorites.Identity{}, ErrNoIdentity
	}
	id, err := favorites.ParseIdentity(raw)
	if err != nil {
		return favorites.Identity{}, fmt.Errorf("%w: %v", ErrNoIdentity, err)
	}
	return id, nil
}

// Middleware rejects requests without an identity and stores it in the context.
func Middleware(resolver Resolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				if !errors.Is(err, ErrNoIdentity) {
					log.Error(r.Context(), "resolve identity", "error", err)
					http.Error(w, "identity unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

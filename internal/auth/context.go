package auth

import "context"

type contextKey struct{ name string }

var (
	identityKey = &contextKey{"identity"}
	clientKey   = &contextKey{"client"}
)

// Identity is the authenticated caller decoded from a bearer token.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// Client describes the transport-level origin of a request.
type Client struct {
	IP        string
	UserAgent string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity attached by the auth middleware, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey).(Client)
	return c
}

// HasRole reports whether role is one of allowed.
func HasRole(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

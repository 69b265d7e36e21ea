package core

import "context"

// Actor identifies the client behind a gesture. Hosts receive it through the
// context passed to Act.
type Actor struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

type actorKey struct{}

// WithActor attaches the acting client to ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the acting client, or the zero Actor when none
// was attached.
func ActorFromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

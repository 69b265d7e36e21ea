package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/gridview/internal/core"
)

// WithRequestMetadata attaches the requesting client to ctx so row action
// hosts can attribute the action.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithActor(ctx, core.Actor{
		IP:        r.RemoteAddr, // rewritten by TrustedRealIP
		UserAgent: r.UserAgent(),
	})
}

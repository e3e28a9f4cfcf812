package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chris/gig-agreements/pkg/models"
)

const (
	// UserIDHeader and WalletHeader are set by the authentication gateway.
	UserIDHeader = "X-User-ID"
	WalletHeader = "X-Wallet-Address"
)

type actorKey struct{}

// Actor reads the caller identity asserted by the gateway and stores it on
// the request context. Requests without any identity pass through with a
// zero actor; the service decides what an anonymous caller may do.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := models.Actor{
			UserID:        strings.TrimSpace(r.Header.Get(UserIDHeader)),
			WalletAddress: strings.ToLower(strings.TrimSpace(r.Header.Get(WalletHeader))),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored on ctx, or the zero actor.
func ActorFrom(ctx context.Context) models.Actor {
	actor, _ := ctx.Value(actorKey{}).(models.Actor)
	return actor
}

package middleware

import (
	"context"
	"net/http"

	"lodgera/pkg/model"
)

const (
	ActorIDKey   contextKey = "actor_id"
	ActorRoleKey contextKey = "actor_role"

	actorIDHeader   = "X-Actor-ID"
	actorRoleHeader = "X-Actor-Role"
)

// ActorContext lifts the identity the gateway resolved into the request
// context. Token verification happens upstream; this core only trusts the
// forwarded headers.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get(actorIDHeader)
		role := model.ActorRole(r.Header.Get(actorRoleHeader))

		if actorID == "" || !role.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Missing or invalid actor identity"}`))
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, actorID)
		ctx = context.WithValue(ctx, ActorRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ActorFrom(ctx context.Context) (string, model.ActorRole) {
	actorID, _ := ctx.Value(ActorIDKey).(string)
	role, _ := ctx.Value(ActorRoleKey).(model.ActorRole)
	return actorID, role
}

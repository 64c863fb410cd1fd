package middlewares

import "context"

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyActor
)

// Actor is the authenticated user making the request.
type Actor struct {
	ID          int64
	Username    string
	IsSuperuser bool
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

// ActorFrom returns the actor set by RequireAuth.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(Actor)
	return a, ok && a.ID != 0
}

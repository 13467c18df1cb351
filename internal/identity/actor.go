package identity

import (
	"context"

	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

// Actor is the acting editorial user threaded explicitly through every
// engine call. It is never read from ambient globals; request handlers place
// it on the context and services receive it as a parameter.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role domain.Role
}

// Valid reports whether the actor carries an identity and a known role.
func (a Actor) Valid() bool {
	return a.ID != uuid.Nil && a.Role.Known()
}

// FromContract converts the public actor contract into the internal shape.
func FromContract(actor interfaces.Actor) Actor {
	return Actor{
		ID:   actor.ID,
		Name: actor.Name,
		Role: domain.NormalizeRole(string(actor.Role)),
	}
}

// Contract converts the actor back into the public shape.
func (a Actor) Contract() interfaces.Actor {
	return interfaces.Actor{
		ID:   a.ID,
		Name: a.Name,
		Role: interfaces.Role(a.Role),
	}
}

type contextKey string

const actorContextKey contextKey = "newsroom.identity.actor"

// WithActor returns a context carrying the acting user.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext extracts the acting user placed by WithActor. The second
// return reports presence; callers decide whether absence is an error.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey).(Actor)
	return actor, ok
}

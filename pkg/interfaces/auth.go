package interfaces

import "context"

// AuthProvider resolves the acting user for inbound requests. Session
// issuance and credential checks are delegated entirely to the host
// application; the newsroom module only consumes the resolved actor.
type AuthProvider interface {
	CurrentActor(ctx context.Context) (Actor, error)
}

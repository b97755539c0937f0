// Package identity carries the authenticated caller through a request context.
package identity

import "context"

// RoleDeliveryPerson is the role allowed to register as a delivery agent.
const RoleDeliveryPerson = "delivery_person"

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   string
	// Token is the raw bearer token, forwarded to collaborators acting on the caller's behalf.
	Token string
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller stored in ctx.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

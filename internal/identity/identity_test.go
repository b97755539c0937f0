package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/identity"
)

func TestIdentity_RoundTrip(t *testing.T) {
	t.Parallel()

	_, ok := identity.FromContext(context.Background())
	require.False(t, ok)

	want := identity.Identity{UserID: "42", Role: identity.RoleDeliveryPerson, Token: "tkn"}
	got, ok := identity.FromContext(identity.WithIdentity(context.Background(), want))
	require.True(t, ok)
	require.Equal(t, want, got)
}

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chanotai/library-lending/pkg/auth"
)

var signingKey = []byte("test-signing-key")

func TestToken_RoundTrip(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken("u1", signingKey, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, signingKey)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "u1", claims.Subject)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestToken_Expired(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken("u1", signingKey, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, signingKey)
	require.Error(t, err)
}

func TestToken_WrongKey(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken("u1", signingKey, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, []byte("another-key"))
	require.Error(t, err)
}

func TestToken_Garbage(t *testing.T) {
	t.Parallel()
	_, err := auth.ParseToken("not.a.token", signingKey)
	require.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, ok := auth.FromContext(context.Background())
	require.False(t, ok)

	want := auth.Identity{UserID: "u1", Username: "alice", Role: "admin"}
	ctx := auth.SetAuthContext(context.Background(), want)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, want, got)
}

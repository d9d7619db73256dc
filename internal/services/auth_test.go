package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func newAuthEnv(t *testing.T) (*testEnv, AuthService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewAuthService(env.db, env.log, env.userRepo, nil, "test-secret", time.Hour)
	return env, svc
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	_, svc := newAuthEnv(t)

	user, err := svc.Register(context.Background(), &types.User{
		Username: "  Alice ",
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, types.RoleStudent, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-pass")))
}

func TestRegisterRejectsDuplicatesAndBadRoles(t *testing.T) {
	_, svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.User{Username: "alice", Email: "a@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.User{Username: "ALICE", Email: "other@example.com", Password: "s3cret-pass"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, &types.User{Username: "bob", Email: "b@example.com", Password: "s3cret-pass", Role: "Wizard"})
	assert.Error(t, err)
}

func TestLoginAndValidateToken(t *testing.T) {
	_, svc := newAuthEnv(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &types.User{
		Username: "alice",
		Email:    "a@example.com",
		Password: "s3cret-pass",
		Role:     types.RoleInstructor,
	})
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "Alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, types.RoleInstructor, claims.Role)

	_, _, err = svc.Login(ctx, "alice", "wrong-pass")
	assert.Error(t, err)
	_, _, err = svc.Login(ctx, "nobody", "s3cret-pass")
	assert.Error(t, err)

	// A tampered signature never validates.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	_, err = svc.ValidateToken(parts[0] + "." + parts[1] + ".forged")
	assert.Error(t, err)
}

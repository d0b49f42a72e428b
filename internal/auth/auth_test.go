package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "super-secret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", TenantID: "t1", RoleName: RolePayrollAdmin}

	token, err := GenerateToken(secret, claims, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, claims.TenantID, parsed.TenantID)
	assert.Equal(t, claims.RoleName, parsed.RoleName)
	assert.Equal(t, "u1", parsed.Subject)
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("secret-b", token)
	assert.Error(t, err)

	expired, err := GenerateToken("secret-a", Claims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret-a", expired)
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	perms := DefaultRolePermissions()
	ctx := context.Background()

	allowed, err := perms.HasPermission(ctx, RolePayrollAdmin, PermPayrollApprove)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _ = perms.HasPermission(ctx, RolePayrollClerk, PermPayrollApprove)
	assert.False(t, allowed)

	allowed, _ = perms.HasPermission(ctx, "stranger", PermPayrollRead)
	assert.False(t, allowed)
}

package authority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateToken(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	svc := NewService("test-secret", time.Hour, "admin@traits.rail", hash)

	token, err := svc.IssueToken(RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewService("secret-a", time.Hour, "", "")
	token, err := svc.IssueToken(RoleBase)
	require.NoError(t, err)

	other := NewService("secret-b", time.Hour, "", "")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestCheckBootstrapAdmin(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	svc := NewService("secret", time.Hour, "admin@traits.rail", hash)

	assert.True(t, svc.CheckBootstrapAdmin("admin@traits.rail", "correct-horse"))
	assert.False(t, svc.CheckBootstrapAdmin("admin@traits.rail", "wrong"))
	assert.False(t, svc.CheckBootstrapAdmin("nobody@traits.rail", "correct-horse"))
}

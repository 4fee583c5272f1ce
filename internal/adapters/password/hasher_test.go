package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost) // keep the test fast

	hashed, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hashed)

	assert.True(t, h.Verify(hashed, "s3cret-password"))
	assert.False(t, h.Verify(hashed, "wrong-password"))
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("", "anything"))
	assert.False(t, h.Verify("not-a-bcrypt-hash", "anything"))
	assert.False(t, h.Verify("ldap-managed", "anything"))
}

func TestNewHasher_ClampsCost(t *testing.T) {
	h := NewHasher(99)
	hashed, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

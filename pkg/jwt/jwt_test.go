package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("secret", "user-1", RoleBodeguero, "cctv-stock-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", "cctv-stock-api", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, RoleBodeguero, role)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := Generate("secret", "user-1", RoleAdmin, "cctv-stock-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", "cctv-stock-api", token)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("secret", "otro-emisor", token)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("secret", "user-1", RoleAdmin, "cctv-stock-api", -1)
	require.NoError(t, err)
	_, _, err = Parse("secret", "", expired)
	assert.Error(t, err, "token expirado")

	_, err = Generate("", "user-1", RoleAdmin, "", 5)
	assert.Error(t, err)
}

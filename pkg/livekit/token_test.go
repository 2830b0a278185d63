package livekit

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintProducesValidRoomToken(t *testing.T) {
	minter := NewTokenMinter("api-key", "api-secret")

	signed, err := minter.Mint("voice-room-1", "user-42", "Sam")
	require.NoError(t, err)

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "api-key", claims.Issuer)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "Sam", claims.Name)
	assert.Equal(t, "voice-room-1", claims.Video.Room)
	assert.True(t, claims.Video.RoomJoin)
	assert.True(t, claims.Video.CanPublish)
	assert.True(t, claims.Video.CanSubscribe)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(claims.NotBefore.Time))
}

func TestMintRequiresCredentials(t *testing.T) {
	minter := NewTokenMinter("", "")
	_, err := minter.Mint("room", "identity", "")
	require.Error(t, err)
}

func TestMintRejectsWrongSecret(t *testing.T) {
	minter := NewTokenMinter("api-key", "api-secret")
	signed, err := minter.Mint("room", "identity", "")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}

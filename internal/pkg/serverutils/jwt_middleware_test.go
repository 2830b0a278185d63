package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseUserToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userId := uuid.New()

	signed := signTestToken(t, "test-secret", jwt.MapClaims{
		"sub":   userId.String(),
		"email": "guest@example.com",
		"iss":   "platform",
		"aud":   "concierge",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	parsedId, claims, err := ParseUserToken(signed, "platform", "concierge")
	require.NoError(t, err)
	assert.Equal(t, userId, parsedId)
	assert.Equal(t, "guest@example.com", EmailFromClaims(claims))
}

func TestParseUserTokenRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userId := uuid.New()

	cases := []struct {
		name   string
		claims jwt.MapClaims
		secret string
	}{
		{
			name: "expired",
			claims: jwt.MapClaims{
				"sub": userId.String(),
				"iss": "platform",
				"aud": "concierge",
				"exp": time.Now().Add(-time.Hour).Unix(),
			},
			secret: "test-secret",
		},
		{
			name: "missing exp",
			claims: jwt.MapClaims{
				"sub": userId.String(),
				"iss": "platform",
				"aud": "concierge",
			},
			secret: "test-secret",
		},
		{
			name: "wrong issuer",
			claims: jwt.MapClaims{
				"sub": userId.String(),
				"iss": "someone-else",
				"aud": "concierge",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			secret: "test-secret",
		},
		{
			name: "sub not a uuid",
			claims: jwt.MapClaims{
				"sub": "not-a-uuid",
				"iss": "platform",
				"aud": "concierge",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			secret: "test-secret",
		},
		{
			name: "wrong secret",
			claims: jwt.MapClaims{
				"sub": userId.String(),
				"iss": "platform",
				"aud": "concierge",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			secret: "other-secret",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signed := signTestToken(t, tc.secret, tc.claims)
			_, _, err := ParseUserToken(signed, "platform", "concierge")
			assert.Error(t, err)
		})
	}
}

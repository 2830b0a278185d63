package livekit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VideoGrant mirrors the LiveKit access token video claim.
type VideoGrant struct {
	Room         string `json:"room,omitempty"`
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	CanPublish   bool   `json:"canPublish,omitempty"`
	CanSubscribe bool   `json:"canSubscribe,omitempty"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Name  string     `json:"name,omitempty"`
	Video VideoGrant `json:"video"`
}

// TokenMinter signs LiveKit room access tokens. LiveKit tokens are
// plain HS256 JWTs keyed by the API secret, with the API key as issuer
// and the participant identity as subject.
type TokenMinter struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenMinter(apiKey, apiSecret string) *TokenMinter {
	return &TokenMinter{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       6 * time.Hour,
	}
}

// Mint returns a signed join token for identity in room.
func (m *TokenMinter) Mint(room, identity, displayName string) (string, error) {
	if m.apiKey == "" || m.apiSecret == "" {
		return "", fmt.Errorf("livekit: api key and secret are required")
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Name: displayName,
		Video: VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.apiSecret))
	if err != nil {
		return "", fmt.Errorf("livekit: sign token: %w", err)
	}
	return signed, nil
}

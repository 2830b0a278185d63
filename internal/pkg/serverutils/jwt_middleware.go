package serverutils

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ParseUserToken validates a platform JWT (signature, expiry, issuer
// and audience) and returns the user id carried in the sub claim.
// WebSocket upgrades pass the token as a query parameter because
// browser WebSocket clients cannot set headers, so this is shared by
// the HTTP middleware and the upgrade handler.
func ParseUserToken(tokenStr, issuer, audience string) (uuid.UUID, jwt.MapClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	}, opts...)
	if err != nil || !token.Valid {
		return uuid.Nil, nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("unexpected claims type")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, nil, fmt.Errorf("token missing sub claim")
	}

	userId, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("sub claim is not a user id: %w", err)
	}
	return userId, claims, nil
}

// EmailFromClaims pulls the email claim if present.
func EmailFromClaims(claims jwt.MapClaims) string {
	if claims == nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}

// JwtMiddleware guards REST routes. The validated user id lands in
// ctx.Locals("user_id") as a uuid.UUID.
func JwtMiddleware(issuer, audience string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}

		userId, claims, err := ParseUserToken(authHeader[7:], issuer, audience)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		ctx.Locals("user_id", userId)
		ctx.Locals("user_email", EmailFromClaims(claims))
		return ctx.Next()
	}
}

package middleware // middleware contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/utils"
)

// TokenRevocations answers membership queries against the revocation set.
// Satisfied by *repository.RevocationStore.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// UserResolver loads the user bound to a verified token.  Satisfied by
// *repository.UserRepo.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// JWTAuth returns an Echo middleware that gates protected routes.  It
// extracts the bearer token from the Authorization header, verifies
// signature and expiry, rejects tokens present in the revocation set, and
// resolves the bound user from the credential store.  The sanitized user is
// attached to the request context under "user" (plus "user_id" and "role"
// for convenience), so downstream handlers can assume a verified,
// still-existing identity.
func JWTAuth(secret string, revoked TokenRevocations, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			// Explicit logout beats signature and expiry checks.
			isRevoked, err := revoked.IsRevoked(ctx, utils.HashToken(raw))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth check failed"})
			}
			if isRevoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// The token may outlive its account; a deleted user is no longer
			// an identity.
			u, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// Never expose secret material downstream.
			u.PasswordHash = ""
			u.OTP = nil
			u.OTPExpiresAt = nil

			c.Set("user", u)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by JWTAuth.  The boolean is
// false when the middleware did not run on this route.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}

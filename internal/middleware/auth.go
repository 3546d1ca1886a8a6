package middleware

import (
	"errors"
	"strings"

	apperrors "github.com/mvaldivia/soltrack/internal/errors"
	"github.com/mvaldivia/soltrack/internal/handlers"
	"github.com/mvaldivia/soltrack/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie the OAuth callback stores the session
// token in. The Authorization header takes precedence when both are set.
const SessionCookieName = "soltrack_session"

// RequireSession verifies the session token on each request and stores
// the owner's user ID in the context under "user_id".
func RequireSession(sessions services.SessionServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractSessionToken(c)
			if token == "" {
				return handlers.SendError(c, apperrors.AuthMissingToken)
			}

			userID, err := sessions.Verify(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, apperrors.AuthExpiredToken)
				}
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat)
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}

func extractSessionToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		const bearerPrefix = "bearer "
		if strings.HasPrefix(strings.ToLower(authHeader), bearerPrefix) {
			return strings.TrimSpace(authHeader[len(bearerPrefix):])
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

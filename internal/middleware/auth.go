package middleware

import (
	"net/http"
	"strings"

	"entrance-client/pkg/jwtutil"
	"entrance-client/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionCookieName is the credential cookie issued on login
const SessionCookieName = "ENTRANCE_SESSION"

// AuthMiddleware validates the session token carried by the credential
// cookie. A bearer Authorization header is accepted as the superseded legacy
// path.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		tokenString := ""
		if cookie, err := c.Cookie(SessionCookieName); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			// Legacy bearer-token path
			authHeader := c.Request().Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session credential"})
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Invalid session token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
		}

		// Store user info in context for the handlers
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		return next(c)
	}
}

// RequireManager rejects requests from non-manager sessions
func RequireManager(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "BUILDING_MANAGER" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "manager role required"})
		}
		return next(c)
	}
}

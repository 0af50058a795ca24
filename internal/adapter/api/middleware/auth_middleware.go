package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"partsbay/internal/usecase"
)

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// Authenticate verifies the bearer token and loads the user into the
// request context under "uid", "role" and "user".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := m.authUseCase.ParseToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := m.authUseCase.GetMe(c.Request().Context(), claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account not found")
		}

		c.Set("uid", user.ID)
		c.Set("role", user.Role)
		c.Set("user", user)

		return next(c)
	}
}

// OptionalAuthenticate populates the context when a valid token is
// present and proceeds anonymously otherwise. Used by public reads that
// personalize output for logged-in users.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}

		claims, err := m.authUseCase.ParseToken(token)
		if err != nil {
			return next(c)
		}

		if user, err := m.authUseCase.GetMe(c.Request().Context(), claims.UserID); err == nil {
			c.Set("uid", user.ID)
			c.Set("role", user.Role)
			c.Set("user", user)
		}

		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
	}

	return parts[1], nil
}

// ServiceTokenMiddleware authenticates machine callers (the Telegram bot
// process) with a shared token.
type ServiceTokenMiddleware struct {
	token string
}

func NewServiceTokenMiddleware(token string) *ServiceTokenMiddleware {
	return &ServiceTokenMiddleware{token: token}
}

func (m *ServiceTokenMiddleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.token == "" {
			return echo.NewHTTPError(http.StatusForbidden, "Service access is not configured")
		}
		provided := c.Request().Header.Get("X-Service-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.token)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid service token")
		}
		return next(c)
	}
}

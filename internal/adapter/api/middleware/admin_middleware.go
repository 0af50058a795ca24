package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"partsbay/internal/domain/entity"
)

type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// AdminOnly requires Authenticate to have run first.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*entity.User)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}
		if !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Admin privileges required")
		}
		return next(c)
	}
}

// SellerOnly admits sellers and admins. Requires Authenticate first.
func (m *AdminMiddleware) SellerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*entity.User)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}
		if !user.IsSeller() && !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Seller privileges required")
		}
		return next(c)
	}
}

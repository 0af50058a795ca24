package handler

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/domain/entity"
)

// currentUser returns the authenticated user loaded by the auth
// middleware, or nil on anonymous requests.
func currentUser(c echo.Context) *entity.User {
	user, _ := c.Get("user").(*entity.User)
	return user
}

// currentUID returns the authenticated user id, or "".
func currentUID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

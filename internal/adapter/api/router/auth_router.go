package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, m Middlewares) {
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register, m.AuthLimit)
	auth.POST("/login", authHandler.Login, m.AuthLimit)

	me := e.Group("/v1/me")
	me.Use(m.Auth.Authenticate)
	me.GET("", authHandler.GetMe)
	me.PATCH("", authHandler.UpdateProfile)

	admin := e.Group("/v1/admin/users")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)
	admin.GET("", authHandler.ListUsers)
}

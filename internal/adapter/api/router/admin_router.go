package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupAdminRouter(e *echo.Echo, adminHandler *handler.AdminHandler, m Middlewares) {
	admin := e.Group("/v1/admin")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)

	admin.POST("/stickers", adminHandler.GenerateStickers)
	admin.POST("/embeddings/generate", adminHandler.GenerateEmbeddings)
	admin.GET("/analytics/dashboard", adminHandler.Dashboard)
	admin.GET("/events/:entityType/:entityId", adminHandler.EntityHistory)
}

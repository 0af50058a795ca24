package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupMediaRouter(e *echo.Echo, mediaHandler *handler.MediaHandler, m Middlewares) {
	e.GET("/v1/orders/:orderId/media", mediaHandler.ListByOrder, m.Auth.Authenticate)

	admin := e.Group("/v1/admin/media")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)
	admin.POST("/sign-batch", mediaHandler.SignBatch)
	admin.POST("/attach", mediaHandler.Attach)
	admin.DELETE("/:id", mediaHandler.Delete)

	// The bot process attaches photos with a service token instead of a
	// user session.
	service := e.Group("/v1/service/media")
	service.Use(m.ServiceToken.Require)
	service.POST("/attach", mediaHandler.Attach)
}

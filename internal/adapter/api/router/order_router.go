package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, m Middlewares) {
	orders := e.Group("/v1/orders")
	orders.Use(m.Auth.Authenticate)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/from-offer/:offerId", orderHandler.CreateFromOffer)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)

	admin := e.Group("/v1/admin/orders")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)
	admin.POST("", orderHandler.Create)
	admin.GET("/check-number", orderHandler.CheckOrderNumber)
	admin.PATCH("/:id/number", orderHandler.EditOrderNumber)
}

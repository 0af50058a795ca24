package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupShipmentRouter(e *echo.Echo, shipmentHandler *handler.ShipmentHandler, m Middlewares) {
	e.GET("/v1/orders/:orderId/shipments", shipmentHandler.ListByOrder, m.Auth.Authenticate)

	admin := e.Group("/v1/admin/shipments")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)
	admin.PATCH("/:id", shipmentHandler.Update)
	admin.GET("/containers", shipmentHandler.ListContainers)
}

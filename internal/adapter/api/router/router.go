package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
	"partsbay/internal/adapter/api/middleware"
)

// Handlers bundles everything Setup wires onto the Echo instance.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Offer     *handler.OfferHandler
	Order     *handler.OrderHandler
	Shipment  *handler.ShipmentHandler
	Media     *handler.MediaHandler
	Upload    *handler.UploadHandler
	Admin     *handler.AdminHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

// Middlewares bundles the cross-cutting middleware Setup needs.
type Middlewares struct {
	Auth         *middleware.AuthMiddleware
	Admin        *middleware.AdminMiddleware
	ServiceToken *middleware.ServiceTokenMiddleware
	AuthLimit    echo.MiddlewareFunc
	OfferLimit   echo.MiddlewareFunc
}

func Setup(e *echo.Echo, h Handlers, m Middlewares) {
	SetupHealthRouter(e, h.Health)
	SetupAuthRouter(e, h.Auth, m)
	SetupProductRouter(e, h.Product, m)
	SetupOfferRouter(e, h.Offer, m)
	SetupOrderRouter(e, h.Order, m)
	SetupShipmentRouter(e, h.Shipment, m)
	SetupMediaRouter(e, h.Media, m)
	SetupUploadRouter(e, h.Upload, m)
	SetupAdminRouter(e, h.Admin, m)
	SetupWebSocketRouter(e, h.WebSocket, m)
}

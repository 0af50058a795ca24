package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupOfferRouter(e *echo.Echo, offerHandler *handler.OfferHandler, m Middlewares) {
	// Validation works anonymously: the form can show "log in to make an
	// offer" without a round trip after login.
	e.GET("/v1/products/:productId/offers/validate", offerHandler.Validate, m.Auth.OptionalAuthenticate)
	e.GET("/v1/products/:productId/offers", offerHandler.ListCompetitive, m.Auth.OptionalAuthenticate)

	offers := e.Group("/v1/offers")
	offers.Use(m.Auth.Authenticate)
	offers.POST("", offerHandler.Create, m.OfferLimit)
	offers.POST("/replace", offerHandler.CancelAndCreate, m.OfferLimit)
	offers.GET("/my", offerHandler.ListMine)
	offers.POST("/:id/accept", offerHandler.Accept)
	offers.POST("/:id/reject", offerHandler.Reject)
	offers.POST("/:id/cancel", offerHandler.Cancel)
}

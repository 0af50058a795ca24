package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler, m Middlewares) {
	products := e.Group("/v1/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get, m.Auth.OptionalAuthenticate)

	myProducts := e.Group("/v1/my-products")
	myProducts.Use(m.Auth.Authenticate)
	myProducts.Use(m.Admin.SellerOnly)
	myProducts.GET("", productHandler.ListMine)
	myProducts.POST("", productHandler.Create)
	myProducts.PATCH("/:id", productHandler.Update)
	myProducts.POST("/:id/sold", productHandler.MarkSold)
	myProducts.DELETE("/:id", productHandler.Delete)

	admin := e.Group("/v1/admin/products")
	admin.Use(m.Auth.Authenticate)
	admin.Use(m.Admin.AdminOnly)
	admin.POST("/:id/approve", productHandler.Approve)
}

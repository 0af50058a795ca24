package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupUploadRouter(e *echo.Echo, uploadHandler *handler.UploadHandler, m Middlewares) {
	uploads := e.Group("/v1/uploads")
	uploads.Use(m.Auth.Authenticate)
	uploads.POST("", uploadHandler.CreateSession)
	uploads.GET("/:id", uploadHandler.GetSession)
	uploads.PUT("/:id/chunks/:chunk", uploadHandler.MarkChunk)
	uploads.POST("/:id/complete", uploadHandler.Complete)
	uploads.DELETE("/:id", uploadHandler.Delete)
}

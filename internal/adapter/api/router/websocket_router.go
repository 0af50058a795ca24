package router

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, m Middlewares) {
	e.GET("/ws", wsHandler.HandleWebSocket, m.Auth.Authenticate)
}

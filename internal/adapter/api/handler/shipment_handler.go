package handler

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/usecase"
	"partsbay/pkg/response"
)

type ShipmentHandler struct {
	shipmentUseCase *usecase.ShipmentUseCase
}

func NewShipmentHandler(shipmentUseCase *usecase.ShipmentUseCase) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentUseCase: shipmentUseCase,
	}
}

func (h *ShipmentHandler) ListByOrder(c echo.Context) error {
	shipments, err := h.shipmentUseCase.ListByOrder(c.Request().Context(), currentUser(c), c.Param("orderId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shipments)
}

func (h *ShipmentHandler) Update(c echo.Context) error {
	var req usecase.UpdateShipmentInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	shipment, err := h.shipmentUseCase.Update(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shipment)
}

func (h *ShipmentHandler) ListContainers(c echo.Context) error {
	containers, err := h.shipmentUseCase.ListContainers(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, containers)
}

package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"partsbay/internal/domain/repository"
	"partsbay/internal/usecase"
	"partsbay/pkg/errors"
	"partsbay/pkg/response"
	"partsbay/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req usecase.AdminCreateOrderInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.AdminCreate(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) CreateFromOffer(c echo.Context) error {
	order, err := h.orderUseCase.CreateFromOffer(c.Request().Context(), currentUser(c), c.Param("offerId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orderUseCase.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	filter := repository.OrderFilter{
		Status: c.QueryParam("status"),
	}
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.List(c.Request().Context(), currentUser(c), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.UpdateStatus(c.Request().Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// CheckOrderNumber is the pre-flight uniqueness check the edit form uses.
func (h *OrderHandler) CheckOrderNumber(c echo.Context) error {
	orderNumber, err := strconv.Atoi(c.QueryParam("order_number"))
	if err != nil || orderNumber <= 0 {
		return response.Error(c, errors.BadRequest("order_number must be a positive integer", err))
	}

	unique, err := h.orderUseCase.CheckOrderNumberUnique(c.Request().Context(), orderNumber, c.QueryParam("exclude_id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"order_number": orderNumber,
		"unique":       unique,
	})
}

type editOrderNumberRequest struct {
	OrderNumber int `json:"order_number" validate:"required,gt=0"`
}

func (h *OrderHandler) EditOrderNumber(c echo.Context) error {
	var req editOrderNumberRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.EditOrderNumber(c.Request().Context(), currentUser(c), c.Param("id"), req.OrderNumber)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

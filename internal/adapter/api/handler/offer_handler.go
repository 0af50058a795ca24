package handler

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/usecase"
	"partsbay/pkg/response"
	"partsbay/pkg/utils"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

type createOfferRequest struct {
	ProductID              string  `json:"product_id" validate:"required,uuid"`
	OfferedPrice           float64 `json:"offered_price" validate:"required,gt=0"`
	DeliveryPriceConfirmed bool    `json:"delivery_price_confirmed"`
	Message                string  `json:"message" validate:"max=500"`
}

// Validate is the pre-flight check the offer form calls before showing
// the create or update dialog. Works for anonymous callers too.
func (h *OfferHandler) Validate(c echo.Context) error {
	productID := c.Param("productId")

	result, err := h.offerUseCase.Validate(c.Request().Context(), productID, currentUID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) Create(c echo.Context) error {
	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	offer, err := h.offerUseCase.Create(c.Request().Context(), currentUID(c), usecase.CreateOfferInput{
		ProductID:              req.ProductID,
		OfferedPrice:           req.OfferedPrice,
		DeliveryPriceConfirmed: req.DeliveryPriceConfirmed,
		Message:                req.Message,
	}, false)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

// CancelAndCreate replaces the buyer's active offer with a new one.
func (h *OfferHandler) CancelAndCreate(c echo.Context) error {
	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	offer, err := h.offerUseCase.CancelAndCreate(c.Request().Context(), currentUID(c), usecase.CreateOfferInput{
		ProductID:              req.ProductID,
		OfferedPrice:           req.OfferedPrice,
		DeliveryPriceConfirmed: req.DeliveryPriceConfirmed,
		Message:                req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) Accept(c echo.Context) error {
	offer, err := h.offerUseCase.Accept(c.Request().Context(), currentUID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) Reject(c echo.Context) error {
	if err := h.offerUseCase.Reject(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Offer rejected",
	})
}

func (h *OfferHandler) Cancel(c echo.Context) error {
	if err := h.offerUseCase.Cancel(c.Request().Context(), currentUID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Offer cancelled",
	})
}

func (h *OfferHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	offers, total, err := h.offerUseCase.ListByBuyer(c.Request().Context(), currentUID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, offers, total, pagination.Page, pagination.PageSize)
}

// ListCompetitive shows anonymized pending offers on a product.
func (h *OfferHandler) ListCompetitive(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	offers, total, err := h.offerUseCase.ListCompetitive(
		c.Request().Context(), c.Param("productId"), currentUID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, offers, total, pagination.Page, pagination.PageSize)
}

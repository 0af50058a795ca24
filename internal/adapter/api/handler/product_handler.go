package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"partsbay/internal/domain/repository"
	"partsbay/internal/usecase"
	"partsbay/pkg/response"
	"partsbay/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
	offerUseCase   *usecase.OfferUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase, offerUseCase *usecase.OfferUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		offerUseCase:   offerUseCase,
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Create(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.productUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	// The highest pending offer is shown on the product page as the
	// price to beat.
	maxOffer, err := h.offerUseCase.MaxOfferedPrice(c.Request().Context(), product.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"product":           product,
		"max_offered_price": maxOffer,
	})
}

func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		Status:   c.QueryParam("status"),
		SellerID: c.QueryParam("seller_id"),
		Search:   c.QueryParam("search"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		filter.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.QueryParam("max_price"); v != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}

	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.List(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	filter := repository.ProductFilter{
		Status:   c.QueryParam("status"),
		SellerID: currentUID(c),
	}
	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.List(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req usecase.UpdateProductInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Update(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) Approve(c echo.Context) error {
	product, err := h.productUseCase.Approve(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) MarkSold(c echo.Context) error {
	if err := h.productUseCase.MarkSold(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product marked as sold",
	})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.productUseCase.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product deleted successfully",
	})
}

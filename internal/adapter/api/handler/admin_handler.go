package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"partsbay/internal/usecase"
	"partsbay/pkg/response"
	"partsbay/pkg/utils"
)

// AdminHandler groups the admin-only operational endpoints: sticker
// printing, the embeddings batch job and analytics.
type AdminHandler struct {
	stickerUseCase   *usecase.StickerUseCase
	embeddingUseCase *usecase.EmbeddingUseCase
	analyticsUseCase *usecase.AnalyticsUseCase
}

func NewAdminHandler(
	stickerUseCase *usecase.StickerUseCase,
	embeddingUseCase *usecase.EmbeddingUseCase,
	analyticsUseCase *usecase.AnalyticsUseCase,
) *AdminHandler {
	return &AdminHandler{
		stickerUseCase:   stickerUseCase,
		embeddingUseCase: embeddingUseCase,
		analyticsUseCase: analyticsUseCase,
	}
}

func (h *AdminHandler) GenerateStickers(c echo.Context) error {
	var req usecase.GenerateStickersInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.stickerUseCase.Generate(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AdminHandler) GenerateEmbeddings(c echo.Context) error {
	var req usecase.GenerateEmbeddingsInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.embeddingUseCase.Generate(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	topN, _ := strconv.Atoi(c.QueryParam("top"))

	stats, err := h.analyticsUseCase.Dashboard(c.Request().Context(), currentUser(c), days, topN)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *AdminHandler) EntityHistory(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	events, total, err := h.analyticsUseCase.EntityHistory(
		c.Request().Context(), currentUser(c),
		c.Param("entityType"), c.Param("entityId"),
		pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, events, total, pagination.Page, pagination.PageSize)
}

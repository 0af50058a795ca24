package handler

import (
	"github.com/labstack/echo/v4"

	"partsbay/internal/usecase"
	"partsbay/pkg/response"
)

type MediaHandler struct {
	mediaUseCase *usecase.MediaUseCase
}

func NewMediaHandler(mediaUseCase *usecase.MediaUseCase) *MediaHandler {
	return &MediaHandler{
		mediaUseCase: mediaUseCase,
	}
}

func (h *MediaHandler) SignBatch(c echo.Context) error {
	var req usecase.SignBatchInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	params, err := h.mediaUseCase.SignBatch(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, params)
}

// Attach records uploaded assets against an order. Reached both by admin
// users and by the bot process with a service token.
func (h *MediaHandler) Attach(c echo.Context) error {
	var req usecase.AttachMediaInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.mediaUseCase.Attach(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *MediaHandler) ListByOrder(c echo.Context) error {
	media, err := h.mediaUseCase.ListByOrder(c.Request().Context(), currentUser(c), c.Param("orderId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, media)
}

func (h *MediaHandler) Delete(c echo.Context) error {
	if err := h.mediaUseCase.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Media deleted successfully",
	})
}

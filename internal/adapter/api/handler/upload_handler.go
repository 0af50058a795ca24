package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"partsbay/internal/infrastructure/upload"
	"partsbay/pkg/errors"
	"partsbay/pkg/response"
)

// UploadHandler exposes resumable chunked upload sessions. Clients create
// a session, mark chunks as they land and finish with complete; an
// interrupted client asks for the session to learn which chunks remain.
type UploadHandler struct {
	store *upload.Store
}

func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

type createSessionRequest struct {
	OrderID     string `json:"order_id" validate:"required,uuid"`
	FileName    string `json:"file_name" validate:"required"`
	TotalChunks int    `json:"total_chunks" validate:"required,min=1,max=10000"`
	ChunkSize   int64  `json:"chunk_size" validate:"required,gt=0"`
}

func (h *UploadHandler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	session, err := h.store.Create(req.OrderID, req.FileName, req.TotalChunks, req.ChunkSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, session)
}

// GetSession reports progress; missing_chunks is what a resuming client
// still has to send.
func (h *UploadHandler) GetSession(c echo.Context) error {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"session":        session,
		"missing_chunks": session.MissingChunks(),
	})
}

func (h *UploadHandler) MarkChunk(c echo.Context) error {
	chunk, err := strconv.Atoi(c.Param("chunk"))
	if err != nil {
		return response.Error(c, errors.BadRequest("chunk must be an integer", err))
	}

	session, err := h.store.MarkUploaded(c.Param("id"), chunk)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"session":        session,
		"missing_chunks": session.MissingChunks(),
	})
}

func (h *UploadHandler) Complete(c echo.Context) error {
	session, err := h.store.Complete(c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, session)
}

func (h *UploadHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Upload session deleted",
	})
}

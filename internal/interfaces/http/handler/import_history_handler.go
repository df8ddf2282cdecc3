package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/interfaces/http/dto"
	"github.com/lojacrm/backend/internal/interfaces/http/middleware"
)

const defaultHistoryLimit = 20

// ImportHistoryHandler handles import history related HTTP requests
type ImportHistoryHandler struct {
	BaseHandler
	historyService *importapp.ImportHistoryService
}

// NewImportHistoryHandler creates a new ImportHistoryHandler
func NewImportHistoryHandler(historyService *importapp.ImportHistoryService) *ImportHistoryHandler {
	return &ImportHistoryHandler{
		historyService: historyService,
	}
}

// ListHistory godoc
//
//	@Summary		List import runs
//	@Description	Returns the most recent import runs, newest first
//	@Tags			import
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum runs to return (default: 20, max: 100)"
//	@Success		200		{object}	dto.Response{data=[]dto.ImportHistoryResponse}
//	@Failure		400		{object}	dto.Response
//	@Router			/imports [get]
func (h *ImportHistoryHandler) ListHistory(c *gin.Context) {
	var req dto.ImportHistoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultHistoryLimit
	}

	histories, err := h.historyService.ListRecent(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := dto.NewImportHistoryListResponse(histories)
	c.JSON(http.StatusOK, dto.NewListResponse(items, int64(len(items)), req.Limit))
}

// GetHistory godoc
//
//	@Summary	Get one import run
//	@Tags		import
//	@Produce	json
//	@Param		id	path		string	true	"Import run ID"
//	@Success	200	{object}	dto.Response{data=dto.ImportHistoryResponse}
//	@Failure	400	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Router		/imports/{id} [get]
func (h *ImportHistoryHandler) GetHistory(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	history, err := h.historyService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewImportHistoryResponse(history))
}

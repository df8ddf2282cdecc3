package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	importapp "github.com/lojacrm/backend/internal/application/import"
	"github.com/lojacrm/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DataHandler exposes the destructive clear-all-data operation
type DataHandler struct {
	BaseHandler
	purgeService *importapp.DataPurgeService
	logger       *zap.Logger
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(purgeService *importapp.DataPurgeService, logger *zap.Logger) *DataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{
		purgeService: purgeService,
		logger:       logger,
	}
}

// ClearAll godoc
//
//	@Summary		Delete all CRM data
//	@Description	Deletes sales, preferences, clients, sizes and brands. Requires confirm=true.
//	@Tags			data
//	@Produce		json
//	@Param			confirm	query		bool	true	"Must be true"
//	@Success		200		{object}	dto.Response{data=importapp.PurgeResult}
//	@Failure		400		{object}	dto.Response
//	@Failure		500		{object}	dto.Response{data=importapp.PurgeResult}
//	@Router			/data [delete]
func (h *DataHandler) ClearAll(c *gin.Context) {
	var req dto.ClearDataRequest
	if err := c.ShouldBindQuery(&req); err != nil || !req.Confirm {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeConfirmationRequired, "Pass confirm=true to delete all data")
		return
	}

	result, err := h.purgeService.ClearAll(c.Request.Context())
	if err != nil {
		h.logger.Error("clear all data failed", zap.Error(err))
		if errors.Is(err, importapp.ErrClearDataPartialFailure) {
			// The caller still needs to know which tables were emptied
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeClearDataPartial, err.Error(), getRequestID(c))
			resp.Data = result
			c.JSON(dto.GetHTTPStatus(dto.ErrCodeClearDataPartial), resp)
			return
		}
		h.HandleError(c, err)
		return
	}

	h.logger.Info("all CRM data cleared", zap.Any("deleted", result.Deleted))
	h.Success(c, result)
}

package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/lojacrm/backend/internal/application/partner"
	"github.com/lojacrm/backend/internal/interfaces/http/middleware"
)

// ClientHandler manages manual client preferences
type ClientHandler struct {
	BaseHandler
	preferenceService *partnerapp.ClientPreferenceService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(preferenceService *partnerapp.ClientPreferenceService) *ClientHandler {
	return &ClientHandler{
		preferenceService: preferenceService,
	}
}

// GetBrands godoc
//
//	@Summary	Brands a client prefers
//	@Tags		clients
//	@Produce	json
//	@Param		id	path		string	true	"Client ID"
//	@Success	200	{object}	dto.Response{data=partnerapp.ClientBrandsResponse}
//	@Failure	404	{object}	dto.Response
//	@Router		/clients/{id}/brands [get]
func (h *ClientHandler) GetBrands(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	brands, err := h.preferenceService.GetClientBrands(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

// ReplaceBrands godoc
//
//	@Summary		Replace a client's brand preferences
//	@Description	Removes every brand link of the client and stores the given selection
//	@Tags			clients
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Client ID"
//	@Param			request	body		partnerapp.ReplaceBrandsRequest	true	"Brand selection"
//	@Success		200		{object}	dto.Response{data=partnerapp.ClientBrandsResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Router			/clients/{id}/brands [put]
func (h *ClientHandler) ReplaceBrands(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req partnerapp.ReplaceBrandsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	brands, err := h.preferenceService.ReplaceClientBrands(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

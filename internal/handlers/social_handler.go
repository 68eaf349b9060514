package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	*BaseHandler
	socialService services.SocialService
}

func NewSocialHandler(v *validator.Validator, socialService services.SocialService) *SocialHandler {
	return &SocialHandler{
		BaseHandler:   NewBaseHandler(v),
		socialService: socialService,
	}
}

// Callback - POST /api/v1/social/callback
// Принимает профиль, уже верифицированный identity-провайдером
func (h *SocialHandler) Callback(c *gin.Context) {
	var req dto.SocialProfile
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.socialService.RegisterFromSocial(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

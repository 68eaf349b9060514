package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(v *validator.Validator, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        NewBaseHandler(v),
		applicationService: applicationService,
	}
}

// Apply - POST /api/v1/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	app, err := h.applicationService.Apply(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListMine - GET /api/v1/applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListByUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListByJob - GET /api/v1/applications/job/:jobID (employer, владелец вакансии)
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListByJob(c.Param("jobID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Review - PATCH /api/v1/applications/:applicationID (employer)
func (h *ApplicationHandler) Review(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.applicationService.Review(c.Param("applicationID"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application reviewed"})
}

package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(v *validator.Validator, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: NewBaseHandler(v),
		jobService:  jobService,
	}
}

// Create - POST /api/v1/jobs (employer)
func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// List - GET /api/v1/jobs
func (h *JobHandler) List(c *gin.Context) {
	var filter dto.JobFilterRequest
	if !h.BindAndValidateQuery(c, &filter) {
		return
	}

	page, pageSize := ParsePagination(c)
	jobs, total, err := h.jobService.List(&filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetByID - GET /api/v1/jobs/:jobID
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobService.GetByID(c.Param("jobID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListMine - GET /api/v1/jobs/mine (employer)
func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListByEmployer(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Delete - DELETE /api/v1/jobs/:jobID (employer, владелец)
func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Param("jobID"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

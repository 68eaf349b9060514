package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type OTPHandler struct {
	*BaseHandler
	otpService services.OTPService
}

func NewOTPHandler(v *validator.Validator, otpService services.OTPService) *OTPHandler {
	return &OTPHandler{
		BaseHandler: NewBaseHandler(v),
		otpService:  otpService,
	}
}

// SendOTP - POST /api/v1/otp/send
func (h *OTPHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.otpService.SendOTP(c.Request.Context(), req.Phone); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

// VerifyOTP - POST /api/v1/otp/verify
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.otpService.VerifyOTP(c.Request.Context(), req.Phone, req.OTP, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

package routes

import (
	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/handlers"
	"jobconnect_backend/internal/middleware"
	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/ws"

	"github.com/gin-gonic/gin"
)

// Handlers - все HTTP-хендлеры приложения
type Handlers struct {
	Auth        *handlers.AuthHandler
	OTP         *handlers.OTPHandler
	Social      *handlers.SocialHandler
	Chat        *handlers.ChatHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Item        *handlers.ItemHandler
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты
func RegisterRoutes(
	router *gin.Engine,
	h *Handlers,
	wsHandler *ws.Handler,
	tokens *auth.TokenService,
	userRepo repositories.UserRepository,
) {
	authRequired := middleware.AuthMiddleware(tokens, userRepo)
	employerOnly := middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin)

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.POST("/verify-email", h.Auth.VerifyEmail)
			authGroup.POST("/verify-phone", h.Auth.VerifyPhone)
			authGroup.POST("/resend-email-code", h.Auth.ResendEmailCode)
			authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
			authGroup.POST("/reset-password", h.Auth.ResetPassword)

			authGroup.PATCH("/role", authRequired, h.Auth.UpdateRole)
			authGroup.GET("/me", authRequired, h.Auth.Me)
		}

		otpGroup := api.Group("/otp")
		{
			otpGroup.POST("/send", h.OTP.SendOTP)
			otpGroup.POST("/verify", h.OTP.VerifyOTP)
		}

		socialGroup := api.Group("/social")
		{
			socialGroup.POST("/callback", h.Social.Callback)
		}

		chatGroup := api.Group("/chats", authRequired)
		{
			chatGroup.POST("", h.Chat.StartChat)
			chatGroup.GET("", h.Chat.ListChats)
			chatGroup.GET("/unread-counts", h.Chat.UnreadCounts)
			chatGroup.GET("/:chatID/messages", h.Chat.ListMessages)
			chatGroup.POST("/:chatID/messages", h.Chat.SendMessage)
			chatGroup.POST("/:chatID/read", h.Chat.MarkRead)
		}

		jobGroup := api.Group("/jobs")
		{
			jobGroup.GET("", h.Job.List)
			jobGroup.GET("/mine", authRequired, employerOnly, h.Job.ListMine)
			jobGroup.GET("/:jobID", h.Job.GetByID)
			jobGroup.POST("", authRequired, employerOnly, h.Job.Create)
			jobGroup.DELETE("/:jobID", authRequired, employerOnly, h.Job.Delete)
		}

		applicationGroup := api.Group("/applications", authRequired)
		{
			applicationGroup.POST("", h.Application.Apply)
			applicationGroup.GET("/mine", h.Application.ListMine)
			applicationGroup.GET("/job/:jobID", employerOnly, h.Application.ListByJob)
			applicationGroup.PATCH("/:applicationID", employerOnly, h.Application.Review)
		}

		itemGroup := api.Group("/items")
		{
			itemGroup.GET("", h.Item.List)
			itemGroup.GET("/mine", authRequired, h.Item.ListMine)
			itemGroup.GET("/:itemID", h.Item.GetByID)
			itemGroup.POST("", authRequired, h.Item.Create)
			itemGroup.DELETE("/:itemID", authRequired, h.Item.Delete)
		}
	}

	// Токен проверяется внутри хендлера до upgrade
	router.GET("/ws", wsHandler.ServeWS)
}

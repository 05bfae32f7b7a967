package auth

import (
	"github.com/Santatra-A/leave-management/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", middleware.RateLimitByIP(0.1, 3), handler.Signup)
		auth.GET("/verify", handler.Verify)
		auth.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(), handler.Me)
		auth.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
		auth.POST("/otp", middleware.RateLimitByIP(0.1, 3), handler.OTP)
		auth.POST("/password-recovery", middleware.RateLimitByIP(0.1, 3), handler.PasswordRecovery)
	}
}

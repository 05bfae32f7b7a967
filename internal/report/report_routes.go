package report

import (
	"github.com/Santatra-A/leave-management/internal/middleware"
	"github.com/Santatra-A/leave-management/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.POST("", middleware.RBACAuthorize(rbacService, "report", "create"), handler.Generate)
	}
}

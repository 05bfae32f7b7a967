package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetByID)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "update"), handler.Update)
	}
}

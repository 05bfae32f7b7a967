package leave

import (
	"github.com/Santatra-A/leave-management/internal/middleware"
	"github.com/Santatra-A/leave-management/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), middleware.Idempotency(rdb), handler.Create)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "decide"), handler.Decide)
	}
}

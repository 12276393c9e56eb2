package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/kvenegas/tasks-api/internal/container"
	"github.com/kvenegas/tasks-api/internal/domain/entity"
	"github.com/kvenegas/tasks-api/internal/interface/middleware"
	"github.com/kvenegas/tasks-api/pkg/helpers"
)

// DebugModule exposes process metrics (expvar) to admins only.
type DebugModule struct {
	JWT *helpers.JWTManager
}

func NewDebugModule(jwt *helpers.JWTManager) *DebugModule { return &DebugModule{JWT: jwt} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if !container.GetConfig().DebugMetricsEnabled {
		return
	}
	rg.GET("/debug/vars",
		middleware.Auth(m.JWT),
		middleware.RequireRole(entity.RoleAdmin),
		gin.WrapH(expvar.Handler()),
	)
}

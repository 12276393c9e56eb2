package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kvenegas/tasks-api/internal/container"
	handlers "github.com/kvenegas/tasks-api/internal/interface/http"
	"github.com/kvenegas/tasks-api/internal/interface/middleware"
	"github.com/kvenegas/tasks-api/pkg/helpers"
)

// ProductModule wires the product/task CRUD routes. Everything requires a
// valid bearer token; ownership checks live in the service layer.
type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/product")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/create", m.Handler.Create)
		auth.GET("/readall", m.Handler.List)
		auth.GET("/readone/:id", m.Handler.Get)
		auth.PUT("/update/:id", m.Handler.Update)
		auth.DELETE("/delete/:id", m.Handler.Delete)

		auth.GET("/search", m.Handler.Search)

		// AI helper is the most expensive endpoint, keep its own budget
		suggestLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil)
		auth.POST("/suggest", suggestLimiter, m.Handler.SuggestTitles)
	}
}

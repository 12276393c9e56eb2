package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kvenegas/tasks-api/internal/container"
	handlers "github.com/kvenegas/tasks-api/internal/interface/http"
	"github.com/kvenegas/tasks-api/internal/interface/middleware"
	"github.com/kvenegas/tasks-api/pkg/helpers"
)

// UserModule wires identity HTTP handlers and the bearer-auth middleware.
// Public: POST /api/user/register, POST /api/user/login
// Protected: GET /api/user/verifytoken, GET /api/user/me, PUT /api/user/update
type UserModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get tight per-IP limits to slow brute force
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/user/register", registerLimiter, m.Handler.Register)
	rg.POST("/user/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/user")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/verifytoken", m.Handler.VerifyToken)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/update", m.Handler.UpdateProfile)
	}
}

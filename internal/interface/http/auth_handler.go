package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/kvenegas/tasks-api/internal/application"
	"github.com/kvenegas/tasks-api/internal/domain/entity"
	"github.com/kvenegas/tasks-api/internal/interface/middleware"
	"github.com/kvenegas/tasks-api/pkg/response"
	"github.com/kvenegas/tasks-api/pkg/validation"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=80"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

// profileJSON is the sanitized user representation: never the password hash.
type profileJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toProfileJSON(u *entity.User) profileJSON {
	return profileJSON{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		UpdatedAt: u.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// Register POST /api/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, userapp.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "email already registered")
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusBadRequest, "could not register user")
		return
	}

	response.SuccessWithToken(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email}, token)
}

// Login POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one generic message for unknown email and wrong password alike
		response.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	response.SuccessWithToken(c, http.StatusOK, gin.H{"id": u.ID, "email": u.Email, "role": u.Role}, token)
}

// VerifyToken GET /api/user/verifytoken — echoes the verified claims.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	id, role := middleware.CallerFrom(c)
	response.Success(c, http.StatusOK, gin.H{"id": id, "role": role})
}

// Me GET /api/user/me — full profile minus the password.
func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := middleware.CallerFrom(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "user not found")
		return
	}
	response.Success(c, http.StatusOK, toProfileJSON(u))
}

// UpdateProfile PUT /api/user/update — partial update of name/email/password.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.CallerFrom(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), id, userapp.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrEmptyUpdate):
			response.Error(c, http.StatusBadRequest, "no fields to update")
		case errors.Is(err, userapp.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "email already registered")
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found")
		default:
			h.Logger.WithError(err).Error("profile update failed")
			response.Error(c, http.StatusBadRequest, "could not update profile")
		}
		return
	}

	response.Success(c, http.StatusOK, toProfileJSON(u))
}

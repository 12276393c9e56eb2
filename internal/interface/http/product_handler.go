package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	prodapp "github.com/kvenegas/tasks-api/internal/application"
	"github.com/kvenegas/tasks-api/internal/domain/entity"
	"github.com/kvenegas/tasks-api/internal/interface/middleware"
	"github.com/kvenegas/tasks-api/pkg/response"
	"github.com/kvenegas/tasks-api/pkg/validation"
)

// ProductHandler exposes CRUD, search and title suggestions over the
// product/task resource. Every route runs behind the auth middleware.
type ProductHandler struct {
	Svc     *prodapp.ProductService
	Suggest *prodapp.SuggestService
	Logger  *logrus.Logger
}

func NewProductHandler(svc *prodapp.ProductService, suggest *prodapp.SuggestService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Suggest: suggest, Logger: logger}
}

type createProductRequest struct {
	Title       string     `json:"title" binding:"required,max=140"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags" binding:"omitempty,dive,max=40"`
}

// updateProductRequest is the explicit allow-list for partial updates.
// Owner is not a field here on purpose: ownership is immutable and any
// inbound owner value is simply never decoded.
type updateProductRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=140"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags" binding:"omitempty,dive,max=40"`
}

type suggestRequest struct {
	Context string `json:"context" binding:"required,max=300"`
}

type productJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Owner       string     `json:"owner"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProductJSON(p *entity.Product) productJSON {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return productJSON{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		DueDate:     p.DueDate,
		Owner:       p.Owner,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func caller(c *gin.Context) prodapp.Caller {
	id, role := middleware.CallerFrom(c)
	return prodapp.Caller{ID: id, Role: role}
}

// productID validates the :id path parameter; a malformed id is 400, not 404.
func productID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return "", false
	}
	return id, true
}

func (h *ProductHandler) respondErr(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, prodapp.ErrNotFound):
		response.Error(c, http.StatusNotFound, "product not found")
	case errors.Is(err, prodapp.ErrForbidden):
		response.Error(c, http.StatusForbidden, "insufficient permissions")
	default:
		h.Logger.WithError(err).Error(action + " failed")
		response.Error(c, http.StatusBadRequest, "could not "+action)
	}
}

// Create POST /api/product/create
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), caller(c), prodapp.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.Status(req.Status),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		h.respondErr(c, err, "create product")
		return
	}
	response.Success(c, http.StatusCreated, toProductJSON(p))
}

// List GET /api/product/readall?status=&q=
func (h *ProductHandler) List(c *gin.Context) {
	status := entity.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		response.Error(c, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := h.Svc.List(c.Request.Context(), caller(c), status, c.Query("q"))
	if err != nil {
		h.respondErr(c, err, "list products")
		return
	}

	out := make([]productJSON, 0, len(items))
	for _, p := range items {
		out = append(out, toProductJSON(p))
	}
	response.Success(c, http.StatusOK, out)
}

// Get GET /api/product/readone/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		h.respondErr(c, err, "read product")
		return
	}
	response.Success(c, http.StatusOK, toProductJSON(p))
}

// Update PUT /api/product/update/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	in := prodapp.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.Status != nil {
		st := entity.Status(*req.Status)
		in.Status = &st
	}

	p, err := h.Svc.Update(c.Request.Context(), caller(c), id, in)
	if err != nil {
		h.respondErr(c, err, "update product")
		return
	}
	response.Success(c, http.StatusOK, toProductJSON(p))
}

// Delete DELETE /api/product/delete/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	deleted, err := h.Svc.Delete(c.Request.Context(), caller(c), id)
	if err != nil {
		h.respondErr(c, err, "delete product")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

// Search GET /api/product/search?q= — Elasticsearch-backed, ownership-scoped.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query parameter q")
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), caller(c), q, 10)
	if err != nil {
		h.Logger.WithError(err).Error("product search failed")
		response.Error(c, http.StatusBadRequest, "could not search products")
		return
	}
	response.Success(c, http.StatusOK, hits)
}

// SuggestTitles POST /api/product/suggest — AI task-title ideas.
func (h *ProductHandler) SuggestTitles(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	ideas, err := h.Suggest.SuggestTitles(c.Request.Context(), req.Context)
	if err != nil {
		if errors.Is(err, prodapp.ErrSuggestionsDisabled) {
			response.Error(c, http.StatusBadRequest, "suggestions not configured")
			return
		}
		h.Logger.WithError(err).Error("title suggestion failed")
		response.Error(c, http.StatusBadRequest, "could not generate suggestions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ideas": ideas})
}

package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
	repo "github.com/kvenegas/tasks-api/internal/domain/repository"
)

// Caller is the identity decoded from a verified bearer token.
type Caller struct {
	ID   string
	Role entity.Role
}

// canAccess is the single ownership predicate shared by read/update/delete:
// admins may touch anything, everyone else only their own products.
func (c Caller) canAccess(owner string) bool {
	return c.Role == entity.RoleAdmin || c.ID == owner
}

// ProductService implements CRUD over the product/task resource plus the
// optional Elasticsearch-backed search. ES indexing is best-effort and a nil
// client disables it entirely.
type ProductService struct {
	Repo    repo.ProductRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewProductService(r repo.ProductRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ProductService {
	return &ProductService{Repo: r, Logger: logger, ES: es, ESIndex: esIndex}
}

type CreateProductInput struct {
	Title       string
	Description string
	Status      entity.Status
	DueDate     *time.Time
	Tags        []string
}

// Create persists a new product owned by the caller.
func (s *ProductService) Create(ctx context.Context, caller Caller, in CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		DueDate:     in.DueDate,
		Owner:       caller.ID,
		Tags:        in.Tags,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

// List returns products newest-first. Non-admin callers only ever see their
// own; optional filters are exact status and case-insensitive title substring.
func (s *ProductService) List(ctx context.Context, caller Caller, status entity.Status, q string) ([]*entity.Product, error) {
	f := repo.ProductFilter{Status: status, TitleQuery: q}
	if caller.Role != entity.RoleAdmin {
		f.Owner = caller.ID
	}
	return s.Repo.List(ctx, f)
}

func (s *ProductService) Get(ctx context.Context, caller Caller, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !caller.canAccess(p.Owner) {
		return nil, ErrForbidden
	}
	return p, nil
}

// UpdateProductInput carries the allow-listed updatable fields. Nil means
// "not supplied". Owner is deliberately absent: ownership is immutable.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Status      *entity.Status
	DueDate     *time.Time
	Tags        []string
}

// Update applies partial-field replacement of the supplied fields only.
func (s *ProductService) Update(ctx context.Context, caller Caller, id string, in UpdateProductInput) (*entity.Product, error) {
	p, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.indexProduct(ctx, p)
	return p, nil
}

// Delete removes the product and returns its id.
func (s *ProductService) Delete(ctx context.Context, caller Caller, id string) (string, error) {
	p, err := s.Get(ctx, caller, id)
	if err != nil {
		return "", err
	}
	if err := s.Repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	s.removeFromIndex(ctx, p.ID)
	return p.ID, nil
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"status":      p.Status,
		"owner_id":    p.Owner,
		"tags":        p.Tags,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (s *ProductService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over title/description/tags, scoped to the
// caller's products unless the caller is an admin. A nil ES client yields an
// empty result rather than an error.
func (s *ProductService) Search(ctx context.Context, caller Caller, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}

	match := map[string]any{
		"multi_match": map[string]any{
			"query":  q,
			"fields": []string{"title^2", "description", "tags"},
		},
	}
	var query map[string]any
	if caller.Role == entity.RoleAdmin {
		query = map[string]any{"query": match, "size": size}
	} else {
		query = map[string]any{
			"query": map[string]any{
				"bool": map[string]any{
					"must":   match,
					"filter": map[string]any{"term": map[string]any{"owner_id": caller.ID}},
				},
			},
			"size": size,
		}
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

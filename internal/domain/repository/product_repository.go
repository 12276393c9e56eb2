package repository

import (
	"context"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
)

// ProductFilter narrows List results. Zero values mean "no constraint".
type ProductFilter struct {
	Owner      string        // exact owner id; empty lists every owner (admin view)
	Status     entity.Status // exact status match
	TitleQuery string        // case-insensitive substring on title
}

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List returns matching products ordered by creation time, newest first.
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
}

package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
)

var (
	alice = Caller{ID: "user-alice", Role: entity.RoleUser}
	bob   = Caller{ID: "user-bob", Role: entity.RoleUser}
	root  = Caller{ID: "user-root", Role: entity.RoleAdmin}
)

func newProductService(t *testing.T) *ProductService {
	t.Helper()
	return NewProductService(newFakeProductRepo(), logrus.New(), nil, "")
}

func TestProductService_CreateSetsOwner(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	p, err := svc.Create(ctx, alice, CreateProductInput{
		Title:   "  Write report  ",
		Status:  entity.StatusTodo,
		DueDate: &due,
		Tags:    []string{"work"},
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.Owner, "owner comes from the caller, never the payload")
	assert.Equal(t, "Write report", p.Title)
	assert.NotEmpty(t, p.ID)
}

func TestProductService_ListScoping(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, CreateProductInput{Title: "alice 1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, CreateProductInput{Title: "alice 2", Status: entity.StatusDone})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, CreateProductInput{Title: "bob 1"})
	require.NoError(t, err)

	t.Run("user sees only own", func(t *testing.T) {
		got, err := svc.List(ctx, alice, "", "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, p := range got {
			assert.Equal(t, alice.ID, p.Owner)
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		got, err := svc.List(ctx, root, "", "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := svc.List(ctx, alice, entity.StatusDone, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alice 2", got[0].Title)
	})

	t.Run("title query is a case-insensitive substring match", func(t *testing.T) {
		got, err := svc.List(ctx, alice, "", "ALICE 2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alice 2", got[0].Title)

		got, err = svc.List(ctx, alice, "", "zebra")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("newest first", func(t *testing.T) {
		got, err := svc.List(ctx, alice, "", "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alice 2", got[0].Title)
		assert.Equal(t, "alice 1", got[1].Title)
	})
}

func TestProductService_GetAccess(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, alice, CreateProductInput{Title: "alice's"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  Caller
		id      string
		wantErr error
	}{
		{name: "owner reads own", caller: alice, id: p.ID, wantErr: nil},
		{name: "admin reads anyone's", caller: root, id: p.ID, wantErr: nil},
		{name: "other user forbidden", caller: bob, id: p.ID, wantErr: ErrForbidden},
		{name: "missing id", caller: alice, id: "missing", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(ctx, tt.caller, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
		})
	}
}

func TestProductService_UpdatePartialAndOwnerImmutable(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, alice, CreateProductInput{
		Title:       "original",
		Description: "desc",
		Tags:        []string{"a"},
	})
	require.NoError(t, err)

	status := entity.StatusInProgress
	got, err := svc.Update(ctx, alice, p.ID, UpdateProductInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, got.Status)
	assert.Equal(t, "original", got.Title, "unsupplied fields stay as they were")
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, alice.ID, got.Owner)

	t.Run("admin update keeps original owner", func(t *testing.T) {
		title := "renamed by admin"
		got, err := svc.Update(ctx, root, p.ID, UpdateProductInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "renamed by admin", got.Title)
		assert.Equal(t, alice.ID, got.Owner, "ownership never changes on update")
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		title := "hijack"
		_, err := svc.Update(ctx, bob, p.ID, UpdateProductInput{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestProductService_Delete(t *testing.T) {
	svc := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, alice, CreateProductInput{Title: "to delete"})
	require.NoError(t, err)

	t.Run("non-owner forbidden", func(t *testing.T) {
		_, err := svc.Delete(ctx, bob, p.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner deletes", func(t *testing.T) {
		id, err := svc.Delete(ctx, alice, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, id)
	})

	t.Run("second delete not found", func(t *testing.T) {
		_, err := svc.Delete(ctx, alice, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProductService_SearchWithoutES(t *testing.T) {
	svc := newProductService(t)
	got, err := svc.Search(context.Background(), alice, "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

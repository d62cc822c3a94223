package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/shopmill/admin-api/internal/errors"
	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/mocks"
)

func newTestProductService(t *testing.T, repo *mocks.MockProductRepository, rev *mocks.MockRevalidator) *ProductService {
	t.Helper()
	svc, err := NewProductService(ProductServiceOptions{
		Repo:        repo,
		Revalidator: rev,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	return svc
}

func TestProductService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestProductService(t, repo, rev)

	req := &model.CreateProductRequest{Name: "Blue Mug", Slug: "blue-mug", PriceCents: 1299}
	created := &model.Product{ID: "p-1", Name: "Blue Mug", Slug: "blue-mug", PriceCents: 1299}

	repo.EXPECT().Create(gomock.Any(), req).Return(created, nil)
	rev.EXPECT().Async([]string{"/products", "/products/blue-mug"})

	product, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "p-1", product.ID)
}

func TestProductService_Create_ValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestProductService(t, repo, rev)

	_, err := svc.Create(context.Background(), &model.CreateProductRequest{Slug: "no-name"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProductService_Update_SlugChangeRevalidatesBothPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestProductService(t, repo, rev)

	newSlug := "red-mug"
	req := &model.UpdateProductRequest{Slug: &newSlug}
	before := &model.Product{ID: "p-1", Slug: "blue-mug"}
	after := &model.Product{ID: "p-1", Slug: "red-mug"}

	repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(before, nil)
	repo.EXPECT().Update(gomock.Any(), "p-1", req).Return(after, nil)
	rev.EXPECT().Async([]string{"/products", "/products/red-mug", "/products/blue-mug"})

	product, err := svc.Update(context.Background(), "p-1", req)
	require.NoError(t, err)
	assert.Equal(t, "red-mug", product.Slug)
}

func TestProductService_Update_SameSlugRevalidatesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestProductService(t, repo, rev)

	price := int64(1499)
	req := &model.UpdateProductRequest{PriceCents: &price}
	existing := &model.Product{ID: "p-1", Slug: "blue-mug"}

	repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(existing, nil)
	repo.EXPECT().Update(gomock.Any(), "p-1", req).Return(existing, nil)
	rev.EXPECT().Async([]string{"/products", "/products/blue-mug"})

	_, err := svc.Update(context.Background(), "p-1", req)
	require.NoError(t, err)
}

func TestProductService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestProductService(t, repo, rev)

	existing := &model.Product{ID: "p-1", Slug: "blue-mug"}
	repo.EXPECT().GetByID(gomock.Any(), "p-1").Return(existing, nil)
	repo.EXPECT().Delete(gomock.Any(), "p-1").Return(nil)
	rev.EXPECT().Async([]string{"/products", "/products/blue-mug"})

	require.NoError(t, svc.Delete(context.Background(), "p-1"))
}

func TestProductService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	svc, err := NewProductService(ProductServiceOptions{Repo: repo, Logger: discardLogger()})
	require.NoError(t, err)

	opts := model.ProductsListOptions{Limit: 10}
	repo.EXPECT().List(gomock.Any(), opts).
		Return([]model.Product{{ID: "p-1"}, {ID: "p-2"}}, 2, nil)

	products, total, err := svc.List(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 2, total)
}

func TestProductService_NilRevalidatorIsFine(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)
	svc, err := NewProductService(ProductServiceOptions{Repo: repo, Logger: discardLogger()})
	require.NoError(t, err)

	req := &model.CreateProductRequest{Name: "Mug", Slug: "mug"}
	repo.EXPECT().Create(gomock.Any(), req).Return(&model.Product{ID: "p-1", Slug: "mug"}, nil)

	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

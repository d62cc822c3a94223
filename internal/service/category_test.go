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

func newTestCategoryService(t *testing.T, repo *mocks.MockCategoryRepository, rev *mocks.MockRevalidator) *CategoryService {
	t.Helper()
	svc, err := NewCategoryService(CategoryServiceOptions{
		Repo:        repo,
		Revalidator: rev,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	return svc
}

func TestCategoryService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCategoryRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestCategoryService(t, repo, rev)

	req := &model.CreateCategoryRequest{Name: "Mugs", Slug: "mugs"}
	repo.EXPECT().Create(gomock.Any(), req).Return(&model.Category{ID: "c-1", Slug: "mugs"}, nil)
	rev.EXPECT().Async([]string{"/products", "/categories"})

	category, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "c-1", category.ID)
}

func TestCategoryService_Create_ValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCategoryRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestCategoryService(t, repo, rev)

	_, err := svc.Create(context.Background(), &model.CreateCategoryRequest{Slug: "no-name"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCategoryService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCategoryRepository(ctrl)
	svc, err := NewCategoryService(CategoryServiceOptions{Repo: repo, Logger: discardLogger()})
	require.NoError(t, err)

	repo.EXPECT().List(gomock.Any()).Return([]model.Category{{ID: "c-1"}}, nil)

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCategoryService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCategoryRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestCategoryService(t, repo, rev)

	repo.EXPECT().Delete(gomock.Any(), "c-1").Return(nil)
	rev.EXPECT().Async([]string{"/products", "/categories"})

	require.NoError(t, svc.Delete(context.Background(), "c-1"))
}

func TestCategoryService_Delete_RepoFailureSkipsNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCategoryRepository(ctrl)
	rev := mocks.NewMockRevalidator(ctrl)
	svc := newTestCategoryService(t, repo, rev)

	repo.EXPECT().Delete(gomock.Any(), "c-1").Return(assert.AnError)

	err := svc.Delete(context.Background(), "c-1")
	require.Error(t, err)
}

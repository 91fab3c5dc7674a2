package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type favoriteFixture struct {
	favorites *MockFavoriteRepository
	products  *MockProductRepository
	history   *MockViewHistoryRepository
	reviews   *MockReviewRepository
	service   *services.FavoriteService
}

func newFavoriteFixture() *favoriteFixture {
	f := &favoriteFixture{
		favorites: new(MockFavoriteRepository),
		products:  new(MockProductRepository),
		history:   new(MockViewHistoryRepository),
		reviews:   new(MockReviewRepository),
	}
	stats := services.NewStatsService(f.history, f.reviews)
	f.service = services.NewFavoriteService(f.favorites, f.products, stats, testDefaults)
	return f
}

func TestFavoriteService_Add(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", IsActive: true}, nil).Once()
	f.favorites.On("Create", ctx, mock.MatchedBy(func(fav *models.Favorite) bool {
		return fav.UserID == "u1" && fav.ProductID == "p1"
	})).Return(nil).Once()

	fav, err := f.service.Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", fav.ProductID)
	f.favorites.AssertExpectations(t)
}

func TestFavoriteService_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", IsActive: true}, nil).Once()
	duplicate := fmt.Errorf("failed to create favorite: %w", errors.Join(repositories.ErrDuplicate, errors.New("UNIQUE constraint failed")))
	f.favorites.On("Create", ctx, mock.Anything).Return(duplicate).Once()

	_, err := f.service.Add(ctx, "u1", "p1")
	require.Error(t, err)
	assert.Equal(t, services.KindConflict, services.KindOf(err))
	assert.Equal(t, "already favorited", services.MessageOf(err))
}

func TestFavoriteService_AddMissingProduct(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.products.On("GetByID", ctx, "nope").Return(nil, repositories.ErrNotFound).Once()

	_, err := f.service.Add(ctx, "u1", "nope")
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
	f.favorites.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFavoriteService_AddStorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", IsActive: true}, nil).Once()
	f.favorites.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := f.service.Add(ctx, "u1", "p1")
	assert.Equal(t, services.KindSystem, services.KindOf(err))
}

func TestFavoriteService_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.favorites.On("Delete", ctx, "u1", "p1").Return(nil).Once()
	f.favorites.On("Delete", ctx, "u1", "p2").Return(repositories.ErrNotFound).Once()

	assert.NoError(t, f.service.Remove(ctx, "u1", "p1"))
	assert.Equal(t, services.KindNotFound, services.KindOf(f.service.Remove(ctx, "u1", "p2")))
}

func TestFavoriteService_IsFavorite(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	f.favorites.On("Exists", ctx, "u1", "p1").Return(true, nil).Once()

	ok, err := f.service.IsFavorite(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFavoriteService_ListDropsInactiveAndMissing(t *testing.T) {
	ctx := context.Background()
	f := newFavoriteFixture()

	rows := []models.Favorite{
		{ProductID: "p1", Product: &models.Product{ID: "p1", IsActive: true}},
		{ProductID: "p2", Product: &models.Product{ID: "p2", IsActive: false}},
		{ProductID: "p3"},
		{ProductID: "p4", Product: &models.Product{ID: "p4", IsActive: true}},
	}
	f.favorites.On("ListByUser", ctx, "u1", 12, 12).Return(rows, nil).Once()
	f.favorites.On("CountByUser", ctx, "u1").Return(int64(16), nil).Once()
	f.history.On("CountByProducts", ctx, []string{"p1", "p4"}).Return([]models.ViewAggregate{{ProductID: "p4", Count: 2}}, nil).Once()
	f.reviews.On("StatsByProducts", ctx, []string{"p1", "p4"}).Return([]models.RatingAggregate{}, nil).Once()

	page, err := f.service.List(ctx, "u1", "2", "")
	require.NoError(t, err)

	require.Len(t, page.Products, 2)
	assert.Equal(t, "p1", page.Products[0].ID)
	assert.Equal(t, "p4", page.Products[1].ID)
	assert.Equal(t, int64(2), page.Products[1].ViewCount)
	assert.Nil(t, page.Products[0].ViewedAt)

	// total counts every favorite row, including the two hidden ones
	assert.Equal(t, models.Pagination{Page: 2, Limit: 12, Total: 16, TotalPages: 2}, page.Pagination)
}

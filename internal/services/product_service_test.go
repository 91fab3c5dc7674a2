package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(repo *MockProductRepository, cache services.CategoryCache) *services.ProductService {
	return services.NewProductService(repo, new(MockViewHistoryRepository), cache, testDefaults, 8)
}

func TestProductService_Search(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	products := []models.Product{{ID: "1", Name: "Laptop", IsActive: true}}
	repo.On("Search", ctx, mock.MatchedBy(func(q models.CatalogQuery) bool {
		return q.Page == 2 && q.Limit == 5 && q.Category == "Computers" && q.Sort.Field == models.SortPrice
	})).Return(products, int64(11), nil).Once()

	page, err := service.Search(ctx, models.CatalogFilters{Page: "2", Limit: "5", Category: "Computers", SortBy: "price"})
	require.NoError(t, err)

	assert.Equal(t, products, page.Products)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3}, page.Pagination)
	assert.Equal(t, "Computers", page.Filters.Category)
	repo.AssertExpectations(t)
}

func TestProductService_SearchFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	repo.On("Search", ctx, mock.Anything).Return(nil, int64(0), errors.New("connection refused")).Once()

	page, err := service.Search(ctx, models.CatalogFilters{})
	assert.Nil(t, page)
	assert.Equal(t, services.KindSystem, services.KindOf(err))
	assert.Equal(t, "search failed", services.MessageOf(err))
}

func TestProductService_ViewProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	repo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1", Views: 41, IsActive: false}, nil).Once()
	repo.On("IncrementViews", ctx, "1").Return(nil).Once()

	product, err := service.ViewProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), product.Views)
	repo.AssertExpectations(t)
}

func TestProductService_GetProductHasNoSideEffect(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	repo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1"}, nil).Once()
	repo.On("GetByID", ctx, "99").Return(nil, repositories.ErrNotFound).Once()

	_, err := service.GetProduct(ctx, "1")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)

	_, err = service.GetProduct(ctx, "99")
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestProductService_CategoriesCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	cache := new(MockCategoryCache)
	service := newProductService(repo, cache)

	cache.On("Categories", ctx).Return(nil, false, nil).Once()
	repo.On("Categories", ctx).Return([]string{"Audio", "Laptop"}, nil).Once()
	cache.On("SetCategories", ctx, []string{"Audio", "Laptop"}).Return(nil).Once()

	categories, err := service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Audio", "Laptop"}, categories)

	cache.On("Categories", ctx).Return([]string{"Audio", "Laptop"}, true, nil).Once()
	categories, err = service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Audio", "Laptop"}, categories)

	repo.AssertNumberOfCalls(t, "Categories", 1)
	cache.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	cache := new(MockCategoryCache)
	service := newProductService(repo, cache)

	name, price, discount := "Headphones", 200000.0, 10.0
	repo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == name && p.IsActive && p.FinalPrice == 180000
	})).Return(nil).Once()
	cache.On("InvalidateCategories", ctx).Return(nil).Once()

	product, err := service.CreateProduct(ctx, models.ProductInput{Name: &name, Price: &price, Discount: &discount})
	require.NoError(t, err)
	assert.True(t, product.IsActive)
	cache.AssertExpectations(t)

	_, err = service.CreateProduct(ctx, models.ProductInput{Name: &name})
	assert.Equal(t, services.KindValidation, services.KindOf(err))
}

func TestProductService_UpdateProductPartial(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	existing := &models.Product{ID: "1", Name: "Mouse", Price: 100, Stock: 3, IsActive: true}
	stock := 10
	repo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Mouse" && p.Stock == 10 && p.Price == 100
	})).Return(nil).Once()

	product, err := service.UpdateProduct(ctx, "1", models.ProductInput{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
	repo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	repo.On("Deactivate", ctx, "1").Return(nil).Once()
	repo.On("Deactivate", ctx, "2").Return(repositories.ErrNotFound).Once()

	assert.NoError(t, service.DeleteProduct(ctx, "1"))
	assert.Equal(t, services.KindNotFound, services.KindOf(service.DeleteProduct(ctx, "2")))
}

func TestProductService_Similar(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	service := newProductService(repo, nil)

	product := &models.Product{ID: "1", Category: "Audio"}
	repo.On("GetByID", ctx, "1").Return(product, nil).Twice()
	repo.On("Similar", ctx, product, 8).Return(nil, nil).Once()
	repo.On("Similar", ctx, product, 3).Return([]models.Product{{ID: "2"}}, nil).Once()

	similar, err := service.Similar(ctx, "1", "")
	require.NoError(t, err)
	assert.NotNil(t, similar)
	assert.Empty(t, similar)

	similar, err = service.Similar(ctx, "1", "3")
	require.NoError(t, err)
	assert.Len(t, similar, 1)
}

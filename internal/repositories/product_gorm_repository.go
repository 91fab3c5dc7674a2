package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the sortable fields and maps them to columns.
var sortColumns = map[string]string{
	models.SortCreatedAt: "created_at",
	models.SortPrice:     "price",
	models.SortViews:     "views",
	models.SortRating:    "rating",
	models.SortDiscount:  "discount",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Search returns one page of active products matching query, plus the total match count.
func (r *GORMProductRepository) Search(ctx context.Context, query models.CatalogQuery) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := r.filtered(ctx, query).
		Order(orderBy(query)).
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// filtered builds the WHERE part shared by the count and the page query.
func (r *GORMProductRepository) filtered(ctx context.Context, query models.CatalogQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if len(query.SearchTerms) > 0 {
		matches := make([]clause.Expression, 0, len(query.SearchTerms))
		for _, term := range query.SearchTerms {
			matches = append(matches, clause.Expr{SQL: "search_text LIKE ?", Vars: []interface{}{termPattern(term)}})
		}
		tx = tx.Where(clause.Or(matches...))
	}
	if query.Category != "" {
		tx = tx.Where("category = ?", query.Category)
	}

	tx = tx.Where("price >= ?", query.MinPrice)
	if !query.Unbounded() {
		tx = tx.Where("price <= ?", query.MaxPrice)
	}

	if query.OnlyDiscounted {
		tx = tx.Where("discount > ?", 0)
	}
	if query.MinViews > 0 {
		tx = tx.Where("views >= ?", query.MinViews)
	}
	if query.MinRating > 0 {
		tx = tx.Where("rating >= ?", query.MinRating)
	}
	return tx
}

// orderBy ranks by the number of matched terms first when searching, then by the requested field.
func orderBy(query models.CatalogQuery) clause.OrderBy {
	column, ok := sortColumns[query.Sort.Field]
	if !ok {
		column = sortColumns[models.SortCreatedAt]
	}
	direction := "ASC"
	if query.Sort.Desc {
		direction = "DESC"
	}
	fieldOrder := column + " " + direction

	if len(query.SearchTerms) == 0 {
		return clause.OrderBy{Expression: clause.Expr{SQL: fieldOrder}}
	}

	scores := make([]string, len(query.SearchTerms))
	vars := make([]interface{}, len(query.SearchTerms))
	for i, term := range query.SearchTerms {
		scores[i] = "CASE WHEN search_text LIKE ? THEN 1 ELSE 0 END"
		vars[i] = termPattern(term)
	}
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "(" + strings.Join(scores, " + ") + ") DESC, " + fieldOrder,
		Vars:               vars,
		WithoutParentheses: true,
	}}
}

// termPattern matches words starting with term in the folded search document.
func termPattern(term string) string {
	return "% " + term + "%"
}

// Categories returns the sorted distinct non-empty categories.
func (r *GORMProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ?", "").
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

// GetByID retrieves a single product by its ID, active or not.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Similar returns active products sharing the category of product, most viewed first.
func (r *GORMProductRepository) Similar(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND category = ? AND id <> ?", true, product.Category, product.ID).
		Order("views DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get similar products: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// Update saves all fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *GORMProductRepository) Deactivate(ctx context.Context, id string) error {
	return r.updateColumn(ctx, id, "is_active", false)
}

// IncrementViews adds one to the denormalized view counter.
func (r *GORMProductRepository) IncrementViews(ctx context.Context, id string) error {
	return r.updateColumn(ctx, id, "views", gorm.Expr("views + ?", 1))
}

// UpdateRating stores the denormalized average rating.
func (r *GORMProductRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	return r.updateColumn(ctx, id, "rating", rating)
}

// updateColumn writes a single column without touching hooks or updated_at.
func (r *GORMProductRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).UpdateColumn(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

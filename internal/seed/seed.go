// Package seed inserts a sample catalog into an empty database.
package seed

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{
			Name:        "iPhone 15 Pro Max",
			Description: "Flagship smartphone với chip A17 Pro, camera 48MP, màn hình OLED 6.7 inch",
			Category:    "Electronics",
			Price:       29990000, Discount: 10, Views: 1250, Stock: 50, Rating: 4.8,
			Tags: []string{"smartphone", "apple", "iphone", "5g"},
		},
		{
			Name:        "Samsung Galaxy S24 Ultra",
			Description: "Smartphone cao cấp với bút S Pen, camera 200MP, màn hình Dynamic AMOLED 6.8 inch",
			Category:    "Electronics",
			Price:       27990000, Discount: 15, Views: 980, Stock: 40, Rating: 4.7,
			Tags: []string{"smartphone", "samsung", "android", "5g"},
		},
		{
			Name:        "MacBook Pro M3 14 inch",
			Description: "Laptop chuyên nghiệp với chip M3, RAM 16GB, SSD 512GB, màn hình Retina",
			Category:    "Electronics",
			Price:       45990000, Discount: 5, Views: 2100, Stock: 25, Rating: 4.9,
			Tags: []string{"laptop", "apple", "macbook", "professional"},
		},
		{
			Name:        "Sony WH-1000XM5",
			Description: "Tai nghe chống ồn chủ động hàng đầu, pin 30 giờ, âm thanh Hi-Res",
			Category:    "Electronics",
			Price:       8990000, Discount: 20, Views: 3200, Stock: 100, Rating: 4.9,
			Tags: []string{"headphone", "sony", "wireless", "noise-cancelling"},
		},
		{
			Name:        "Áo khoác da nam cao cấp",
			Description: "Áo khoác da bò thật 100%, thiết kế hiện đại, phong cách Hàn Quốc",
			Category:    "Fashion",
			Price:       2990000, Discount: 25, Views: 890, Stock: 45, Rating: 4.5,
			Tags: []string{"jacket", "leather", "men", "korean-style"},
		},
		{
			Name:        "Giày thể thao Nike Air Max",
			Description: "Giày chạy bộ êm ái, đệm khí Air Max, thoáng khí",
			Category:    "Fashion",
			Price:       3490000, Views: 1420, Stock: 80, Rating: 4.6,
			Tags: []string{"shoes", "nike", "running", "sport"},
		},
		{
			Name:        "Nồi chiên không dầu Philips",
			Description: "Dung tích 6.2L, công nghệ Rapid Air, tiết kiệm điện",
			Category:    "Home",
			Price:       3290000, Discount: 12, Views: 760, Stock: 60, Rating: 4.4,
			Tags: []string{"kitchen", "philips", "air-fryer"},
		},
		{
			Name:        "Sách Đắc Nhân Tâm",
			Description: "Cuốn sách kinh điển về nghệ thuật giao tiếp và ứng xử",
			Category:    "Books",
			Price:       86000, Views: 2300, Stock: 200, Rating: 4.8,
			Tags: []string{"book", "self-help", "bestseller"},
		},
	}
}

// Products inserts the sample catalog when no product exists yet. It returns the number of inserted rows.
func Products(ctx context.Context, repo repositories.ProductRepository) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	products := sampleProducts()
	for i := range products {
		products[i].IsActive = true
		if err := repo.Create(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}
	return len(products), nil
}

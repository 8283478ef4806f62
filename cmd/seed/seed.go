package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/product-catalog/internal/domain"
	"github.com/utafrali/product-catalog/internal/service"
	apperrors "github.com/utafrali/product-catalog/pkg/errors"
)

type productAdder interface {
	AddProduct(ctx context.Context, input *service.AddProductInput) (*domain.Product, error)
}

type result struct {
	Created int
	Skipped int
}

// seed adds every product in defs. Duplicates are counted as skipped; any
// other failure stops the run.
func seed(ctx context.Context, svc productAdder, defs []service.AddProductInput, logger *slog.Logger) (result, error) {
	var res result
	for i := range defs {
		def := &defs[i]
		p, err := svc.AddProduct(ctx, def)
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			res.Skipped++
			logger.DebugContext(ctx, "product already seeded",
				slog.String("name", def.Name),
				slog.String("brand", def.Brand),
			)
		case err != nil:
			return res, fmt.Errorf("seed %s %s: %w", def.Brand, def.Name, err)
		default:
			res.Created++
			logger.InfoContext(ctx, "product seeded",
				slog.Int64("product_id", p.ID),
				slog.String("name", def.Name),
				slog.String("category", def.CategoryName),
			)
		}
	}
	return res, nil
}

func catalog() []service.AddProductInput {
	return []service.AddProductInput{
		product("iPhone 15", "Apple", "999.99", 50, "6.1-inch display, A16 Bionic", "Phones"),
		product("Galaxy S24", "Samsung", "899.00", 40, "6.2-inch display, Snapdragon 8 Gen 3", "Phones"),
		product("Pixel 8", "Google", "699.00", 25, "6.2-inch display, Tensor G3", "Phones"),
		product("MacBook Air 13", "Apple", "1199.00", 20, "M3 chip, 8GB RAM, 256GB SSD", "Laptops"),
		product("XPS 13", "Dell", "1099.99", 15, "Intel Core Ultra 7, 16GB RAM", "Laptops"),
		product("ThinkPad X1 Carbon", "Lenovo", "1499.00", 10, "14-inch, Intel Core i7", "Laptops"),
		product("AirPods Pro", "Apple", "249.00", 100, "Active noise cancellation", "Audio"),
		product("WH-1000XM5", "Sony", "399.99", 35, "Over-ear wireless headphones", "Audio"),
		product("iPad Air", "Apple", "599.00", 30, "10.9-inch Liquid Retina display", "Tablets"),
		product("Galaxy Tab S9", "Samsung", "799.99", 12, "11-inch Dynamic AMOLED", "Tablets"),
	}
}

func product(name, brand, price string, inventory int, description, category string) service.AddProductInput {
	return service.AddProductInput{
		Name:         name,
		Brand:        brand,
		Price:        decimal.RequireFromString(price),
		Inventory:    inventory,
		Description:  description,
		CategoryName: category,
	}
}

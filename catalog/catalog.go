// Package catalog wraps the product browsing and admin management endpoints.
package catalog

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

var ErrInvalidProduct = errors.New("catalog: product needs a name and a positive price")

// API is the backend's catalog surface. *gateway.Client satisfies it.
type API interface {
	Products(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	UploadImage(ctx context.Context, path string) (string, error)
}

type Service struct {
	api API
	log *zap.Logger
}

func NewService(api API, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

// List returns the catalog sorted by name for stable display.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.api.Products(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

// Create validates and adds a product; when imagePath is set the image is
// uploaded first and its served URL stamped onto the product.
func (s *Service) Create(ctx context.Context, p models.Product, imagePath string) (models.Product, error) {
	if p.Name == "" || p.PriceCents <= 0 {
		return models.Product{}, ErrInvalidProduct
	}

	if imagePath != "" {
		url, err := s.api.UploadImage(ctx, imagePath)
		if err != nil {
			return models.Product{}, err
		}
		p.ImageURL = url
	}

	created, err := s.api.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	s.log.Info("product created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if err := s.api.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("id", productID))
	return nil
}

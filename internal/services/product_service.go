package services

import (
	"shopapi/internal/cache"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// ProductUpdate carries a partial product update. Nil fields keep their
// prior value.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

// ProductService handles business logic related to products. Reads go through
// the TTL cache; every mutation invalidates the affected entries before it
// returns, so a successful write is never followed by a stale read from this
// process.
type ProductService struct {
	repo  repositories.ProductRepository
	cache *cache.Cache
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, c *cache.Cache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: c,
	}
}

// GetAllProducts retrieves all products, serving repeated reads from the cache.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	if cached, ok := s.cache.Get(cache.ProductListKey); ok {
		if products, ok := cached.([]models.Product); ok {
			return products, nil
		}
	}
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.ProductListKey, products)
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	if cached, ok := s.cache.Get(cache.ProductKey(id)); ok {
		if product, ok := cached.(*models.Product); ok {
			return product, nil
		}
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.ProductKey(id), product)
	return product, nil
}

// CreateProduct creates a new product. Description defaults to empty and
// stock to 0 via their zero values.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.cache.Delete(cache.ProductListKey)
	return nil
}

// UpdateProduct applies the provided fields to an existing product; absent
// fields retain their prior value.
func (s *ProductService) UpdateProduct(id string, upd ProductUpdate) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.cache.Delete(cache.ProductKey(id))
	s.cache.Delete(cache.ProductListKey)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.cache.Delete(cache.ProductKey(id))
	s.cache.Delete(cache.ProductListKey)
	return nil
}

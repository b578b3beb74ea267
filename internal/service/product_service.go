package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"safegear/internal/domain"
	"safegear/internal/repository"

	"github.com/google/uuid"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// ProductInput carries the fields an admin supplies when creating or updating
// a product
type ProductInput struct {
	Name           string
	SKU            string
	Description    string
	Price          float64
	OldPrice       *float64
	CategoryID     uuid.UUID
	ImageURL       string
	Certifications []string
	Specs          map[string]string
	Stock          int
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, categorySlug string, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create adds a new product to the catalog. The slug is derived from the name.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	now := time.Now()
	product := &domain.Product{
		ID:             uuid.New(),
		Name:           input.Name,
		Slug:           Slugify(input.Name),
		SKU:            input.SKU,
		Description:    input.Description,
		Price:          input.Price,
		OldPrice:       input.OldPrice,
		CategoryID:     input.CategoryID,
		ImageURL:       input.ImageURL,
		Certifications: input.Certifications,
		Specs:          input.Specs,
		Stock:          input.Stock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces a product's editable fields. The slug follows the name.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Slug = Slugify(input.Name)
	product.SKU = input.SKU
	product.Description = input.Description
	product.Price = input.Price
	product.OldPrice = input.OldPrice
	product.CategoryID = input.CategoryID
	product.ImageURL = input.ImageURL
	product.Certifications = input.Certifications
	product.Specs = input.Specs
	product.Stock = input.Stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetBySlug retrieves a product for the product-detail page
func (s *productService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.FindBySlug(ctx, slug)
}

// List retrieves a catalog page, optionally narrowed to one category by slug
func (s *productService) List(ctx context.Context, categorySlug string, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	var categoryID *uuid.UUID
	if categorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
		if err != nil {
			return nil, 0, err
		}
		categoryID = &category.ID
	}

	return s.productRepo.List(ctx, categoryID, page, pageSize, sortBy, sortOrder)
}

// Search searches the catalog by name, description or SKU
func (s *productService) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	return s.productRepo.Search(ctx, query, page, pageSize)
}

// ListCategories retrieves all categories
func (s *productService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Slugify turns a product name into a URL slug: lowercase, alphanumeric runs
// joined by single hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

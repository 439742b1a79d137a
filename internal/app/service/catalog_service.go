package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

const defaultWriteTimeout = 5 * time.Second

type CatalogService interface {
	// Load reads the stored catalog, seeding the defaults when none exists.
	// It never fails: an unavailable store yields the defaults unsaved.
	Load(ctx context.Context) []model.Product
	Products() []model.Product
	ListByCategory(category string) []model.Product
	FindByID(id string) (model.Product, error)
	Add(ctx context.Context, draft model.ProductDraft) (model.Product, error)
	Categories() []model.CategoryInfo
	// Save writes the current catalog and reports the outcome
	Save(ctx context.Context) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	writeTimeout time.Duration
	newID        func() string

	mu       sync.RWMutex
	products []model.Product
}

func NewCatalogService(productRepo repository.ProductRepository, writeTimeout time.Duration) CatalogService {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &catalogService{
		productRepo:  productRepo,
		writeTimeout: writeTimeout,
		newID:        uuid.NewString,
	}
}

func (s *catalogService) Load(ctx context.Context) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.productRepo.Load(ctx)
	switch {
	case err == nil:
		s.products = products
		logger.Info("Product catalog loaded", map[string]interface{}{
			"count": len(products),
		})

	case repository.IsNotFound(err):
		s.products = model.DefaultProducts()
		logger.Info("No stored catalog, seeding defaults", map[string]interface{}{
			"count": len(s.products),
		})
		s.persistLocked(ctx)

	default:
		s.products = model.DefaultProducts()
		logger.Error("Failed to load product catalog, using defaults without saving", err, map[string]interface{}{
			"count": len(s.products),
		})
	}

	return s.copyLocked()
}

func (s *catalogService) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *catalogService) ListByCategory(category string) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if model.ProductCategory(category) == model.CategoryAll {
		return s.copyLocked()
	}

	filtered := []model.Product{}
	for _, p := range s.products {
		if string(p.Category) == category {
			filtered = append(filtered, p)
		}
	}

	logger.Debug("Products filtered by category", map[string]interface{}{
		"category": category,
		"count":    len(filtered),
	})
	return filtered
}

func (s *catalogService) FindByID(id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, ErrProductNotFound
}

func (s *catalogService) Add(ctx context.Context, draft model.ProductDraft) (model.Product, error) {
	product, err := validateDraft(draft)
	if err != nil {
		logger.Warn("Rejected product draft", map[string]interface{}{
			"field":  err.Field,
			"reason": err.Message,
		})
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.uniqueIDLocked()
	s.products = append(s.products, product)

	logger.Info("Product added to catalog", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"category":   product.Category,
		"price":      product.Price,
	})

	s.persistLocked(ctx)
	return product, nil
}

func (s *catalogService) Categories() []model.CategoryInfo {
	return model.Categories()
}

func (s *catalogService) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

// uniqueIDLocked retries the generator on the unlikely collision with an
// existing id, including the numeric seed ids.
func (s *catalogService) uniqueIDLocked() string {
	for {
		id := s.newID()
		taken := false
		for _, p := range s.products {
			if p.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

// persistLocked writes the full catalog. A failed write is logged and the
// in-memory catalog is kept.
func (s *catalogService) persistLocked(ctx context.Context) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.productRepo.Save(writeCtx, s.products); err != nil {
		logger.Error("Failed to persist product catalog", err, map[string]interface{}{
			"count": len(s.products),
		})
		return err
	}
	return nil
}

func (s *catalogService) copyLocked() []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func validateDraft(draft model.ProductDraft) (model.Product, *ValidationError) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return model.Product{}, newValidationError("name", "product name is required")
	}

	priceText := strings.TrimSpace(draft.Price)
	if priceText == "" {
		return model.Product{}, newValidationError("price", "price is required")
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.Product{}, newValidationError("price", "price must be a number")
	}
	if price < 0 {
		return model.Product{}, newValidationError("price", "price must not be negative")
	}

	category := model.ProductCategory(strings.ToLower(strings.TrimSpace(draft.Category)))
	if category == "" {
		category = model.CategoryVegetables
	}
	if !category.IsValid() {
		return model.Product{}, newValidationError("category", "unknown category "+string(category))
	}

	image := strings.TrimSpace(draft.Image)
	if image == "" {
		image = category.DefaultImage()
	}

	return model.Product{
		Name:     name,
		Price:    price,
		Image:    image,
		Category: category,
	}, nil
}

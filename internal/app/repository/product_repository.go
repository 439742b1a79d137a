package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

type ProductRepository interface {
	// Load returns the stored catalog. The error wraps storage.ErrNotFound
	// when no catalog was ever saved.
	Load(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, products []model.Product) error
}

type productRepository struct {
	store storage.Store
}

func NewProductRepository(store storage.Store) ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Load(ctx context.Context) ([]model.Product, error) {
	logger.Debug("Loading product catalog from store", map[string]interface{}{
		"key": storage.KeyProducts,
	})

	data, err := r.store.Get(ctx, storage.KeyProducts)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: storage.KeyProducts, Err: err}
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &PersistenceError{
			Op:  "load",
			Key: storage.KeyProducts,
			Err: fmt.Errorf("failed to decode catalog snapshot: %w", err),
		}
	}

	logger.Debug("Product catalog loaded from store", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) Save(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return &PersistenceError{Op: "save", Key: storage.KeyProducts, Err: err}
	}

	if err := r.store.Put(ctx, storage.KeyProducts, data); err != nil {
		return &PersistenceError{Op: "save", Key: storage.KeyProducts, Err: err}
	}

	logger.Debug("Product catalog saved to store", map[string]interface{}{
		"count": len(products),
		"bytes": len(data),
	})
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

type CartRepository interface {
	// Load returns the stored cart lines. The error wraps storage.ErrNotFound
	// when no cart was ever saved.
	Load(ctx context.Context) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
}

type cartRepository struct {
	store storage.Store
}

func NewCartRepository(store storage.Store) CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Load(ctx context.Context) (*model.Cart, error) {
	logger.Debug("Loading cart from store", map[string]interface{}{
		"key": storage.KeyCartItems,
	})

	data, err := r.store.Get(ctx, storage.KeyCartItems)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: storage.KeyCartItems, Err: err}
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, &PersistenceError{
			Op:  "load",
			Key: storage.KeyCartItems,
			Err: fmt.Errorf("failed to decode cart snapshot: %w", err),
		}
	}

	logger.Debug("Cart loaded from store", map[string]interface{}{
		"lines": cart.Len(),
	})
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return &PersistenceError{Op: "save", Key: storage.KeyCartItems, Err: err}
	}

	if err := r.store.Put(ctx, storage.KeyCartItems, data); err != nil {
		return &PersistenceError{Op: "save", Key: storage.KeyCartItems, Err: err}
	}

	logger.Debug("Cart saved to store", map[string]interface{}{
		"lines": cart.Len(),
		"bytes": len(data),
	})
	return nil
}

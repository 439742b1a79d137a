package service

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/pkg/cartmirror"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

// CartResult is the outcome of a cart mutation. Cart and Summary always
// describe the in-memory state; PersistErr reports a failed durable write,
// which is never rolled back.
type CartResult struct {
	Cart       *model.Cart
	Summary    model.CartSummary
	Changed    bool
	PersistErr error
}

type CartService interface {
	// Load reads the stored cart; a missing or unreadable snapshot yields an empty cart.
	Load(ctx context.Context) *model.Cart
	Cart() *model.Cart
	Summary() model.CartSummary
	QuantityOf(productID string) int
	AddItem(ctx context.Context, product model.Product) CartResult
	AddByID(ctx context.Context, productID string) (CartResult, error)
	ChangeQuantity(ctx context.Context, productID string, delta int) CartResult
	RemoveItem(ctx context.Context, productID string) CartResult
	Clear(ctx context.Context) CartResult
	MirrorNow()
}

// Aggregate derives item count and total from a line sequence
func Aggregate(lines []model.CartLine) model.CartSummary {
	return model.Aggregate(lines)
}

type cartService struct {
	cartRepo     repository.CartRepository
	catalog      CatalogService
	mirror       cartmirror.Publisher
	writeTimeout time.Duration

	mu   sync.Mutex
	cart *model.Cart
}

func NewCartService(
	cartRepo repository.CartRepository,
	catalog CatalogService,
	mirror cartmirror.Publisher,
	writeTimeout time.Duration,
) CartService {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	if mirror == nil {
		mirror = cartmirror.NopPublisher{}
	}
	return &cartService{
		cartRepo:     cartRepo,
		catalog:      catalog,
		mirror:       mirror,
		writeTimeout: writeTimeout,
		cart:         &model.Cart{},
	}
}

func (s *cartService) Load(ctx context.Context) *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartRepo.Load(ctx)
	switch {
	case err == nil:
		s.cart = cart
		logger.Info("Cart loaded", map[string]interface{}{
			"lines":      cart.Len(),
			"item_count": cart.Summary().ItemCount,
		})
	case repository.IsNotFound(err):
		s.cart = &model.Cart{}
		logger.Info("No stored cart, starting empty")
	default:
		s.cart = &model.Cart{}
		logger.Error("Failed to load cart, starting empty", err)
	}

	return s.cart.Clone()
}

func (s *cartService) Cart() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *cartService) Summary() model.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

func (s *cartService) QuantityOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityOf(productID)
}

func (s *cartService) AddItem(ctx context.Context, product model.Product) CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		logger.Warn("Ignoring add to cart for product without id", map[string]interface{}{
			"name": product.Name,
		})
		return s.unchangedLocked()
	}

	line := s.cart.Add(product)
	logger.Info("Item added to cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   line.Quantity,
	})
	return s.commitLocked(ctx)
}

func (s *cartService) AddByID(ctx context.Context, productID string) (CartResult, error) {
	product, err := s.catalog.FindByID(productID)
	if err != nil {
		logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
			"product_id": productID,
		})
		return CartResult{}, err
	}
	return s.AddItem(ctx, product), nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, productID string, delta int) CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.cart.AdjustQuantity(productID, delta)
	if !ok {
		logger.Debug("Quantity change for item not in cart ignored", map[string]interface{}{
			"product_id": productID,
			"delta":      delta,
		})
		return s.unchangedLocked()
	}

	logger.Info("Cart item quantity changed", map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
		"quantity":   line.Quantity,
	})
	return s.commitLocked(ctx)
}

func (s *cartService) RemoveItem(ctx context.Context, productID string) CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(productID) {
		logger.Debug("Removal of item not in cart ignored", map[string]interface{}{
			"product_id": productID,
		})
		return s.unchangedLocked()
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"product_id": productID,
	})
	return s.commitLocked(ctx)
}

func (s *cartService) Clear(ctx context.Context) CartResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Clear() {
		return s.unchangedLocked()
	}

	logger.Info("Cart cleared")
	return s.commitLocked(ctx)
}

func (s *cartService) MirrorNow() {
	s.mu.Lock()
	lines := s.cart.Lines()
	s.mu.Unlock()

	s.mirror.Publish(lines)
}

func (s *cartService) unchangedLocked() CartResult {
	return CartResult{
		Cart:    s.cart.Clone(),
		Summary: s.cart.Summary(),
	}
}

// commitLocked writes the full cart through the store and hands a copy to
// the mirror. Neither outcome affects the in-memory cart.
func (s *cartService) commitLocked(ctx context.Context) CartResult {
	result := CartResult{
		Cart:    s.cart.Clone(),
		Summary: s.cart.Summary(),
		Changed: true,
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.cartRepo.Save(writeCtx, s.cart); err != nil {
		result.PersistErr = err
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"lines":      s.cart.Len(),
			"item_count": result.Summary.ItemCount,
		})
	}

	s.mirror.Publish(s.cart.Lines())
	return result
}

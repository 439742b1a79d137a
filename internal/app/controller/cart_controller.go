package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	apperrors "github.com/ikkim/freshcart-backend/internal/errors"
	"github.com/ikkim/freshcart-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// CartView is the response body of every cart endpoint
type CartView struct {
	CartItems    *model.Cart `json:"cart_items"`
	ItemCount    int         `json:"item_count"`
	LineCount    int         `json:"line_count"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"total_display"`
	Persisted    bool        `json:"persisted"`
}

func newCartView(cart *model.Cart, summary model.CartSummary, persisted bool) CartView {
	return CartView{
		CartItems:    cart,
		ItemCount:    summary.ItemCount,
		LineCount:    summary.LineCount,
		Total:        summary.Total,
		TotalDisplay: model.FormatAmount(summary.Total),
		Persisted:    persisted,
	}
}

func resultView(result service.CartResult) CartView {
	return newCartView(result.Cart, result.Summary, result.PersistErr == nil)
}

// GetCart returns the cart with its aggregates
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart := ctrl.cartService.Cart()
	c.JSON(http.StatusOK, newCartView(cart, cart.Summary(), true))
}

// AddToCart adds one unit of a catalog product
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{
			"product_id": "product_id is required",
		})
		return
	}

	result, err := ctrl.cartService.AddByID(c.Request.Context(), req.ProductID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Item added to cart successfully", map[string]interface{}{
		"product_id": req.ProductID,
		"item_count": result.Summary.ItemCount,
	})

	c.JSON(http.StatusCreated, resultView(result))
}

// ChangeQuantity adjusts the quantity of a line by delta, never below one
// PATCH /api/v1/cart/:id
func (ctrl *CartController) ChangeQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid quantity change request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{
			"delta": "delta must be an integer",
		})
		return
	}

	result := ctrl.cartService.ChangeQuantity(c.Request.Context(), id, *req.Delta)
	c.JSON(http.StatusOK, resultView(result))
}

// RemoveFromCart deletes a line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	result := ctrl.cartService.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, resultView(result))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result := ctrl.cartService.Clear(c.Request.Context())
	if result.Changed {
		log.Info("Cart cleared successfully")
	}
	c.JSON(http.StatusOK, resultView(result))
}

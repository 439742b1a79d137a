package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	apperrors "github.com/ikkim/freshcart-backend/internal/errors"
	"github.com/ikkim/freshcart-backend/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
	cartService    service.CartService
}

func NewProductController(catalogService service.CatalogService, cartService service.CartService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		cartService:    cartService,
	}
}

// PriceInput accepts the price as a JSON number or a JSON string
type PriceInput string

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	*p = PriceInput(data)
	return nil
}

type CreateProductRequest struct {
	Name     string     `json:"name"`
	Price    PriceInput `json:"price"`
	Category string     `json:"category"`
	Image    string     `json:"image"`
}

// ProductView is a catalog entry with the quantity currently in the cart
type ProductView struct {
	model.Product
	InCart int `json:"in_cart"`
}

func (ctrl *ProductController) withCartQuantity(products []model.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product: p,
			InCart:  ctrl.cartService.QuantityOf(p.ID),
		})
	}
	return views
}

// ListProducts returns the catalog filtered by category
// GET /api/v1/products?category=fruits
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := strings.TrimSpace(c.DefaultQuery("category", string(model.CategoryAll)))
	if category == "" {
		category = string(model.CategoryAll)
	}

	products := ctrl.catalogService.ListByCategory(category)

	log.Info("Products fetched successfully", map[string]interface{}{
		"category": category,
		"count":    len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": ctrl.withCartQuantity(products),
		"count":    len(products),
	})
}

// ListCategories returns the fixed category set
// GET /api/v1/products/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": ctrl.catalogService.Categories(),
	})
}

// GetProduct returns a product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	product, err := ctrl.catalogService.FindByID(id)
	if err != nil {
		log.Warn("Product not found", map[string]interface{}{
			"product_id": id,
		})
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": ProductView{
			Product: product,
			InCart:  ctrl.cartService.QuantityOf(product.ID),
		},
	})
}

// CreateProduct appends a product to the catalog
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request body must be a JSON object")
		return
	}

	product, err := ctrl.catalogService.Add(c.Request.Context(), model.ProductDraft{
		Name:     req.Name,
		Price:    string(req.Price),
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": ProductView{Product: product},
	})
}

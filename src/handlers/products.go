package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	products *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// HandleList handles GET /api/products
func (h *ProductHandler) HandleList(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, "products", err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// HandleCreate handles POST /api/products
func (h *ProductHandler) HandleCreate(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c)
		return
	}

	id, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "products", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product was created!", "id": id})
}

// HandleShow handles GET /api/products/:id after middleware.LoadProduct
func (h *ProductHandler) HandleShow(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.LoadedProduct(c))
}

// HandleUpdate handles PATCH /api/products/:id after middleware.LoadProduct
func (h *ProductHandler) HandleUpdate(c *gin.Context) {
	product := middleware.LoadedProduct(c)

	var in services.ProductUpdate
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c)
		return
	}

	rows, err := h.products.Update(c.Request.Context(), product.ID, in)
	if err != nil {
		respondError(c, "products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product was updated!", "rows": rows})
}

// HandleDelete handles DELETE /api/products/:id after middleware.LoadProduct
func (h *ProductHandler) HandleDelete(c *gin.Context) {
	product := middleware.LoadedProduct(c)

	rows, err := h.products.Delete(c.Request.Context(), product.ID)
	if err != nil {
		respondError(c, "products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product was deleted!", "rows": rows})
}

package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medingen/catalog_api/internal/repository"
	"github.com/medingen/catalog_api/internal/service"
	"github.com/medingen/catalog_api/internal/utils"
)

// ProductHandler handles catalog CRUD, search, and export HTTP endpoints.
type ProductHandler struct {
	catalogService *service.CatalogService
	exportService  *service.ExportService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService, exportService *service.ExportService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		exportService:  exportService,
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := &repository.ProductFilter{
		Search:           c.Query("search"),
		VisibilityStatus: c.Query("visibility"),
		Page:             1,
		Limit:            50,
	}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}
	if inStock := c.Query("inStock"); inStock != "" {
		v := inStock == "true"
		filter.InStock = &v
	}

	result, err := h.catalogService.ListProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved", result.Products,
		result.Page, result.Limit, result.TotalItems)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve product")
		return
	}

	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// UpdateProduct handles PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}

// SearchProducts handles GET /api/products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.catalogService.SearchProducts(c.Query("q"))
	if err != nil {
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.Error(c, 400, "INVALID_REQUEST", "Search term required")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to search products")
		return
	}

	utils.Success(c, 200, "Products retrieved", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ExportProducts handles GET /api/products/export
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	products, err := h.catalogService.ExportProducts()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to export products")
		return
	}

	f, err := h.exportService.BuildWorkbook(products)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to build export workbook")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("products_export_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if _, err := f.WriteTo(c.Writer); err != nil {
		// Headers are already out; nothing left to do but log the abort.
		c.Abort()
	}
}

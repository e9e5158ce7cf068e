package public

import (
	"errors"
	"strconv"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/catalog"
	handlershared "github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/handlers/shared"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/response"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts pages through the active product mirror.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid category id", err)
			return
		}
		categoryID = uint(parsed)
	}

	products, total, err := h.ProductRepo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
		Search:     c.Query("search"),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "could not fetch products", err)
		return
	}

	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, gin.H{"products": products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetProduct returns one active product together with its live
// availability.
func (h *Handler) GetProduct(c *gin.Context) {
	productNo := c.Param("productNo")

	product, err := h.CatalogLookup.Resolve(c.Request.Context(), productNo)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		respondError(c, response.CodeInternal, "could not fetch product", err)
		return
	}

	available, err := h.InventoryService.Availability(productNo)
	if err != nil {
		available = 0
	}

	response.Success(c, gin.H{
		"product":   product,
		"available": available,
	})
}

// InvalidateProductCache drops the cached mirror entry for a product.
// The upstream catalog sync calls this after pushing a change so the
// next read goes back to the database.
func (h *Handler) InvalidateProductCache(c *gin.Context) {
	productNo := c.Param("productNo")
	if err := h.CatalogLookup.Invalidate(c.Request.Context(), productNo); err != nil {
		respondError(c, response.CodeInternal, "could not invalidate product cache", err)
		return
	}
	response.Success(c, gin.H{"product_no": productNo})
}

// ListCategories returns every category.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "could not fetch categories", err)
		return
	}
	response.Success(c, categories)
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	productsvc "storefront/internal/service/product"
)

func (h *handlers) listProducts(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	size, err := queryInt(c, "pageSize")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.CatalogSvc.List(c.Request.Context(), productsvc.Filter{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       res.Products,
		"page":       res.Page,
		"totalPages": res.TotalPages,
		"total":      res.Total,
	})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.CatalogSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (h *handlers) relatedProducts(c *gin.Context) {
	list, err := h.CatalogSvc.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.CategorySvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// postProducts multiplexes review submission and order placement.
func (h *handlers) postProducts(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, errInvalidBody.Error())
		return
	}
	req, err := decodeProductsRequest(body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	switch r := req.(type) {
	case submitReviewRequest:
		h.submitReview(c, r)
	case placeOrderRequest:
		order, err := h.OrderSvc.Submit(c.Request.Context(), &r.CustomerData, &r.OrderData)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return n, nil
}

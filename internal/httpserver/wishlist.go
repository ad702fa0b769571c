package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	sessionsvc "storefront/internal/service/session"
	"storefront/internal/service/wishlist"
)

type wishlistItemRequest struct {
	ID          string          `json:"id" binding:"required"`
	ProductName string          `json:"productName" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Slug        string          `json:"slug"`
}

func (h *handlers) loadWishlist(c *gin.Context) *wishlist.Store {
	return wishlist.Load(c.Request.Context(), h.Slots, sessionsvc.WishlistKey(sessionToken(c)), h.logger)
}

func (h *handlers) getWishlist(c *gin.Context) {
	store := h.loadWishlist(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"items": store.Items()}})
}

// toggleWishlist adds the product if absent and removes it otherwise.
func (h *handlers) toggleWishlist(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid wishlist item: "+err.Error())
		return
	}
	store := h.loadWishlist(c)
	added, err := store.Toggle(c.Request.Context(), wishlist.Item{
		ProductID:   req.ID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Image:       req.Image,
		Slug:        req.Slug,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "added": added, "data": gin.H{"items": store.Items()}})
}

// removeWishlist drops one product when ?id is given and clears the list otherwise.
func (h *handlers) removeWishlist(c *gin.Context) {
	store := h.loadWishlist(c)
	var err error
	if id := c.Query("id"); id != "" {
		err = store.Remove(c.Request.Context(), id)
	} else {
		err = store.Clear(c.Request.Context())
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"items": store.Items()}})
}

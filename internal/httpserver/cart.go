package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"storefront/internal/service/cart"
	sessionsvc "storefront/internal/service/session"
)

type addCartItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

type setQuantityRequest struct {
	ID       string `json:"id" binding:"required"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type cartView struct {
	Items     []cart.Item     `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (h *handlers) loadCart(c *gin.Context) *cart.Store {
	return cart.Load(c.Request.Context(), h.Slots, sessionsvc.CartKey(sessionToken(c)), h.logger)
}

func (h *handlers) writeCart(c *gin.Context, store *cart.Store) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cartView{
		Items:     store.Items(),
		ItemCount: store.ItemCount(),
		Subtotal:  store.Subtotal(),
	}})
}

func (h *handlers) getCart(c *gin.Context) {
	h.writeCart(c, h.loadCart(c))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid cart item: "+err.Error())
		return
	}
	if req.Price.IsNegative() {
		badRequest(c, "Invalid cart item: price must not be negative")
		return
	}

	store := h.loadCart(c)
	err := store.Add(c.Request.Context(), cart.Item{
		ProductID: strings.TrimSpace(req.ID),
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCart(c, store)
}

func (h *handlers) setCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid quantity update: "+err.Error())
		return
	}
	store := h.loadCart(c)
	if err := store.SetQuantity(c.Request.Context(), req.ID, req.Size, req.Quantity); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCart(c, store)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "id is required")
		return
	}
	store := h.loadCart(c)
	if err := store.Remove(c.Request.Context(), id, c.Query("size")); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCart(c, store)
}

func (h *handlers) clearCart(c *gin.Context) {
	store := h.loadCart(c)
	if err := store.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCart(c, store)
}

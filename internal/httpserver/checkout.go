package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/checkout"
	ordersvc "storefront/internal/service/order"
)

// checkout validates the form, submits the session cart as an order and
// clears the cart only once the order is committed.
func (h *handlers) checkout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, errInvalidBody.Error())
		return
	}
	input, fieldErrs := checkout.Validate(form)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Please correct the highlighted fields", Errors: fieldErrs})
		return
	}

	store := h.loadCart(c)
	items := store.Items()
	if len(items) == 0 {
		badRequest(c, "Cart is empty")
		return
	}

	od := &ordersvc.OrderData{Items: make([]ordersvc.ItemInput, 0, len(items)), Total: store.Subtotal()}
	for _, it := range items {
		od.Items = append(od.Items, ordersvc.ItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Size:      it.Size,
			Color:     it.Color,
			Image:     it.Image,
		})
	}
	cd := &ordersvc.CustomerData{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		PAN:     input.TaxID,
		Address: input.Address,
	}

	order, err := h.OrderSvc.Submit(c.Request.Context(), cd, od)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := store.Clear(c.Request.Context()); err != nil {
		h.logger.Warn("checkout: clear cart after order failed", "order_id", order.OrderID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

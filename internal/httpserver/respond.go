package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type stockResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	ProductName    string `json:"productName"`
	AvailableStock int    `json:"availableStock"`
	Message        string `json:"message"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: msg})
}

// writeError maps domain errors onto status codes. Anything unrecognised is a
// 500 carrying the underlying message.
func (h *handlers) writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var se *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResponse{Message: ve.Message, Errors: ve.Fields})
	case errors.As(err, &se):
		name := se.ProductName
		if name == "" {
			name = se.ProductID
		}
		c.JSON(http.StatusConflict, stockResponse{
			Error:          "INSUFFICIENT_STOCK",
			ProductName:    name,
			AvailableStock: se.Available,
			Message:        fmt.Sprintf("Only %d of %s left in stock", se.Available, name),
		})
	case errors.Is(err, domain.ErrNotPurchased):
		c.JSON(http.StatusForbidden, errorResponse{Message: "You must purchase the product before reviewing"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "Product not found"})
	default:
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
}

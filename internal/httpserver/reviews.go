package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) postReviews(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, errInvalidBody.Error())
		return
	}
	req, err := decodeReviewsRequest(body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	switch r := req.(type) {
	case submitReviewRequest:
		h.submitReview(c, r)
	case checkPurchaseRequest:
		ok, err := h.ReviewSvc.CheckPurchase(c.Request.Context(), r.ProductName, r.Email)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "hasPurchased": ok})
	}
}

func (h *handlers) submitReview(c *gin.Context, r submitReviewRequest) {
	rv, err := h.ReviewSvc.Submit(c.Request.Context(), r.SubmitInput)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviewId": rv.ID})
}

func (h *handlers) listReviews(c *gin.Context) {
	list, err := h.ReviewSvc.List(c.Request.Context(), c.Query("productName"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"

	ordersvc "storefront/internal/service/order"
	reviewsvc "storefront/internal/service/review"
)

const (
	actionSubmitReview  = "submit-review"
	actionCheckPurchase = "check-purchase"
)

var (
	errInvalidAction = errors.New("Invalid action")
	errInvalidBody   = errors.New("Invalid request body")
)

// productsRequest is the body of POST /api/products: either a review
// submission or an order placement.
type productsRequest interface{ isProductsRequest() }

// reviewsRequest is the body of POST /api/reviews.
type reviewsRequest interface{ isReviewsRequest() }

type submitReviewRequest struct {
	reviewsvc.SubmitInput
}

type placeOrderRequest struct {
	CustomerData ordersvc.CustomerData
	OrderData    ordersvc.OrderData
}

type checkPurchaseRequest struct {
	ProductName string `json:"productName"`
	Email       string `json:"email"`
}

func (submitReviewRequest) isProductsRequest() {}
func (placeOrderRequest) isProductsRequest()   {}
func (submitReviewRequest) isReviewsRequest()  {}
func (checkPurchaseRequest) isReviewsRequest() {}

type envelope struct {
	Action       string          `json:"action"`
	CustomerData json.RawMessage `json:"customerData"`
	OrderData    json.RawMessage `json:"orderData"`
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, errInvalidBody
	}
	return env, nil
}

// decodeProductsRequest picks the variant from the body. A known action wins;
// without an action both customerData and orderData must be present.
func decodeProductsRequest(body []byte) (productsRequest, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	switch {
	case env.Action == actionSubmitReview:
		var req submitReviewRequest
		if err := json.Unmarshal(body, &req.SubmitInput); err != nil {
			return nil, errInvalidBody
		}
		return req, nil
	case env.Action == "" && present(env.CustomerData) && present(env.OrderData):
		var req placeOrderRequest
		if err := json.Unmarshal(env.CustomerData, &req.CustomerData); err != nil {
			return nil, errInvalidBody
		}
		if err := json.Unmarshal(env.OrderData, &req.OrderData); err != nil {
			return nil, errInvalidBody
		}
		return req, nil
	default:
		return nil, errInvalidAction
	}
}

func decodeReviewsRequest(body []byte) (reviewsRequest, error) {
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	switch env.Action {
	case actionSubmitReview:
		var req submitReviewRequest
		if err := json.Unmarshal(body, &req.SubmitInput); err != nil {
			return nil, errInvalidBody
		}
		return req, nil
	case actionCheckPurchase:
		var req checkPurchaseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, errInvalidBody
		}
		return req, nil
	default:
		return nil, errInvalidAction
	}
}

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreateAndFetch(t *testing.T) {
	api := newTestAPI(t)
	sellerTok := api.register(t, "ravi@campus.test", "NBH", "204")
	buyerTok := api.register(t, "asha@campus.test", "OBH", "12")
	p1 := api.createProduct(t, sellerTok, "Casio FX-991", 850)

	resp, body := api.do(t, http.MethodGet, "/api/v1/auth/me", sellerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sellerID := body["user"].(map[string]any)["id"].(string)

	resp, body = api.do(t, http.MethodPost, "/api/v1/reviews", buyerTok, map[string]any{
		"sellerId": sellerID, "productId": p1, "rating": 5, "comment": "great condition",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 5.0, body["review"].(map[string]any)["rating"])

	resp, body = api.do(t, http.MethodGet, "/api/v1/reviews/product/"+p1, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["reviews"], 1)

	resp, body = api.do(t, http.MethodGet, "/api/v1/reviews/seller/"+sellerID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["reviews"], 1)

	// The seller's public profile now carries the aggregate.
	resp, body = api.do(t, http.MethodGet, "/api/v1/products/"+p1, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	product := body["product"].(map[string]any)
	assert.Equal(t, 5.0, product["ratingAvg"])
	assert.Equal(t, 1.0, product["ratingCount"])
}

func TestReviewCreate_DuplicateIs409(t *testing.T) {
	api := newTestAPI(t)
	sellerTok := api.register(t, "ravi@campus.test", "NBH", "204")
	buyerTok := api.register(t, "asha@campus.test", "OBH", "12")
	p1 := api.createProduct(t, sellerTok, "Casio FX-991", 850)

	resp, body := api.do(t, http.MethodGet, "/api/v1/auth/me", sellerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sellerID := body["user"].(map[string]any)["id"].(string)

	payload := map[string]any{"sellerId": sellerID, "productId": p1, "rating": 4}
	resp, _ = api.do(t, http.MethodPost, "/api/v1/reviews", buyerTok, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/v1/reviews", buyerTok, payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReviewCreate_BadRating(t *testing.T) {
	api := newTestAPI(t)
	buyerTok := api.register(t, "asha@campus.test", "OBH", "12")

	resp, body := api.do(t, http.MethodPost, "/api/v1/reviews", buyerTok, map[string]any{
		"sellerId": "someone", "productId": "something", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "rating must be between 1 and 5", body["message"])
}

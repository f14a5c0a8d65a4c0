package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateAndList(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "ravi@campus.test", "NBH", "204")

	id := api.createProduct(t, token, "Casio FX-991", 850)

	resp, body := api.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].(map[string]any)["id"])
	assert.Equal(t, 1.0, body["count"])

	resp, body = api.do(t, http.MethodGet, "/api/v1/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Casio FX-991", body["product"].(map[string]any)["name"])
}

func TestProductCreate_Validation(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "ravi@campus.test", "NBH", "204")

	resp, body := api.do(t, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name": "Thing", "category": "spaceships", "condition": "good", "price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid category", body["message"])

	resp, body = api.do(t, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name": "Thing", "category": "books", "condition": "good", "price": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price must be positive", body["message"])
}

func TestProductUpdate_UnknownStatusIs400(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "ravi@campus.test", "NBH", "204")
	id := api.createProduct(t, token, "Casio FX-991", 850)

	resp, body := api.do(t, http.MethodPut, "/api/v1/products/"+id, token, map[string]any{
		"name": "Casio FX-991", "category": "electronics", "condition": "good",
		"price": 850, "status": "sold",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "status")

	resp, body = api.do(t, http.MethodPut, "/api/v1/products/"+id, token, map[string]any{
		"name": "Casio FX-991", "category": "electronics", "condition": "good",
		"price": 850, "status": "Reserved",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reserved", body["product"].(map[string]any)["status"])
}

func TestProductUpdate_NonOwnerForbidden(t *testing.T) {
	api := newTestAPI(t)
	ownerTok := api.register(t, "ravi@campus.test", "NBH", "204")
	otherTok := api.register(t, "meera@campus.test", "GH-2", "57")
	id := api.createProduct(t, ownerTok, "Casio FX-991", 850)

	payload := map[string]any{
		"name": "Hijacked", "category": "electronics", "condition": "good", "price": 1,
	}
	resp, body := api.do(t, http.MethodPut, "/api/v1/products/"+id, otherTok, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["message"])

	resp, _ = api.do(t, http.MethodDelete, "/api/v1/products/"+id, otherTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProductGet_UnknownIs404(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/api/v1/products/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body["message"])
}

func TestProductSearch_QueryFilters(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "ravi@campus.test", "NBH", "204")
	api.createProduct(t, token, "Casio Calculator", 850)
	api.createProduct(t, token, "Desk Lamp", 300)

	resp, body := api.do(t, http.MethodGet, "/api/v1/products?q=casio", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])

	resp, body = api.do(t, http.MethodGet, "/api/v1/products?minPrice=500", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])

	resp, _ = api.do(t, http.MethodGet, "/api/v1/products?q=%3Cscript%3E", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductMeta(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/api/v1/products/meta", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["categories"], "cycle")
	assert.Contains(t, body["conditions"], "like_new")
}

func TestProductMine(t *testing.T) {
	api := newTestAPI(t)
	raviTok := api.register(t, "ravi@campus.test", "NBH", "204")
	meeraTok := api.register(t, "meera@campus.test", "GH-2", "57")
	api.createProduct(t, raviTok, "Casio FX-991", 850)

	resp, body := api.do(t, http.MethodGet, "/api/v1/products/mine", raviTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])

	resp, body = api.do(t, http.MethodGet, "/api/v1/products/mine", meeraTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["count"])
}

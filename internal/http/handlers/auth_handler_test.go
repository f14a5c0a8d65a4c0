package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRegisterLoginMe(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "asha@campus.test", "password": "Passw0rd!", "name": "Asha",
		"hostel": "OBH", "roomNumber": "12", "phone": "9876543210",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "asha@campus.test", user["email"])
	assert.NotContains(t, body["_raw"], "password_hash")

	resp, body = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "asha@campus.test", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "asha@campus.test", body["user"].(map[string]any)["email"])
}

func TestAuthRegister_WeakPassword(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "asha@campus.test", "password": "short", "name": "Asha",
		"hostel": "OBH", "roomNumber": "12",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "password")
}

func TestAuthLogin_BadCreds(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "asha@campus.test", "OBH", "12")

	resp, body := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "asha@campus.test", "password": "Wrong1pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestAuthLogin_LockoutMapsTo423(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "asha@campus.test", "OBH", "12")

	for i := 0; i < 5; i++ {
		resp, _ := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
			"email": "asha@campus.test", "password": "Wrong1pass",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "asha@campus.test", "password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	assert.Equal(t, "account temporarily locked", body["message"])
}

func TestAuthMe_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "authentication required", body["message"])

	resp, _ = api.do(t, http.MethodGet, "/api/v1/auth/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthLogout_RevokesToken(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "asha@campus.test", "OBH", "12")

	resp, _ := api.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthUpdateProfile(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "asha@campus.test", "OBH", "12")

	resp, body := api.do(t, http.MethodPut, "/api/v1/auth/me", token, map[string]any{
		"name": "Asha R", "hostel": "GH-2", "roomNumber": "57", "phone": "9876543210",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "GH-2", user["hostel"])
	assert.Equal(t, "57", user["roomNumber"])
}

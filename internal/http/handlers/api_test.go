package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"collegecart/internal/config"
	"collegecart/internal/http/handlers"
	"collegecart/internal/repos"
	"collegecart/internal/services"
)

// captureSink records delivery codes per order instead of sending them.
type captureSink struct {
	codes map[string]string
}

func (s *captureSink) Send(userID, orderID, code string) error {
	s.codes[orderID] = code
	return nil
}

type testAPI struct {
	app  *fiber.App
	sink *captureSink
}

// newTestAPI wires the handlers onto an in-memory database with the same
// route table and middleware order the server binary uses.
func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)

	cfg := config.Config{MediaDir: t.TempDir(), Env: "test"}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	sink := &captureSink{codes: map[string]string{}}
	deps := handlers.NewDeps(db, cfg, authSvc, sink)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(false)})
	app.Use(handlers.AttachUser(authSvc))
	requireUser := handlers.RequireUser(authSvc)

	api := app.Group("/api/v1")
	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", deps.AuthHandler.Login)
	auth.Post("/logout", requireUser, deps.AuthHandler.Logout)
	auth.Get("/me", requireUser, deps.AuthHandler.Me)
	auth.Put("/me", requireUser, deps.AuthHandler.UpdateProfile)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/meta", deps.ProductHandler.Meta)
	api.Get("/products/mine", requireUser, deps.ProductHandler.Mine)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Post("/products", requireUser, deps.ProductHandler.Create)
	api.Put("/products/:id", requireUser, deps.ProductHandler.Update)
	api.Delete("/products/:id", requireUser, deps.ProductHandler.Delete)

	api.Get("/cart", requireUser, deps.CartHandler.View)
	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Put("/cart/:productId", requireUser, deps.CartHandler.UpdateQty)
	api.Delete("/cart/:productId", requireUser, deps.CartHandler.Remove)
	api.Delete("/cart", requireUser, deps.CartHandler.Clear)

	api.Post("/orders", requireUser, deps.OrderHandler.Create)
	api.Post("/orders/verify", requireUser, deps.OrderHandler.Verify)
	api.Post("/orders/complete-delivery", requireUser, deps.OrderHandler.CompleteDelivery)
	api.Post("/orders/generate-otp", requireUser, deps.OrderHandler.RegenerateOTP)
	api.Get("/orders/buyer", requireUser, deps.OrderHandler.BuyerOrders)
	api.Get("/orders/seller", requireUser, deps.OrderHandler.SellerOrders)
	api.Get("/orders/pending-deliveries", requireUser, deps.OrderHandler.PendingDeliveries)
	api.Get("/orders/delivery-history", requireUser, deps.OrderHandler.DeliveryHistory)
	api.Get("/orders/stats", requireUser, deps.OrderHandler.Stats)

	api.Post("/reviews", requireUser, deps.ReviewHandler.Create)
	api.Get("/reviews/product/:id", deps.ReviewHandler.ForProduct)
	api.Get("/reviews/seller/:id", deps.ReviewHandler.ForSeller)

	return testAPI{app: app, sink: sink}
}

func (a testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	out["_raw"] = string(raw)
	return resp, out
}

// register creates a user through the API and returns a login token.
func (a testAPI) register(t *testing.T, email, hostel, room string) string {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": email, "password": "Passw0rd!", "name": "Test User",
		"hostel": hostel, "roomNumber": room,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": email, "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (a testAPI) createProduct(t *testing.T, token, name string, price float64) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name": name, "category": "electronics", "condition": "good", "price": price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := body["product"].(map[string]any)
	return product["id"].(string)
}

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"collegecart/internal/domain"
	applog "collegecart/internal/log"
	"collegecart/internal/repos"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

func parseProduct(c *fiber.Ctx) (services.ProductInput, string, error) {
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return services.ProductInput{}, "", fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return services.ProductInput{}, "", fiber.NewError(fiber.StatusBadRequest, "invalid name")
	}
	category, ok := validate.Category(req.Category)
	if !ok {
		return services.ProductInput{}, "", fiber.NewError(fiber.StatusBadRequest, "invalid category")
	}
	condition, ok := validate.Condition(req.Condition)
	if !ok {
		return services.ProductInput{}, "", fiber.NewError(fiber.StatusBadRequest, "invalid condition")
	}
	if req.Price <= 0 {
		return services.ProductInput{}, "", fiber.NewError(fiber.StatusBadRequest, "price must be positive")
	}
	in := services.ProductInput{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Condition:   condition,
		Price:       req.Price,
	}
	return in, strings.ToLower(strings.TrimSpace(req.Status)), nil
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, _, err := parseProduct(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.Create(currentUser(c).ID, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.SearchFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return fiber.NewError(fiber.StatusBadRequest, "invalid search query")
		}
		f.Q = strings.ToLower(q)
	}
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.Category(raw)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category")
		}
		f.Category = cat
	}
	if raw := c.Query("condition"); raw != "" {
		cond, ok := validate.Condition(raw)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid condition")
		}
		f.Condition = cond
	}
	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid minPrice")
		}
		f.MinPrice = v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid maxPrice")
		}
		f.MaxPrice = v
	}
	f.IncludeAll = c.Query("all") == "1"

	products, err := h.Catalog.Search(f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"product": p})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	in, status, err := parseProduct(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.Update(currentUser(c).ID, id, in, status)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"product": p})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	if err := h.Catalog.Delete(currentUser(c).ID, id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// Meta serves the closed listing enums so the frontend never hardcodes them.
func (h *ProductHandler) Meta(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": domain.Categories,
		"conditions": domain.Conditions,
	})
}

func (h *ProductHandler) Mine(c *fiber.Ctx) error {
	products, err := h.Catalog.Mine(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// Upload accepts one multipart image, stores it plus a thumbnail under
// the media dir and appends both paths to the listing.
func (h *ProductHandler) Upload(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing image file")
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable image file")
	}
	defer f.Close()

	paths, err := h.Catalog.AddImage(currentUser(c).ID, id, f)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.image.upload", map[string]any{"product_id": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": paths})
}

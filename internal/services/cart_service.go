package services

import (
	"github.com/shopspring/decimal"

	"collegecart/internal/repos"
	"collegecart/internal/validate"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts a product in the user's cart. Adding a product that is
// already there is rejected (ErrConflict), not merged.
func (s *CartService) Add(userID, productID string, qty int) error {
	qty = validate.Qty(qty)
	if _, err := s.Prods.Get(productID); err != nil {
		return err
	}
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.AddItem(cartID, productID, qty)
}

func (s *CartService) UpdateQty(userID, productID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.UpdateQty(cartID, productID, validate.Qty(qty))
}

func (s *CartService) Remove(userID, productID string) error {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(userID string) error {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

type CartView struct {
	Items []repos.CartLine `json:"items"`
	Total float64          `json:"total"`
}

// View returns the cart with lines priced at the current catalog price.
// Lines whose product has vanished are pruned at read time.
func (s *CartService) View(userID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return CartView{Items: lines, Total: total.InexactFloat64()}, nil
}

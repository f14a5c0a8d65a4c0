package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"collegecart/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart item joined with its product for display and checkout.
type CartLine struct {
	ProductID string  `db:"product_id" json:"product"`
	Name      string  `db:"name" json:"name"`
	SellerID  string  `db:"seller_id" json:"seller"`
	Price     float64 `db:"price" json:"price"`
	Status    string  `db:"status" json:"status"`
	Qty       int     `db:"qty" json:"quantity"`
	AddedAt   string  `db:"added_at" json:"addedAt"`
}

// EnsureCart creates the user's cart lazily. One cart per user; the cart
// id doubles as the user id.
func (r *CartRepo) EnsureCart(userID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id=?`, userID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,?)`,
		userID, userID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return userID, nil
}

// AddItem inserts a new line. A duplicate product is rejected, not merged.
func (r *CartRepo) AddItem(cartID, productID string, qty int) error {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM cart_items WHERE cart_id=? AND product_id=?`,
		cartID, productID); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,qty,added_at)
	  VALUES(?,?,?,CURRENT_TIMESTAMP)`, cartID, productID, qty)
	return err
}

func (r *CartRepo) UpdateQty(cartID, productID string, qty int) error {
	res, err := r.db.Exec(`UPDATE cart_items SET qty=? WHERE cart_id=? AND product_id=?`,
		qty, cartID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`,
		cartID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Lines returns the cart joined with product data. Lines whose product
// no longer exists are pruned first.
func (r *CartRepo) Lines(cartID string) ([]CartLine, error) {
	if _, err := r.db.Exec(`
	  DELETE FROM cart_items
	  WHERE cart_id=? AND product_id NOT IN (SELECT id FROM products)`, cartID); err != nil {
		return nil, err
	}
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.product_id, p.name, p.seller_id, p.price, p.status, ci.qty, ci.added_at
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id=?
	  ORDER BY ci.added_at`, cartID)
	return lines, err
}

// Clear empties the cart; the cart row itself stays.
func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=?`, cartID)
	return err
}

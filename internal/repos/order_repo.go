package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collegecart/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, buyer_id, total, status, hostel, room_number,
  otp_hash, otp_expires_at, transaction_id, version, created_at`

// Create persists the order header, its line items, and empties the
// buyer's cart in one transaction, so a crash cannot leave a stale cart
// behind a placed order.
func (r *OrderRepo) Create(o *domain.Order, cartID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id,buyer_id,total,status,hostel,room_number,otp_hash,otp_expires_at,transaction_id,version)
	  VALUES(?,?,?,?,?,?,?,?,?,1)`,
		o.ID, o.BuyerID, o.Total, o.Status, o.Hostel, o.RoomNumber,
		o.OTPHash, o.OTPExpiresAt, o.TransactionID); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,seller_id,qty,unit_price,delivered,status)
		  VALUES(?,?,?,?,?,0,'pending')`,
			o.ID, it.ProductID, it.SellerID, it.Qty, it.UnitPrice); err != nil {
			return err
		}
	}
	if cartID != "" {
		if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id=?`, cartID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.Items, err = r.items(id); err != nil {
		return domain.Order{}, err
	}
	o.HydrateAddress()
	return o, nil
}

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := r.db.Select(&items, `
	  SELECT order_id, product_id, seller_id, qty, unit_price, delivered, status
	  FROM order_items WHERE order_id=?`, orderID)
	return items, err
}

func (r *OrderRepo) fill(orders []domain.Order) ([]domain.Order, error) {
	for i := range orders {
		items, err := r.items(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
		orders[i].HydrateAddress()
	}
	return orders, nil
}

func (r *OrderRepo) ListByBuyer(buyerID string) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := r.db.Select(&orders, `
	  SELECT `+orderCols+` FROM orders
	  WHERE buyer_id=?
	  ORDER BY datetime(created_at) DESC`, buyerID); err != nil {
		return nil, err
	}
	return r.fill(orders)
}

// SellerFilter narrows seller-facing order listings.
type SellerFilter struct {
	Status    string
	StartDate string // inclusive, YYYY-MM-DD or RFC3339
	EndDate   string
}

// ListBySeller returns orders containing at least one of the seller's
// line items, newest first.
func (r *OrderRepo) ListBySeller(sellerID string, f SellerFilter) ([]domain.Order, error) {
	where := `EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id=o.id AND oi.seller_id=?)`
	args := []any{sellerID}
	if f.Status != "" {
		where += ` AND o.status=?`
		args = append(args, f.Status)
	}
	if f.StartDate != "" {
		where += ` AND datetime(o.created_at) >= datetime(?)`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		end := f.EndDate
		// A date-only bound is inclusive of that whole day.
		if len(end) == len("2006-01-02") {
			end += " 23:59:59"
		}
		where += ` AND datetime(o.created_at) <= datetime(?)`
		args = append(args, end)
	}
	orders := []domain.Order{}
	if err := r.db.Select(&orders, `
	  SELECT `+orderCols+` FROM orders o
	  WHERE `+where+`
	  ORDER BY datetime(o.created_at) DESC`, args...); err != nil {
		return nil, err
	}
	return r.fill(orders)
}

// SetOTP replaces the stored hash and expiry and bumps the version so a
// concurrent completion against the old code loses.
func (r *OrderRepo) SetOTP(orderID, hash, expiresAt string, version int) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET otp_hash=?, otp_expires_at=?, version=version+1
	  WHERE id=? AND version=?`, hash, expiresAt, orderID, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// CompleteSeller marks the seller's line items sold, flips their products
// to delivered, and promotes the order when no undelivered items remain.
// The whole mutation is one transaction guarded by a version compare-and-swap;
// a lost race returns ErrConflict and the caller may retry against fresh state.
func (r *OrderRepo) CompleteSeller(orderID, sellerID string, version int) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE orders SET version=version+1
	  WHERE id=? AND version=? AND status='pending'`, orderID, version)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, domain.ErrConflict
	}

	if _, err := tx.Exec(`
	  UPDATE order_items SET delivered=1, status='sold'
	  WHERE order_id=? AND seller_id=?`, orderID, sellerID); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`
	  UPDATE products SET status='delivered', updated_at=CURRENT_TIMESTAMP
	  WHERE id IN (SELECT product_id FROM order_items WHERE order_id=? AND seller_id=?)`,
		orderID, sellerID); err != nil {
		return false, err
	}

	var remaining int
	if err := tx.Get(&remaining, `
	  SELECT COUNT(*) FROM order_items WHERE order_id=? AND delivered=0`, orderID); err != nil {
		return false, err
	}
	done := remaining == 0
	if done {
		if _, err := tx.Exec(`UPDATE orders SET status='delivered' WHERE id=?`, orderID); err != nil {
			return false, err
		}
	}
	return done, tx.Commit()
}

// CompleteAll is the generic verification path: every item, every
// product, and the order itself flip to delivered atomically.
func (r *OrderRepo) CompleteAll(orderID string, version int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE orders SET version=version+1, status='delivered'
	  WHERE id=? AND version=?`, orderID, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	if _, err := tx.Exec(`
	  UPDATE order_items SET delivered=1, status='sold' WHERE order_id=?`, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  UPDATE products SET status='delivered', updated_at=CURRENT_TIMESTAMP
	  WHERE id IN (SELECT product_id FROM order_items WHERE order_id=?)`, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

// SellerStats aggregates a seller's dashboard numbers. Revenue sums only
// this seller's delivered line subtotals, not whole-order totals.
type SellerStats struct {
	TotalProducts int     `db:"total_products" json:"totalProducts"`
	TotalSales    int     `db:"total_sales" json:"totalSales"`
	TotalRevenue  float64 `db:"total_revenue" json:"totalRevenue"`
}

func (r *OrderRepo) StatsForSeller(sellerID string) (SellerStats, error) {
	var s SellerStats
	if err := r.db.Get(&s.TotalProducts,
		`SELECT COUNT(*) FROM products WHERE seller_id=?`, sellerID); err != nil {
		return s, err
	}
	err := r.db.Get(&s, `
	  SELECT COUNT(DISTINCT order_id) AS total_sales,
	         COALESCE(SUM(qty*unit_price),0) AS total_revenue,
	         ? AS total_products
	  FROM order_items
	  WHERE seller_id=? AND delivered=1`, s.TotalProducts, sellerID)
	return s, err
}

// ---------- Admin CLI ----------

type OrderSummary struct {
	ID        string  `db:"id"`
	BuyerID   string  `db:"buyer_id"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	CreatedAt string  `db:"created_at"`
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := r.db.Select(&out, `
	  SELECT id, buyer_id, total, status, created_at
	  FROM orders ORDER BY datetime(created_at) DESC LIMIT ?`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status=?, version=version+1 WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

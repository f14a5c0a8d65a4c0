package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"collegecart/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts the review and recomputes both the product's and the
// seller's aggregates in the same transaction. Aggregates are always the
// mean over all matching rows, never an incremental update.
func (r *ReviewRepo) Create(rv *domain.Review) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO reviews(id,user_id,seller_id,product_id,rating,comment)
	  VALUES(?,?,?,?,?,?)`,
		rv.ID, rv.UserID, rv.SellerID, rv.ProductID, rv.Rating, rv.Comment); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return domain.ErrConflict
		}
		return err
	}

	if _, err := tx.Exec(`
	  UPDATE products SET
	    rating_avg   = (SELECT COALESCE(AVG(rating),0) FROM reviews WHERE product_id=?),
	    rating_count = (SELECT COUNT(*) FROM reviews WHERE product_id=?)
	  WHERE id=?`, rv.ProductID, rv.ProductID, rv.ProductID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  UPDATE users SET
	    rating_avg   = (SELECT COALESCE(AVG(rating),0) FROM reviews WHERE seller_id=?),
	    rating_count = (SELECT COUNT(*) FROM reviews WHERE seller_id=?)
	  WHERE id=?`, rv.SellerID, rv.SellerID, rv.SellerID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ReviewRepo) ListByProduct(productID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT id,user_id,seller_id,product_id,rating,comment,created_at
	  FROM reviews WHERE product_id=? ORDER BY datetime(created_at) DESC`, productID)
	return out, err
}

func (r *ReviewRepo) ListBySeller(sellerID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT id,user_id,seller_id,product_id,rating,comment,created_at
	  FROM reviews WHERE seller_id=? ORDER BY datetime(created_at) DESC`, sellerID)
	return out, err
}

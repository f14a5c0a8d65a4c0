package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"collegecart/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, seller_id, name, description, category, condition, price,
  images_json, status, rating_avg, rating_count,
  created_at, COALESCE(updated_at,'') AS updated_at`

func hydrate(p *domain.Product) {
	p.Images = []string{}
	if p.ImagesJSON != "" {
		_ = json.Unmarshal([]byte(p.ImagesJSON), &p.Images)
	}
}

func (r *ProductRepo) Create(p *domain.Product) error {
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	_, err := r.db.Exec(`
	  INSERT INTO products(id,seller_id,name,description,category,condition,price,images_json,status)
	  VALUES(?,?,?,?,?,?,?,?,?)`,
		p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Condition, p.Price, p.ImagesJSON, p.Status)
	return err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	hydrate(&p)
	return p, nil
}

func (r *ProductRepo) Update(p *domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products SET name=?, description=?, category=?, condition=?, price=?,
	    status=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		p.Name, p.Description, p.Category, p.Condition, p.Price, p.Status, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) AppendImages(id string, paths []string) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	imgs := append(p.Images, paths...)
	b, err := json.Marshal(imgs)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE products SET images_json=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		string(b), id)
	return err
}

func (r *ProductRepo) ListBySeller(sellerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE seller_id=? ORDER BY created_at DESC`, sellerID)
	for i := range out {
		hydrate(&out[i])
	}
	return out, err
}

// SearchFilter narrows the public listing feed.
type SearchFilter struct {
	Q          string
	Category   string
	Condition  string
	MinPrice   float64
	MaxPrice   float64
	IncludeAll bool // include reserved/delivered listings
	Limit      int
	Offset     int
}

func (r *ProductRepo) Search(f SearchFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if !f.IncludeAll {
		where += ` AND status='available'`
	}
	if f.Q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		like := "%" + strings.ToLower(f.Q) + "%"
		args = append(args, like, like)
	}
	if f.Category != "" {
		where += ` AND category=?`
		args = append(args, f.Category)
	}
	if f.Condition != "" {
		where += ` AND condition=?`
		args = append(args, f.Condition)
	}
	if f.MinPrice > 0 {
		where += ` AND price>=?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where += ` AND price<=?`
		args = append(args, f.MaxPrice)
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	args = append(args, f.Limit, f.Offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	for i := range out {
		hydrate(&out[i])
	}
	return out, err
}

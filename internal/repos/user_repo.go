package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"collegecart/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,hostel,room_number,phone,
  login_attempts,COALESCE(locked_until,'') AS locked_until,
  rating_avg,rating_count,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,name,password_hash,hostel,room_number,phone)
	  VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Hostel, u.RoomNumber, u.Phone)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(id, name, hostel, room, phone string) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET name=?, hostel=?, room_number=?, phone=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`, name, hostel, room, phone, id)
	return err
}

// RecordFailure bumps the consecutive-failure counter; at the threshold
// the account is locked until the given time.
func (r *UserRepo) RecordFailure(id string, threshold int, lockUntil time.Time) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET
	    login_attempts = login_attempts + 1,
	    locked_until = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE locked_until END
	  WHERE id=?`, threshold, lockUntil.UTC().Format(time.RFC3339), id)
	return err
}

func (r *UserRepo) ResetFailures(id string) error {
	_, err := r.DB.Exec(`UPDATE users SET login_attempts=0, locked_until=NULL WHERE id=?`, id)
	return err
}

// ---------- Bearer sessions ----------

func (r *UserRepo) BindToken(token, userID string) error {
	_, err := r.DB.Exec(`
	  INSERT INTO sessions(token,user_id,last_seen) VALUES(?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(token) DO UPDATE SET user_id=excluded.user_id, last_seen=CURRENT_TIMESTAMP`,
		token, userID)
	return err
}

func (r *UserRepo) TokenUser(token string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.email,u.name,u.password_hash,u.hostel,u.room_number,u.phone,
	         u.login_attempts,COALESCE(u.locked_until,'') AS locked_until,
	         u.rating_avg,u.rating_count,u.created_at,COALESCE(u.updated_at,'') AS updated_at
	  FROM sessions s JOIN users u ON u.id=s.user_id
	  WHERE s.token=?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) RevokeToken(token string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE token=?`, token)
	return err
}

// DeleteCascade removes a user and their personal data; orders are kept
// for the counterparty's records (admin CLI only).
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE orders SET status='cancelled' WHERE buyer_id=? AND status='pending'`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}
	return tx.Commit()
}

package domain

type User struct {
	ID            string  `db:"id" json:"id"`
	Email         string  `db:"email" json:"email"`
	Name          string  `db:"name" json:"name"`
	Hash          string  `db:"password_hash" json:"-"`
	Hostel        string  `db:"hostel" json:"hostel"`
	RoomNumber    string  `db:"room_number" json:"roomNumber"`
	Phone         string  `db:"phone" json:"phone,omitempty"`
	LoginAttempts int     `db:"login_attempts" json:"-"`
	LockedUntil   string  `db:"locked_until" json:"-"`
	RatingAvg     float64 `db:"rating_avg" json:"ratingAvg"`
	RatingCount   int     `db:"rating_count" json:"ratingCount"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
	UpdatedAt     string  `db:"updated_at" json:"-"`
}

// Address is the delivery destination snapshotted onto an order at checkout.
// Later profile edits do not touch placed orders.
type Address struct {
	Hostel     string `json:"hostel"`
	RoomNumber string `json:"roomNumber"`
}

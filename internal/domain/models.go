package domain

// Closed enums for listings. Validation lives in internal/validate.
const (
	ProductAvailable = "available"
	ProductReserved  = "reserved"
	ProductDelivered = "delivered"
)

var Categories = []string{
	"electronics", "books", "clothing", "furniture",
	"sports", "stationery", "cycle", "other",
}

var Conditions = []string{"new", "like_new", "good", "fair"}

type Product struct {
	ID          string   `db:"id" json:"id"`
	SellerID    string   `db:"seller_id" json:"seller"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	Category    string   `db:"category" json:"category"`
	Condition   string   `db:"condition" json:"condition"`
	Price       float64  `db:"price" json:"price"`
	ImagesJSON  string   `db:"images_json" json:"-"`
	Images      []string `db:"-" json:"images"`
	Status      string   `db:"status" json:"status"`
	RatingAvg   float64  `db:"rating_avg" json:"ratingAvg"`
	RatingCount int      `db:"rating_count" json:"ratingCount"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
	UpdatedAt   string   `db:"updated_at" json:"-"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user"`
	SellerID  string `db:"seller_id" json:"seller"`
	ProductID string `db:"product_id" json:"product"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

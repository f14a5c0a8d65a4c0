package domain

// Order status lifecycle. The API only drives pending -> delivered;
// confirmed and cancelled are reachable through the admin CLI override.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Item status within an order.
const (
	ItemPending = "pending"
	ItemSold    = "sold"
)

type Order struct {
	ID            string  `db:"id" json:"id"`
	BuyerID       string  `db:"buyer_id" json:"buyer"`
	Total         float64 `db:"total" json:"totalAmount"`
	Status        string  `db:"status" json:"status"`
	Hostel        string  `db:"hostel" json:"-"`
	RoomNumber    string  `db:"room_number" json:"-"`
	OTPHash       string  `db:"otp_hash" json:"-"`
	OTPExpiresAt  string  `db:"otp_expires_at" json:"-"`
	TransactionID string  `db:"transaction_id" json:"transactionId"`
	Version       int     `db:"version" json:"-"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`

	Items   []OrderItem `db:"-" json:"items"`
	Address Address     `db:"-" json:"deliveryAddress"`
}

// HydrateAddress copies the column snapshot into the JSON-facing field.
func (o *Order) HydrateAddress() {
	o.Address = Address{Hostel: o.Hostel, RoomNumber: o.RoomNumber}
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"product"`
	SellerID  string  `db:"seller_id" json:"seller"`
	Qty       int     `db:"qty" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"price"`
	Delivered bool    `db:"delivered" json:"isDelivered"`
	Status    string  `db:"status" json:"status"`
}

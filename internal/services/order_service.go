package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collegecart/internal/domain"
	applog "collegecart/internal/log"
	"collegecart/internal/repos"
)

const otpTTL = 24 * time.Hour

type OrderService struct {
	Orders *repos.OrderRepo
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Users  *repos.UserRepo
	Notify NotificationSink
}

func NewOrderService(orders *repos.OrderRepo, carts *repos.CartRepo, prods *repos.ProductRepo,
	users *repos.UserRepo, sink NotificationSink) *OrderService {
	if sink == nil {
		sink = LogSink{}
	}
	return &OrderService{Orders: orders, Carts: carts, Prods: prods, Users: users, Notify: sink}
}

type LineInput struct {
	ProductID string `json:"product"`
	Qty       int    `json:"quantity"`
}

// Create validates and prices the requested lines, mints the delivery
// code, and persists the order while clearing the buyer's cart in one
// transaction. Pricing always uses the current catalog price; a client
// cannot supply its own. The code goes out through the notification
// sink, never through the return value.
func (s *OrderService) Create(buyerID string, lines []LineInput) (domain.Order, error) {
	buyer, err := s.Users.ByID(buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	if buyer.Hostel == "" || buyer.RoomNumber == "" {
		return domain.Order{}, domain.Invalid("deliveryAddress", "hostel and room number required in profile")
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.Invalid("items", "at least one item required")
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	byProduct := map[string]int{}
	for _, l := range lines {
		if l.ProductID == "" {
			return domain.Order{}, domain.Invalid("items.product", "required")
		}
		if l.Qty < 1 {
			return domain.Order{}, domain.Invalid("items.quantity", "must be at least 1")
		}
		// A repeated product merges into the earlier line; one order row
		// per product.
		if idx, ok := byProduct[l.ProductID]; ok {
			items[idx].Qty += l.Qty
			price := decimal.NewFromFloat(items[idx].UnitPrice)
			total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Qty))))
			continue
		}
		// Deliberately no availability gate: a listing already marked
		// delivered can still be ordered.
		p, err := s.Prods.Get(l.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		price := decimal.NewFromFloat(p.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Qty))))
		byProduct[l.ProductID] = len(items)
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			SellerID:  p.SellerID,
			Qty:       l.Qty,
			UnitPrice: p.Price,
			Status:    domain.ItemPending,
		})
	}

	code, err := mintOTP()
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		BuyerID:       buyerID,
		Total:         total.InexactFloat64(),
		Status:        domain.OrderPending,
		Hostel:        buyer.Hostel,
		RoomNumber:    buyer.RoomNumber,
		OTPHash:       hashOTP(code),
		OTPExpiresAt:  time.Now().Add(otpTTL).UTC().Format(time.RFC3339),
		TransactionID: uuid.NewString(),
		Items:         items,
	}

	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.Orders.Create(&order, cartID); err != nil {
		return domain.Order{}, err
	}
	if err := s.Notify.Send(buyerID, order.ID, code); err != nil {
		// The order stands; delivery of the code can be retried via
		// regeneration.
		applog.Error(nil, "notify.otp.fail", err, map[string]any{"order_id": order.ID})
	}
	return s.Orders.Get(order.ID)
}

// VerifyScope selects which of the two historical verification paths is
// requested: the generic whole-order redemption or the seller-scoped
// partial completion.
type VerifyScope struct {
	SellerScoped bool
	ActorID      string
}

// Verify redeems the delivery code. Generic scope requires the actor to
// be the buyer or a participating seller and flips the whole order.
// Seller scope requires a pending order with at least one line owned by
// the actor, completes only that seller's portion, and promotes the
// order once nothing undelivered remains.
func (s *OrderService) Verify(orderID, code string, scope VerifyScope) (domain.Order, error) {
	order, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if scope.SellerScoped {
		if order.Status != domain.OrderPending || !sellerParticipates(order, scope.ActorID) {
			return domain.Order{}, domain.ErrNotFound
		}
	} else {
		if scope.ActorID != order.BuyerID && !sellerParticipates(order, scope.ActorID) {
			return domain.Order{}, domain.ErrForbidden
		}
	}

	if expired(order.OTPExpiresAt) {
		return domain.Order{}, domain.ErrExpiredOTP
	}
	if !otpMatches(code, order.OTPHash) {
		return domain.Order{}, domain.ErrInvalidOTP
	}

	if scope.SellerScoped {
		if _, err := s.Orders.CompleteSeller(orderID, scope.ActorID, order.Version); err != nil {
			return domain.Order{}, err
		}
	} else {
		if err := s.Orders.CompleteAll(orderID, order.Version); err != nil {
			return domain.Order{}, err
		}
	}
	return s.Orders.Get(orderID)
}

// Regenerate mints a fresh code for the order's buyer, invalidating the
// previous one and resetting the expiry window.
func (s *OrderService) Regenerate(orderID, actorID string) (domain.Order, error) {
	order, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.BuyerID != actorID {
		return domain.Order{}, domain.ErrForbidden
	}
	code, err := mintOTP()
	if err != nil {
		return domain.Order{}, err
	}
	expiry := time.Now().Add(otpTTL).UTC().Format(time.RFC3339)
	if err := s.Orders.SetOTP(orderID, hashOTP(code), expiry, order.Version); err != nil {
		return domain.Order{}, err
	}
	if err := s.Notify.Send(actorID, orderID, code); err != nil {
		applog.Error(nil, "notify.otp.fail", err, map[string]any{"order_id": orderID})
	}
	return s.Orders.Get(orderID)
}

func (s *OrderService) BuyerOrders(buyerID string) ([]domain.Order, error) {
	return s.Orders.ListByBuyer(buyerID)
}

func (s *OrderService) SellerOrders(sellerID string) ([]domain.Order, error) {
	return s.Orders.ListBySeller(sellerID, repos.SellerFilter{})
}

func (s *OrderService) PendingDeliveries(sellerID string) ([]domain.Order, error) {
	return s.Orders.ListBySeller(sellerID, repos.SellerFilter{Status: domain.OrderPending})
}

func (s *OrderService) DeliveryHistory(sellerID string, f repos.SellerFilter) ([]domain.Order, error) {
	return s.Orders.ListBySeller(sellerID, f)
}

func (s *OrderService) Stats(sellerID string) (repos.SellerStats, error) {
	return s.Orders.StatsForSeller(sellerID)
}

func sellerParticipates(o domain.Order, sellerID string) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

func expired(expiresAt string) bool {
	t, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return false
	}
	return time.Now().After(t)
}

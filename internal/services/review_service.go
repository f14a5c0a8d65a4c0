package services

import (
	"github.com/google/uuid"

	"collegecart/internal/domain"
	"collegecart/internal/repos"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// Create records a review and recomputes the seller's and product's
// running averages. One review per (user, seller, product).
func (s *ReviewService) Create(userID, sellerID, productID string, rating int, comment string) (domain.Review, error) {
	if userID == sellerID {
		return domain.Review{}, domain.Invalid("seller", "cannot review yourself")
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Review{}, err
	}
	if p.SellerID != sellerID {
		return domain.Review{}, domain.Invalid("product", "product does not belong to this seller")
	}
	rv := domain.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		SellerID:  sellerID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.Reviews.Create(&rv); err != nil {
		return domain.Review{}, err
	}
	return rv, nil
}

func (s *ReviewService) ForProduct(productID string) ([]domain.Review, error) {
	return s.Reviews.ListByProduct(productID)
}

func (s *ReviewService) ForSeller(sellerID string) ([]domain.Review, error) {
	return s.Reviews.ListBySeller(sellerID)
}

package handlers

import (
	"github.com/jmoiron/sqlx"

	"collegecart/internal/config"
	"collegecart/internal/repos"
	"collegecart/internal/services"
)

type Deps struct {
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	ReviewHandler    *ReviewHandler
	AssistantHandler *AssistantHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, sink services.NotificationSink) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, cfg.MediaDir)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, prodRepo, userRepo, sink)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	assistantSvc := services.NewAssistantService(cfg.AssistantURL, cfg.AssistantKey, cfg.AssistantModel)

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: auth},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		ReviewHandler:    &ReviewHandler{Reviews: reviewSvc},
		AssistantHandler: &AssistantHandler{Assistant: assistantSvc},
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/payment/promos/controller"
	"taibah_backend/internals/middlewares"
)

// PromoPublicRoutes mounts the quote preview so the checkout page can price
// a code before login. Registered before the JWT-guarded groups.
func PromoPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPromoController(db)

	public.Post("/api/promo/quote", middlewares.QuoteRateLimiter(), ctrl.QuotePromo)
}

// PromoUserRoutes mounts the binding endpoints.
func PromoUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPromoController(db)

	user.Post("/promo/apply", ctrl.ApplyPromo)
	user.Post("/promo/remove", ctrl.RemovePromo)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/payment/payments/controller"
	"taibah_backend/internals/features/payment/payments/service"
	"taibah_backend/internals/middlewares"
)

// PaymentPublicRoutes mounts the gateway webhook. It must be registered
// before the JWT-guarded groups: the callback authenticates with an HMAC
// signature, not a bearer token.
func PaymentPublicRoutes(public fiber.Router, db *gorm.DB, svc *service.PaymentService, serverKey string) {
	ctrl := controller.NewPaymentController(db, svc, serverKey)

	public.Post("/api/payments/callback", ctrl.HandleCallback)
}

// PaymentUserRoutes mounts the authenticated checkout endpoints.
func PaymentUserRoutes(user fiber.Router, db *gorm.DB, svc *service.PaymentService, serverKey string) {
	ctrl := controller.NewPaymentController(db, svc, serverKey)

	user.Post("/payments/create", middlewares.CheckoutRateLimiter(), ctrl.CreatePayment)
	user.Get("/payments/my", ctrl.GetMyPayments)
	user.Get("/payments/bank-accounts", ctrl.GetBankAccounts)
}

// PaymentAdminRoutes mounts the reconciliation endpoints.
func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.PaymentService, serverKey string) {
	ctrl := controller.NewPaymentController(db, svc, serverKey)

	admin.Post("/payments/query", ctrl.QueryPayment)
	admin.Get("/payments", ctrl.GetAllPayments)
}

// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationRoutes "taibah_backend/internals/features/applications/routes"
	galleryRoutes "taibah_backend/internals/features/gallery/routes"
	paymentRoutes "taibah_backend/internals/features/payment/payments/routes"
	paymentService "taibah_backend/internals/features/payment/payments/service"
	promoRoutes "taibah_backend/internals/features/payment/promos/routes"
	userRoutes "taibah_backend/internals/features/users/routes"
	authMiddleware "taibah_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes mounts everything in three access levels. Order matters: the
// public endpoints live under /api too, so they are registered BEFORE the
// JWT guard is attached to the /api prefix.
func SetupRoutes(app *fiber.App, db *gorm.DB, paySvc *paymentService.PaymentService, serverKey string) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting PUBLIC routes...")
	paymentRoutes.PaymentPublicRoutes(app, db, paySvc, serverKey)
	promoRoutes.PromoPublicRoutes(app, db)
	galleryRoutes.GalleryPublicRoutes(app, db)

	// ===================== USER (/api) =====================
	log.Println("[INFO] Setting up USER group (/api)...")
	user := app.Group("/api", authMiddleware.AuthMiddleware())

	paymentRoutes.PaymentUserRoutes(user, db, paySvc, serverKey)
	promoRoutes.PromoUserRoutes(user, db)
	applicationRoutes.ApplicationRoutes(user, db)
	userRoutes.UserRoutes(user, db)

	// ===================== ADMIN =====================
	// Created after every user route so the AdminOnly guard only reaches
	// requests no user route already answered.
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api", authMiddleware.AdminOnly(db))

	paymentRoutes.PaymentAdminRoutes(admin, db, paySvc, serverKey)
	galleryRoutes.GalleryAdminRoutes(admin, db)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/applications/controller"
)

func ApplicationRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewApplicationController(db)

	user.Get("/applications/my", ctrl.GetMyApplication)
}

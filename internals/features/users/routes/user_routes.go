package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/users/controller"
)

func UserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	user.Get("/users/me", ctrl.GetMe)
}

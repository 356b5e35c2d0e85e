// 📁 controller/application_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/applications/model"
	helper "taibah_backend/internals/helpers"
)

type ApplicationController struct {
	DB *gorm.DB
}

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{DB: db}
}

// 🟢 GET MY APPLICATION: the caller's latest enrollment application.
func (ctrl *ApplicationController) GetMyApplication(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var application model.ApplicationModel
	if err := ctrl.DB.
		Where("application_user_id = ?", userID).
		Order("created_at desc").
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "No application found.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load application.")
	}

	return helper.JsonOK(c, "", application)
}

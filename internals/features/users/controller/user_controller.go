// 📁 controller/user_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/constants"
	"taibah_backend/internals/features/users/model"
	helper "taibah_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// 🟢 GET ME: the caller's profile plus admin flag, for the account page.
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	isAdmin, err := helper.IsAdmin(ctrl.DB, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var profile model.ProfileModel
	if err := ctrl.DB.First(&profile, "profile_id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}
		// No profile row yet; answer with identity claims only.
		profile = model.ProfileModel{ProfileID: userID}
		if email := helper.GetUserEmail(c); email != "" {
			profile.ProfileEmail = &email
		}
	}

	role := constants.RoleStudent
	if isAdmin {
		role = constants.RoleAdmin
	}

	return helper.JsonOK(c, "", fiber.Map{
		"profile":  profile,
		"role":     role,
		"is_admin": isAdmin,
	})
}

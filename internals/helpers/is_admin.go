package helper

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "taibah_backend/internals/features/users/model"
)

// IsAdmin checks membership in the admin_users authorization list.
func IsAdmin(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var row userModel.AdminUserModel
	err := db.Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

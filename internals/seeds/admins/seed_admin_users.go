package admins

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taibah_backend/internals/features/users/model"
)

type AdminUserSeed struct {
	UserID string `json:"user_id"`
	Note   string `json:"note"`
}

// SeedAdminUsersFromJSON grants admin to the listed identity-provider user
// ids. Membership in admin_users is the only source of admin rights.
func SeedAdminUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading admin user seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Failed to read seed JSON: %v", err)
	}

	var inputs []AdminUserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Failed to decode seed JSON: %v", err)
	}

	for _, data := range inputs {
		userID, err := uuid.Parse(data.UserID)
		if err != nil {
			log.Printf("❌ Invalid user_id '%s', skipped.", data.UserID)
			continue
		}

		var existing model.AdminUserModel
		if err := db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Admin '%s' already exists, skipped.", data.UserID)
			continue
		}

		if err := db.Create(&model.AdminUserModel{AdminUserUserID: userID}).Error; err != nil {
			log.Printf("❌ Failed to seed admin '%s': %v", data.UserID, err)
			continue
		}
		log.Printf("✅ Admin '%s' seeded.", data.UserID)
	}
}

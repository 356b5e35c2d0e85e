package seeds

import (
	"gorm.io/gorm"

	admins "taibah_backend/internals/seeds/admins"
	promos "taibah_backend/internals/seeds/promos"
)

// RunAllSeeds loads baseline data. Every seeder skips rows that already
// exist, so rerunning is safe.
func RunAllSeeds(db *gorm.DB) {
	promos.SeedPromoCodesFromJSON(db, "internals/seeds/promos/data_promo_codes.json")
	admins.SeedAdminUsersFromJSON(db, "internals/seeds/admins/data_admin_users.json")
}

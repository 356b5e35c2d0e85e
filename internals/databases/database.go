package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	applicationModel "taibah_backend/internals/features/applications/model"
	galleryModel "taibah_backend/internals/features/gallery/model"
	paymentModel "taibah_backend/internals/features/payment/payments/model"
	promoModel "taibah_backend/internals/features/payment/promos/model"
	userModel "taibah_backend/internals/features/users/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL (Supabase)...")

	// Full URL DSN + statement_timeout.
	// Note: with PgBouncer point host/port at the pooler and keep
	// PreferSimpleProtocol=true (transaction pooling).
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=taibah&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey so the
		// orchestrator can resolve concurrent checkout races.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	// Keep under the Supabase/PgBouncer connection limits.
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates the payment-core tables and the partial unique index that
// serializes find-or-create: at most one non-terminal checkout attempt per
// (user, application, amount, currency) tuple.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.ProfileModel{},
		&userModel.AdminUserModel{},
		&applicationModel.ApplicationModel{},
		&paymentModel.PaymentModel{},
		&promoModel.PromoCodeModel{},
		&galleryModel.GalleryItemModel{},
	); err != nil {
		return err
	}

	stmt := `CREATE UNIQUE INDEX IF NOT EXISTS ux_payments_open_attempt
		ON payments (payment_user_id, COALESCE(payment_application_id, '00000000-0000-0000-0000-000000000000'::uuid), payment_amount, payment_currency)
		WHERE payment_status IN ('created','redirected')`
	if db.Dialector.Name() != "postgres" {
		// sqlite (tests) cannot cast to uuid but supports the same partial index.
		stmt = `CREATE UNIQUE INDEX IF NOT EXISTS ux_payments_open_attempt
		ON payments (payment_user_id, COALESCE(payment_application_id, '00000000-0000-0000-0000-000000000000'), payment_amount, payment_currency)
		WHERE payment_status IN ('created','redirected')`
	}
	return db.Exec(stmt).Error
}

func WarmUpQueries() {
	// Light touch so the pool is filled and ready.
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	databases "taibah_backend/internals/databases"
	paymentModel "taibah_backend/internals/features/payment/payments/model"
	"taibah_backend/internals/features/payment/promos/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := databases.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPromo(t *testing.T, db *gorm.DB, code string, percentOff float64) {
	t.Helper()
	promo := model.PromoCodeModel{
		PromoCodeCode:       code,
		PromoCodeActive:     true,
		PromoCodeCurrency:   "USD",
		PromoCodePercentOff: &percentOff,
	}
	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("seed promo: %v", err)
	}
}

func seedPayment(t *testing.T, db *gorm.DB, userID uuid.UUID, amount float64, status string) paymentModel.PaymentModel {
	t.Helper()
	row := paymentModel.PaymentModel{
		PaymentUserID:   userID,
		PaymentCartID:   uuid.NewString(),
		PaymentAmount:   amount,
		PaymentCurrency: "USD",
		PaymentStatus:   status,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return row
}

func TestQuoteAmountLooksUpCaseInsensitively(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	seedPromo(t, db, "WELCOME10", 10)

	q, err := svc.QuoteAmount(context.Background(), 200, "usd", "  welcome10 ")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !q.Valid {
		t.Fatalf("expected valid quote, got reason %q", q.Reason)
	}
	if q.DiscountAmount != 20 || q.FinalAmount != 180 {
		t.Errorf("got discount=%v final=%v, want 20/180", q.DiscountAmount, q.FinalAmount)
	}
}

func TestQuoteAmountUnknownCodeIsGenericInvalid(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)

	q, err := svc.QuoteAmount(context.Background(), 200, "USD", "NOPE")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Valid || q.Reason != GenericInvalidReason {
		t.Errorf("unknown code must be the generic invalid quote, got %+v", q)
	}

	// Garbage input is rejected the same way, without a DB lookup error.
	q, err = svc.QuoteAmount(context.Background(), 200, "USD", "not a code!!")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Valid || q.Reason != GenericInvalidReason {
		t.Errorf("malformed code must be the generic invalid quote, got %+v", q)
	}
}

func TestApplyDiscountsPayment(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	seedPromo(t, db, "HALF", 50)
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusCreated)

	q, err := svc.Apply(context.Background(), payment.PaymentID, userID, "half")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !q.Valid || q.FinalAmount != 50 {
		t.Fatalf("got %+v, want valid 50 final", q)
	}

	var got paymentModel.PaymentModel
	if err := db.First(&got, "payment_id = ?", payment.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentAmount != 50 || got.PaymentDiscountAmount != 50 {
		t.Errorf("amount=%v discount=%v, want 50/50", got.PaymentAmount, got.PaymentDiscountAmount)
	}
	if got.PaymentOriginalAmount == nil || *got.PaymentOriginalAmount != 100 {
		t.Errorf("original amount not preserved: %v", got.PaymentOriginalAmount)
	}
	if got.PaymentPromoCode == nil || *got.PaymentPromoCode != "HALF" {
		t.Errorf("promo code not recorded: %v", got.PaymentPromoCode)
	}
}

func TestApplySameCodeIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	seedPromo(t, db, "HALF", 50)
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusCreated)

	ctx := context.Background()
	if _, err := svc.Apply(ctx, payment.PaymentID, userID, "HALF"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	q, err := svc.Apply(ctx, payment.PaymentID, userID, "half")
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if !q.Valid || q.FinalAmount != 50 || q.OriginalAmount != 100 {
		t.Errorf("idempotent re-apply returned %+v", q)
	}

	// The stored amount must not be discounted twice.
	var got paymentModel.PaymentModel
	if err := db.First(&got, "payment_id = ?", payment.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentAmount != 50 {
		t.Errorf("amount %v after re-apply, want 50", got.PaymentAmount)
	}
}

func TestApplyDifferentCodeConflicts(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	seedPromo(t, db, "HALF", 50)
	seedPromo(t, db, "TEN", 10)
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusCreated)

	ctx := context.Background()
	if _, err := svc.Apply(ctx, payment.PaymentID, userID, "HALF"); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := svc.Apply(ctx, payment.PaymentID, userID, "TEN"); !errors.Is(err, ErrPromoConflict) {
		t.Fatalf("got %v, want ErrPromoConflict", err)
	}

	var got paymentModel.PaymentModel
	if err := db.First(&got, "payment_id = ?", payment.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentAmount != 50 || *got.PaymentPromoCode != "HALF" {
		t.Errorf("conflicting apply mutated the row: %+v", got)
	}
}

func TestApplyOwnershipIsolation(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	owner := uuid.New()
	stranger := uuid.New()
	seedPromo(t, db, "HALF", 50)
	payment := seedPayment(t, db, owner, 100, paymentModel.PaymentStatusCreated)

	_, err := svc.Apply(context.Background(), payment.PaymentID, stranger, "HALF")
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("got %v, want ErrPaymentNotFound (no ownership leak)", err)
	}
}

func TestApplyOnTerminalPayment(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	seedPromo(t, db, "HALF", 50)
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusAuthorised)

	_, err := svc.Apply(context.Background(), payment.PaymentID, userID, "HALF")
	if !errors.Is(err, ErrPaymentClosed) {
		t.Fatalf("got %v, want ErrPaymentClosed", err)
	}
}

func TestApplyInvalidCodeLeavesRowUntouched(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusCreated)

	q, err := svc.Apply(context.Background(), payment.PaymentID, userID, "GHOST")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if q.Valid {
		t.Fatalf("unknown code applied: %+v", q)
	}

	var got paymentModel.PaymentModel
	if err := db.First(&got, "payment_id = ?", payment.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentAmount != 100 || got.PaymentPromoCode != nil {
		t.Errorf("invalid apply mutated the row: %+v", got)
	}
}

func TestRemoveRestoresOriginalAmount(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	seedPromo(t, db, "HALF", 50)
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusCreated)

	ctx := context.Background()
	if _, err := svc.Apply(ctx, payment.PaymentID, userID, "HALF"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	res, err := svc.Remove(ctx, payment.PaymentID, userID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !res.Removed || res.FinalAmount != 100 {
		t.Errorf("remove returned %+v, want restored 100", res)
	}

	var got paymentModel.PaymentModel
	if err := db.First(&got, "payment_id = ?", payment.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentAmount != 100 || got.PaymentPromoCode != nil || got.PaymentDiscountAmount != 0 {
		t.Errorf("row not restored: %+v", got)
	}

	// Removing again is an idempotent success.
	res, err = svc.Remove(ctx, payment.PaymentID, userID)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if !res.Removed || res.FinalAmount != 100 {
		t.Errorf("second remove returned %+v", res)
	}
}

func TestRemoveRefusedOnceAuthorised(t *testing.T) {
	db := openTestDB(t)
	svc := NewPromoService(db)
	userID := uuid.New()
	payment := seedPayment(t, db, userID, 100, paymentModel.PaymentStatusAuthorised)

	_, err := svc.Remove(context.Background(), payment.PaymentID, userID)
	if !errors.Is(err, ErrPaymentClosed) {
		t.Fatalf("got %v, want ErrPaymentClosed", err)
	}
}

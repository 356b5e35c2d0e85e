package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	databases "taibah_backend/internals/databases"
	"taibah_backend/internals/features/payment/payments/gateway"
	"taibah_backend/internals/features/payment/payments/model"
	"taibah_backend/internals/features/payment/payments/service"
)

const testServerKey = "test-server-key"

type stubGateway struct{}

func (stubGateway) CreatePayPage(ctx context.Context, req *gateway.PayPageRequest) (*gateway.PayPageResponse, error) {
	return &gateway.PayPageResponse{RedirectURL: "https://example.test/page"}, nil
}

func (stubGateway) QueryTransaction(ctx context.Context, req *gateway.QueryRequest) (*gateway.QueryResponse, error) {
	return nil, &gateway.Error{Status: 404}
}

func newCallbackApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := databases.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := service.NewPaymentService(db, stubGateway{}, service.Config{Enabled: true, PaypageTTL: 20})
	ctrl := NewPaymentController(db, svc, testServerKey)

	app := fiber.New()
	app.Post("/api/payments/callback", ctrl.HandleCallback)
	return app, db
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testServerKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCallbackRejectsMissingSignature(t *testing.T) {
	app, _ := newCallbackApp(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status %d, want 401", resp.StatusCode)
	}
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	app, _ := newCallbackApp(t)

	body := []byte(`{"cart_id":"x","payment_result":{"response_status":"A"}}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Signature", sign([]byte(`different body`)))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status %d, want 401", resp.StatusCode)
	}
}

func TestCallbackAppliesAuthorisedResult(t *testing.T) {
	app, db := newCallbackApp(t)

	row := model.PaymentModel{
		PaymentUserID:   uuid.New(),
		PaymentCartID:   uuid.NewString(),
		PaymentAmount:   100,
		PaymentCurrency: "USD",
		PaymentStatus:   model.PaymentStatusRedirected,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := []byte(fmt.Sprintf(
		`{"cart_id":%q,"tran_ref":"TST7","payment_result":{"response_status":"A","response_message":"Authorised"}}`,
		row.PaymentCartID,
	))
	req, _ := http.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Signature", sign(body))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var got model.PaymentModel
	if err := db.First(&got, "payment_id = ?", row.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentStatus != model.PaymentStatusAuthorised {
		t.Errorf("status %q, want authorised", got.PaymentStatus)
	}
	if got.PaymentTranRef == nil || *got.PaymentTranRef != "TST7" {
		t.Errorf("tran_ref not recorded: %v", got.PaymentTranRef)
	}

	// Replaying the exact same delivery is still a 200 and changes nothing.
	replay, _ := http.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(body))
	replay.Header.Set("Content-Type", "application/json")
	replay.Header.Set("Signature", sign(body))
	resp, err = app.Test(replay)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("replay status %d, want 200", resp.StatusCode)
	}
}

func TestCallbackHandlesCamelCaseAliases(t *testing.T) {
	app, db := newCallbackApp(t)

	row := model.PaymentModel{
		PaymentUserID:   uuid.New(),
		PaymentCartID:   uuid.NewString(),
		PaymentAmount:   100,
		PaymentCurrency: "USD",
		PaymentStatus:   model.PaymentStatusRedirected,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := []byte(fmt.Sprintf(
		`{"cartId":%q,"tranRef":"TST8","payment_result":{"response_status":"E","response_message":"Transaction Cancelled by user"}}`,
		row.PaymentCartID,
	))
	req, _ := http.NewRequest(http.MethodPost, "/api/payments/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Signature", sign(body))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var got model.PaymentModel
	if err := db.First(&got, "payment_id = ?", row.PaymentID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PaymentStatus != model.PaymentStatusCancelled {
		t.Errorf("status %q, want cancelled", got.PaymentStatus)
	}
}

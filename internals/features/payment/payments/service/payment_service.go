package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	applicationModel "taibah_backend/internals/features/applications/model"
	"taibah_backend/internals/features/payment/payments/gateway"
	"taibah_backend/internals/features/payment/payments/model"
	userModel "taibah_backend/internals/features/users/model"
)

var (
	ErrPaymentsDisabled = errors.New("payments are temporarily disabled")
	ErrInvalidInput     = errors.New("invalid amount or currency")
)

// Config is the slice of app config the payment service needs. Constructed
// in main and injected, never read from the environment here.
type Config struct {
	ProfileID    string
	PaypageTTL   int
	Enabled      bool
	PublicOrigin string
}

type PaymentService struct {
	DB      *gorm.DB
	Gateway gateway.Client
	Cfg     Config
}

func NewPaymentService(db *gorm.DB, gw gateway.Client, cfg Config) *PaymentService {
	return &PaymentService{DB: db, Gateway: gw, Cfg: cfg}
}

type StartSessionInput struct {
	UserID        uuid.UUID
	UserEmail     string
	ApplicationID *uuid.UUID
	Amount        float64
	Currency      string
	Description   string
	PaypageLang   string // "en" or "ar"
	Origin        string // request origin; falls back to Cfg.PublicOrigin

	// ActingAdmin is set when an administrator starts the session on the
	// student's behalf (top-up flow). An expired attempt is then revived in
	// place with its original cart_id instead of superseded by a new row.
	ActingAdmin bool
}

type SessionResult struct {
	RedirectURL string  `json:"redirect_url"`
	CartID      string  `json:"cart_id"`
	TranRef     *string `json:"tran_ref"`
	Reused      bool    `json:"-"`
}

// StartOrGetSession finds or creates the checkout session for one logical
// attempt. Repeated calls inside the TTL window return the stored session
// unchanged; a stale session is expired first and superseded. The payment
// row is written only after the gateway accepted the request, so a gateway
// failure leaves nothing behind and the next call retries cleanly.
func (s *PaymentService) StartOrGetSession(ctx context.Context, in StartSessionInput) (*SessionResult, error) {
	if !s.Cfg.Enabled {
		return nil, ErrPaymentsDisabled
	}
	if in.Amount <= 0 || len(in.Currency) != 3 {
		return nil, ErrInvalidInput
	}

	currency := strings.ToUpper(in.Currency)
	now := time.Now()

	existing, err := s.findOpenAttempt(ctx, in.UserID, in.ApplicationID, in.Amount, currency)
	if err != nil {
		return nil, err
	}

	reviveInPlace := false
	if existing != nil {
		if !existing.IsExpired(now) && existing.PaymentRedirectURL != "" {
			return &SessionResult{
				RedirectURL: existing.PaymentRedirectURL,
				CartID:      existing.PaymentCartID,
				TranRef:     existing.PaymentTranRef,
				Reused:      true,
			}, nil
		}
		if existing.IsExpired(now) {
			// Only rows still open may be expired; terminal rows stay put.
			if err := s.DB.WithContext(ctx).Model(&model.PaymentModel{}).
				Where("payment_id = ? AND payment_status IN ?", existing.PaymentID, model.OpenStatuses).
				Update("payment_status", model.PaymentStatusExpired).Error; err != nil {
				return nil, err
			}
			reviveInPlace = in.ActingAdmin
		} else {
			// Open but without a redirect URL yet: finish it in place.
			reviveInPlace = true
		}
	}

	// A superseding attempt gets a fresh idempotency key; only the in-place
	// revival keeps the cart_id it already shared with the gateway.
	cartID := uuid.NewString()
	if existing != nil && reviveInPlace {
		cartID = existing.PaymentCartID
	}

	customer := s.buildCustomerDetails(ctx, in)

	origin := in.Origin
	if origin == "" {
		origin = s.Cfg.PublicOrigin
	}

	lang := "en"
	if strings.EqualFold(in.PaypageLang, "ar") {
		lang = "ar"
	}

	description := in.Description
	if strings.TrimSpace(description) == "" {
		description = "Tuition payment - Fo7ha Taibah Arabic Institute"
	}

	page, err := s.Gateway.CreatePayPage(ctx, &gateway.PayPageRequest{
		ProfileID:       s.Cfg.ProfileID,
		TranType:        "sale",
		TranClass:       "ecom",
		CartID:          cartID,
		CartCurrency:    currency,
		CartAmount:      in.Amount,
		CartDescription: description,
		ReturnURL:       origin + "/payment/return",
		CallbackURL:     origin + "/api/payments/callback",
		HideShipping:    true,
		PaypageTTL:      s.Cfg.PaypageTTL,
		PaypageLang:     lang,
		CustomerDetails: customer,
	})
	if err != nil {
		// No local write for a failed creation attempt.
		return nil, err
	}

	var tranRef *string
	if page.TranRef != "" {
		ref := page.TranRef
		tranRef = &ref
	}

	if existing != nil && reviveInPlace {
		err = s.DB.WithContext(ctx).Model(&model.PaymentModel{}).
			Where("payment_id = ?", existing.PaymentID).
			Updates(map[string]any{
				"payment_cart_id":      cartID,
				"payment_tran_ref":     tranRef,
				"payment_amount":       in.Amount,
				"payment_currency":     currency,
				"payment_status":       model.PaymentStatusRedirected,
				"payment_redirect_url": page.RedirectURL,
				"payment_paypage_ttl":  s.Cfg.PaypageTTL,
				"created_at":           now,
			}).Error
		if err != nil {
			return nil, err
		}
		return &SessionResult{RedirectURL: page.RedirectURL, CartID: cartID, TranRef: tranRef}, nil
	}

	row := model.PaymentModel{
		PaymentUserID:        in.UserID,
		PaymentApplicationID: in.ApplicationID,
		PaymentCartID:        cartID,
		PaymentTranRef:       tranRef,
		PaymentAmount:        in.Amount,
		PaymentCurrency:      currency,
		PaymentStatus:        model.PaymentStatusRedirected,
		PaymentDescription:   description,
		PaymentRedirectURL:   page.RedirectURL,
		PaymentPaypageTTL:    s.Cfg.PaypageTTL,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the find-or-create race: a concurrent request inserted
			// the open attempt for this tuple first. Return the winner.
			winner, findErr := s.findOpenAttempt(ctx, in.UserID, in.ApplicationID, in.Amount, currency)
			if findErr == nil && winner != nil {
				log.Printf("[INFO] duplicate checkout attempt resolved to cart_id=%s", winner.PaymentCartID)
				return &SessionResult{
					RedirectURL: winner.PaymentRedirectURL,
					CartID:      winner.PaymentCartID,
					TranRef:     winner.PaymentTranRef,
					Reused:      true,
				}, nil
			}
		}
		return nil, err
	}

	return &SessionResult{RedirectURL: page.RedirectURL, CartID: cartID, TranRef: tranRef}, nil
}

// findOpenAttempt returns the newest non-terminal row for the idempotency
// tuple, or nil.
func (s *PaymentService) findOpenAttempt(ctx context.Context, userID uuid.UUID, applicationID *uuid.UUID, amount float64, currency string) (*model.PaymentModel, error) {
	q := s.DB.WithContext(ctx).
		Where("payment_user_id = ? AND payment_amount = ? AND payment_currency = ? AND payment_status IN ?",
			userID, amount, currency, model.OpenStatuses)
	if applicationID != nil {
		q = q.Where("payment_application_id = ?", *applicationID)
	} else {
		q = q.Where("payment_application_id IS NULL")
	}

	var row model.PaymentModel
	if err := q.Order("created_at desc").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// buildCustomerDetails assembles PayTabs billing details with fallbacks:
// application form data, then the stored profile, then placeholders. A
// missing profile never blocks checkout.
func (s *PaymentService) buildCustomerDetails(ctx context.Context, in StartSessionInput) gateway.CustomerDetails {
	appData := s.fetchApplicationData(ctx, in.UserID, in.ApplicationID)
	profile := s.fetchProfile(ctx, in.UserID)

	profileName, profileEmail := "", ""
	if profile != nil {
		if profile.ProfileFullName != nil {
			profileName = *profile.ProfileFullName
		}
		if profile.ProfileEmail != nil {
			profileEmail = *profile.ProfileEmail
		}
	}

	name := safeString(appData["fullName"], safeString(profileName, "Student"))
	email := safeString(profileEmail, safeString(in.UserEmail, "student@example.com"))
	phone := safeString(appData["phone"], "+966000000000")
	country := safeString(appData["nationality"], "SA")

	return gateway.CustomerDetails{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Street1: "N/A",
		City:    "Madinah",
		State:   "Madinah",
		Country: country,
		Zip:     "00000",
	}
}

func (s *PaymentService) fetchProfile(ctx context.Context, userID uuid.UUID) *userModel.ProfileModel {
	var profile userModel.ProfileModel
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", userID).First(&profile).Error; err != nil {
		return nil
	}
	return &profile
}

func (s *PaymentService) fetchApplicationData(ctx context.Context, userID uuid.UUID, applicationID *uuid.UUID) map[string]any {
	var app applicationModel.ApplicationModel
	q := s.DB.WithContext(ctx)
	if applicationID != nil {
		q = q.Where("application_id = ?", *applicationID)
	} else {
		q = q.Where("application_user_id = ?", userID).Order("updated_at desc")
	}
	if err := q.First(&app).Error; err != nil {
		return map[string]any{}
	}

	data := map[string]any{}
	if len(app.ApplicationData) > 0 {
		_ = json.Unmarshal(app.ApplicationData, &data)
	}
	return data
}

// ApplyResult writes a gateway verdict onto the matching payment row with a
// single conditional update. Rows already terminal are left untouched (a
// late webhook can never downgrade an authorised payment) and an unmatched
// cart/tran ref is a silent no-op so duplicate deliveries stay idempotent.
func (s *PaymentService) ApplyResult(ctx context.Context, cartID, tranRef, status string, payload []byte) error {
	updates := map[string]any{
		"payment_status": status,
	}
	if tranRef != "" {
		updates["payment_tran_ref"] = tranRef
	}
	if len(payload) > 0 {
		updates["payment_callback_payload"] = datatypes.JSON(payload)
	}

	q := s.DB.WithContext(ctx).Model(&model.PaymentModel{}).
		Where("payment_status NOT IN ?", model.TerminalStatuses)
	switch {
	case cartID != "":
		q = q.Where("payment_cart_id = ?", cartID)
	case tranRef != "":
		q = q.Where("payment_tran_ref = ?", tranRef)
	default:
		return nil
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[INFO] payment result ignored (no open row) cart_id=%s tran_ref=%s status=%s", cartID, tranRef, status)
	}
	return nil
}

// QueryAndApply asks the gateway for the authoritative status of a
// transaction and applies it. Used by the admin reconciliation trigger; the
// outbound call is authenticated, so no webhook signature is involved.
func (s *PaymentService) QueryAndApply(ctx context.Context, tranRef, cartID string) (json.RawMessage, error) {
	if !s.Cfg.Enabled {
		return nil, ErrPaymentsDisabled
	}

	req := &gateway.QueryRequest{ProfileID: s.Cfg.ProfileID}
	if tranRef != "" {
		req.TranRef = tranRef
	} else {
		req.CartID = cartID
	}

	resp, err := s.Gateway.QueryTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	status := MapStatus(resp.PaymentResult.ResponseStatus, resp.PaymentResult.ResponseMessage)

	appliedTranRef := resp.TranRef
	if appliedTranRef == "" {
		appliedTranRef = tranRef
	}
	appliedCartID := resp.CartID
	if appliedCartID == "" {
		appliedCartID = cartID
	}

	if err := s.ApplyResult(ctx, appliedCartID, appliedTranRef, status, resp.Raw); err != nil {
		return nil, err
	}
	return resp.Raw, nil
}

func safeString(value any, fallback string) string {
	if s, ok := value.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

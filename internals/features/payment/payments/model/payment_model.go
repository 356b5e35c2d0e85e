package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment lifecycle. Transitions only move toward a terminal status; a
// terminal row is never updated again.
const (
	PaymentStatusCreated    = "created"
	PaymentStatusRedirected = "redirected"
	PaymentStatusAuthorised = "authorised"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusExpired    = "expired"
)

var (
	OpenStatuses     = []string{PaymentStatusCreated, PaymentStatusRedirected}
	TerminalStatuses = []string{PaymentStatusAuthorised, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusExpired}
)

func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentUserID        uuid.UUID  `gorm:"column:payment_user_id;type:uuid;not null;index" json:"payment_user_id"`
	PaymentApplicationID *uuid.UUID `gorm:"column:payment_application_id;type:uuid" json:"payment_application_id,omitempty"`

	// Idempotency/correlation key shared with the gateway, one per attempt.
	PaymentCartID  string  `gorm:"column:payment_cart_id;type:varchar(64);not null;uniqueIndex" json:"payment_cart_id"`
	PaymentTranRef *string `gorm:"column:payment_tran_ref;type:varchar(64);index" json:"payment_tran_ref,omitempty"`

	PaymentAmount   float64 `gorm:"column:payment_amount;type:numeric(12,2);not null;check:payment_amount > 0" json:"payment_amount"`
	PaymentCurrency string  `gorm:"column:payment_currency;type:varchar(3);not null" json:"payment_currency"`

	// Set once when a promo is first applied; amount stays authoritative.
	PaymentOriginalAmount *float64 `gorm:"column:payment_original_amount;type:numeric(12,2)" json:"payment_original_amount,omitempty"`
	PaymentDiscountAmount float64  `gorm:"column:payment_discount_amount;type:numeric(12,2);not null;default:0" json:"payment_discount_amount"`
	PaymentPromoCode      *string  `gorm:"column:payment_promo_code;type:varchar(32)" json:"payment_promo_code,omitempty"`

	PaymentStatus string `gorm:"column:payment_status;type:varchar(20);not null;default:'created'" json:"payment_status"`

	PaymentDescription string `gorm:"column:payment_description;type:text" json:"payment_description"`
	PaymentRedirectURL string `gorm:"column:payment_redirect_url;type:text" json:"payment_redirect_url"`
	PaymentPaypageTTL  int    `gorm:"column:payment_paypage_ttl;not null;default:20" json:"payment_paypage_ttl"`

	PaymentCallbackPayload datatypes.JSON `gorm:"column:payment_callback_payload;type:jsonb" json:"payment_callback_payload,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the row reached a final status.
func (p *PaymentModel) IsTerminal() bool {
	return IsTerminalStatus(p.PaymentStatus)
}

// ExpiresAt is the moment an unfinished hosted page stops being reusable.
func (p *PaymentModel) ExpiresAt() time.Time {
	ttl := p.PaymentPaypageTTL
	if ttl <= 0 {
		ttl = 20
	}
	return p.CreatedAt.Add(time.Duration(ttl) * time.Minute)
}

func (p *PaymentModel) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt())
}

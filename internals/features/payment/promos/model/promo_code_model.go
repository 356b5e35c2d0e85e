package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromoCodeModel is reference data maintained by admins; the payment core
// only reads it. Exactly one of percent_off / amount_off should be set.
type PromoCodeModel struct {
	PromoCodeID uuid.UUID `gorm:"column:promo_code_id;type:uuid;primaryKey" json:"promo_code_id"`

	PromoCodeCode   string `gorm:"column:promo_code_code;type:varchar(32);not null;uniqueIndex" json:"promo_code_code"`
	PromoCodeActive bool   `gorm:"column:promo_code_active;not null;default:true" json:"promo_code_active"`

	PromoCodeCurrency string `gorm:"column:promo_code_currency;type:varchar(3);not null;default:'USD'" json:"promo_code_currency"`

	PromoCodePercentOff *float64 `gorm:"column:promo_code_percent_off;type:numeric(5,2)" json:"promo_code_percent_off,omitempty"`
	PromoCodeAmountOff  *float64 `gorm:"column:promo_code_amount_off;type:numeric(12,2)" json:"promo_code_amount_off,omitempty"`

	PromoCodeMinOrderAmount    *float64 `gorm:"column:promo_code_min_order_amount;type:numeric(12,2)" json:"promo_code_min_order_amount,omitempty"`
	PromoCodeMaxDiscountAmount *float64 `gorm:"column:promo_code_max_discount_amount;type:numeric(12,2)" json:"promo_code_max_discount_amount,omitempty"`

	PromoCodeStartsAt *time.Time `gorm:"column:promo_code_starts_at" json:"promo_code_starts_at,omitempty"`
	PromoCodeEndsAt   *time.Time `gorm:"column:promo_code_ends_at" json:"promo_code_ends_at,omitempty"`

	PromoCodeMaxUses   *int `gorm:"column:promo_code_max_uses" json:"promo_code_max_uses,omitempty"`
	PromoCodeUsesCount int  `gorm:"column:promo_code_uses_count;not null;default:0" json:"promo_code_uses_count"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PromoCodeModel) TableName() string {
	return "promo_codes"
}

func (p *PromoCodeModel) BeforeCreate(tx *gorm.DB) error {
	if p.PromoCodeID == uuid.Nil {
		p.PromoCodeID = uuid.New()
	}
	return nil
}

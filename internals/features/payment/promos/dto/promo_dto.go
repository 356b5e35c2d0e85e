package dto

// QuotePromoRequest previews a discount without touching any payment row.
// An absent code is allowed and quotes the undiscounted amount.
type QuotePromoRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"required,len=3,alpha"`
	PromoCode string  `json:"promoCode" validate:"omitempty,max=64"`
}

// ApplyPromoRequest binds a promo code to one of the caller's open payments.
// Older clients send promo_code; both spellings are accepted.
type ApplyPromoRequest struct {
	PaymentID      string `json:"payment_id" validate:"required,uuid"`
	PromoCode      string `json:"promoCode" validate:"omitempty,max=64"`
	PromoCodeSnake string `json:"promo_code" validate:"omitempty,max=64"`
}

// Code returns whichever spelling the client used.
func (r ApplyPromoRequest) Code() string {
	if r.PromoCode != "" {
		return r.PromoCode
	}
	return r.PromoCodeSnake
}

// RemovePromoRequest detaches the promo from a payment and restores the price.
type RemovePromoRequest struct {
	PaymentID string `json:"payment_id" validate:"required,uuid"`
}

package service

import (
	"math"
	"regexp"
	"strings"
	"time"

	"taibah_backend/internals/features/payment/promos/model"
)

// One generic message for every validity failure so callers cannot probe
// why a code was rejected.
const GenericInvalidReason = "Invalid or expired promo code."

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NormalizeCode trims, bounds and uppercases a client-submitted promo code.
// Returns "" when the input is not an acceptable code at all.
func NormalizeCode(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" || len(code) > 32 || !codePattern.MatchString(code) {
		return ""
	}
	return strings.ToUpper(code)
}

type Quote struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	OriginalAmount float64 `json:"originalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
	Reason         string  `json:"message,omitempty"`
}

// ComputeQuote is the discount calculator: deterministic, side-effect free,
// shared by the non-binding quote preview and the binding apply.
//
// Rules: nil promo means no discount. Otherwise the code must be active, in
// its validity window, currency-matched and above the minimum order. The
// discount is percent_off or amount_off, clamped to the cap and then to the
// order amount; a quote that would zero out the total is rejected. Rounding
// (half away from zero, 2dp) happens at the final step only.
func ComputeQuote(amount float64, currency string, promo *model.PromoCodeModel, now time.Time) Quote {
	currency = strings.ToUpper(currency)

	if promo == nil {
		return Quote{
			Valid:          true,
			Currency:       currency,
			OriginalAmount: round2(amount),
			DiscountAmount: 0,
			FinalAmount:    round2(amount),
		}
	}

	invalid := Quote{Valid: false, Reason: GenericInvalidReason}

	if !promo.PromoCodeActive {
		return invalid
	}
	if !strings.EqualFold(promo.PromoCodeCurrency, currency) {
		return invalid
	}
	if promo.PromoCodeStartsAt != nil && now.Before(*promo.PromoCodeStartsAt) {
		return invalid
	}
	if promo.PromoCodeEndsAt != nil && now.After(*promo.PromoCodeEndsAt) {
		return invalid
	}
	if promo.PromoCodeMinOrderAmount != nil && amount < *promo.PromoCodeMinOrderAmount {
		return invalid
	}
	if promo.PromoCodeMaxUses != nil && promo.PromoCodeUsesCount >= *promo.PromoCodeMaxUses {
		return invalid
	}

	var discount float64
	switch {
	case promo.PromoCodePercentOff != nil:
		discount = amount * *promo.PromoCodePercentOff / 100
	case promo.PromoCodeAmountOff != nil:
		discount = *promo.PromoCodeAmountOff
	default:
		// Misconfigured code: neither mechanism present.
		return invalid
	}

	if promo.PromoCodeMaxDiscountAmount != nil && *promo.PromoCodeMaxDiscountAmount >= 0 {
		discount = math.Min(discount, *promo.PromoCodeMaxDiscountAmount)
	}
	discount = math.Max(0, math.Min(discount, amount))

	final := amount - discount
	if final <= 0 {
		return invalid
	}

	return Quote{
		Valid:          true,
		Code:           strings.ToUpper(promo.PromoCodeCode),
		Currency:       currency,
		OriginalAmount: round2(amount),
		DiscountAmount: round2(discount),
		FinalAmount:    round2(final),
	}
}

// round2 rounds half away from zero to two decimals.
func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

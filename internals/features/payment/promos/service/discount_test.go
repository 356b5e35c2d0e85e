package service

import (
	"testing"
	"time"

	"taibah_backend/internals/features/payment/promos/model"
)

func f64(v float64) *float64 { return &v }

func activePromo(code string) *model.PromoCodeModel {
	return &model.PromoCodeModel{
		PromoCodeCode:     code,
		PromoCodeActive:   true,
		PromoCodeCurrency: "USD",
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  ramadan25 ", "RAMADAN25"},
		{"WELCOME-10", "WELCOME-10"},
		{"open_day", "OPEN_DAY"},
		{"", ""},
		{"   ", ""},
		{"has space", ""},
		{"emoji🎉", ""},
		{"ThisCodeIsWayTooLongToBeAccepted123", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestComputeQuotePercentOff(t *testing.T) {
	promo := activePromo("HALF")
	promo.PromoCodePercentOff = f64(50)

	q := ComputeQuote(100, "USD", promo, time.Now())
	if !q.Valid {
		t.Fatalf("expected valid quote, got reason %q", q.Reason)
	}
	if q.DiscountAmount != 50 || q.FinalAmount != 50 {
		t.Errorf("got discount=%v final=%v, want 50/50", q.DiscountAmount, q.FinalAmount)
	}
	if q.Code != "HALF" {
		t.Errorf("got code %q, want HALF", q.Code)
	}
}

func TestComputeQuoteAmountOffExceedsOrder(t *testing.T) {
	// amount_off larger than the order would zero it out; rejected.
	promo := activePromo("BIG")
	promo.PromoCodeAmountOff = f64(150)

	q := ComputeQuote(100, "USD", promo, time.Now())
	if q.Valid {
		t.Fatalf("expected invalid quote, got %+v", q)
	}
	if q.Reason != GenericInvalidReason {
		t.Errorf("got reason %q, want the generic one", q.Reason)
	}
}

func TestComputeQuoteCapClampsPercent(t *testing.T) {
	promo := activePromo("CAPPED")
	promo.PromoCodePercentOff = f64(50)
	promo.PromoCodeMaxDiscountAmount = f64(20)

	q := ComputeQuote(100, "USD", promo, time.Now())
	if !q.Valid {
		t.Fatalf("expected valid quote, got reason %q", q.Reason)
	}
	if q.DiscountAmount != 20 || q.FinalAmount != 80 {
		t.Errorf("got discount=%v final=%v, want 20/80", q.DiscountAmount, q.FinalAmount)
	}
}

func TestComputeQuoteCurrencyMismatch(t *testing.T) {
	promo := activePromo("EURO")
	promo.PromoCodeCurrency = "EUR"
	promo.PromoCodePercentOff = f64(10)

	if q := ComputeQuote(100, "USD", promo, time.Now()); q.Valid {
		t.Fatalf("expected invalid quote on currency mismatch, got %+v", q)
	}
	// case-insensitive match on the happy path
	if q := ComputeQuote(100, "eur", promo, time.Now()); !q.Valid {
		t.Fatalf("expected valid quote for lowercase currency, got reason %q", q.Reason)
	}
}

func TestComputeQuoteValidityWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	promo := activePromo("WINDOW")
	promo.PromoCodePercentOff = f64(10)

	promo.PromoCodeStartsAt = &after
	if q := ComputeQuote(100, "USD", promo, now); q.Valid {
		t.Error("expected invalid quote before starts_at")
	}

	promo.PromoCodeStartsAt = &before
	promo.PromoCodeEndsAt = &before
	if q := ComputeQuote(100, "USD", promo, now); q.Valid {
		t.Error("expected invalid quote after ends_at")
	}

	promo.PromoCodeEndsAt = &after
	if q := ComputeQuote(100, "USD", promo, now); !q.Valid {
		t.Errorf("expected valid quote inside window, got reason %q", q.Reason)
	}
}

func TestComputeQuoteMinOrderAndUses(t *testing.T) {
	promo := activePromo("MIN50")
	promo.PromoCodePercentOff = f64(10)
	promo.PromoCodeMinOrderAmount = f64(50)

	if q := ComputeQuote(49.99, "USD", promo, time.Now()); q.Valid {
		t.Error("expected invalid quote below the minimum order")
	}
	if q := ComputeQuote(50, "USD", promo, time.Now()); !q.Valid {
		t.Errorf("expected valid quote at the minimum order, got reason %q", q.Reason)
	}

	maxUses := 3
	promo.PromoCodeMaxUses = &maxUses
	promo.PromoCodeUsesCount = 3
	if q := ComputeQuote(100, "USD", promo, time.Now()); q.Valid {
		t.Error("expected invalid quote once uses are exhausted")
	}
}

func TestComputeQuoteInactiveAndMisconfigured(t *testing.T) {
	promo := activePromo("OFF")
	promo.PromoCodeActive = false
	promo.PromoCodePercentOff = f64(10)
	if q := ComputeQuote(100, "USD", promo, time.Now()); q.Valid {
		t.Error("expected invalid quote for inactive code")
	}

	// neither percent_off nor amount_off set
	broken := activePromo("BROKEN")
	if q := ComputeQuote(100, "USD", broken, time.Now()); q.Valid {
		t.Error("expected invalid quote for a code with no discount mechanism")
	}
}

func TestComputeQuoteNilPromo(t *testing.T) {
	q := ComputeQuote(79.999, "usd", nil, time.Now())
	if !q.Valid {
		t.Fatalf("expected valid zero-discount quote, got reason %q", q.Reason)
	}
	if q.DiscountAmount != 0 {
		t.Errorf("got discount %v, want 0", q.DiscountAmount)
	}
	if q.FinalAmount != 80 {
		t.Errorf("got final %v, want 80 (rounded)", q.FinalAmount)
	}
	if q.Currency != "USD" {
		t.Errorf("got currency %q, want USD", q.Currency)
	}
}

func TestComputeQuoteRoundsAtFinalStepOnly(t *testing.T) {
	// 33.335 * 15% = 5.000250; unrounded subtraction then 2dp at the end.
	promo := activePromo("R15")
	promo.PromoCodePercentOff = f64(15)

	q := ComputeQuote(33.335, "USD", promo, time.Now())
	if !q.Valid {
		t.Fatalf("expected valid quote, got reason %q", q.Reason)
	}
	if q.DiscountAmount != 5 {
		t.Errorf("got discount %v, want 5", q.DiscountAmount)
	}
	if q.FinalAmount != 28.33 {
		t.Errorf("got final %v, want 28.33", q.FinalAmount)
	}
}

package service

import (
	"testing"

	"taibah_backend/internals/features/payment/payments/model"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		status  string
		message string
		want    string
	}{
		{"A", "Authorised", model.PaymentStatusAuthorised},
		{"A", "", model.PaymentStatusAuthorised},
		{"E", "Transaction Cancelled by user", model.PaymentStatusCancelled},
		{"E", "CANCELLED", model.PaymentStatusCancelled},
		{"E", "Session Expired", model.PaymentStatusExpired},
		{"E", "Payment page expired", model.PaymentStatusExpired},
		{"D", "Declined by bank", model.PaymentStatusFailed},
		{"E", "", model.PaymentStatusFailed},
		{"", "something unrecognized", model.PaymentStatusFailed},
	}
	for _, tc := range cases {
		if got := MapStatus(tc.status, tc.message); got != tc.want {
			t.Errorf("MapStatus(%q, %q) = %q, want %q", tc.status, tc.message, got, tc.want)
		}
	}
}

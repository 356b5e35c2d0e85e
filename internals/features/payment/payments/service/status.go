package service

import (
	"strings"

	"taibah_backend/internals/features/payment/payments/model"
)

// MapStatus translates a gateway result into one of the four terminal
// statuses. Response status "A" means authorised; everything else is
// inferred from the free-text message. The message vocabulary is not
// documented upstream, so anything unrecognized is treated as failed
// rather than left hanging.
func MapStatus(responseStatus, responseMessage string) string {
	if responseStatus == "A" {
		return model.PaymentStatusAuthorised
	}
	msg := strings.ToLower(responseMessage)
	if strings.Contains(msg, "cancel") {
		return model.PaymentStatusCancelled
	}
	if strings.Contains(msg, "expire") {
		return model.PaymentStatusExpired
	}
	return model.PaymentStatusFailed
}

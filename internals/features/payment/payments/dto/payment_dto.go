package dto

// CreatePaymentRequest starts (or re-fetches) a checkout session. The
// amount is validated here for the first call; retries are matched against
// the stored row, never against client numbers.
type CreatePaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3,alpha"`
	Description string  `json:"description" validate:"omitempty,max=200"`

	ApplicationID string `json:"application_id" validate:"omitempty,uuid"`
	PaypageLang   string `json:"paypage_lang" validate:"omitempty,oneof=en ar EN AR"`

	// Admins may open a session on behalf of a student.
	TargetUserID string `json:"target_user_id" validate:"omitempty,uuid"`
}

// QueryPaymentRequest triggers an authoritative gateway lookup. At least
// one reference must be present.
type QueryPaymentRequest struct {
	TranRef string `json:"tran_ref" validate:"omitempty,max=64"`
	CartID  string `json:"cart_id" validate:"omitempty,max=64"`
}

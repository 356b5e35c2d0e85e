package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentModel "taibah_backend/internals/features/payment/payments/model"
	"taibah_backend/internals/features/payment/promos/model"
)

var (
	// ErrPaymentNotFound covers both a missing row and another user's row;
	// the ownership read makes them indistinguishable on purpose.
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPromoConflict   = errors.New("a promo code is already applied to this payment")
	ErrPaymentClosed   = errors.New("payment is already finalised")
)

type PromoService struct {
	DB *gorm.DB
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{DB: db}
}

// FindCode looks a promo code up case-insensitively. Returns (nil, nil)
// when no such code exists.
func (s *PromoService) FindCode(ctx context.Context, code string) (*model.PromoCodeModel, error) {
	var promo model.PromoCodeModel
	err := s.DB.WithContext(ctx).
		Where("UPPER(promo_code_code) = ?", strings.ToUpper(code)).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// QuoteAmount backs the public price-preview endpoint. Never mutates state.
func (s *PromoService) QuoteAmount(ctx context.Context, amount float64, currency, rawCode string) (Quote, error) {
	if strings.TrimSpace(rawCode) == "" {
		return ComputeQuote(amount, currency, nil, time.Now()), nil
	}

	code := NormalizeCode(rawCode)
	if code == "" {
		return Quote{Valid: false, Reason: GenericInvalidReason}, nil
	}

	promo, err := s.FindCode(ctx, code)
	if err != nil {
		return Quote{}, err
	}
	if promo == nil {
		return Quote{Valid: false, Reason: GenericInvalidReason}, nil
	}
	return ComputeQuote(amount, currency, promo, time.Now()), nil
}

// Apply binds a promo code to the caller's payment exactly once. The
// discount is re-derived server-side from the stored amount; client numbers
// are never trusted. Resubmitting the already-applied code is an idempotent
// success, a different code is a conflict.
func (s *PromoService) Apply(ctx context.Context, paymentID, userID uuid.UUID, rawCode string) (Quote, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return Quote{Valid: false, Reason: GenericInvalidReason}, nil
	}

	var result Quote
	err := s.ownershipCheckedMutate(ctx, paymentID, userID, func(tx *gorm.DB, payment *paymentModel.PaymentModel) error {
		if payment.PaymentPromoCode != nil {
			if strings.EqualFold(*payment.PaymentPromoCode, code) {
				result = storedQuote(payment)
				return nil
			}
			return ErrPromoConflict
		}
		if payment.IsTerminal() {
			return ErrPaymentClosed
		}

		promo, err := s.FindCode(ctx, code)
		if err != nil {
			return err
		}
		quote := Quote{Valid: false, Reason: GenericInvalidReason}
		if promo != nil {
			quote = ComputeQuote(payment.PaymentAmount, payment.PaymentCurrency, promo, time.Now())
		}
		if !quote.Valid {
			result = quote
			return nil
		}

		// Single conditional write, scoped by id and owner and guarded so a
		// concurrent apply cannot double-discount.
		res := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_id = ? AND payment_user_id = ? AND payment_promo_code IS NULL AND payment_status IN ?",
				payment.PaymentID, userID, paymentModel.OpenStatuses).
			Updates(map[string]any{
				"payment_promo_code":      quote.Code,
				"payment_discount_amount": quote.DiscountAmount,
				"payment_original_amount": quote.OriginalAmount,
				"payment_amount":          quote.FinalAmount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race: re-read and decide between idempotent retry and
			// conflict.
			var current paymentModel.PaymentModel
			if err := tx.Where("payment_id = ? AND payment_user_id = ?", payment.PaymentID, userID).
				First(&current).Error; err != nil {
				return err
			}
			if current.PaymentPromoCode != nil && strings.EqualFold(*current.PaymentPromoCode, code) {
				result = storedQuote(&current)
				return nil
			}
			return ErrPromoConflict
		}

		result = quote
		return nil
	})
	if err != nil {
		return Quote{}, err
	}
	return result, nil
}

type RemoveResult struct {
	Removed     bool    `json:"removed"`
	FinalAmount float64 `json:"finalAmount"`
	Currency    string  `json:"currency"`
}

// Remove clears an applied code and restores the pre-discount amount.
// Idempotent when nothing is applied; refused once the payment authorised.
func (s *PromoService) Remove(ctx context.Context, paymentID, userID uuid.UUID) (RemoveResult, error) {
	var result RemoveResult
	err := s.ownershipCheckedMutate(ctx, paymentID, userID, func(tx *gorm.DB, payment *paymentModel.PaymentModel) error {
		if payment.PaymentStatus == paymentModel.PaymentStatusAuthorised {
			return ErrPaymentClosed
		}
		if payment.PaymentPromoCode == nil {
			result = RemoveResult{Removed: true, FinalAmount: payment.PaymentAmount, Currency: payment.PaymentCurrency}
			return nil
		}

		restored := payment.PaymentAmount
		if payment.PaymentOriginalAmount != nil {
			restored = *payment.PaymentOriginalAmount
		}

		res := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_id = ? AND payment_user_id = ?", payment.PaymentID, userID).
			Updates(map[string]any{
				"payment_promo_code":      nil,
				"payment_discount_amount": 0,
				"payment_original_amount": nil,
				"payment_amount":          restored,
			})
		if res.Error != nil {
			return res.Error
		}

		result = RemoveResult{Removed: true, FinalAmount: restored, Currency: payment.PaymentCurrency}
		return nil
	})
	if err != nil {
		return RemoveResult{}, err
	}
	return result, nil
}

// ownershipCheckedMutate performs the proof-then-mutate sequence in one
// place: a read scoped by (id, owner) establishes ownership, and only the
// row identified by that read is handed to the mutation. Call sites cannot
// skip the ownership check.
func (s *PromoService) ownershipCheckedMutate(ctx context.Context, paymentID, userID uuid.UUID, mutate func(tx *gorm.DB, payment *paymentModel.PaymentModel) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment paymentModel.PaymentModel
		if err := tx.Where("payment_id = ? AND payment_user_id = ?", paymentID, userID).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		return mutate(tx, &payment)
	})
}

func storedQuote(payment *paymentModel.PaymentModel) Quote {
	original := payment.PaymentAmount
	if payment.PaymentOriginalAmount != nil {
		original = *payment.PaymentOriginalAmount
	}
	code := ""
	if payment.PaymentPromoCode != nil {
		code = *payment.PaymentPromoCode
	}
	return Quote{
		Valid:          true,
		Code:           code,
		Currency:       payment.PaymentCurrency,
		OriginalAmount: original,
		DiscountAmount: payment.PaymentDiscountAmount,
		FinalAmount:    payment.PaymentAmount,
	}
}

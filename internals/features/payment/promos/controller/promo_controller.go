// 📁 controller/promo_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taibah_backend/internals/features/payment/promos/dto"
	"taibah_backend/internals/features/payment/promos/service"
	helper "taibah_backend/internals/helpers"
)

type PromoController struct {
	Service *service.PromoService
}

func NewPromoController(db *gorm.DB) *PromoController {
	return &PromoController{Service: service.NewPromoService(db)}
}

// 🟢 QUOTE: preview a discount. Always answers 200; an unusable code comes
// back as valid=false with a generic message so codes cannot be probed.
func (ctrl *PromoController) QuotePromo(c *fiber.Ctx) error {
	var body dto.QuotePromoRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	quote, err := ctrl.Service.QuoteAmount(c.UserContext(), body.Amount, body.Currency, body.PromoCode)
	if err != nil {
		log.Println("[ERROR] promo quote failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(quote)
}

// 🟢 APPLY: bind a promo to one of the caller's open payments. Re-applying
// the same code is idempotent; a different code on a discounted payment
// conflicts.
func (ctrl *PromoController) ApplyPromo(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.ApplyPromoRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	paymentID, err := uuid.Parse(body.PaymentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment_id.")
	}

	if body.Code() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(service.Quote{
			Valid: false, Reason: "Promo code is required.",
		})
	}

	quote, err := ctrl.Service.Apply(c.UserContext(), paymentID, userID, body.Code())
	if err != nil {
		return ctrl.promoError(c, err)
	}
	if !quote.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(quote)
	}

	return c.JSON(quote)
}

// 🟢 REMOVE: detach the promo and restore the original amount. Removing
// from an undiscounted payment is a no-op success.
func (ctrl *PromoController) RemovePromo(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.RemovePromoRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	paymentID, err := uuid.Parse(body.PaymentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment_id.")
	}

	result, err := ctrl.Service.Remove(c.UserContext(), paymentID, userID)
	if err != nil {
		return ctrl.promoError(c, err)
	}

	return helper.JsonOK(c, "", result)
}

func (ctrl *PromoController) promoError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Payment not found.")
	case errors.Is(err, service.ErrPromoConflict):
		return helper.JsonError(c, fiber.StatusConflict, "A different promo code is already applied.")
	case errors.Is(err, service.ErrPaymentClosed):
		return helper.JsonError(c, fiber.StatusConflict, "Payment can no longer be modified.")
	default:
		log.Println("[ERROR] promo operation failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

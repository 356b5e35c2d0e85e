// 📁 controller/payment_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taibah_backend/internals/configs"
	"taibah_backend/internals/features/payment/payments/dto"
	"taibah_backend/internals/features/payment/payments/gateway"
	"taibah_backend/internals/features/payment/payments/model"
	"taibah_backend/internals/features/payment/payments/service"
	helper "taibah_backend/internals/helpers"
)

type PaymentController struct {
	DB        *gorm.DB
	Service   *service.PaymentService
	ServerKey string
}

func NewPaymentController(db *gorm.DB, svc *service.PaymentService, serverKey string) *PaymentController {
	return &PaymentController{DB: db, Service: svc, ServerKey: serverKey}
}

// 🟢 CREATE PAYMENT: start or re-fetch the checkout session for the caller
// (or, for admins, for a target student).
func (ctrl *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var body dto.CreatePaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	callerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	targetUserID := callerID
	actingAdmin := false
	if body.TargetUserID != "" {
		requested, parseErr := uuid.Parse(body.TargetUserID)
		if parseErr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid target_user_id.")
		}
		if requested != callerID {
			isAdmin, adminErr := helper.IsAdmin(ctrl.DB, callerID)
			if adminErr != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			if !isAdmin {
				return helper.JsonError(c, fiber.StatusForbidden, "Forbidden")
			}
			targetUserID = requested
			actingAdmin = true
		}
	}

	var applicationID *uuid.UUID
	if body.ApplicationID != "" {
		parsed, parseErr := uuid.Parse(body.ApplicationID)
		if parseErr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid application_id.")
		}
		applicationID = &parsed
	}

	result, err := ctrl.Service.StartOrGetSession(c.UserContext(), service.StartSessionInput{
		UserID:        targetUserID,
		UserEmail:     helper.GetUserEmail(c),
		ApplicationID: applicationID,
		Amount:        body.Amount,
		Currency:      body.Currency,
		Description:   body.Description,
		PaypageLang:   body.PaypageLang,
		Origin:        c.BaseURL(),
		ActingAdmin:   actingAdmin,
	})
	if err != nil {
		return ctrl.paymentError(c, err)
	}

	return c.JSON(fiber.Map{
		"redirect_url": result.RedirectURL,
		"cart_id":      result.CartID,
		"tran_ref":     result.TranRef,
	})
}

// 🟢 HANDLE GATEWAY CALLBACK: verify the webhook signature over the raw
// body, map the result and apply it. Duplicate deliveries answer 200.
func (ctrl *PaymentController) HandleCallback(c *fiber.Ctx) error {
	rawBody := c.Body()

	signature := c.Get("Signature")
	if !service.VerifySignature(rawBody, signature, ctrl.ServerKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature.")
	}

	var payload struct {
		CartID        string                `json:"cart_id"`
		CartIDAlt     string                `json:"cartId"`
		TranRef       string                `json:"tran_ref"`
		TranRefAlt    string                `json:"tranRef"`
		PaymentResult gateway.PaymentResult `json:"payment_result"`
	}
	if len(rawBody) > 0 {
		if err := json.Unmarshal(rawBody, &payload); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
		}
	}

	cartID := payload.CartID
	if cartID == "" {
		cartID = payload.CartIDAlt
	}
	tranRef := payload.TranRef
	if tranRef == "" {
		tranRef = payload.TranRefAlt
	}

	status := service.MapStatus(payload.PaymentResult.ResponseStatus, payload.PaymentResult.ResponseMessage)

	if err := ctrl.Service.ApplyResult(c.UserContext(), cartID, tranRef, status, rawBody); err != nil {
		log.Println("[ERROR] callback apply failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to apply payment result.")
	}

	return c.JSON(fiber.Map{"ok": true})
}

// 🟢 QUERY PAYMENT (admin): ask the gateway for the authoritative status,
// apply it and echo the raw gateway response for the reconciliation view.
func (ctrl *PaymentController) QueryPayment(c *fiber.Ctx) error {
	var body dto.QueryPaymentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if body.TranRef == "" && body.CartID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "tran_ref or cart_id is required.")
	}

	raw, err := ctrl.Service.QueryAndApply(c.UserContext(), body.TranRef, body.CartID)
	if err != nil {
		return ctrl.paymentError(c, err)
	}

	return c.JSON(fiber.Map{"response": raw})
}

// 🟢 GET MY PAYMENTS: the caller's payment history, newest first.
func (ctrl *PaymentController) GetMyPayments(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var payments []model.PaymentModel
	if err := ctrl.DB.
		Where("payment_user_id = ?", userID).
		Order("created_at desc").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load payments.")
	}

	return helper.JsonList(c, "", payments, int64(len(payments)))
}

// 🟢 GET ALL PAYMENTS (admin): full list for reconciliation.
func (ctrl *PaymentController) GetAllPayments(c *fiber.Ctx) error {
	var payments []model.PaymentModel
	if err := ctrl.DB.Order("created_at desc").Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load payments.")
	}

	return helper.JsonList(c, "", payments, int64(len(payments)))
}

// 🟢 GET BANK ACCOUNTS: manual-transfer fallback details.
func (ctrl *PaymentController) GetBankAccounts(c *fiber.Ctx) error {
	return helper.JsonOK(c, "", fiber.Map{
		"mode":     configs.Paytabs.Mode,
		"accounts": configs.BankAccounts,
	})
}

func (ctrl *PaymentController) paymentError(c *fiber.Ctx, err error) error {
	var gatewayErr *gateway.Error
	switch {
	case errors.Is(err, service.ErrPaymentsDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payments are temporarily disabled.")
	case errors.Is(err, service.ErrInvalidInput):
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid amount or currency.")
	case errors.As(err, &gatewayErr):
		log.Printf("[ERROR] gateway failure (status %d)", gatewayErr.Status)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "PayTabs request failed.",
			"details": gatewayErr.Body,
		})
	default:
		log.Println("[ERROR] payment operation failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

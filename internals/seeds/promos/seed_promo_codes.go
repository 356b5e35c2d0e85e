package promos

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"taibah_backend/internals/features/payment/promos/model"
)

type PromoCodeSeed struct {
	Code              string   `json:"code"`
	Active            bool     `json:"active"`
	Currency          string   `json:"currency"`
	PercentOff        *float64 `json:"percent_off"`
	AmountOff         *float64 `json:"amount_off"`
	MinOrderAmount    *float64 `json:"min_order_amount"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	MaxUses           *int     `json:"max_uses"`
}

func SeedPromoCodesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading promo code seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Failed to read seed JSON: %v", err)
	}

	var inputs []PromoCodeSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Failed to decode seed JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.PromoCodeModel
		if err := db.Where("promo_code_code = ?", data.Code).First(&existing).Error; err == nil {
			log.Printf("ℹ️ Promo code '%s' already exists, skipped.", data.Code)
			continue
		}

		promo := model.PromoCodeModel{
			PromoCodeCode:              data.Code,
			PromoCodeActive:            data.Active,
			PromoCodeCurrency:          data.Currency,
			PromoCodePercentOff:        data.PercentOff,
			PromoCodeAmountOff:         data.AmountOff,
			PromoCodeMinOrderAmount:    data.MinOrderAmount,
			PromoCodeMaxDiscountAmount: data.MaxDiscountAmount,
			PromoCodeMaxUses:           data.MaxUses,
		}
		if err := db.Create(&promo).Error; err != nil {
			log.Printf("❌ Failed to seed promo code '%s': %v", data.Code, err)
			continue
		}
		log.Printf("✅ Promo code '%s' seeded.", data.Code)
	}
}

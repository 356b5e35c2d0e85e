package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// PaymentMode switches the checkout flow between the hosted PayTabs page
// and the manual bank-transfer fallback.
type PaymentMode string

const (
	PaymentModePaytabs      PaymentMode = "paytabs"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

// PaytabsConfig holds everything the gateway integration needs. It is filled
// once by LoadEnv and injected into the payment service at startup, so
// business logic never reads the environment directly.
type PaytabsConfig struct {
	BaseURL    string
	ProfileID  string
	ServerKey  string
	PaypageTTL int // minutes a hosted page stays reusable
	Mode       PaymentMode
	Disabled   bool
}

// PaytabsEnabled reports whether the gateway flow is active. The disable
// flag wins over the mode so payments can be switched off in one place.
func (c PaytabsConfig) PaytabsEnabled() bool {
	if c.Disabled {
		return false
	}
	return c.Mode == PaymentModePaytabs
}

// BankAccount is the manual-transfer fallback shown when PayTabs is off.
type BankAccount struct {
	Label         string `json:"label"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban,omitempty"`
	Swift         string `json:"swift,omitempty"`
	Note          string `json:"note,omitempty"`
}

var (
	JWTSecret    string
	PublicOrigin string
	Paytabs      PaytabsConfig

	BankAccounts = []BankAccount{
		{Label: "Bank 1", BankName: "REPLACE_ME", AccountHolder: "Fo7ha Taibah Arabic Institute", IBAN: "REPLACE_ME", Swift: "REPLACE_ME"},
		{Label: "Bank 2", BankName: "REPLACE_ME", AccountHolder: "Fo7ha Taibah Arabic Institute", IBAN: "REPLACE_ME", Swift: "REPLACE_ME"},
	}
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded!")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	PublicOrigin = GetEnv("PUBLIC_ORIGIN")

	Paytabs = PaytabsConfig{
		BaseURL:    strings.TrimRight(GetEnv("PAYTABS_BASE_URL", "https://secure.paytabs.sa"), "/"),
		ProfileID:  GetEnv("PAYTABS_PROFILE_ID"),
		ServerKey:  GetEnv("PAYTABS_SERVER_KEY"),
		PaypageTTL: resolvePaypageTTL(GetEnv("PAYTABS_TTL_MIN")),
		Mode:       resolvePaymentMode(GetEnv("PAYMENTS_MODE")),
		Disabled:   GetEnv("PAYMENTS_DISABLED") == "1",
	}

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	if Paytabs.ServerKey == "" {
		log.Println("❌ PAYTABS_SERVER_KEY is not set!")
	} else {
		log.Println("✅ PAYTABS_SERVER_KEY loaded.")
	}

	log.Printf("ℹ️ Payment mode: %s (disabled=%v, ttl=%dm)", Paytabs.Mode, Paytabs.Disabled, Paytabs.PaypageTTL)
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Default mirrors the frontend config: bank transfer is the safe mode.
func resolvePaymentMode(raw string) PaymentMode {
	if PaymentMode(strings.TrimSpace(raw)) == PaymentModePaytabs {
		return PaymentModePaytabs
	}
	return PaymentModeBankTransfer
}

func resolvePaypageTTL(raw string) int {
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 20
	}
	return n
}

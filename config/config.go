package config

import (
	"log"
	"os"
	"strconv"

	"resto-pos-api/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign staff tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "resto_pos_super_secret_2024"))

// WebhookSecret is the shared secret for processor webhook signatures.
var WebhookSecret = []byte(getEnv("WEBHOOK_SECRET", "resto_pos_webhook_secret"))

// TaxRate returns the sales tax rate as a fraction (e.g. 0.08 for 8%).
// TAX_RATE_PERCENT overrides the default of 8.
func TaxRate() decimal.Decimal {
	pct := 8.0
	if v := os.Getenv("TAX_RATE_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			pct = f
		}
	}
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
}

// SMSConfig holds Twilio settings. SMS is disabled when any field is empty.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	AlertTo    string
}

func SMS() SMSConfig {
	return SMSConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		From:       os.Getenv("TWILIO_FROM_NUMBER"),
		AlertTo:    os.Getenv("MANAGER_PHONE"),
	}
}

// InferenceConfig points at the hosted model used for menu recommendations.
type InferenceConfig struct {
	URL   string
	Token string
}

func Inference() InferenceConfig {
	return InferenceConfig{
		URL:   os.Getenv("INFERENCE_API_URL"),
		Token: os.Getenv("INFERENCE_API_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	dbPath := getEnv("DB_PATH", "resto_pos.db")

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.InventoryItem{},
		&models.Order{},
		&models.OrderLine{},
		&models.Payment{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated successfully")
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ticketinvoice/internal/invoice"
	"ticketinvoice/internal/logger"
)

// dateLayout is the ISO layout accepted in INVOICE_DATE
const dateLayout = "2006-01-02"

// addressSeparator splits SELLER_ADDRESS into lines
const addressSeparator = "|"

type Config struct {
	// Seller Configuration
	SellerName    string
	SellerAddress []string

	// Invoice Configuration
	InvoiceNumber string
	InvoiceDate   time.Time
	TaxRate       decimal.Decimal

	// File Configuration
	OutputPath string
	LogoPath   string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	defaults := invoice.DefaultSettings()

	config := &Config{
		SellerName:    getEnv("SELLER_NAME", defaults.SellerName),
		SellerAddress: splitAddress(getEnv("SELLER_ADDRESS", strings.Join(defaults.SellerAddressLines, addressSeparator))),
		InvoiceNumber: getEnv("INVOICE_NUMBER", defaults.InvoiceNumber),
		OutputPath:    getEnv("OUTPUT_PATH", defaults.OutputPath),
		LogoPath:      getEnv("LOGO_PATH", defaults.LogoPath),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	date, err := ParseDate(getEnv("INVOICE_DATE", defaults.InvoiceDate.Format(dateLayout)))
	if err != nil {
		return nil, fmt.Errorf("INVOICE_DATE: %w", err)
	}
	config.InvoiceDate = date

	rate, err := ParseTaxRate(getEnv("TAX_RATE", defaults.TaxRate.String()))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE: %w", err)
	}
	config.TaxRate = rate

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SellerName == "" {
		return fmt.Errorf("SELLER_NAME is required")
	}
	if c.InvoiceNumber == "" {
		return fmt.Errorf("INVOICE_NUMBER is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	if c.LogoPath == "" {
		return fmt.Errorf("LOGO_PATH is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetInvoiceSettings returns the printer settings from the main config
func (c *Config) GetInvoiceSettings() invoice.Settings {
	address := make([]string, len(c.SellerAddress))
	copy(address, c.SellerAddress)

	return invoice.Settings{
		SellerName:         c.SellerName,
		SellerAddressLines: address,
		InvoiceNumber:      c.InvoiceNumber,
		InvoiceDate:        c.InvoiceDate,
		TaxRate:            c.TaxRate,
		OutputPath:         c.OutputPath,
		LogoPath:           c.LogoPath,
	}
}

// ParseTaxRate accepts a fraction ("0.10") or a percentage ("10%")
func ParseTaxRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid tax rate %q: %w", s, err)
	}
	if percent {
		rate = rate.Shift(-2)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("tax rate must not be negative, got %s", rate)
	}
	return rate, nil
}

// ParseDate accepts ISO dates (2022-04-18) and printed dates (18.04.2022)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, invoice.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or DD.MM.YYYY", s)
}

func splitAddress(s string) []string {
	lines := strings.Split(s, addressSeparator)
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

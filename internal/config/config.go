package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
)

type Config struct {
	// Share links
	ShareBaseURL string `env:"SPLITBILL_SHARE_BASE_URL" envDefault:"https://splitbill.app/"`
	CopyLink     bool   `env:"SPLITBILL_COPY_LINK"      envDefault:"false"`

	// Display currency
	Currency       string `env:"SPLITBILL_CURRENCY"        envDefault:"INR"`
	CurrencySymbol string `env:"SPLITBILL_CURRENCY_SYMBOL"`

	// Wizard
	MaxParticipants int `env:"SPLITBILL_MAX_PARTICIPANTS" envDefault:"50"`

	// Logging
	LogLevel slog.Level `env:"SPLITBILL_LOG_LEVEL" envDefault:"WARN"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environ, or from the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	var err error
	if environ == nil {
		err = env.Parse(cfg)
	} else {
		err = env.ParseWithOptions(cfg, env.Options{Environment: environ})
	}
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate share base URL
	if c.ShareBaseURL == "" {
		errors = append(errors, "share base URL cannot be empty")
	} else if u, err := url.Parse(c.ShareBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid share base URL '%s': %v", c.ShareBaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid share base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid share base URL '%s': missing host", c.ShareBaseURL))
	}

	// Validate currency
	if unit, err := currency.ParseISO(c.Currency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be an ISO 4217 code", c.Currency))
	} else if scale, _ := currency.Standard.Rounding(unit); scale != minorDigits {
		errors = append(errors, fmt.Sprintf("unsupported currency '%s': has %d decimal places, amounts use %d", c.Currency, scale, minorDigits))
	}

	// Validate participant limit
	if c.MaxParticipants < 1 {
		errors = append(errors, fmt.Sprintf("invalid max participants %d: must be at least 1", c.MaxParticipants))
	} else if c.MaxParticipants > 1000 {
		errors = append(errors, fmt.Sprintf("invalid max participants %d: must be at most 1000", c.MaxParticipants))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// minorDigits matches core.MinorPerMajor: amounts are kept in hundredths.
const minorDigits = 2

// Symbol returns the display symbol for amounts: the configured override,
// otherwise the narrow symbol of the currency (₹ for INR, $ for USD).
func (c *Config) Symbol() string {
	if c.CurrencySymbol != "" {
		return c.CurrencySymbol
	}
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return c.Currency + " "
	}
	return fmt.Sprint(currency.NarrowSymbol(unit))
}

package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// CardInput is the raw card data submitted for a charge. The PAN and CVV are
// never persisted.
type CardInput struct {
	HolderName   string
	Number       string
	ExpiryMonth  int
	ExpiryYear   int
	CVV          string
	Installments int
}

// normalizedNumber strips spaces and dashes from the PAN.
func (in CardInput) normalizedNumber() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(in.Number)
}

// cardBrand infers the brand from the PAN prefix. Checkout accepts visa and
// mastercard only.
func cardBrand(number string) string {
	if strings.HasPrefix(number, "4") {
		return "visa"
	}
	if len(number) >= 2 {
		if p, err := strconv.Atoi(number[:2]); err == nil && p >= 51 && p <= 55 {
			return "mastercard"
		}
	}
	if len(number) >= 4 {
		if p, err := strconv.Atoi(number[:4]); err == nil && p >= 2221 && p <= 2720 {
			return "mastercard"
		}
	}
	return ""
}

// ValidateCard accumulates every card problem instead of stopping at the
// first one.
func ValidateCard(in CardInput, maxInstallments int, now time.Time) error {
	var details []string

	if strings.TrimSpace(in.HolderName) == "" {
		details = append(details, "holder name is required")
	}

	number := in.normalizedNumber()
	if !digitsOnly.MatchString(number) || len(number) < 13 || len(number) > 19 {
		details = append(details, "card number must have 13 to 19 digits")
	} else if cardBrand(number) == "" {
		details = append(details, "card brand is not supported")
	}

	if in.ExpiryMonth < 1 || in.ExpiryMonth > 12 {
		details = append(details, "expiry month must be between 1 and 12")
	} else {
		endOfMonth := time.Date(in.ExpiryYear, time.Month(in.ExpiryMonth)+1, 1, 0, 0, 0, 0, time.UTC)
		if !now.Before(endOfMonth) {
			details = append(details, "card is expired")
		}
	}

	if !digitsOnly.MatchString(in.CVV) || len(in.CVV) < 3 || len(in.CVV) > 4 {
		details = append(details, "cvv must have 3 or 4 digits")
	}

	if in.Installments < 1 || in.Installments > maxInstallments {
		details = append(details, "installments out of range")
	}

	if len(details) > 0 {
		return apperrors.Validation(details...)
	}
	return nil
}

// PixInput is the payer identification for a PIX charge.
type PixInput struct {
	PayerCPF  string
	PayerCNPJ string
}

// ValidatePix requires exactly one of CPF or CNPJ.
func ValidatePix(in PixInput, amount int64) error {
	var details []string

	if amount <= 0 {
		details = append(details, "amount must be positive")
	}

	hasCPF := in.PayerCPF != ""
	hasCNPJ := in.PayerCNPJ != ""
	switch {
	case hasCPF && hasCNPJ:
		details = append(details, "provide either cpf or cnpj, not both")
	case !hasCPF && !hasCNPJ:
		details = append(details, "payer cpf or cnpj is required")
	case hasCPF && (!digitsOnly.MatchString(in.PayerCPF) || len(in.PayerCPF) != 11):
		details = append(details, "cpf must have 11 digits")
	case hasCNPJ && (!digitsOnly.MatchString(in.PayerCNPJ) || len(in.PayerCNPJ) != 14):
		details = append(details, "cnpj must have 14 digits")
	}

	if len(details) > 0 {
		return apperrors.Validation(details...)
	}
	return nil
}

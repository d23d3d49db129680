package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

var now = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func validCard() CardInput {
	return CardInput{
		HolderName:   "ANA SILVA",
		Number:       "4111 1111 1111 1111",
		ExpiryMonth:  12,
		ExpiryYear:   2030,
		CVV:          "123",
		Installments: 3,
	}
}

func TestValidateCardOK(t *testing.T) {
	assert.NoError(t, ValidateCard(validCard(), 10, now))
}

func TestValidateCardAccumulatesErrors(t *testing.T) {
	in := CardInput{
		HolderName:   "",
		Number:       "abc",
		ExpiryMonth:  13,
		CVV:          "12",
		Installments: 11,
	}
	err := ValidateCard(in, 10, now)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Len(t, appErr.Details, 5)
}

func TestValidateCardExpiry(t *testing.T) {
	in := validCard()
	in.ExpiryMonth = 5
	in.ExpiryYear = 2026
	assert.ErrorIs(t, ValidateCard(in, 10, now), apperrors.ErrValidation)

	// The card is valid through the end of its expiry month.
	in.ExpiryMonth = 6
	assert.NoError(t, ValidateCard(in, 10, now))
}

func TestValidateCardBrand(t *testing.T) {
	in := validCard()
	in.Number = "371449635398431" // amex
	err := ValidateCard(in, 10, now)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, "card brand is not supported")

	in.Number = "5555555555554444"
	assert.NoError(t, ValidateCard(in, 10, now))

	// 2-series mastercard range
	in.Number = "2221000000000009"
	assert.NoError(t, ValidateCard(in, 10, now))
}

func TestValidatePixExactlyOneDocument(t *testing.T) {
	assert.NoError(t, ValidatePix(PixInput{PayerCPF: "12345678901"}, 10000))
	assert.NoError(t, ValidatePix(PixInput{PayerCNPJ: "12345678000195"}, 10000))

	err := ValidatePix(PixInput{}, 10000)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidatePix(PixInput{PayerCPF: "12345678901", PayerCNPJ: "12345678000195"}, 10000)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidatePix(PixInput{PayerCPF: "123"}, 10000)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidatePix(PixInput{PayerCNPJ: "123"}, 10000)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = ValidatePix(PixInput{PayerCPF: "12345678901"}, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMaskPAN(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskPAN("4111 1111 1111 1111"))
	assert.Equal(t, "**** **** **** 4444", MaskPAN("5555555555554444"))
	assert.Equal(t, "****", MaskPAN("12"))
}

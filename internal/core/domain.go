package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Tithe         Category = "Tithe"
	Offering      Category = "Offering"
	Donation      Category = "Donation"
	OtherCategory Category = "Other"
)

const (
	Cash        PaymentMethod = "Cash"
	Check       PaymentMethod = "Check"
	Card        PaymentMethod = "Card"
	Transfer    PaymentMethod = "Transfer"
	OtherMethod PaymentMethod = "Other"
)

const (
	BRL           Currency = "BRL"
	USD           Currency = "USD"
	EUR           Currency = "EUR"
	GBP           Currency = "GBP"
	OtherCurrency Currency = "Other"
)

type (
	Category      string
	PaymentMethod string
	Currency      string

	// Record is a single in-person contribution counted at a service.
	Record struct {
		ID                 string
		ServiceDescription string
		CountedBy          string
		DonorName          string
		Amount             Money
		Category           Category
		PaymentMethod      PaymentMethod
		CreatedAt          time.Time
	}

	Expense struct {
		ID                 string
		ServiceDescription string
		Amount             Money
		CreatedAt          time.Time
	}

	// ForeignDonation is a contribution in a non-local currency,
	// recorded at face value without conversion.
	ForeignDonation struct {
		ID            string
		DonorName     string
		Amount        Money
		Currency      Currency
		PaymentMethod PaymentMethod
		Description   string
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrEmptyService    = errors.New("empty service description")
	ErrEmptyDonor      = errors.New("empty donor name")
	ErrMissingDate     = errors.New("missing creation date")
)

// ParseCategory normalizes a category string. Legacy plural spellings
// ("Tithes", "Donations") from older entry forms map to the canonical singular.
func ParseCategory(s string) (Category, error) {
	switch strings.TrimSpace(s) {
	case "Tithe", "Tithes":
		return Tithe, nil
	case "Offering":
		return Offering, nil
	case "Donation", "Donations":
		return Donation, nil
	case "Other":
		return OtherCategory, nil
	}
	return "", ErrInvalidCategory
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.TrimSpace(s)); m {
	case Cash, Check, Card, Transfer, OtherMethod:
		return m, nil
	}
	return "", ErrInvalidMethod
}

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.TrimSpace(s)); c {
	case BRL, USD, EUR, GBP, OtherCurrency:
		return c, nil
	}
	return "", ErrInvalidCurrency
}

func (c Category) Valid() bool {
	switch c {
	case Tithe, Offering, Donation, OtherCategory:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case Cash, Check, Card, Transfer, OtherMethod:
		return true
	}
	return false
}

func (c Currency) Valid() bool {
	switch c {
	case BRL, USD, EUR, GBP, OtherCurrency:
		return true
	}
	return false
}

// When returns the creation timestamp, satisfying the Dated filter contract.
func (r Record) When() time.Time { return r.CreatedAt }

func (e Expense) When() time.Time { return e.CreatedAt }

func (d ForeignDonation) When() time.Time { return d.CreatedAt }

func (r Record) Validate() error {
	if len(strings.TrimSpace(r.ServiceDescription)) == 0 {
		return ErrEmptyService
	}
	if len(strings.TrimSpace(r.DonorName)) == 0 {
		return ErrEmptyDonor
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if !r.PaymentMethod.Valid() {
		return ErrInvalidMethod
	}
	if r.CreatedAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.ServiceDescription)) == 0 {
		return ErrEmptyService
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (d ForeignDonation) Validate() error {
	if len(strings.TrimSpace(d.DonorName)) == 0 {
		return ErrEmptyDonor
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !d.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if !d.PaymentMethod.Valid() {
		return ErrInvalidMethod
	}
	if d.CreatedAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

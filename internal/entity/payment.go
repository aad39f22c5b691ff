package entity

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodWallet   PaymentMethod = "WALLET" // Yappy and other mobile wallets
)

func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentMethodCard, PaymentMethodTransfer, PaymentMethodWallet:
		return nil
	default:
		return fmt.Errorf("%w: unknown payment method %s", ErrInvalidArgument, p)
	}
}

func (p PaymentMethod) String() string {
	return string(p)
}

// CurrencyPlaces is the precision payment lines are stored with.
const CurrencyPlaces = 2

// ValidatePaymentAmount accepts positive amounts with at most CurrencyPlaces decimals.
// Finer amounts would be rounded by the store after the allocation was planned.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalidArgument, amount)
	}

	if !amount.Equal(amount.Round(CurrencyPlaces)) {
		return fmt.Errorf("%w: payment amount %s has more than %d decimals", ErrInvalidArgument, amount, CurrencyPlaces)
	}

	return nil
}

// PaymentLine is one application of money to one invoice. Lines are never updated or deleted.
type PaymentLine struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	PaidAt        time.Time
	Method        PaymentMethod
	BillingPeriod string
	Reference     string // gateway order number or manual transfer reference
}

// CardPaymentRequest asks the gateway for a hosted payment page.
type CardPaymentRequest struct {
	ClientID    uuid.UUID
	Amount      decimal.Decimal
	Plate       string
	Description string
}

// PaymentOrder is what the gateway adapter sends out for a client.
type PaymentOrder struct {
	Number      string
	Amount      decimal.Decimal
	Plate       string
	Description string
}

type CardPayment struct {
	URL         string `json:"url"`
	OrderNumber string `json:"orderNumber"`
}

// NewOrderNumber combines a millisecond timestamp and the plate so callbacks can be told apart.
func NewOrderNumber(now time.Time, plate string) string {
	return "O-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + NormalizePlate(plate)
}

// CardCallbackCodeApproved is the only gateway result code meaning the charge went through.
const CardCallbackCodeApproved = "1"

// CardCallback holds the query parameters the gateway appends when redirecting the payer back.
type CardCallback struct {
	Code        string
	Description string
	OrderNumber string
	Plate       string
	Amount      string
}

func (c CardCallback) Approved() bool {
	return c.Code == CardCallbackCodeApproved
}

type CallbackOutcome struct {
	Approved    bool
	Warning     bool // charge approved but the settlement did not complete
	Description string
	OrderNumber string
	Plate       string
	Settlement  *Settlement
}

// ManualPayment is a bank transfer or wallet payment confirmed by an operator.
type ManualPayment struct {
	ClientID  uuid.UUID
	Plate     string
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string
}

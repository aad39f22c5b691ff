package entity

import (
	"fmt"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return nil
	default:
		return fmt.Errorf("%w: unknown invoice status %q", ErrInvalidArgument, s)
	}
}

// IsOpen reports whether the recorded status still expects money.
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartiallyPaid
}

type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type Quotation struct {
	ID     uuid.UUID     `json:"id"`
	Number string        `json:"number"`
	Items  []InvoiceItem `json:"items"`
}

type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      uuid.UUID       `json:"clientId"`
	IssuedAt      time.Time       `json:"issuedAt"`
	DueAt         time.Time       `json:"dueAt"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"recordedStatus"`
	BillingPeriod string          `json:"billingPeriod"`
	Items         []InvoiceItem   `json:"items,omitempty"`
	Quotation     *Quotation      `json:"quotation,omitempty"`
}

// Period returns the billing period the invoice covers, falling back to the issue month.
func (i Invoice) Period() string {
	if i.BillingPeriod != "" {
		return i.BillingPeriod
	}

	return i.IssuedAt.Format("2006-01")
}

// InvoiceBalance is an invoice enriched with amounts derived from its payment lines.
type InvoiceBalance struct {
	Invoice
	Paid           decimal.Decimal `json:"paid"`
	Pending        decimal.Decimal `json:"pending"`
	ComputedStatus InvoiceStatus   `json:"status"`
}

// StatusFor derives the invoice status from the paid amount.
func StatusFor(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case !total.Sub(paid).IsPositive():
		return InvoiceStatusPaid
	case paid.IsPositive():
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusPending
	}
}

// ComputeBalances sums payment lines per invoice. Recorded statuses are ignored.
func ComputeBalances(invoices []Invoice, lines []PaymentLine) []InvoiceBalance {
	paid := make(map[uuid.UUID]decimal.Decimal, len(invoices))

	for _, l := range lines {
		paid[l.InvoiceID] = paid[l.InvoiceID].Add(l.Amount)
	}

	res := make([]InvoiceBalance, 0, len(invoices))

	for _, inv := range invoices {
		p := paid[inv.ID]
		pending := decimal.Max(decimal.Zero, inv.Total.Sub(p))

		res = append(res, InvoiceBalance{
			Invoice:        inv,
			Paid:           p,
			Pending:        pending,
			ComputedStatus: StatusFor(inv.Total, p),
		})
	}

	return res
}

// Outstanding keeps invoices with a positive pending amount, newest first.
func Outstanding(balances []InvoiceBalance) ([]InvoiceBalance, decimal.Decimal) {
	res := make([]InvoiceBalance, 0, len(balances))
	total := decimal.Zero

	for _, b := range balances {
		if !b.Pending.IsPositive() {
			continue
		}

		res = append(res, b)
		total = total.Add(b.Pending)
	}

	slices.SortStableFunc(res, func(a, b InvoiceBalance) int {
		return b.IssuedAt.Compare(a.IssuedAt)
	})

	return res, total
}

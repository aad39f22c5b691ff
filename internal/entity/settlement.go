package entity

import (
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Allocation is the share of a payment applied to a single invoice.
type Allocation struct {
	InvoiceID     uuid.UUID       `json:"invoiceId"`
	IssuedAt      time.Time       `json:"issuedAt"`
	BillingPeriod string          `json:"billingPeriod"`
	PendingBefore decimal.Decimal `json:"pendingBefore"`
	Amount        decimal.Decimal `json:"amount"`
	Status        InvoiceStatus   `json:"status"`
}

// SettlementPlan is the outcome of the FIFO waterfall before anything is written.
type SettlementPlan struct {
	Allocations []Allocation
	Applied     decimal.Decimal
	Remaining   decimal.Decimal
	// LastPaidIssuedAt is the latest issue date among invoices this plan fully pays, zero if none.
	LastPaidIssuedAt time.Time
}

// PlanSettlement walks invoices oldest first and applies amount to each until the money runs out.
// Invoices with nothing pending are skipped. Whatever exceeds the total pending debt stays in Remaining
// and is not allocated anywhere.
func PlanSettlement(balances []InvoiceBalance, amount decimal.Decimal) SettlementPlan {
	ordered := slices.Clone(balances)
	slices.SortStableFunc(ordered, func(a, b InvoiceBalance) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})

	plan := SettlementPlan{
		Applied:   decimal.Zero,
		Remaining: amount,
	}

	for _, inv := range ordered {
		if !plan.Remaining.IsPositive() {
			break
		}

		pending := inv.Total.Sub(inv.Paid)
		if !pending.IsPositive() {
			continue
		}

		applied := decimal.Min(plan.Remaining, pending)

		status := InvoiceStatusPartiallyPaid
		if applied.GreaterThanOrEqual(pending) {
			status = InvoiceStatusPaid

			if inv.IssuedAt.After(plan.LastPaidIssuedAt) {
				plan.LastPaidIssuedAt = inv.IssuedAt
			}
		}

		plan.Allocations = append(plan.Allocations, Allocation{
			InvoiceID:     inv.ID,
			IssuedAt:      inv.IssuedAt,
			BillingPeriod: inv.Period(),
			PendingBefore: pending,
			Amount:        applied,
			Status:        status,
		})

		plan.Applied = plan.Applied.Add(applied)
		plan.Remaining = plan.Remaining.Sub(applied)
	}

	return plan
}

// AdvanceWatermark never moves the last-paid date backward.
func AdvanceWatermark(current *time.Time, candidate time.Time) time.Time {
	if current != nil && !candidate.After(*current) {
		return *current
	}

	return candidate
}

// SettleRequest is a single incoming payment for a client.
type SettleRequest struct {
	ClientID  uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	Plate     string
	Reference string // order number or transfer reference, kept on every payment line
}

// Settlement reports what a settlement run actually wrote.
type Settlement struct {
	ClientID         uuid.UUID       `json:"clientId"`
	Method           PaymentMethod   `json:"method"`
	Reference        string          `json:"reference,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Applied          decimal.Decimal `json:"applied"`
	Unapplied        decimal.Decimal `json:"unapplied"`
	Allocations      []Allocation    `json:"allocations"`
	LastPaidAt       *time.Time      `json:"lastPaidAt,omitempty"`
	WatermarkUpdated bool            `json:"watermarkUpdated"`
	ProcessedAt      time.Time       `json:"processedAt"`
}

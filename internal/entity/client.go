package entity

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	Address      string
	Rate         decimal.Decimal // per-unit service rate
	VehicleCount int
	LastPaidAt   *time.Time // issue date of the latest fully paid invoice
}

// ClientSummary is the part of the client exposed to the plate holder.
type ClientSummary struct {
	ID         uuid.UUID       `json:"id"`
	FullName   string          `json:"fullName"`
	Email      string          `json:"email"`
	Rate       decimal.Decimal `json:"rate"`
	LastPaidAt *time.Time      `json:"lastPaidAt,omitempty"`
}

func (c Client) Summary() ClientSummary {
	return ClientSummary{
		ID:         c.ID,
		FullName:   c.FullName,
		Email:      c.Email,
		Rate:       c.Rate,
		LastPaidAt: c.LastPaidAt,
	}
}

// BillingName splits the full name on the first space.
// Empty parts are replaced with the given fallbacks.
func (c Client) BillingName(firstFallback, lastFallback string) (first, last string) {
	parts := strings.Fields(c.FullName)
	if len(parts) == 0 {
		return firstFallback, lastFallback
	}

	first = parts[0]
	last = strings.Join(parts[1:], " ")

	if last == "" {
		last = lastFallback
	}

	return first, last
}

type User struct {
	ID       uuid.UUID
	ClientID uuid.NullUUID
}

type Vehicle struct {
	ID     uuid.UUID `json:"id"`
	Plate  string    `json:"plate"`
	Make   string    `json:"make"`
	Model  string    `json:"model"`
	Year   int       `json:"year"`
	UserID uuid.UUID `json:"-"`
}

// NormalizePlate makes plate lookups case and whitespace insensitive.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ClientView aggregates everything the portal shows for a plate.
type ClientView struct {
	Client          ClientSummary    `json:"client"`
	Vehicle         Vehicle          `json:"vehicle"`
	Vehicles        []Vehicle        `json:"vehicles"`
	TotalDebt       decimal.Decimal  `json:"totalDebt"`
	PendingInvoices []InvoiceBalance `json:"pendingInvoices"`
}

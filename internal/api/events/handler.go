package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/pkg/broker"
)

//go:generate go run go.uber.org/mock/mockgen@v0.4.0 -source=handler.go -destination=../../mocks/events.go -package=mocks

type ManualPaymentRecorder interface {
	RecordManualPayment(ctx context.Context, p entity.ManualPayment) (entity.Settlement, error)
}

type EventHandler struct {
	s ManualPaymentRecorder
}

func NewEventHandler(s ManualPaymentRecorder) *EventHandler {
	return &EventHandler{s: s}
}

// OnManualPaymentEvent is published by back office tooling once a transfer or wallet payment is verified.
type OnManualPaymentEvent struct {
	ClientID  uuid.UUID       `json:"client_id"`
	Plate     string          `json:"plate"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

func (h *EventHandler) OnManualPayment(ctx context.Context, msg kafka.Message) error {
	var event OnManualPaymentEvent

	err := json.Unmarshal(msg.Value, &event)
	if err != nil {
		return fmt.Errorf("%w: unmarshal event: %w", broker.ErrPermanent, err)
	}

	if event.Amount.LessThanOrEqual(decimal.Zero) {
		slog.WarnContext(ctx, "Manual payment event with non positive amount skipped",
			slog.String("reference", event.Reference))

		return nil
	}

	res, err := h.s.RecordManualPayment(ctx, entity.ManualPayment{
		ClientID:  event.ClientID,
		Plate:     event.Plate,
		Amount:    event.Amount,
		Method:    entity.PaymentMethod(event.Method),
		Reference: event.Reference,
	})
	if err != nil {
		err = fmt.Errorf("record manual payment %s: %w", event.Reference, err)
		if permanent(err) {
			return fmt.Errorf("%w: %w", broker.ErrPermanent, err)
		}

		return err
	}

	slog.InfoContext(ctx, fmt.Sprintf("Manual payment %s applied %s of %s",
		event.Reference, res.Applied, event.Amount))

	return nil
}

// permanent reports failures a redelivery cannot fix. A partial settlement already wrote some
// invoices, so running it again would apply the same money twice.
func permanent(err error) bool {
	return errors.Is(err, entity.ErrInvalidArgument) ||
		errors.Is(err, entity.ErrPlateNotFound) ||
		errors.Is(err, entity.ErrAccountNotLinked) ||
		errors.Is(err, entity.ErrClientNotFound) ||
		errors.Is(err, entity.ErrSettlementPartial)
}

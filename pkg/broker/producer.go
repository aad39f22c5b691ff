package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/diacor/portal/internal/entity"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	l                   *slog.Logger
	w                   writer
	paymentSettledTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:                   l,
		w:                   w,
		paymentSettledTopic: topic,
	}
}

type PaymentSettledEvent struct {
	ClientID    uuid.UUID             `json:"client_id"`
	Method      string                `json:"method"`
	Reference   string                `json:"reference,omitempty"`
	Amount      decimal.Decimal       `json:"amount"`
	Applied     decimal.Decimal       `json:"applied"`
	Unapplied   decimal.Decimal       `json:"unapplied"`
	Allocations []SettledInvoiceEvent `json:"allocations"`
	LastPaidAt  *time.Time            `json:"last_paid_at,omitempty"`
	ProcessedAt time.Time             `json:"processed_at"`
}

type SettledInvoiceEvent struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// SendPaymentSettled publishes the result of a settlement run, keyed by client so runs of one client stay ordered.
func (p *Producer) SendPaymentSettled(ctx context.Context, s entity.Settlement) {
	event := PaymentSettledEvent{
		ClientID:    s.ClientID,
		Method:      s.Method.String(),
		Reference:   s.Reference,
		Amount:      s.Amount,
		Applied:     s.Applied,
		Unapplied:   s.Unapplied,
		Allocations: make([]SettledInvoiceEvent, 0, len(s.Allocations)),
		LastPaidAt:  s.LastPaidAt,
		ProcessedAt: s.ProcessedAt,
	}

	for _, a := range s.Allocations {
		event.Allocations = append(event.Allocations, SettledInvoiceEvent{
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount,
			Status:    a.Status.String(),
		})
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.ClientID.String()),
		Value: b,
		Topic: p.paymentSettledTopic,
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen@v0.4.0 -source=service.go -destination=../mocks/service.go -package=mocks

type Repository interface {
	VehicleByPlate(ctx context.Context, plate string) (entity.Vehicle, error)
	User(ctx context.Context, id uuid.UUID) (entity.User, error)
	Client(ctx context.Context, id uuid.UUID) (entity.Client, error)
	ClientUserIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	VehiclesByUsers(ctx context.Context, userIDs []uuid.UUID) ([]entity.Vehicle, error)
	ClientInvoices(ctx context.Context, clientID uuid.UUID) ([]entity.Invoice, error)
	OpenInvoices(ctx context.Context, clientID uuid.UUID) ([]entity.Invoice, error)
	ClientPaymentLines(ctx context.Context, clientID uuid.UUID) ([]entity.PaymentLine, error)
	ApplyPayment(ctx context.Context, line entity.PaymentLine, status entity.InvoiceStatus, updatedAt time.Time) error
	AdvanceLastPaid(ctx context.Context, clientID uuid.UUID, paidAt time.Time) (time.Time, error)
	LockClient(ctx context.Context, clientID uuid.UUID) (func(), error)
	InvoicePaidTotals(ctx context.Context) ([]entity.InvoiceBalance, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status entity.InvoiceStatus, updatedAt time.Time) error
}

type Gateway interface {
	CreatePayment(ctx context.Context, client entity.Client, order entity.PaymentOrder) (entity.CardPayment, error)
}

type Producer interface {
	SendPaymentSettled(ctx context.Context, settlement entity.Settlement)
}

type Notifier interface {
	SendPaymentReceipt(ctx context.Context, client entity.Client, settlement entity.Settlement) error
}

type Service struct {
	repo     Repository
	gateway  Gateway
	producer Producer
	notifier Notifier
}

func New(repo Repository, gateway Gateway, producer Producer, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		producer: producer,
		notifier: notifier,
	}
}

// ClientByPlate builds the read-only portal view for a plate.
// Invoice amounts and statuses are always recomputed from payment lines.
func (s *Service) ClientByPlate(ctx context.Context, plate string) (entity.ClientView, error) {
	vehicle, client, err := s.resolvePlate(ctx, plate)
	if err != nil {
		return entity.ClientView{}, err
	}

	ctx = logger.WithClientID(ctx, client.ID)

	var (
		invoices []entity.Invoice
		lines    []entity.PaymentLine
		vehicles []entity.Vehicle
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		invoices, err = s.repo.ClientInvoices(gCtx, client.ID)
		if err != nil {
			return fmt.Errorf("get client invoices: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		lines, err = s.repo.ClientPaymentLines(gCtx, client.ID)
		if err != nil {
			return fmt.Errorf("get client payment lines: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		userIDs, err := s.repo.ClientUserIDs(gCtx, client.ID)
		if err != nil {
			return fmt.Errorf("get client users: %w", err)
		}

		vehicles, err = s.repo.VehiclesByUsers(gCtx, userIDs)
		if err != nil {
			return fmt.Errorf("get client vehicles: %w", err)
		}

		return nil
	})

	err = g.Wait()
	if err != nil {
		return entity.ClientView{}, err
	}

	pending, debt := entity.Outstanding(entity.ComputeBalances(invoices, lines))

	if len(vehicles) == 0 {
		// The plate itself resolved to this client, so its owner must be among the client's users.
		slog.WarnContext(ctx, "Client has no vehicles although a plate resolved to it",
			slog.String("vehicle", vehicle.ID.String()),
			slog.String("user", vehicle.UserID.String()))

		vehicles = []entity.Vehicle{}
	}

	return entity.ClientView{
		Client:          client.Summary(),
		Vehicle:         vehicle,
		Vehicles:        vehicles,
		TotalDebt:       debt,
		PendingInvoices: pending,
	}, nil
}

// Settle applies one payment to the client's open invoices, oldest first.
//
// Runs for the same client are serialized. Every invoice is written in its own transaction, so a failure
// in the middle of the walk returns the allocations already stored together with ErrSettlementPartial.
// Money beyond the total pending debt is reported as unapplied and not stored anywhere.
func (s *Service) Settle(ctx context.Context, req entity.SettleRequest) (entity.Settlement, error) {
	err := entity.ValidatePaymentAmount(req.Amount)
	if err != nil {
		return entity.Settlement{}, err
	}

	err = req.Method.Validate()
	if err != nil {
		return entity.Settlement{}, err
	}

	ctx = logger.WithClientID(ctx, req.ClientID)

	unlock, err := s.repo.LockClient(ctx, req.ClientID)
	if err != nil {
		return entity.Settlement{}, fmt.Errorf("lock client %s: %w", req.ClientID, err)
	}

	defer unlock()

	invoices, err := s.repo.OpenInvoices(ctx, req.ClientID)
	if err != nil {
		return entity.Settlement{}, fmt.Errorf("get open invoices: %w", err)
	}

	lines, err := s.repo.ClientPaymentLines(ctx, req.ClientID)
	if err != nil {
		return entity.Settlement{}, fmt.Errorf("get payment lines: %w", err)
	}

	plan := entity.PlanSettlement(entity.ComputeBalances(invoices, lines), req.Amount)

	now := time.Now()
	paidAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	res := entity.Settlement{
		ClientID:    req.ClientID,
		Method:      req.Method,
		Reference:   req.Reference,
		Amount:      req.Amount,
		Applied:     decimal.Zero,
		Unapplied:   req.Amount,
		Allocations: make([]entity.Allocation, 0, len(plan.Allocations)),
		ProcessedAt: now,
	}

	var (
		lastPaid time.Time
		walkErr  error
	)

	for i, a := range plan.Allocations {
		line := entity.PaymentLine{
			ID:            uuid.Must(uuid.NewV4()),
			ClientID:      req.ClientID,
			InvoiceID:     a.InvoiceID,
			Amount:        a.Amount,
			PaidAt:        paidAt,
			Method:        req.Method,
			BillingPeriod: a.BillingPeriod,
			Reference:     req.Reference,
		}

		err = s.repo.ApplyPayment(ctx, line, a.Status, now)
		if err != nil {
			walkErr = fmt.Errorf("apply payment to invoice %s: %w", a.InvoiceID, err)
			if i > 0 {
				walkErr = fmt.Errorf("%w: %d of %d invoices written: %w",
					entity.ErrSettlementPartial, i, len(plan.Allocations), walkErr)
			}

			break
		}

		res.Allocations = append(res.Allocations, a)
		res.Applied = res.Applied.Add(a.Amount)
		res.Unapplied = res.Unapplied.Sub(a.Amount)

		if a.Status == entity.InvoiceStatusPaid && a.IssuedAt.After(lastPaid) {
			lastPaid = a.IssuedAt
		}
	}

	if !lastPaid.IsZero() {
		stored, err := s.repo.AdvanceLastPaid(ctx, req.ClientID, lastPaid)
		if err != nil {
			// Invoices stay paid, the watermark catches up on the next fully paid invoice.
			slog.ErrorContext(ctx, "Update last paid date failed",
				slog.String("candidate", lastPaid.Format(time.DateOnly)),
				slog.String("error", err.Error()))
		} else {
			res.LastPaidAt = &stored
			res.WatermarkUpdated = true
		}
	}

	if res.Applied.IsPositive() {
		s.afterSettlement(ctx, res)
	}

	if walkErr != nil {
		return res, walkErr
	}

	slog.InfoContext(ctx, fmt.Sprintf("Payment %s of %s applied to %d invoices, %s unapplied",
		req.Method, req.Amount, len(res.Allocations), res.Unapplied),
		slog.String("reference", req.Reference))

	return res, nil
}

func (s *Service) afterSettlement(ctx context.Context, res entity.Settlement) {
	s.producer.SendPaymentSettled(ctx, res)

	client, err := s.repo.Client(ctx, res.ClientID)
	if err != nil {
		slog.WarnContext(ctx, "Receipt not sent, client not loaded", slog.String("error", err.Error()))
		return
	}

	err = s.notifier.SendPaymentReceipt(ctx, client, res)
	if err != nil {
		slog.WarnContext(ctx, "Send payment receipt failed", slog.String("error", err.Error()))
	}
}

// CreateCardPayment opens a hosted payment page for the client.
func (s *Service) CreateCardPayment(ctx context.Context, req entity.CardPaymentRequest) (entity.CardPayment, error) {
	amount := req.Amount.Round(entity.CurrencyPlaces)

	err := entity.ValidatePaymentAmount(amount)
	if err != nil {
		return entity.CardPayment{}, err
	}

	ctx = logger.WithClientID(ctx, req.ClientID)

	client, err := s.repo.Client(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.CardPayment{}, fmt.Errorf("client %s: %w", req.ClientID, entity.ErrClientNotFound)
		}

		return entity.CardPayment{}, fmt.Errorf("get client %s: %w", req.ClientID, err)
	}

	order := entity.PaymentOrder{
		Number:      entity.NewOrderNumber(time.Now(), req.Plate),
		Amount:      amount,
		Plate:       entity.NormalizePlate(req.Plate),
		Description: req.Description,
	}

	payment, err := s.gateway.CreatePayment(ctx, client, order)
	if err != nil {
		return entity.CardPayment{}, fmt.Errorf("create card payment %s: %w", order.Number, err)
	}

	slog.InfoContext(ctx, fmt.Sprintf("Card payment %s created for %s", order.Number, order.Amount))

	return payment, nil
}

// CardPaymentCallback handles the payer being redirected back from the gateway.
// A declined charge never reaches the settlement engine. An approved charge is always reported as approved,
// settlement problems only raise the warning flag.
func (s *Service) CardPaymentCallback(ctx context.Context, cb entity.CardCallback) entity.CallbackOutcome {
	out := entity.CallbackOutcome{
		Approved:    cb.Approved(),
		Description: cb.Description,
		OrderNumber: cb.OrderNumber,
		Plate:       entity.NormalizePlate(cb.Plate),
	}

	ctx = logger.WithPlate(ctx, out.Plate)

	if !out.Approved {
		slog.InfoContext(ctx, "Card payment declined",
			slog.String("code", cb.Code),
			slog.String("description", cb.Description),
			slog.String("order", cb.OrderNumber))

		return out
	}

	amount, err := decimal.NewFromString(cb.Amount)
	if err == nil {
		err = entity.ValidatePaymentAmount(amount)
	}

	if err != nil {
		slog.ErrorContext(ctx, "Approved card payment has unreadable amount",
			slog.String("order", cb.OrderNumber),
			slog.String("amount", cb.Amount),
			slog.String("error", err.Error()))

		out.Warning = true

		return out
	}

	_, client, err := s.resolvePlate(ctx, out.Plate)
	if err != nil {
		slog.ErrorContext(ctx, "Approved card payment for unresolved plate",
			slog.String("order", cb.OrderNumber),
			slog.String("error", err.Error()))

		out.Warning = true

		return out
	}

	settlement, err := s.Settle(ctx, entity.SettleRequest{
		ClientID:  client.ID,
		Amount:    amount,
		Method:    entity.PaymentMethodCard,
		Plate:     out.Plate,
		Reference: cb.OrderNumber,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Settlement of approved card payment failed",
			slog.String("order", cb.OrderNumber),
			slog.String("amount", amount.String()),
			slog.String("error", err.Error()))

		out.Warning = true
	}

	if len(settlement.Allocations) > 0 || err == nil {
		out.Settlement = &settlement
	}

	return out
}

// RecordManualPayment settles a bank transfer or wallet payment confirmed by an operator.
// The client is taken from ClientID when set, otherwise resolved from the plate.
func (s *Service) RecordManualPayment(ctx context.Context, p entity.ManualPayment) (entity.Settlement, error) {
	if p.Method == entity.PaymentMethodCard {
		return entity.Settlement{}, fmt.Errorf("%w: card payments are settled by the gateway callback",
			entity.ErrInvalidArgument)
	}

	err := p.Method.Validate()
	if err != nil {
		return entity.Settlement{}, err
	}

	clientID := p.ClientID

	switch {
	case clientID != uuid.Nil:
		_, err = s.repo.Client(ctx, clientID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return entity.Settlement{}, fmt.Errorf("client %s: %w", clientID, entity.ErrClientNotFound)
			}

			return entity.Settlement{}, fmt.Errorf("get client %s: %w", clientID, err)
		}
	case p.Plate != "":
		_, client, err := s.resolvePlate(ctx, p.Plate)
		if err != nil {
			return entity.Settlement{}, err
		}

		clientID = client.ID
	default:
		return entity.Settlement{}, fmt.Errorf("%w: client id or plate is required", entity.ErrInvalidArgument)
	}

	return s.Settle(ctx, entity.SettleRequest{
		ClientID:  clientID,
		Amount:    p.Amount,
		Method:    p.Method,
		Plate:     entity.NormalizePlate(p.Plate),
		Reference: p.Reference,
	})
}

// SyncInvoiceStatuses rewrites recorded statuses that disagree with the payment lines.
func (s *Service) SyncInvoiceStatuses(ctx context.Context) error {
	balances, err := s.repo.InvoicePaidTotals(ctx)
	if err != nil {
		return fmt.Errorf("get invoice paid totals: %w", err)
	}

	var fixed int

	now := time.Now()

	for _, b := range balances {
		if b.Status == b.ComputedStatus {
			continue
		}

		err = s.repo.UpdateInvoiceStatus(ctx, b.ID, b.ComputedStatus, now)
		if err != nil {
			return fmt.Errorf("update invoice %s status to %s: %w", b.ID, b.ComputedStatus, err)
		}

		slog.InfoContext(logger.WithClientID(ctx, b.ClientID), "Invoice status repaired",
			slog.String("invoice", b.ID.String()),
			slog.String("from", b.Status.String()),
			slog.String("to", b.ComputedStatus.String()))

		fixed++
	}

	if fixed > 0 {
		slog.InfoContext(ctx, fmt.Sprintf("Repaired %d of %d invoice statuses", fixed, len(balances)))
	}

	return nil
}

// resolvePlate follows plate -> vehicle -> user -> client.
func (s *Service) resolvePlate(ctx context.Context, plate string) (entity.Vehicle, entity.Client, error) {
	plate = entity.NormalizePlate(plate)
	if plate == "" {
		return entity.Vehicle{}, entity.Client{}, entity.ErrPlateNotFound
	}

	vehicle, err := s.repo.VehicleByPlate(ctx, plate)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Vehicle{}, entity.Client{}, fmt.Errorf("plate %s: %w", plate, entity.ErrPlateNotFound)
		}

		return entity.Vehicle{}, entity.Client{}, fmt.Errorf("get vehicle by plate %s: %w", plate, err)
	}

	user, err := s.repo.User(ctx, vehicle.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Vehicle{}, entity.Client{}, fmt.Errorf("plate %s: %w", plate, entity.ErrAccountNotLinked)
		}

		return entity.Vehicle{}, entity.Client{}, fmt.Errorf("get user %s: %w", vehicle.UserID, err)
	}

	if !user.ClientID.Valid {
		return entity.Vehicle{}, entity.Client{}, fmt.Errorf("user %s: %w", user.ID, entity.ErrAccountNotLinked)
	}

	client, err := s.repo.Client(ctx, user.ClientID.UUID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Vehicle{}, entity.Client{}, fmt.Errorf("user %s: %w", user.ID, entity.ErrAccountNotLinked)
		}

		return entity.Vehicle{}, entity.Client{}, fmt.Errorf("get client %s: %w", user.ClientID.UUID, err)
	}

	return vehicle, client, nil
}

package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/internal/mocks"
	"github.com/diacor/portal/internal/service"
)

var errDB = errors.New("connection reset")

type deps struct {
	repo     *mocks.MockRepository
	gateway  *mocks.MockGateway
	producer *mocks.MockProducer
	notifier *mocks.MockNotifier
	svc      *service.Service
}

func newDeps(t *testing.T) deps {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		repo:     mocks.NewMockRepository(ctrl),
		gateway:  mocks.NewMockGateway(ctrl),
		producer: mocks.NewMockProducer(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}

	d.svc = service.New(d.repo, d.gateway, d.producer, d.notifier)

	return d
}

func date(month time.Month) time.Time {
	return time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC)
}

func invoice(clientID uuid.UUID, issuedAt time.Time, total string) entity.Invoice {
	return entity.Invoice{
		ID:       uuid.Must(uuid.NewV4()),
		ClientID: clientID,
		IssuedAt: issuedAt,
		DueAt:    issuedAt.AddDate(0, 1, 0),
		Total:    decimal.RequireFromString(total),
		Status:   entity.InvoiceStatusPending,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// expectLock expects one settlement run for the client and checks that the lock is released.
func (d deps) expectLock(t *testing.T, clientID uuid.UUID) {
	t.Helper()

	var locked bool

	d.repo.EXPECT().LockClient(gomock.Any(), clientID).DoAndReturn(func(context.Context, uuid.UUID) (func(), error) {
		locked = true
		return func() { locked = false }, nil
	})

	t.Cleanup(func() {
		require.False(t, locked, "client lock was not released")
	})
}

func (d deps) expectNotifications(client entity.Client) {
	d.producer.EXPECT().SendPaymentSettled(gomock.Any(), gomock.Any())
	d.repo.EXPECT().Client(gomock.Any(), client.ID).Return(client, nil)
	d.notifier.EXPECT().SendPaymentReceipt(gomock.Any(), client, gomock.Any()).Return(nil)
}

func TestService_Settle_FIFO(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4()), FullName: "Ana Lopez"}

	inv1 := invoice(client.ID, date(time.January), "10")
	inv2 := invoice(client.ID, date(time.February), "20")
	inv3 := invoice(client.ID, date(time.March), "30")

	d.expectLock(t, client.ID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), client.ID).Return([]entity.Invoice{inv1, inv2, inv3}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), client.ID).Return(nil, nil)

	var written []entity.PaymentLine

	d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, line entity.PaymentLine, status entity.InvoiceStatus, _ time.Time) error {
			written = append(written, line)

			switch line.InvoiceID {
			case inv1.ID:
				require.Equal(t, entity.InvoiceStatusPaid, status)
			case inv2.ID:
				require.Equal(t, entity.InvoiceStatusPartiallyPaid, status)
			default:
				t.Errorf("unexpected invoice %s", line.InvoiceID)
			}

			return nil
		}).Times(2)

	d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), client.ID, inv1.IssuedAt).Return(inv1.IssuedAt, nil)
	d.expectNotifications(client)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID:  client.ID,
		Amount:    dec("25"),
		Method:    entity.PaymentMethodCard,
		Reference: "O-1-ABC123",
	})
	require.NoError(t, err)

	require.Len(t, written, 2)
	require.Equal(t, inv1.ID, written[0].InvoiceID)
	require.True(t, dec("10").Equal(written[0].Amount))
	require.Equal(t, inv2.ID, written[1].InvoiceID)
	require.True(t, dec("15").Equal(written[1].Amount))

	for _, l := range written {
		require.Equal(t, entity.PaymentMethodCard, l.Method)
		require.Equal(t, "O-1-ABC123", l.Reference)
		require.Equal(t, client.ID, l.ClientID)
	}

	require.Equal(t, "2025-01", written[0].BillingPeriod)
	require.True(t, dec("25").Equal(res.Applied))
	require.True(t, res.Unapplied.IsZero())
	require.True(t, res.WatermarkUpdated)
	require.Equal(t, inv1.IssuedAt, *res.LastPaidAt)
}

func TestService_Settle_RecomputesFromPaymentLines(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4())}

	// Recorded as pending although fully covered by lines written elsewhere.
	settled := invoice(client.ID, date(time.January), "10")
	open := invoice(client.ID, date(time.February), "20")

	lines := []entity.PaymentLine{
		{InvoiceID: settled.ID, Amount: dec("10")},
		{InvoiceID: open.ID, Amount: dec("5")},
	}

	d.expectLock(t, client.ID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), client.ID).Return([]entity.Invoice{settled, open}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), client.ID).Return(lines, nil)
	d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).
		DoAndReturn(func(_ context.Context, line entity.PaymentLine, _ entity.InvoiceStatus, _ time.Time) error {
			require.Equal(t, open.ID, line.InvoiceID)
			require.True(t, dec("15").Equal(line.Amount))

			return nil
		})
	d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), client.ID, open.IssuedAt).Return(open.IssuedAt, nil)
	d.expectNotifications(client)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: client.ID,
		Amount:   dec("100"),
		Method:   entity.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	require.True(t, dec("15").Equal(res.Applied))
	require.True(t, dec("85").Equal(res.Unapplied))
}

func TestService_Settle_InvalidRequest(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		amount string
		method entity.PaymentMethod
	}{
		{name: "zero amount", amount: "0", method: entity.PaymentMethodCard},
		{name: "negative amount", amount: "-5", method: entity.PaymentMethodCard},
		{name: "unknown method", amount: "5", method: "CASH"},
		{name: "sub-cent amount", amount: "9.999", method: entity.PaymentMethodCard},
		{name: "sub-cent manual amount", amount: "0.005", method: entity.PaymentMethodTransfer},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)

			_, err := d.svc.Settle(context.Background(), entity.SettleRequest{
				ClientID: uuid.Must(uuid.NewV4()),
				Amount:   dec(tt.amount),
				Method:   tt.method,
			})
			require.ErrorIs(t, err, entity.ErrInvalidArgument)
		})
	}
}

func TestService_Settle_SubCentAmountWritesNothing(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	clientID := uuid.Must(uuid.NewV4())

	// No lock, no reads and no writes are expected: 9.999 would be stored as 10.00
	// on an invoice planned as partially paid.
	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID:  clientID,
		Amount:    dec("9.999"),
		Method:    entity.PaymentMethodCard,
		Reference: "O-1-ABC123",
	})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
	require.Empty(t, res.Allocations)
	require.False(t, res.WatermarkUpdated)
}

func TestService_Settle_TwoDecimalAmountPaysInvoice(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4())}
	inv := invoice(client.ID, date(time.April), "10.00")

	d.expectLock(t, client.ID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), client.ID).Return([]entity.Invoice{inv}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), client.ID).Return(nil, nil)
	d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).
		DoAndReturn(func(_ context.Context, line entity.PaymentLine, _ entity.InvoiceStatus, _ time.Time) error {
			require.Equal(t, "10.00", line.Amount.StringFixed(2))
			require.True(t, line.Amount.Equal(line.Amount.Round(entity.CurrencyPlaces)))

			return nil
		})
	d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), client.ID, inv.IssuedAt).Return(inv.IssuedAt, nil)
	d.expectNotifications(client)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: client.ID,
		Amount:   dec("10.00"),
		Method:   entity.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.True(t, res.WatermarkUpdated)
	require.Equal(t, entity.InvoiceStatusPaid, res.Allocations[0].Status)
}

func TestService_Settle_PartialFailure(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4())}

	inv1 := invoice(client.ID, date(time.January), "10")
	inv2 := invoice(client.ID, date(time.February), "20")

	d.expectLock(t, client.ID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), client.ID).Return([]entity.Invoice{inv1, inv2}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), client.ID).Return(nil, nil)

	gomock.InOrder(
		d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).Return(nil),
		d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).Return(errDB),
	)

	// The first invoice is paid for good, so the watermark still moves.
	d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), client.ID, inv1.IssuedAt).Return(inv1.IssuedAt, nil)
	d.expectNotifications(client)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: client.ID,
		Amount:   dec("30"),
		Method:   entity.PaymentMethodCard,
	})
	require.ErrorIs(t, err, entity.ErrSettlementPartial)
	require.ErrorIs(t, err, errDB)
	require.Len(t, res.Allocations, 1)
	require.True(t, dec("10").Equal(res.Applied))
	require.True(t, dec("20").Equal(res.Unapplied))
}

func TestService_Settle_FirstWriteFails(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	clientID := uuid.Must(uuid.NewV4())

	d.expectLock(t, clientID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), clientID).
		Return([]entity.Invoice{invoice(clientID, date(time.January), "10")}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), clientID).Return(nil, nil)
	d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errDB)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: clientID,
		Amount:   dec("10"),
		Method:   entity.PaymentMethodCard,
	})
	require.ErrorIs(t, err, errDB)
	require.NotErrorIs(t, err, entity.ErrSettlementPartial)
	require.Empty(t, res.Allocations)
}

func TestService_Settle_WatermarkFailureKeepsPayment(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4())}
	inv := invoice(client.ID, date(time.April), "50")

	d.expectLock(t, client.ID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), client.ID).Return([]entity.Invoice{inv}, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), client.ID).Return(nil, nil)
	d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).Return(nil)
	d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), client.ID, inv.IssuedAt).Return(time.Time{}, errDB)
	d.expectNotifications(client)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: client.ID,
		Amount:   dec("50"),
		Method:   entity.PaymentMethodWallet,
	})
	require.NoError(t, err)
	require.False(t, res.WatermarkUpdated)
	require.Nil(t, res.LastPaidAt)
	require.Len(t, res.Allocations, 1)
}

func TestService_Settle_NoOpenInvoices(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	clientID := uuid.Must(uuid.NewV4())

	d.expectLock(t, clientID)
	d.repo.EXPECT().OpenInvoices(gomock.Any(), clientID).Return(nil, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), clientID).Return(nil, nil)

	res, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: clientID,
		Amount:   dec("12.50"),
		Method:   entity.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	require.Empty(t, res.Allocations)
	require.True(t, dec("12.50").Equal(res.Unapplied))
}

func TestService_Settle_LockFailure(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	clientID := uuid.Must(uuid.NewV4())

	d.repo.EXPECT().LockClient(gomock.Any(), clientID).Return(nil, errDB)

	_, err := d.svc.Settle(context.Background(), entity.SettleRequest{
		ClientID: clientID,
		Amount:   dec("1"),
		Method:   entity.PaymentMethodCard,
	})
	require.ErrorIs(t, err, errDB)
}

type plateChain struct {
	vehicle entity.Vehicle
	user    entity.User
	client  entity.Client
}

func newPlateChain(plate string) plateChain {
	clientID := uuid.Must(uuid.NewV4())
	userID := uuid.Must(uuid.NewV4())

	return plateChain{
		vehicle: entity.Vehicle{ID: uuid.Must(uuid.NewV4()), Plate: plate, UserID: userID},
		user:    entity.User{ID: userID, ClientID: uuid.NullUUID{UUID: clientID, Valid: true}},
		client:  entity.Client{ID: clientID, FullName: "Ana Lopez", Rate: dec("12.50")},
	}
}

func (d deps) expectPlate(c plateChain) {
	d.repo.EXPECT().VehicleByPlate(gomock.Any(), c.vehicle.Plate).Return(c.vehicle, nil)
	d.repo.EXPECT().User(gomock.Any(), c.user.ID).Return(c.user, nil)
	d.repo.EXPECT().Client(gomock.Any(), c.client.ID).Return(c.client, nil)
}

func TestService_ClientByPlate(t *testing.T) {
	t.Parallel()

	for _, plate := range []string{" abc123 ", "ABC123", "abc123"} {
		t.Run(plate, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			chain := newPlateChain("ABC123")
			secondUser := uuid.Must(uuid.NewV4())

			paid := invoice(chain.client.ID, date(time.January), "10")
			partial := invoice(chain.client.ID, date(time.February), "20")
			partial.Status = entity.InvoiceStatusPaid // stale recorded status
			pending := invoice(chain.client.ID, date(time.March), "30")

			lines := []entity.PaymentLine{
				{InvoiceID: paid.ID, Amount: dec("10")},
				{InvoiceID: partial.ID, Amount: dec("5")},
			}

			other := entity.Vehicle{ID: uuid.Must(uuid.NewV4()), Plate: "XYZ789", UserID: secondUser}

			d.expectPlate(chain)
			d.repo.EXPECT().ClientInvoices(gomock.Any(), chain.client.ID).Return([]entity.Invoice{pending, partial, paid}, nil)
			d.repo.EXPECT().ClientPaymentLines(gomock.Any(), chain.client.ID).Return(lines, nil)
			d.repo.EXPECT().ClientUserIDs(gomock.Any(), chain.client.ID).Return([]uuid.UUID{chain.user.ID, secondUser}, nil)
			d.repo.EXPECT().VehiclesByUsers(gomock.Any(), []uuid.UUID{chain.user.ID, secondUser}).
				Return([]entity.Vehicle{chain.vehicle, other}, nil)

			view, err := d.svc.ClientByPlate(context.Background(), plate)
			require.NoError(t, err)

			require.Equal(t, chain.client.ID, view.Client.ID)
			require.Equal(t, chain.vehicle, view.Vehicle)
			require.Len(t, view.Vehicles, 2)
			require.True(t, dec("45").Equal(view.TotalDebt))

			require.Len(t, view.PendingInvoices, 2)
			require.Equal(t, pending.ID, view.PendingInvoices[0].ID)
			require.Equal(t, entity.InvoiceStatusPending, view.PendingInvoices[0].ComputedStatus)
			require.Equal(t, partial.ID, view.PendingInvoices[1].ID)
			require.Equal(t, entity.InvoiceStatusPartiallyPaid, view.PendingInvoices[1].ComputedStatus)
			require.True(t, dec("15").Equal(view.PendingInvoices[1].Pending))
		})
	}
}

func TestService_ClientByPlate_NoVehiclesNotPatched(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	chain := newPlateChain("ABC123")

	d.expectPlate(chain)
	d.repo.EXPECT().ClientInvoices(gomock.Any(), chain.client.ID).Return(nil, nil)
	d.repo.EXPECT().ClientPaymentLines(gomock.Any(), chain.client.ID).Return(nil, nil)
	d.repo.EXPECT().ClientUserIDs(gomock.Any(), chain.client.ID).Return(nil, nil)
	d.repo.EXPECT().VehiclesByUsers(gomock.Any(), gomock.Any()).Return(nil, nil)

	view, err := d.svc.ClientByPlate(context.Background(), "ABC123")
	require.NoError(t, err)

	require.Equal(t, chain.vehicle, view.Vehicle)
	require.NotNil(t, view.Vehicles)
	require.Empty(t, view.Vehicles)
	require.True(t, view.TotalDebt.IsZero())
}

func TestService_ClientByPlate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown plate", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.repo.EXPECT().VehicleByPlate(gomock.Any(), "NOPE1").Return(entity.Vehicle{}, entity.ErrNotFound)

		_, err := d.svc.ClientByPlate(context.Background(), "nope1")
		require.ErrorIs(t, err, entity.ErrPlateNotFound)
	})

	t.Run("blank plate", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		_, err := d.svc.ClientByPlate(context.Background(), "   ")
		require.ErrorIs(t, err, entity.ErrPlateNotFound)
	})

	t.Run("user without client", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		chain := newPlateChain("ABC123")
		chain.user.ClientID = uuid.NullUUID{}

		d.repo.EXPECT().VehicleByPlate(gomock.Any(), "ABC123").Return(chain.vehicle, nil)
		d.repo.EXPECT().User(gomock.Any(), chain.user.ID).Return(chain.user, nil)

		_, err := d.svc.ClientByPlate(context.Background(), "abc123")
		require.ErrorIs(t, err, entity.ErrAccountNotLinked)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		chain := newPlateChain("ABC123")

		d.expectPlate(chain)
		d.repo.EXPECT().ClientInvoices(gomock.Any(), chain.client.ID).Return(nil, errDB)
		d.repo.EXPECT().ClientPaymentLines(gomock.Any(), chain.client.ID).Return(nil, nil).AnyTimes()
		d.repo.EXPECT().ClientUserIDs(gomock.Any(), chain.client.ID).Return(nil, nil).AnyTimes()
		d.repo.EXPECT().VehiclesByUsers(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := d.svc.ClientByPlate(context.Background(), "ABC123")
		require.ErrorIs(t, err, errDB)
		require.NotErrorIs(t, err, entity.ErrPlateNotFound)
	})
}

func TestService_CreateCardPayment(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	client := entity.Client{ID: uuid.Must(uuid.NewV4()), FullName: "Ana Lopez"}

	d.repo.EXPECT().Client(gomock.Any(), client.ID).Return(client, nil)
	d.gateway.EXPECT().CreatePayment(gomock.Any(), client, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ entity.Client, order entity.PaymentOrder) (entity.CardPayment, error) {
			require.True(t, strings.HasPrefix(order.Number, "O-"))
			require.True(t, strings.HasSuffix(order.Number, "-ABC123"))
			require.Equal(t, "ABC123", order.Plate)
			require.True(t, dec("45.13").Equal(order.Amount))

			return entity.CardPayment{URL: "https://pay.example/x", OrderNumber: order.Number}, nil
		})

	payment, err := d.svc.CreateCardPayment(context.Background(), entity.CardPaymentRequest{
		ClientID:    client.ID,
		Amount:      dec("45.125"),
		Plate:       "abc123",
		Description: "Invoices 2025-01",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/x", payment.URL)
}

func TestService_CreateCardPayment_Errors(t *testing.T) {
	t.Parallel()

	t.Run("non positive amount", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		_, err := d.svc.CreateCardPayment(context.Background(), entity.CardPaymentRequest{
			ClientID: uuid.Must(uuid.NewV4()),
			Amount:   decimal.Zero,
		})
		require.ErrorIs(t, err, entity.ErrInvalidArgument)
	})

	t.Run("amount rounds to zero", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		_, err := d.svc.CreateCardPayment(context.Background(), entity.CardPaymentRequest{
			ClientID: uuid.Must(uuid.NewV4()),
			Amount:   dec("0.004"),
		})
		require.ErrorIs(t, err, entity.ErrInvalidArgument)
	})

	t.Run("unknown client", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		id := uuid.Must(uuid.NewV4())

		d.repo.EXPECT().Client(gomock.Any(), id).Return(entity.Client{}, entity.ErrNotFound)

		_, err := d.svc.CreateCardPayment(context.Background(), entity.CardPaymentRequest{ClientID: id, Amount: dec("1")})
		require.ErrorIs(t, err, entity.ErrClientNotFound)
	})

	t.Run("gateway rejection", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		client := entity.Client{ID: uuid.Must(uuid.NewV4())}

		d.repo.EXPECT().Client(gomock.Any(), client.ID).Return(client, nil)
		d.gateway.EXPECT().CreatePayment(gomock.Any(), client, gomock.Any()).
			Return(entity.CardPayment{}, &entity.GatewayError{Code: "401", Description: "invalid key"})

		_, err := d.svc.CreateCardPayment(context.Background(), entity.CardPaymentRequest{ClientID: client.ID, Amount: dec("1")})

		var gwErr *entity.GatewayError
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, "invalid key", gwErr.Description)
	})
}

func TestService_CardPaymentCallback_Declined(t *testing.T) {
	t.Parallel()

	// No expectations: any store or gateway call fails the test.
	d := newDeps(t)

	out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
		Code:        "0",
		Description: "Tarjeta rechazada",
		OrderNumber: "O-1-ABC123",
		Plate:       "abc123",
		Amount:      "25.00",
	})

	require.False(t, out.Approved)
	require.False(t, out.Warning)
	require.Equal(t, "Tarjeta rechazada", out.Description)
	require.Equal(t, "ABC123", out.Plate)
	require.Nil(t, out.Settlement)
}

func (d deps) expectCardSettlement(t *testing.T, chain plateChain, inv entity.Invoice, times int) {
	t.Helper()

	for range times {
		d.expectPlate(chain)
		d.expectLock(t, chain.client.ID)
		d.repo.EXPECT().OpenInvoices(gomock.Any(), chain.client.ID).Return([]entity.Invoice{inv}, nil)
		d.repo.EXPECT().ClientPaymentLines(gomock.Any(), chain.client.ID).Return(nil, nil)
		d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPartiallyPaid, gomock.Any()).Return(nil)
		d.producer.EXPECT().SendPaymentSettled(gomock.Any(), gomock.Any())
		d.repo.EXPECT().Client(gomock.Any(), chain.client.ID).Return(chain.client, nil)
		d.notifier.EXPECT().SendPaymentReceipt(gomock.Any(), chain.client, gomock.Any()).Return(nil)
	}
}

func TestService_CardPaymentCallback_Approved(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	chain := newPlateChain("ABC123")
	inv := invoice(chain.client.ID, date(time.January), "100")

	d.expectCardSettlement(t, chain, inv, 1)

	out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
		Code:        entity.CardCallbackCodeApproved,
		OrderNumber: "O-1-ABC123",
		Plate:       "abc123",
		Amount:      "25.00",
	})

	require.True(t, out.Approved)
	require.False(t, out.Warning)
	require.NotNil(t, out.Settlement)
	require.Equal(t, "O-1-ABC123", out.Settlement.Reference)
	require.True(t, dec("25").Equal(out.Settlement.Applied))
}

// Replaying the same callback settles the payment twice: there is no order number deduplication.
func TestService_CardPaymentCallback_DuplicateAppliesTwice(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	chain := newPlateChain("ABC123")
	inv := invoice(chain.client.ID, date(time.January), "100")

	d.expectCardSettlement(t, chain, inv, 2)

	cb := entity.CardCallback{
		Code:        entity.CardCallbackCodeApproved,
		OrderNumber: "O-1-ABC123",
		Plate:       "ABC123",
		Amount:      "25.00",
	}

	first := d.svc.CardPaymentCallback(context.Background(), cb)
	second := d.svc.CardPaymentCallback(context.Background(), cb)

	require.False(t, first.Warning)
	require.False(t, second.Warning)
}

func TestService_CardPaymentCallback_Warning(t *testing.T) {
	t.Parallel()

	t.Run("settlement fails", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		chain := newPlateChain("ABC123")

		d.expectPlate(chain)
		d.repo.EXPECT().LockClient(gomock.Any(), chain.client.ID).Return(nil, errDB)

		out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
			Code:        entity.CardCallbackCodeApproved,
			OrderNumber: "O-1-ABC123",
			Plate:       "ABC123",
			Amount:      "25.00",
		})

		require.True(t, out.Approved)
		require.True(t, out.Warning)
		require.Nil(t, out.Settlement)
	})

	t.Run("unreadable amount", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
			Code:   entity.CardCallbackCodeApproved,
			Plate:  "ABC123",
			Amount: "twenty",
		})

		require.True(t, out.Approved)
		require.True(t, out.Warning)
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
			Code:   entity.CardCallbackCodeApproved,
			Plate:  "ABC123",
			Amount: "9.999",
		})

		require.True(t, out.Approved)
		require.True(t, out.Warning)
		require.Nil(t, out.Settlement)
	})

	t.Run("plate not found", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		d.repo.EXPECT().VehicleByPlate(gomock.Any(), "ABC123").Return(entity.Vehicle{}, entity.ErrNotFound)

		out := d.svc.CardPaymentCallback(context.Background(), entity.CardCallback{
			Code:   entity.CardCallbackCodeApproved,
			Plate:  "ABC123",
			Amount: "25",
		})

		require.True(t, out.Approved)
		require.True(t, out.Warning)
	})
}

func TestService_RecordManualPayment(t *testing.T) {
	t.Parallel()

	t.Run("by plate", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		chain := newPlateChain("ABC123")
		inv := invoice(chain.client.ID, date(time.January), "40")

		d.expectPlate(chain)
		d.expectLock(t, chain.client.ID)
		d.repo.EXPECT().OpenInvoices(gomock.Any(), chain.client.ID).Return([]entity.Invoice{inv}, nil)
		d.repo.EXPECT().ClientPaymentLines(gomock.Any(), chain.client.ID).Return(nil, nil)
		d.repo.EXPECT().ApplyPayment(gomock.Any(), gomock.Any(), entity.InvoiceStatusPaid, gomock.Any()).
			DoAndReturn(func(_ context.Context, line entity.PaymentLine, _ entity.InvoiceStatus, _ time.Time) error {
				require.Equal(t, entity.PaymentMethodTransfer, line.Method)
				require.Equal(t, "TRX-778", line.Reference)

				return nil
			})
		d.repo.EXPECT().AdvanceLastPaid(gomock.Any(), chain.client.ID, inv.IssuedAt).Return(inv.IssuedAt, nil)
		d.expectNotifications(chain.client)

		res, err := d.svc.RecordManualPayment(context.Background(), entity.ManualPayment{
			Plate:     "abc123",
			Amount:    dec("40"),
			Method:    entity.PaymentMethodTransfer,
			Reference: "TRX-778",
		})
		require.NoError(t, err)
		require.True(t, dec("40").Equal(res.Applied))
	})

	t.Run("unknown client", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)
		id := uuid.Must(uuid.NewV4())

		d.repo.EXPECT().Client(gomock.Any(), id).Return(entity.Client{}, entity.ErrNotFound)

		_, err := d.svc.RecordManualPayment(context.Background(), entity.ManualPayment{
			ClientID: id,
			Amount:   dec("10"),
			Method:   entity.PaymentMethodWallet,
		})
		require.ErrorIs(t, err, entity.ErrClientNotFound)
	})

	t.Run("card is rejected", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		_, err := d.svc.RecordManualPayment(context.Background(), entity.ManualPayment{
			Plate:  "ABC123",
			Amount: dec("10"),
			Method: entity.PaymentMethodCard,
		})
		require.ErrorIs(t, err, entity.ErrInvalidArgument)
	})

	t.Run("no client reference", func(t *testing.T) {
		t.Parallel()

		d := newDeps(t)

		_, err := d.svc.RecordManualPayment(context.Background(), entity.ManualPayment{
			Amount: dec("10"),
			Method: entity.PaymentMethodTransfer,
		})
		require.ErrorIs(t, err, entity.ErrInvalidArgument)
	})
}

func TestService_SyncInvoiceStatuses(t *testing.T) {
	t.Parallel()

	d := newDeps(t)

	ok := entity.InvoiceBalance{
		Invoice:        entity.Invoice{ID: uuid.Must(uuid.NewV4()), Status: entity.InvoiceStatusPaid},
		ComputedStatus: entity.InvoiceStatusPaid,
	}
	stale := entity.InvoiceBalance{
		Invoice:        entity.Invoice{ID: uuid.Must(uuid.NewV4()), Status: entity.InvoiceStatusPending},
		ComputedStatus: entity.InvoiceStatusPartiallyPaid,
	}

	d.repo.EXPECT().InvoicePaidTotals(gomock.Any()).Return([]entity.InvoiceBalance{ok, stale}, nil)
	d.repo.EXPECT().UpdateInvoiceStatus(gomock.Any(), stale.ID, entity.InvoiceStatusPartiallyPaid, gomock.Any()).Return(nil)

	require.NoError(t, d.svc.SyncInvoiceStatuses(context.Background()))
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/pkg/postgres"
)

type Repository struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		db: pool,
	}
}

func (r *Repository) VehicleByPlate(ctx context.Context, plate string) (entity.Vehicle, error) {
	q := selectVehicle + " WHERE upper(trim(plate)) = $1"
	return scanVehicle(r.db.QueryRow(ctx, q, entity.NormalizePlate(plate)))
}

func (r *Repository) User(ctx context.Context, id uuid.UUID) (entity.User, error) {
	const q = `SELECT id, client_id FROM users WHERE id = $1`

	var u entity.User

	err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, entity.ErrNotFound
		}

		return entity.User{}, err
	}

	return u, nil
}

func (r *Repository) Client(ctx context.Context, id uuid.UUID) (entity.Client, error) {
	q := selectClient + " WHERE id = $1"

	var c entity.Client

	err := r.db.QueryRow(ctx, q, id).Scan(
		&c.ID,
		&c.FullName,
		&c.Email,
		&c.Address,
		&c.Rate,
		&c.VehicleCount,
		&c.LastPaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Client{}, entity.ErrNotFound
		}

		return entity.Client{}, err
	}

	return c, nil
}

func (r *Repository) ClientUserIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT id FROM users WHERE client_id = $1`

	rows, err := r.db.Query(ctx, q, clientID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID

		err = rows.Scan(&id)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *Repository) VehiclesByUsers(ctx context.Context, userIDs []uuid.UUID) ([]entity.Vehicle, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	sql, args, err := sq.Select("id", "plate", "make", "model", "year", "user_id").
		From("vehicles").
		Where(sq.Eq{"user_id": userIDs}).
		OrderBy("plate").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var vehicles []entity.Vehicle

	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}

		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// ClientInvoices returns every invoice of the client, newest first.
func (r *Repository) ClientInvoices(ctx context.Context, clientID uuid.UUID) ([]entity.Invoice, error) {
	stmt := selectInvoices().
		Where(sq.Eq{"i.client_id": clientID}).
		OrderBy("i.issued_at DESC", "i.id")

	return r.queryInvoices(ctx, stmt)
}

// OpenInvoices returns invoices whose recorded status is pending or partially paid, oldest first.
func (r *Repository) OpenInvoices(ctx context.Context, clientID uuid.UUID) ([]entity.Invoice, error) {
	stmt := selectInvoices().
		Where(sq.Eq{
			"i.client_id": clientID,
			"i.status":    []string{entity.InvoiceStatusPending.String(), entity.InvoiceStatusPartiallyPaid.String()},
		}).
		OrderBy("i.issued_at ASC", "i.id")

	return r.queryInvoices(ctx, stmt)
}

func (r *Repository) ClientPaymentLines(ctx context.Context, clientID uuid.UUID) ([]entity.PaymentLine, error) {
	q := selectPaymentLine + " WHERE client_id = $1 ORDER BY paid_at, created_at"

	rows, err := r.db.Query(ctx, q, clientID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var lines []entity.PaymentLine

	for rows.Next() {
		var l entity.PaymentLine

		err = rows.Scan(
			&l.ID,
			&l.ClientID,
			&l.InvoiceID,
			&l.Amount,
			&l.PaidAt,
			&l.Method,
			&l.BillingPeriod,
			(*zeronull.Text)(&l.Reference),
		)
		if err != nil {
			return nil, err
		}

		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// ApplyPayment appends the payment line and moves the invoice status in one transaction.
func (r *Repository) ApplyPayment(
	ctx context.Context,
	line entity.PaymentLine,
	status entity.InvoiceStatus,
	updatedAt time.Time,
) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const insertLine = `
		INSERT INTO payment_lines (
			id,
			client_id,
			invoice_id,
			amount,
			paid_at,
			method,
			billing_period,
			reference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.Exec(ctx, insertLine,
			line.ID,
			line.ClientID,
			line.InvoiceID,
			line.Amount,
			line.PaidAt,
			line.Method,
			line.BillingPeriod,
			zeronull.Text(line.Reference),
		)
		if err != nil {
			return fmt.Errorf("insert payment line: %w", err)
		}

		const updateStatus = `UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`

		result, err := tx.Exec(ctx, updateStatus, status, updatedAt, line.InvoiceID)
		if err != nil {
			return fmt.Errorf("update invoice status: %w", err)
		}

		if result.RowsAffected() == 0 {
			return entity.ErrNotFound
		}

		return nil
	})
}

// AdvanceLastPaid moves the client's last-paid date forward and returns the stored value.
// The stored date never decreases.
func (r *Repository) AdvanceLastPaid(ctx context.Context, clientID uuid.UUID, paidAt time.Time) (time.Time, error) {
	const q = `
	UPDATE clients
	SET last_paid_at = GREATEST(COALESCE(last_paid_at, $2::date), $2::date)
	WHERE id = $1
	RETURNING last_paid_at
	`

	var stored time.Time

	err := r.db.QueryRow(ctx, q, clientID, paidAt).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, entity.ErrNotFound
		}

		return time.Time{}, err
	}

	return stored, nil
}

// LockClient serializes settlement runs of one client with a session advisory lock.
// The returned func releases the lock and must always be called.
func (r *Repository) LockClient(ctx context.Context, clientID uuid.UUID) (func(), error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	_, err = conn.Exec(ctx, `SELECT pg_advisory_lock(hashtextextended($1::text, 0))`, clientID.String())
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	return func() {
		_, err := conn.Exec(context.WithoutCancel(ctx),
			`SELECT pg_advisory_unlock(hashtextextended($1::text, 0))`, clientID.String())
		if err != nil {
			// The session still holds the lock, drop the connection instead of returning it to the pool.
			_ = conn.Conn().Close(context.WithoutCancel(ctx))
		}

		conn.Release()
	}, nil
}

// InvoicePaidTotals returns every invoice with its recorded status and the sum of its payment lines.
func (r *Repository) InvoicePaidTotals(ctx context.Context) ([]entity.InvoiceBalance, error) {
	const q = `
	SELECT i.id, i.client_id, i.issued_at, i.total, i.status, COALESCE(SUM(p.amount), 0)
	FROM invoices i
	LEFT JOIN payment_lines p ON p.invoice_id = i.id
	GROUP BY i.id
	ORDER BY i.issued_at
	`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var res []entity.InvoiceBalance

	for rows.Next() {
		var b entity.InvoiceBalance

		err = rows.Scan(&b.ID, &b.ClientID, &b.IssuedAt, &b.Total, &b.Status, &b.Paid)
		if err != nil {
			return nil, err
		}

		b.Pending = decimal.Max(decimal.Zero, b.Total.Sub(b.Paid))
		b.ComputedStatus = entity.StatusFor(b.Total, b.Paid)

		res = append(res, b)
	}

	return res, rows.Err()
}

func (r *Repository) UpdateInvoiceStatus(
	ctx context.Context,
	id uuid.UUID,
	status entity.InvoiceStatus,
	updatedAt time.Time,
) error {
	const q = `UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, q, status, updatedAt, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func selectInvoices() sq.SelectBuilder {
	return sq.Select(invoiceColumns...).
		From("invoices i").
		LeftJoin("quotations q ON q.id = i.quotation_id").
		PlaceholderFormat(sq.Dollar)
}

func (r *Repository) queryInvoices(ctx context.Context, stmt sq.SelectBuilder) ([]entity.Invoice, error) {
	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var invoices []entity.Invoice

	for rows.Next() {
		var (
			inv         entity.Invoice
			quotationID uuid.NullUUID
			quotation   entity.Quotation
		)

		err = rows.Scan(
			&inv.ID,
			&inv.ClientID,
			&inv.IssuedAt,
			&inv.DueAt,
			&inv.Subtotal,
			&inv.Tax,
			&inv.Total,
			&inv.Status,
			&inv.BillingPeriod,
			&inv.Items,
			&quotationID,
			&quotation.Number,
			&quotation.Items,
		)
		if err != nil {
			return nil, err
		}

		if quotationID.Valid {
			quotation.ID = quotationID.UUID
			inv.Quotation = &quotation
		}

		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

func scanVehicle(row pgx.Row) (v entity.Vehicle, err error) {
	err = row.Scan(
		&v.ID,
		&v.Plate,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Vehicle{}, entity.ErrNotFound
		}

		return entity.Vehicle{}, err
	}

	return v, nil
}

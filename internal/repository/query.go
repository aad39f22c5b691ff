package repository

const (
	selectVehicle = `SELECT
		id,
		plate,
		make,
		model,
		year,
		user_id
	FROM vehicles`

	selectClient = `SELECT
		id,
		full_name,
		email,
		address,
		rate,
		vehicle_count,
		last_paid_at
	FROM clients`

	selectPaymentLine = `SELECT
		id,
		client_id,
		invoice_id,
		amount,
		paid_at,
		method,
		billing_period,
		reference
	FROM payment_lines`
)

var invoiceColumns = []string{
	"i.id",
	"i.client_id",
	"i.issued_at",
	"i.due_at",
	"i.subtotal",
	"i.tax",
	"i.total",
	"i.status",
	"i.billing_period",
	"i.items",
	"q.id",
	"COALESCE(q.number, '')",
	"COALESCE(q.items, '[]'::jsonb)",
}

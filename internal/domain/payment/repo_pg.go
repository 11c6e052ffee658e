package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const paymentCols = `payment_id, registration_id, payment_type, amount,
	payment_method, payment_status, payment_date, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.RegistrationID, &p.Type, &p.Amount,
		&p.Method, &p.Status, &p.PaidAt, &p.CreatedAt)
	return &p, err
}

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (payment_id, registration_id, payment_type, amount, payment_method, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.RegistrationID, p.Type, p.Amount, p.Method, p.Status)
	return err
}

func (r *paymentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx, `SELECT `+paymentCols+` FROM payment WHERE payment_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("payment", id.String())
	}
	return p, err
}

// MarkPaid performs the status flip as one guarded update so the 0 -> 1
// transition happens at most once regardless of concurrent retries.
func (r *paymentRepoPG) MarkPaid(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx, `
		UPDATE payment SET payment_status = 1, payment_date = NOW()
		WHERE payment_id = $1 AND payment_status = 0
		RETURNING `+paymentCols, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the payment is missing or it was already paid.
	var status Status
	err = r.conn(ctx).QueryRow(ctx, `SELECT payment_status FROM payment WHERE payment_id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("payment", id.String())
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrAlreadyPaid
}

func (r *paymentRepoPG) ListPendingByPatient(ctx context.Context, patientID uuid.UUID) ([]*PendingPayment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.payment_id, p.registration_id, p.payment_type, p.amount,
			p.payment_method, p.payment_status, p.payment_date, p.created_at,
			r.registered_at, d.doctor_name
		FROM payment p
		JOIN registration r ON p.registration_id = r.registration_id
		LEFT JOIN doctor d ON r.doctor_id = d.doctor_id
		WHERE r.patient_id = $1 AND p.payment_status = 0
		ORDER BY p.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PendingPayment
	for rows.Next() {
		var pp PendingPayment
		if err := rows.Scan(&pp.ID, &pp.RegistrationID, &pp.Type, &pp.Amount,
			&pp.Method, &pp.Status, &pp.PaidAt, &pp.CreatedAt,
			&pp.RegisteredAt, &pp.DoctorName); err != nil {
			return nil, err
		}
		items = append(items, &pp)
	}
	return items, rows.Err()
}

func (r *paymentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM payment p
		JOIN registration r ON p.registration_id = r.registration_id
		WHERE r.patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prefixedPaymentCols+` FROM payment p
		JOIN registration r ON p.registration_id = r.registration_id
		WHERE r.patient_id = $1
		ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

const prefixedPaymentCols = `p.payment_id, p.registration_id, p.payment_type, p.amount,
	p.payment_method, p.payment_status, p.payment_date, p.created_at`

func (r *paymentRepoPG) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+paymentCols+` FROM payment WHERE registration_id = $1 ORDER BY created_at`, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

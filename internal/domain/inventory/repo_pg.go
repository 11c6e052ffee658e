package inventory

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

type drugRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &drugRepoPG{pool: pool} }

func (r *drugRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const drugCols = `drug_id, drug_name, drug_code, specification, manufacturer,
	unit_price, stored_quantity, expiry_date, created_at`

func scanDrug(row pgx.Row) (*Drug, error) {
	var d Drug
	err := row.Scan(&d.ID, &d.Name, &d.Code, &d.Specification, &d.Manufacturer,
		&d.UnitPrice, &d.StoredQuantity, &d.ExpiryDate, &d.CreatedAt)
	return &d, err
}

func (r *drugRepoPG) Create(ctx context.Context, d *Drug) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO drug (drug_id, drug_name, drug_code, specification, manufacturer,
			unit_price, stored_quantity, expiry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.Name, d.Code, d.Specification, d.Manufacturer,
		d.UnitPrice, d.StoredQuantity, d.ExpiryDate)
	return err
}

func (r *drugRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Drug, error) {
	d, err := scanDrug(r.conn(ctx).QueryRow(ctx, `SELECT `+drugCols+` FROM drug WHERE drug_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("drug", id.String())
	}
	return d, err
}

func (r *drugRepoPG) GetByCode(ctx context.Context, code string) (*Drug, error) {
	d, err := scanDrug(r.conn(ctx).QueryRow(ctx, `SELECT `+drugCols+` FROM drug WHERE drug_code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("drug", code)
	}
	return d, err
}

func (r *drugRepoPG) List(ctx context.Context, limit, offset int) ([]*Drug, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM drug`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+drugCols+` FROM drug ORDER BY drug_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Drug
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// Deduct is a single guarded decrement: the stock check and the write happen
// in one statement, so two concurrent deductions racing on a stale read can
// never together drive stored_quantity below zero.
func (r *drugRepoPG) Deduct(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE drug SET stored_quantity = stored_quantity - $2
		WHERE drug_id = $1 AND stored_quantity >= $2`,
		id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the drug is missing or stock is short.
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &apperr.InsufficientStockError{
		DrugName:  d.Name,
		Required:  quantity,
		Available: d.StoredQuantity,
	}
}

func (r *drugRepoPG) Restock(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE drug SET stored_quantity = stored_quantity + $2 WHERE drug_id = $1`,
		id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("drug", id.String())
	}
	return nil
}

func (r *drugRepoPG) ListBelowThreshold(ctx context.Context, threshold int) ([]*Drug, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+drugCols+` FROM drug WHERE stored_quantity < $1 ORDER BY drug_name`,
		threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Drug
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *drugRepoPG) ReferencingPrescriptions(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription WHERE drug_id = $1`, id).Scan(&count)
	return count, err
}

func (r *drugRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM drug WHERE drug_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("drug", id.String())
	}
	return nil
}

package visit

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

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &visitRepoPG{pool: pool} }

func (r *visitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const registrationCols = `registration_id, patient_id, department_id, doctor_id,
	status, chief_complaint, registered_at`

func scanRegistration(row pgx.Row) (*Registration, error) {
	var reg Registration
	err := row.Scan(&reg.ID, &reg.PatientID, &reg.DepartmentID, &reg.DoctorID,
		&reg.Status, &reg.ChiefComplaint, &reg.RegisteredAt)
	return &reg, err
}

func (r *visitRepoPG) Create(ctx context.Context, reg *Registration) error {
	reg.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO registration (registration_id, patient_id, department_id, doctor_id, status, chief_complaint)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING registered_at`,
		reg.ID, reg.PatientID, reg.DepartmentID, reg.DoctorID, reg.Status, reg.ChiefComplaint).
		Scan(&reg.RegisteredAt)
}

func (r *visitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	reg, err := scanRegistration(r.conn(ctx).QueryRow(ctx,
		`SELECT `+registrationCols+` FROM registration WHERE registration_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("registration", id.String())
	}
	return reg, err
}

// Transition is a guarded update: the status only changes if the row is still
// in the expected from status at write time.
func (r *visitRepoPG) Transition(ctx context.Context, id uuid.UUID, from, to Status) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE registration SET status = $3
		WHERE registration_id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: missing registration, or one in a different status.
	var current Status
	err = r.conn(ctx).QueryRow(ctx,
		`SELECT status FROM registration WHERE registration_id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("registration", id.String())
	}
	if err != nil {
		return err
	}
	return apperr.StateConflict("registration %s is %s, expected %s", id, current, from)
}

func (r *visitRepoPG) ListWaitingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WaitingVisit, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.registration_id, r.patient_id, r.department_id, r.doctor_id,
			r.status, r.chief_complaint, r.registered_at,
			p.patient_name, p.gender, p.date_of_birth
		FROM registration r
		JOIN patient p ON r.patient_id = p.patient_id
		WHERE r.doctor_id = $1 AND r.status = $2
		ORDER BY r.registered_at`, doctorID, StatusWaiting)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WaitingVisit
	for rows.Next() {
		var wv WaitingVisit
		if err := rows.Scan(&wv.ID, &wv.PatientID, &wv.DepartmentID, &wv.DoctorID,
			&wv.Status, &wv.ChiefComplaint, &wv.RegisteredAt,
			&wv.PatientName, &wv.Gender, &wv.DateOfBirth); err != nil {
			return nil, err
		}
		items = append(items, &wv)
	}
	return items, rows.Err()
}

func (r *visitRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Registration, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM registration WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+registrationCols+` FROM registration
		WHERE patient_id = $1
		ORDER BY registered_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, reg)
	}
	return items, total, rows.Err()
}

package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Repository implements the AppointmentRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new appointment repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.AppointmentRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const appointmentColumns = `id, to_char(date, 'YYYY-MM-DD'), start_time, end_time, specialty,
	doctor_id, patient_id, participation_requested, request_status, created_at, updated_at`

func scanAppointment(row interface {
	Scan(dest ...interface{}) error
}) (*types.Appointment, error) {
	apt := &types.Appointment{}
	var patientID sql.NullString

	err := row.Scan(
		&apt.ID,
		&apt.Date,
		&apt.StartTime,
		&apt.EndTime,
		&apt.Specialty,
		&apt.DoctorID,
		&patientID,
		&apt.ParticipationRequested,
		&apt.RequestStatus,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if patientID.Valid {
		apt.PatientID = &patientID.String
	}
	return apt, nil
}

// Create creates a new appointment slot
func (r *Repository) Create(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, date, start_time, end_time, specialty, doctor_id,
			patient_id, participation_requested, request_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.Date,
		apt.StartTime,
		apt.EndTime,
		string(apt.Specialty),
		apt.DoctorID,
		nil,
		apt.ParticipationRequested,
		string(apt.RequestStatus),
		apt.CreatedAt,
		apt.UpdatedAt,
	)

	if err != nil {
		r.logger.Errorf("Failed to create appointment: %v", err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to create appointment", err)
	}

	r.logger.Infof("Created appointment %s for doctor %s on %s", apt.ID, apt.DoctorID, apt.Date)
	return nil
}

// GetByID retrieves an appointment by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	apt, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", id))
		}
		r.logger.Errorf("Failed to get appointment %s: %v", id, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get appointment", err)
	}

	return apt, nil
}

// List retrieves appointments based on filters
func (r *Repository) List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE 1=1`, appointmentColumns)

	args := []interface{}{}
	argIndex := 1

	if filters.DoctorID != "" {
		query += fmt.Sprintf(" AND doctor_id = $%d", argIndex)
		args = append(args, filters.DoctorID)
		argIndex++
	}

	if filters.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, filters.PatientID)
		argIndex++
	}

	if filters.RequestStatus != "" {
		query += fmt.Sprintf(" AND request_status = $%d", argIndex)
		args = append(args, string(filters.RequestStatus))
		argIndex++
	}

	if filters.FromDate != "" {
		query += fmt.Sprintf(" AND date >= $%d", argIndex)
		args = append(args, filters.FromDate)
		argIndex++
	}

	if filters.ToDate != "" {
		query += fmt.Sprintf(" AND date <= $%d", argIndex)
		args = append(args, filters.ToDate)
		argIndex++
	}

	query += " ORDER BY date ASC, start_time ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	return r.queryAppointments(ctx, query, args...)
}

// ListAvailable retrieves open slots for a doctor with date >= fromDate
func (r *Repository) ListAvailable(ctx context.Context, doctorID, fromDate string) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE doctor_id = $1
		  AND patient_id IS NULL
		  AND participation_requested = FALSE
		  AND date >= $2
		ORDER BY date ASC, start_time ASC`, appointmentColumns)

	return r.queryAppointments(ctx, query, doctorID, fromDate)
}

// FindOverlapping finds same-day appointments for a doctor whose time window
// touches [startTime, endTime]. Boundaries are inclusive: touching endpoints
// count as a conflict.
func (r *Repository) FindOverlapping(ctx context.Context, doctorID, date, startTime, endTime string) ([]*types.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE doctor_id = $1
		  AND date = $2
		  AND start_time <= $4
		  AND end_time >= $3`, appointmentColumns)

	return r.queryAppointments(ctx, query, doctorID, date, startTime, endTime)
}

// ClaimParticipation atomically claims an open slot for a patient. The
// conditional write is the guard against two concurrent requests: only one
// can match the unclaimed row.
func (r *Repository) ClaimParticipation(ctx context.Context, appointmentID, patientID string) (bool, error) {
	query := `
		UPDATE appointments
		SET patient_id = $2,
		    participation_requested = TRUE,
		    request_status = 'pending',
		    updated_at = $3
		WHERE id = $1
		  AND patient_id IS NULL
		  AND participation_requested = FALSE`

	result, err := r.db.ExecContext(ctx, query, appointmentID, patientID, time.Now())
	if err != nil {
		r.logger.Errorf("Failed to claim appointment %s: %v", appointmentID, err)
		return false, types.NewInternalError(types.ErrCodeInternalError, "failed to claim appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	return rowsAffected == 1, nil
}

// UpdateResolution applies a doctor's accept/reject decision
func (r *Repository) UpdateResolution(ctx context.Context, appointmentID string, status types.RequestStatus, clearPatient bool) error {
	var query string
	if clearPatient {
		query = `
			UPDATE appointments
			SET request_status = $2,
			    participation_requested = FALSE,
			    patient_id = NULL,
			    updated_at = $3
			WHERE id = $1`
	} else {
		query = `
			UPDATE appointments
			SET request_status = $2,
			    updated_at = $3
			WHERE id = $1`
	}

	result, err := r.db.ExecContext(ctx, query, appointmentID, string(status), time.Now())
	if err != nil {
		r.logger.Errorf("Failed to update appointment %s resolution: %v", appointmentID, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to update appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", appointmentID))
	}

	r.logger.Infof("Updated appointment %s to %s", appointmentID, status)
	return nil
}

// Delete removes an appointment
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorf("Failed to delete appointment %s: %v", id, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to delete appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("appointment not found: %s", id))
	}

	r.logger.Infof("Deleted appointment %s", id)
	return nil
}

// CountByMonth aggregates appointment counts per calendar month for a doctor
func (r *Repository) CountByMonth(ctx context.Context, doctorID string) ([]*types.MonthlyAppointmentStat, error) {
	query := `
		SELECT EXTRACT(YEAR FROM date)::int AS year,
		       EXTRACT(MONTH FROM date)::int AS month,
		       COUNT(*)::int AS count
		FROM appointments
		WHERE doctor_id = $1
		GROUP BY year, month
		ORDER BY year ASC, month ASC`

	rows, err := r.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to count appointments by month: %v", err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to count appointments by month", err)
	}
	defer rows.Close()

	var stats []*types.MonthlyAppointmentStat
	for rows.Next() {
		stat := &types.MonthlyAppointmentStat{}
		if err := rows.Scan(&stat.Year, &stat.Month, &stat.Count); err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan monthly stat", err)
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating monthly stats", err)
	}

	return stats, nil
}

func (r *Repository) queryAppointments(ctx context.Context, query string, args ...interface{}) ([]*types.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Errorf("Failed to query appointments: %v", err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to query appointments", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			r.logger.Errorf("Failed to scan appointment: %v", err)
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan appointment", err)
		}
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating appointments", err)
	}

	return appointments, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// MedicalRecordRepo handles medical record link lookups
type MedicalRecordRepo struct {
	db     *database.DB
	logger *logger.Logger
}

// NewMedicalRecordRepo creates a new medical record repository
func NewMedicalRecordRepo(db *database.DB, log *logger.Logger) *MedicalRecordRepo {
	return &MedicalRecordRepo{
		db:     db,
		logger: log,
	}
}

// GetByID retrieves a medical record by ID
func (r *MedicalRecordRepo) GetByID(ctx context.Context, recordID string) (*types.MedicalRecord, error) {
	query := `
		SELECT id, patient_id, doctor_id, created_at, updated_at
		FROM medical_records
		WHERE id = $1`

	record := &types.MedicalRecord{}
	err := r.db.QueryRowContext(ctx, query, recordID).Scan(
		&record.ID,
		&record.PatientID,
		&record.DoctorID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("medical record not found: %s", recordID))
		}
		r.logger.Errorf("Failed to get medical record %s: %v", recordID, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get medical record", err)
	}

	return record, nil
}

// GetPatientsByDoctor retrieves the care links for every patient under a doctor
func (r *MedicalRecordRepo) GetPatientsByDoctor(ctx context.Context, doctorID string) ([]*types.MedicalRecord, error) {
	query := `
		SELECT id, patient_id, doctor_id, created_at, updated_at
		FROM medical_records
		WHERE doctor_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		r.logger.Errorf("Failed to get medical records for doctor %s: %v", doctorID, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get medical records", err)
	}
	defer rows.Close()

	var records []*types.MedicalRecord
	for rows.Next() {
		record := &types.MedicalRecord{}
		err := rows.Scan(
			&record.ID,
			&record.PatientID,
			&record.DoctorID,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan medical record", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating medical records", err)
	}

	return records, nil
}

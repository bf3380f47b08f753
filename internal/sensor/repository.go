package sensor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Repository implements the SensorRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new sensor repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.SensorRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const sensorColumns = `id, mac_address, medical_record_id, heart_rate, oxygen_saturation,
	timestamp, status, anomalies, created_at, updated_at`

func scanSensor(row interface {
	Scan(dest ...interface{}) error
}) (*types.Sensor, error) {
	sensor := &types.Sensor{}
	var anomalies pq.StringArray

	err := row.Scan(
		&sensor.ID,
		&sensor.MACAddress,
		&sensor.MedicalRecordID,
		&sensor.HeartRate,
		&sensor.OxygenSaturation,
		&sensor.Timestamp,
		&sensor.Status,
		&anomalies,
		&sensor.CreatedAt,
		&sensor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sensor.Anomalies = []string(anomalies)
	return sensor, nil
}

// Create registers a new sensor bound to a medical record
func (r *Repository) Create(ctx context.Context, sensor *types.Sensor) error {
	query := `
		INSERT INTO sensors (
			id, mac_address, medical_record_id, heart_rate, oxygen_saturation,
			timestamp, status, anomalies, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		sensor.ID,
		sensor.MACAddress,
		sensor.MedicalRecordID,
		sensor.HeartRate,
		sensor.OxygenSaturation,
		sensor.Timestamp,
		string(sensor.Status),
		pq.Array(sensor.Anomalies),
		sensor.CreatedAt,
		sensor.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return types.NewConflictError(types.ErrCodeConflict, fmt.Sprintf("MAC address already assigned: %s", sensor.MACAddress), nil)
		}
		r.logger.Errorf("Failed to create sensor: %v", err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to create sensor", err)
	}

	r.logger.Infof("Created sensor %s (%s) on record %s", sensor.ID, sensor.MACAddress, sensor.MedicalRecordID)
	return nil
}

// GetByID retrieves a sensor by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Sensor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sensors WHERE id = $1`, sensorColumns)
	return r.getOne(ctx, query, id)
}

// GetByMAC retrieves a sensor by MAC address
func (r *Repository) GetByMAC(ctx context.Context, macAddress string) (*types.Sensor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sensors WHERE mac_address = $1`, sensorColumns)
	return r.getOne(ctx, query, macAddress)
}

// UpdateVitals stores the latest reading on the sensor row. Confirmed anomaly
// labels are merged into the accumulated set without duplicates.
func (r *Repository) UpdateVitals(ctx context.Context, id string, heartRate, oxygenSaturation int, at time.Time, anomalies []string) error {
	query := `
		UPDATE sensors
		SET heart_rate = $2,
		    oxygen_saturation = $3,
		    timestamp = $4,
		    anomalies = (
		        SELECT ARRAY(SELECT DISTINCT unnest(anomalies || $5::text[]))
		    ),
		    updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, heartRate, oxygenSaturation, at, pq.Array(anomalies), time.Now())
	if err != nil {
		r.logger.Errorf("Failed to update sensor %s vitals: %v", id, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to update sensor vitals", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("sensor not found: %s", id))
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*types.Sensor, error) {
	sensor, err := scanSensor(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("sensor not found: %v", arg))
		}
		r.logger.Errorf("Failed to get sensor: %v", err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get sensor", err)
	}

	return sensor, nil
}

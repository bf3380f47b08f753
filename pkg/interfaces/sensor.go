package interfaces

import (
	"context"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// SensorService defines the interface for sensor assignment and reading ingest
type SensorService interface {
	Ingest(ctx context.Context, reading *types.SensorReading) (*types.Sensor, error)
	AssignSensor(ctx context.Context, macAddress, medicalRecordID string, caller types.Identity) (*types.Sensor, error)
	GetSensor(ctx context.Context, sensorID string) (*types.Sensor, error)
	GetLatestReading(ctx context.Context) (*types.LatestReading, error)

	// Service management
	Start(addr string) error
	Stop() error
}

// SensorRepository defines the interface for sensor persistence
type SensorRepository interface {
	Create(ctx context.Context, sensor *types.Sensor) error
	GetByID(ctx context.Context, id string) (*types.Sensor, error)
	GetByMAC(ctx context.Context, macAddress string) (*types.Sensor, error)

	// UpdateVitals stores the latest reading on the sensor row. Confirmed
	// anomaly labels, when present, are appended to the accumulated set.
	UpdateVitals(ctx context.Context, id string, heartRate, oxygenSaturation int, at time.Time, anomalies []string) error
}

// ReadingPublisher defines the live delivery boundary for sensor readings.
// Publishing is fire-and-forget; the absence of subscribers is not an error.
type ReadingPublisher interface {
	PublishReading(ctx context.Context, reading *types.LatestReading) error
	CacheLatest(ctx context.Context, reading *types.LatestReading) error
	Latest(ctx context.Context) (*types.LatestReading, error)
}

package sensor

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/repository"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

var macAddressPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

// Service implements the SensorService interface
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository interfaces.SensorRepository
	records    repository.MedicalRecordRepository
	tracker    *TrackerStore
	publisher  interfaces.ReadingPublisher
	escalator  *Escalator
	server     *http.Server

	now func() time.Time
}

// New creates a new sensor service
func New(cfg *config.Config, log *logger.Logger, repo interfaces.SensorRepository, records repository.MedicalRecordRepository, tracker *TrackerStore, publisher interfaces.ReadingPublisher, escalator *Escalator) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		records:    records,
		tracker:    tracker,
		publisher:  publisher,
		escalator:  escalator,
		now:        time.Now,
	}
}

// Ingest processes one incoming reading: validate, store the latest vitals,
// classify, debounce through the persistence tracker and escalate whatever
// the window confirms. Live delivery and caching are best-effort.
func (s *Service) Ingest(ctx context.Context, reading *types.SensorReading) (*types.Sensor, error) {
	if err := validateReading(reading); err != nil {
		monitoring.RecordSensorReading("invalid")
		return nil, err
	}

	at := normalizeTimestamp(reading.Timestamp, s.now())

	sensor, err := s.repository.GetByMAC(ctx, reading.MACAddress)
	if err != nil {
		if types.IsNotFound(err) {
			monitoring.RecordSensorReading("not_found")
		}
		return nil, err
	}

	assessment := Classify(reading.HeartRate, reading.OxygenSaturation)
	confirmed := s.tracker.Observe(sensor.ID, assessment.Labels)

	// The raw latest value is always stored; only escalation is gated on
	// plausibility and persistence.
	if err := s.repository.UpdateVitals(ctx, sensor.ID, reading.HeartRate, reading.OxygenSaturation, at, confirmed); err != nil {
		return nil, err
	}

	sensor.HeartRate = reading.HeartRate
	sensor.OxygenSaturation = reading.OxygenSaturation
	sensor.Timestamp = at
	sensor.Anomalies = mergeLabels(sensor.Anomalies, confirmed)

	if len(confirmed) > 0 {
		for _, label := range confirmed {
			monitoring.RecordAnomalyConfirmed(label)
		}
		s.escalator.Escalate(ctx, sensor, confirmed, assessment.Emergency)
	}

	latest := &types.LatestReading{
		SensorID:         sensor.ID,
		MedicalRecordID:  sensor.MedicalRecordID,
		MACAddress:       sensor.MACAddress,
		HeartRate:        reading.HeartRate,
		OxygenSaturation: reading.OxygenSaturation,
		Timestamp:        at,
		Anomalies:        confirmed,
		Emergency:        assessment.Emergency && len(confirmed) > 0,
	}
	if err := s.publisher.CacheLatest(ctx, latest); err != nil {
		s.logger.Errorf("Failed to cache latest reading: %v", err)
	}
	if err := s.publisher.PublishReading(ctx, latest); err != nil {
		s.logger.Errorf("Failed to publish reading for record %s: %v", sensor.MedicalRecordID, err)
	}

	monitoring.RecordSensorReading("ok")
	s.logger.WithSensor(sensor.ID, sensor.MACAddress).
		Debugf("Ingested reading hr=%d spo2=%d confirmed=%v", reading.HeartRate, reading.OxygenSaturation, confirmed)

	return sensor, nil
}

// AssignSensor binds a MAC address to a patient's medical record, creating
// the sensor. Only doctors and superadmins may assign.
func (s *Service) AssignSensor(ctx context.Context, macAddress, medicalRecordID string, caller types.Identity) (*types.Sensor, error) {
	if caller.Role != types.RoleMedecin && caller.Role != types.RoleSuperAdmin {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "only doctors can assign sensors")
	}

	if !macAddressPattern.MatchString(macAddress) {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "invalid MAC address", map[string]interface{}{
			"mac_address": macAddress,
		})
	}
	if medicalRecordID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "medical record ID is required", nil)
	}

	if _, err := s.records.GetByID(ctx, medicalRecordID); err != nil {
		return nil, err
	}

	now := s.now()
	sensor := &types.Sensor{
		ID:              uuid.New().String(),
		MACAddress:      macAddress,
		MedicalRecordID: medicalRecordID,
		Status:          types.SensorStatusActive,
		Timestamp:       now,
		Anomalies:       []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repository.Create(ctx, sensor); err != nil {
		return nil, err
	}

	s.logger.Infof("Assigned sensor %s (%s) to record %s", sensor.ID, macAddress, medicalRecordID)
	return sensor, nil
}

// GetSensor retrieves a sensor by ID
func (s *Service) GetSensor(ctx context.Context, sensorID string) (*types.Sensor, error) {
	return s.repository.GetByID(ctx, sensorID)
}

// GetLatestReading returns the most recently ingested reading across all
// sensors
func (s *Service) GetLatestReading(ctx context.Context) (*types.LatestReading, error) {
	return s.publisher.Latest(ctx)
}

// Start starts the sensor HTTP service
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	router.Use(monitoring.HTTPMiddleware("sensor-service"))
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	s.logger.Infof("Starting Sensor Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the sensor HTTP service
func (s *Service) Stop() error {
	if s.server != nil {
		s.logger.Infof("Stopping Sensor Service")
		return s.server.Close()
	}
	return nil
}

func validateReading(reading *types.SensorReading) error {
	details := map[string]interface{}{}

	if reading.MACAddress == "" {
		details["mac_address"] = "required"
	} else if !macAddressPattern.MatchString(reading.MACAddress) {
		details["mac_address"] = "must match XX:XX:XX:XX:XX:XX"
	}

	if reading.HeartRate == 0 {
		details["heart_rate"] = "required"
	}
	if reading.OxygenSaturation == 0 {
		details["oxygen_saturation"] = "required"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid sensor reading", details)
	}
	return nil
}

// normalizeTimestamp interprets a time-of-day-only timestamp as today.
// Devices that report only a wall clock land on the current date; a missing
// timestamp becomes now.
func normalizeTimestamp(ts time.Time, now time.Time) time.Time {
	if ts.IsZero() {
		return now
	}
	if ts.Year() <= 1 {
		return time.Date(now.Year(), now.Month(), now.Day(),
			ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), now.Location())
	}
	return ts
}

func mergeLabels(existing, confirmed []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := existing
	for _, label := range existing {
		seen[label] = true
	}
	for _, label := range confirmed {
		if !seen[label] {
			merged = append(merged, label)
			seen[label] = true
		}
	}
	return merged
}

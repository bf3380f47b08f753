package sensor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/repository"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Escalator routes confirmed anomalies to the people responsible for the
// patient. Emergencies additionally reach every superadmin. Dispatches are
// caught and logged one by one; an escalation failure never aborts the ingest
// that triggered it.
type Escalator struct {
	engine  interfaces.NotificationEngine
	records repository.MedicalRecordRepository
	users   repository.UserDirectory
	logger  *logger.Logger
}

// NewEscalator creates a new anomaly escalator
func NewEscalator(engine interfaces.NotificationEngine, records repository.MedicalRecordRepository, users repository.UserDirectory, log *logger.Logger) *Escalator {
	return &Escalator{
		engine:  engine,
		records: records,
		users:   users,
		logger:  log,
	}
}

// Escalate dispatches alert notifications for the confirmed labels of one
// reading
func (e *Escalator) Escalate(ctx context.Context, sensor *types.Sensor, confirmed []string, emergency bool) {
	record, err := e.records.GetByID(ctx, sensor.MedicalRecordID)
	if err != nil {
		e.logger.Errorf("Cannot escalate sensor %s: medical record lookup failed: %v", sensor.ID, err)
		return
	}

	recipients := map[string]bool{
		record.PatientID: true,
		record.DoctorID:  true,
	}

	notificationType := types.NotificationTypeSensor
	title := "Sensor alert"
	if emergency {
		notificationType = types.NotificationTypeEmergency
		title = "Emergency: critical vitals detected"

		admins, err := e.users.GetByRole(ctx, types.RoleSuperAdmin)
		if err != nil {
			e.logger.Errorf("Failed to list superadmins for emergency escalation: %v", err)
		} else {
			for _, admin := range admins {
				recipients[admin.ID] = true
			}
		}
	}

	message := fmt.Sprintf("Persistent anomaly detected: %s (heart rate %d bpm, SpO2 %d%%)",
		strings.Join(confirmed, ", "), sensor.HeartRate, sensor.OxygenSaturation)

	for userID := range recipients {
		e.dispatch(ctx, &types.Notification{
			UserID:   userID,
			Title:    title,
			Message:  message,
			Type:     notificationType,
			Priority: types.PriorityHigh,
			Data: map[string]interface{}{
				"sensor_id":         sensor.ID,
				"mac_address":       sensor.MACAddress,
				"medical_record_id": sensor.MedicalRecordID,
				"heart_rate":        sensor.HeartRate,
				"oxygen_saturation": sensor.OxygenSaturation,
				"anomalies":         confirmed,
				"emergency":         emergency,
			},
		})
	}
}

func (e *Escalator) dispatch(ctx context.Context, notification *types.Notification) {
	if _, err := e.engine.Create(ctx, notification); err != nil {
		if types.IsRateLimit(err) {
			e.logger.Warnf("Alert to %s skipped: %v", notification.UserID, err)
			return
		}
		e.logger.Errorf("Failed to alert %s: %v", notification.UserID, err)
	}
}

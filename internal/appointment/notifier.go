package appointment

import (
	"context"
	"fmt"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/repository"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Notifier fans appointment lifecycle events out to the recipients who care
// about them. Every dispatch is caught and logged individually; a notification
// failure never aborts the appointment operation that triggered it.
type Notifier struct {
	engine  interfaces.NotificationEngine
	records repository.MedicalRecordRepository
	users   repository.UserDirectory
	logger  *logger.Logger
}

// NewNotifier creates a new appointment notifier
func NewNotifier(engine interfaces.NotificationEngine, records repository.MedicalRecordRepository, users repository.UserDirectory, log *logger.Logger) *Notifier {
	return &Notifier{
		engine:  engine,
		records: records,
		users:   users,
		logger:  log,
	}
}

// SlotPublished notifies every patient under the doctor's care and all
// superadmins that a new slot is open.
func (n *Notifier) SlotPublished(ctx context.Context, apt *types.Appointment) {
	recipients := map[string]bool{}

	records, err := n.records.GetPatientsByDoctor(ctx, apt.DoctorID)
	if err != nil {
		n.logger.Errorf("Failed to list patients for doctor %s: %v", apt.DoctorID, err)
	} else {
		for _, record := range records {
			recipients[record.PatientID] = true
		}
	}

	admins, err := n.users.GetByRole(ctx, types.RoleSuperAdmin)
	if err != nil {
		n.logger.Errorf("Failed to list superadmins: %v", err)
	} else {
		for _, admin := range admins {
			recipients[admin.ID] = true
		}
	}

	for userID := range recipients {
		n.dispatch(ctx, &types.Notification{
			UserID:   userID,
			Title:    "New appointment slot available",
			Message:  fmt.Sprintf("A %s consultation is open on %s from %s to %s", apt.Specialty, apt.Date, apt.StartTime, apt.EndTime),
			Type:     types.NotificationTypeAppointment,
			Priority: types.PriorityMedium,
			Data:     appointmentData(apt),
		})
	}
}

// ParticipationRequested notifies the owning doctor of a pending request
func (n *Notifier) ParticipationRequested(ctx context.Context, apt *types.Appointment) {
	n.dispatch(ctx, &types.Notification{
		UserID:   apt.DoctorID,
		Title:    "Participation request received",
		Message:  fmt.Sprintf("A patient requested to join your %s slot on %s at %s", apt.Specialty, apt.Date, apt.StartTime),
		Type:     types.NotificationTypeAppointment,
		Priority: types.PriorityHigh,
		Data:     appointmentData(apt),
	})
}

// RequestResolved notifies the patient of the doctor's decision
func (n *Notifier) RequestResolved(ctx context.Context, apt *types.Appointment, patientID string, decision types.RequestDecision) {
	title := "Appointment request accepted"
	message := fmt.Sprintf("Your appointment on %s at %s is confirmed", apt.Date, apt.StartTime)
	if decision == types.DecisionRejected {
		title = "Appointment request declined"
		message = fmt.Sprintf("Your request for the slot on %s at %s was declined", apt.Date, apt.StartTime)
	}

	n.dispatch(ctx, &types.Notification{
		UserID:   patientID,
		Title:    title,
		Message:  message,
		Type:     types.NotificationTypeAppointment,
		Priority: types.PriorityHigh,
		Data:     appointmentData(apt),
	})
}

func (n *Notifier) dispatch(ctx context.Context, notification *types.Notification) {
	if _, err := n.engine.Create(ctx, notification); err != nil {
		if types.IsRateLimit(err) {
			n.logger.Warnf("Notification to %s skipped: %v", notification.UserID, err)
			return
		}
		n.logger.Errorf("Failed to notify %s: %v", notification.UserID, err)
	}
}

func appointmentData(apt *types.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"appointment_id": apt.ID,
		"doctor_id":      apt.DoctorID,
		"date":           apt.Date,
		"start_time":     apt.StartTime,
		"end_time":       apt.EndTime,
		"specialty":      string(apt.Specialty),
	}
}

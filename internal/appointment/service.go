package appointment

import (
	"context"
	"net/http"
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

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Service implements the AppointmentService interface
type Service struct {
	config     *config.Config
	logger     *logger.Logger
	repository interfaces.AppointmentRepository
	users      repository.UserDirectory
	notifier   *Notifier
	server     *http.Server

	// now is swappable so the past-date rule is testable
	now func() time.Time
}

// New creates a new appointment service
func New(cfg *config.Config, log *logger.Logger, repo interfaces.AppointmentRepository, users repository.UserDirectory, notifier *Notifier) *Service {
	return &Service{
		config:     cfg,
		logger:     log,
		repository: repo,
		users:      users,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Create publishes a new open slot for the calling doctor and fans the
// announcement out to the doctor's patients and all superadmins.
func (s *Service) Create(ctx context.Context, apt *types.Appointment, caller types.Identity) (*types.Appointment, error) {
	if caller.Role != types.RoleMedecin {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "only doctors can create appointments")
	}

	if apt.DoctorID == "" {
		apt.DoctorID = caller.UserID
	}
	if apt.DoctorID != caller.UserID {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "cannot create appointments for another doctor")
	}

	if err := s.validateSlot(apt); err != nil {
		return nil, err
	}

	conflicts, err := s.repository.FindOverlapping(ctx, apt.DoctorID, apt.Date, apt.StartTime, apt.EndTime)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, types.NewConflictError(types.ErrCodeOverlap, "appointment overlaps an existing slot", map[string]interface{}{
			"conflicting_appointment_id": conflicts[0].ID,
		})
	}

	now := s.now()
	apt.ID = uuid.New().String()
	apt.PatientID = nil
	apt.ParticipationRequested = false
	apt.RequestStatus = types.RequestStatusPending
	apt.CreatedAt = now
	apt.UpdatedAt = now

	if err := s.repository.Create(ctx, apt); err != nil {
		return nil, err
	}

	monitoring.RecordAppointmentTransition("created")
	s.notifier.SlotPublished(ctx, apt)

	s.logger.Infof("Doctor %s published slot %s (%s %s-%s)", apt.DoctorID, apt.ID, apt.Date, apt.StartTime, apt.EndTime)
	return apt, nil
}

// RequestParticipation claims an open slot for the calling patient. The claim
// is a conditional write: under concurrent requests exactly one patient wins
// and the loser observes an already-claimed conflict.
func (s *Service) RequestParticipation(ctx context.Context, appointmentID string, caller types.Identity) (*types.Appointment, error) {
	if caller.Role != types.RolePatient {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "only patients can request participation")
	}

	apt, err := s.repository.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.repository.ClaimParticipation(ctx, appointmentID, caller.UserID)
	if err != nil {
		return nil, err
	}

	if !claimed {
		// Lost the conditional write. Re-read to report which precondition failed.
		current, err := s.repository.GetByID(ctx, appointmentID)
		if err != nil {
			return nil, err
		}
		if current.PatientID != nil && *current.PatientID != caller.UserID {
			return nil, types.NewConflictError(types.ErrCodeAlreadyClaimed, "appointment already claimed by another patient", map[string]interface{}{
				"appointment_id": appointmentID,
			})
		}
		return nil, types.NewConflictError(types.ErrCodeAlreadyRequested, "participation already requested for this appointment", map[string]interface{}{
			"appointment_id": appointmentID,
		})
	}

	patientID := caller.UserID
	apt.PatientID = &patientID
	apt.ParticipationRequested = true
	apt.RequestStatus = types.RequestStatusPending

	monitoring.RecordAppointmentTransition("requested")
	s.notifier.ParticipationRequested(ctx, apt)

	s.logger.Infof("Patient %s requested participation in appointment %s", caller.UserID, appointmentID)
	return apt, nil
}

// ResolveRequest applies the owning doctor's accept/reject decision on a
// pending participation request. Rejection reopens the slot.
func (s *Service) ResolveRequest(ctx context.Context, appointmentID string, decision types.RequestDecision, patientID string, caller types.Identity) (*types.Appointment, error) {
	if decision != types.DecisionAccepted && decision != types.DecisionRejected {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "decision must be accepted or rejected", map[string]interface{}{
			"decision": string(decision),
		})
	}

	if caller.Role != types.RoleMedecin {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "only doctors can resolve participation requests")
	}

	apt, err := s.repository.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if apt.DoctorID != caller.UserID {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "appointment belongs to another doctor")
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.Role != types.RolePatient {
		return nil, types.NewNotFoundError(types.ErrCodeNotFound, "referenced user is not a patient")
	}

	if !apt.ParticipationRequested {
		return nil, types.NewConflictError(types.ErrCodeInvalidState, "appointment has no pending participation request", nil)
	}

	if apt.PatientID == nil || *apt.PatientID != patientID {
		return nil, types.NewConflictError(types.ErrCodeConflict, "appointment is claimed by a different patient", map[string]interface{}{
			"appointment_id": appointmentID,
		})
	}

	if decision == types.DecisionAccepted {
		if err := s.repository.UpdateResolution(ctx, appointmentID, types.RequestStatusAccepted, false); err != nil {
			return nil, err
		}
		apt.RequestStatus = types.RequestStatusAccepted
		monitoring.RecordAppointmentTransition("accepted")
	} else {
		if err := s.repository.UpdateResolution(ctx, appointmentID, types.RequestStatusRejected, true); err != nil {
			return nil, err
		}
		apt.RequestStatus = types.RequestStatusRejected
		apt.PatientID = nil
		apt.ParticipationRequested = false
		monitoring.RecordAppointmentTransition("rejected")
	}

	s.notifier.RequestResolved(ctx, apt, patientID, decision)

	s.logger.Infof("Doctor %s resolved appointment %s as %s", caller.UserID, appointmentID, decision)
	return apt, nil
}

// Delete removes an appointment. Only the owning doctor or a superadmin may
// delete.
func (s *Service) Delete(ctx context.Context, appointmentID string, caller types.Identity) error {
	apt, err := s.repository.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	if caller.Role != types.RoleSuperAdmin && apt.DoctorID != caller.UserID {
		return types.NewForbiddenError(types.ErrCodeForbidden, "appointment belongs to another doctor")
	}

	if err := s.repository.Delete(ctx, appointmentID); err != nil {
		return err
	}

	monitoring.RecordAppointmentTransition("deleted")
	return nil
}

// ListAvailable returns the patient-facing projection of a doctor's open
// slots with date >= today, ordered by date ascending.
func (s *Service) ListAvailable(ctx context.Context, doctorID string) ([]*types.AvailableAppointment, error) {
	if doctorID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "doctor ID is required", nil)
	}

	today := s.now().Format(dateLayout)
	appointments, err := s.repository.ListAvailable(ctx, doctorID, today)
	if err != nil {
		return nil, err
	}

	available := make([]*types.AvailableAppointment, 0, len(appointments))
	for _, apt := range appointments {
		available = append(available, &types.AvailableAppointment{
			ID:        apt.ID,
			Date:      apt.Date,
			StartTime: apt.StartTime,
			EndTime:   apt.EndTime,
			Specialty: apt.Specialty,
		})
	}
	return available, nil
}

// GetByUser returns the caller's own appointments: a doctor sees slots they
// published, a patient sees slots they claimed, a superadmin sees everything.
func (s *Service) GetByUser(ctx context.Context, caller types.Identity) ([]*types.Appointment, error) {
	filters, err := scopeFilters(&types.AppointmentFilters{}, caller)
	if err != nil {
		return nil, err
	}
	return s.repository.List(ctx, filters)
}

// GetPending returns the caller's appointments with a pending participation
// request.
func (s *Service) GetPending(ctx context.Context, caller types.Identity) ([]*types.Appointment, error) {
	filters, err := scopeFilters(&types.AppointmentFilters{RequestStatus: types.RequestStatusPending}, caller)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repository.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	// Unrequested open slots also carry the default pending status; only
	// actual requests belong here.
	pending := make([]*types.Appointment, 0, len(appointments))
	for _, apt := range appointments {
		if apt.ParticipationRequested {
			pending = append(pending, apt)
		}
	}
	return pending, nil
}

// GetAccepted returns the caller's accepted appointments
func (s *Service) GetAccepted(ctx context.Context, caller types.Identity) ([]*types.Appointment, error) {
	filters, err := scopeFilters(&types.AppointmentFilters{RequestStatus: types.RequestStatusAccepted}, caller)
	if err != nil {
		return nil, err
	}
	return s.repository.List(ctx, filters)
}

// GetAll returns appointments matching the given filters
func (s *Service) GetAll(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if filters == nil {
		filters = &types.AppointmentFilters{}
	}
	return s.repository.List(ctx, filters)
}

// GetStatsByMonth returns per-month appointment counts for a doctor
func (s *Service) GetStatsByMonth(ctx context.Context, doctorID string) ([]*types.MonthlyAppointmentStat, error) {
	if doctorID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "doctor ID is required", nil)
	}
	return s.repository.CountByMonth(ctx, doctorID)
}

// Start starts the appointment HTTP service
func (s *Service) Start(addr string) error {
	router := mux.NewRouter()
	router.Use(monitoring.HTTPMiddleware("appointment-service"))
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	s.logger.Infof("Starting Appointment Service on %s", addr)
	return s.server.ListenAndServe()
}

// Stop stops the appointment HTTP service
func (s *Service) Stop() error {
	if s.server != nil {
		s.logger.Infof("Stopping Appointment Service")
		return s.server.Close()
	}
	return nil
}

// validateSlot checks field presence, the temporal precondition and the
// start/end ordering of a new slot.
func (s *Service) validateSlot(apt *types.Appointment) error {
	details := map[string]interface{}{}

	if apt.Date == "" {
		details["date"] = "required"
	} else if _, err := time.Parse(dateLayout, apt.Date); err != nil {
		details["date"] = "must be formatted as 2006-01-02"
	}

	if apt.StartTime == "" {
		details["start_time"] = "required"
	} else if _, err := time.Parse(timeLayout, apt.StartTime); err != nil {
		details["start_time"] = "must be formatted as 15:04"
	}

	if apt.EndTime == "" {
		details["end_time"] = "required"
	} else if _, err := time.Parse(timeLayout, apt.EndTime); err != nil {
		details["end_time"] = "must be formatted as 15:04"
	}

	if !types.ValidSpecialty(apt.Specialty) {
		details["specialty"] = "must be Cardiologist, GeneralPractitioner or Pulmonologist"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid appointment", details)
	}

	if apt.EndTime <= apt.StartTime {
		return types.NewValidationError(types.ErrCodeInvalidInput, "end time must be after start time", map[string]interface{}{
			"start_time": apt.StartTime,
			"end_time":   apt.EndTime,
		})
	}

	now := s.now()
	today := now.Format(dateLayout)
	if apt.Date < today {
		return types.NewPastDateError("appointment date is in the past")
	}
	if apt.Date == today && apt.StartTime <= now.Format(timeLayout) {
		return types.NewPastDateError("appointment start time is in the past")
	}

	return nil
}

// scopeFilters restricts a query to what the caller is allowed to see
func scopeFilters(filters *types.AppointmentFilters, caller types.Identity) (*types.AppointmentFilters, error) {
	switch caller.Role {
	case types.RoleMedecin:
		filters.DoctorID = caller.UserID
	case types.RolePatient:
		filters.PatientID = caller.UserID
	case types.RoleSuperAdmin:
		// unrestricted
	default:
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "unknown role")
	}
	return filters, nil
}

package interfaces

import (
	"context"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// AppointmentService defines the interface for the appointment participation workflow
type AppointmentService interface {
	// Lifecycle
	Create(ctx context.Context, apt *types.Appointment, caller types.Identity) (*types.Appointment, error)
	RequestParticipation(ctx context.Context, appointmentID string, caller types.Identity) (*types.Appointment, error)
	ResolveRequest(ctx context.Context, appointmentID string, decision types.RequestDecision, patientID string, caller types.Identity) (*types.Appointment, error)
	Delete(ctx context.Context, appointmentID string, caller types.Identity) error

	// Queries
	ListAvailable(ctx context.Context, doctorID string) ([]*types.AvailableAppointment, error)
	GetByUser(ctx context.Context, caller types.Identity) ([]*types.Appointment, error)
	GetPending(ctx context.Context, caller types.Identity) ([]*types.Appointment, error)
	GetAccepted(ctx context.Context, caller types.Identity) ([]*types.Appointment, error)
	GetAll(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error)
	GetStatsByMonth(ctx context.Context, doctorID string) ([]*types.MonthlyAppointmentStat, error)

	// Service management
	Start(addr string) error
	Stop() error
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	Create(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	List(ctx context.Context, filters *types.AppointmentFilters) ([]*types.Appointment, error)
	ListAvailable(ctx context.Context, doctorID, fromDate string) ([]*types.Appointment, error)
	FindOverlapping(ctx context.Context, doctorID, date, startTime, endTime string) ([]*types.Appointment, error)

	// ClaimParticipation atomically claims an open slot for a patient. It
	// returns false when the conditional write matched no row, meaning the
	// slot was already claimed or requested concurrently.
	ClaimParticipation(ctx context.Context, appointmentID, patientID string) (bool, error)

	// UpdateResolution applies a doctor's accept/reject decision. clearPatient
	// releases the slot on rejection.
	UpdateResolution(ctx context.Context, appointmentID string, status types.RequestStatus, clearPatient bool) error

	Delete(ctx context.Context, id string) error
	CountByMonth(ctx context.Context, doctorID string) ([]*types.MonthlyAppointmentStat, error)
}

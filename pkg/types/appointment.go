package types

import "time"

// Appointment represents a consultation slot published by a doctor.
// Date is a calendar day ("2006-01-02"); StartTime and EndTime are local
// times of day ("15:04") interpreted in the doctor's local day.
type Appointment struct {
	ID                     string        `json:"id" db:"id"`
	Date                   string        `json:"date" db:"date"`
	StartTime              string        `json:"start_time" db:"start_time"`
	EndTime                string        `json:"end_time" db:"end_time"`
	Specialty              Specialty     `json:"specialty" db:"specialty"`
	DoctorID               string        `json:"doctor_id" db:"doctor_id"`
	PatientID              *string       `json:"patient_id,omitempty" db:"patient_id"`
	ParticipationRequested bool          `json:"participation_requested" db:"participation_requested"`
	RequestStatus          RequestStatus `json:"request_status" db:"request_status"`
	CreatedAt              time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at" db:"updated_at"`
}

// Specialty represents the medical specialty of an appointment slot
type Specialty string

const (
	SpecialtyCardiologist        Specialty = "Cardiologist"
	SpecialtyGeneralPractitioner Specialty = "GeneralPractitioner"
	SpecialtyPulmonologist       Specialty = "Pulmonologist"
)

// ValidSpecialty reports whether s is one of the closed specialty values
func ValidSpecialty(s Specialty) bool {
	switch s {
	case SpecialtyCardiologist, SpecialtyGeneralPractitioner, SpecialtyPulmonologist:
		return true
	}
	return false
}

// RequestStatus represents the participation request state of an appointment
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

// RequestDecision is a doctor's decision on a pending participation request
type RequestDecision string

const (
	DecisionAccepted RequestDecision = "accepted"
	DecisionRejected RequestDecision = "rejected"
)

// AvailableAppointment is the patient-facing projection of an open slot.
// Internal identifiers a browsing patient does not need are omitted.
type AvailableAppointment struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Specialty Specialty `json:"specialty"`
}

// AppointmentFilters represents filters for appointment queries
type AppointmentFilters struct {
	DoctorID      string        `json:"doctor_id,omitempty"`
	PatientID     string        `json:"patient_id,omitempty"`
	RequestStatus RequestStatus `json:"request_status,omitempty"`
	FromDate      string        `json:"from_date,omitempty"`
	ToDate        string        `json:"to_date,omitempty"`
	Limit         int           `json:"limit,omitempty"`
	Offset        int           `json:"offset,omitempty"`
}

// MonthlyAppointmentStat is the per-month appointment count aggregation
type MonthlyAppointmentStat struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

package types

import "time"

// Role represents the closed set of user roles. Role-specific behavior is
// handled with exhaustive switches rather than subtype polymorphism.
type Role string

const (
	RolePatient    Role = "patient"
	RoleMedecin    Role = "medecin"
	RoleSuperAdmin Role = "superadmin"
)

// ValidRole reports whether r is one of the closed role values
func ValidRole(r Role) bool {
	switch r {
	case RolePatient, RoleMedecin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an account in any role
type User struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Identity is the already-authenticated caller context passed in by the
// authentication layer. The core never authenticates; it only compares
// role and ownership.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// MedicalRecord links a patient to the doctor responsible for their care.
// Sensor escalation and appointment fan-out both route through this link.
type MedicalRecord struct {
	ID        string    `json:"id" db:"id"`
	PatientID string    `json:"patient_id" db:"patient_id"`
	DoctorID  string    `json:"doctor_id" db:"doctor_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

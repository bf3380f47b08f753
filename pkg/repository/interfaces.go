package repository

import (
	"context"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// UserDirectory defines the read-side interface over the user collection.
// The core never mutates users; account CRUD is an external collaborator.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*types.User, error)
	GetByRole(ctx context.Context, role types.Role) ([]*types.User, error)
}

// MedicalRecordRepository defines the interface over patient/doctor care links
type MedicalRecordRepository interface {
	GetByID(ctx context.Context, recordID string) (*types.MedicalRecord, error)
	GetPatientsByDoctor(ctx context.Context, doctorID string) ([]*types.MedicalRecord, error)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// UserRepository handles user directory lookups
type UserRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, log *logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: log,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*types.User, error) {
	query := `
		SELECT id, first_name, last_name, email, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &types.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("user not found: %s", userID))
		}
		r.logger.Errorf("Failed to get user %s: %v", userID, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get user", err)
	}

	return user, nil
}

// GetByRole retrieves all users with the given role
func (r *UserRepository) GetByRole(ctx context.Context, role types.Role) ([]*types.User, error) {
	query := `
		SELECT id, first_name, last_name, email, role, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, string(role))
	if err != nil {
		r.logger.Errorf("Failed to get users by role %s: %v", role, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get users by role", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		user := &types.User{}
		err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan user", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating users", err)
	}

	return users, nil
}

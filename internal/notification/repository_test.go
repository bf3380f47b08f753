package notification

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	log := logger.New("debug")
	repo := &Repository{
		db:     database.NewFromSQL(sqlDB, log),
		logger: log,
	}

	return repo, mock, func() { sqlDB.Close() }
}

func notificationRows(n *types.Notification) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "message", "type", "priority", "is_read", "read_at",
		"created_at", "reminder_sent", "reminder_count", "last_reminder_sent",
		"group_id", "group_type", "data",
	})

	var readAt, lastReminder interface{}
	if n.ReadAt != nil {
		readAt = *n.ReadAt
	}
	if n.LastReminderSent != nil {
		lastReminder = *n.LastReminderSent
	}
	var groupID, groupType interface{}
	if n.GroupID != nil {
		groupID = *n.GroupID
	}
	if n.GroupType != nil {
		groupType = string(*n.GroupType)
	}

	rows.AddRow(n.ID, n.UserID, n.Title, n.Message, string(n.Type), string(n.Priority),
		n.IsRead, readAt, n.CreatedAt, n.ReminderSent, n.ReminderCount, lastReminder,
		groupID, groupType, []byte(`{"emergency":true}`))
	return rows
}

func TestRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	n := &types.Notification{
		ID:        "n-1",
		UserID:    "user-1",
		Title:     "Sensor alert",
		Message:   "Persistent anomaly detected",
		Type:      types.NotificationTypeSensor,
		Priority:  types.PriorityHigh,
		CreatedAt: time.Now(),
		Data:      map[string]interface{}{"emergency": true},
	}

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(n.ID, n.UserID, n.Title, n.Message, "sensor", "high", false, nil,
			n.CreatedAt, false, 0, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), n)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_DecodesDataAndGroup(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	groupID := "group-1"
	groupType := types.GroupTypeDaily
	n := &types.Notification{
		ID: "n-1", UserID: "user-1", Title: "Sensor alert", Message: "m",
		Type: types.NotificationTypeEmergency, Priority: types.PriorityHigh,
		CreatedAt: time.Now(), GroupID: &groupID, GroupType: &groupType,
	}

	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE id").
		WithArgs("n-1").
		WillReturnRows(notificationRows(n))

	got, err := repo.GetByID(context.Background(), "n-1")

	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, "group-1", *got.GroupID)
	assert.Equal(t, types.GroupTypeDaily, *got.GroupType)
	assert.Equal(t, true, got.Data["emergency"])
}

func TestRepository_MarkRead_AlreadyRead(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectExec("UPDATE notifications").
		WithArgs("n-1", "user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkRead(context.Background(), "n-1", "user-1", time.Now())

	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestRepository_CountSince(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	since := time.Now().Add(-time.Hour)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountSince(context.Background(), "user-1", since)

	assert.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM notifications").
		WithArgs("missing", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing", "user-1")

	assert.True(t, types.IsNotFound(err))
}

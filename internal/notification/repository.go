package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Repository implements the NotificationRepository interface
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new notification repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.NotificationRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const notificationColumns = `id, user_id, title, message, type, priority, is_read, read_at,
	created_at, reminder_sent, reminder_count, last_reminder_sent, group_id, group_type, data`

func scanNotification(row interface {
	Scan(dest ...interface{}) error
}) (*types.Notification, error) {
	n := &types.Notification{}
	var readAt, lastReminderSent sql.NullTime
	var groupID, groupType sql.NullString
	var data []byte

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.Priority,
		&n.IsRead,
		&readAt,
		&n.CreatedAt,
		&n.ReminderSent,
		&n.ReminderCount,
		&lastReminderSent,
		&groupID,
		&groupType,
		&data,
	)
	if err != nil {
		return nil, err
	}

	if readAt.Valid {
		n.ReadAt = &readAt.Time
	}
	if lastReminderSent.Valid {
		n.LastReminderSent = &lastReminderSent.Time
	}
	if groupID.Valid {
		n.GroupID = &groupID.String
	}
	if groupType.Valid {
		gt := types.GroupType(groupType.String)
		n.GroupType = &gt
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}

	return n, nil
}

// Create persists a new notification
func (r *Repository) Create(ctx context.Context, n *types.Notification) error {
	var data []byte
	if n.Data != nil {
		var err error
		data, err = json.Marshal(n.Data)
		if err != nil {
			return types.NewInternalError(types.ErrCodeInternalError, "failed to encode notification data", err)
		}
	}

	var groupID, groupType interface{}
	if n.GroupID != nil {
		groupID = *n.GroupID
	}
	if n.GroupType != nil {
		groupType = string(*n.GroupType)
	}

	query := `
		INSERT INTO notifications (
			id, user_id, title, message, type, priority, is_read, read_at,
			created_at, reminder_sent, reminder_count, last_reminder_sent,
			group_id, group_type, data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		string(n.Type),
		string(n.Priority),
		n.IsRead,
		n.ReadAt,
		n.CreatedAt,
		n.ReminderSent,
		n.ReminderCount,
		n.LastReminderSent,
		groupID,
		groupType,
		data,
	)

	if err != nil {
		r.logger.Errorf("Failed to create notification: %v", err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to create notification", err)
	}

	return nil
}

// GetByID retrieves a notification by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1`, notificationColumns)

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("notification not found: %s", id))
		}
		r.logger.Errorf("Failed to get notification %s: %v", id, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to get notification", err)
	}

	return n, nil
}

// ListByUser retrieves a recipient's notifications, most recent first
func (r *Repository) ListByUser(ctx context.Context, userID string, filters *types.NotificationFilters) ([]*types.Notification, error) {
	query := fmt.Sprintf(`SELECT %s FROM notifications WHERE user_id = $1`, notificationColumns)

	args := []interface{}{userID}
	argIndex := 2

	if filters != nil {
		if filters.Type != "" {
			query += fmt.Sprintf(" AND type = $%d", argIndex)
			args = append(args, string(filters.Type))
			argIndex++
		}

		if filters.Priority != "" {
			query += fmt.Sprintf(" AND priority = $%d", argIndex)
			args = append(args, string(filters.Priority))
			argIndex++
		}

		if filters.Unread {
			query += " AND is_read = FALSE"
		}
	}

	query += " ORDER BY created_at DESC"

	if filters != nil && filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters != nil && filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	return r.queryNotifications(ctx, query, args...)
}

// CountSince counts a recipient's notifications created after the given time
func (r *Repository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND created_at > $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		r.logger.Errorf("Failed to count notifications for %s: %v", userID, err)
		return 0, types.NewInternalError(types.ErrCodeInternalError, "failed to count notifications", err)
	}

	return count, nil
}

// MarkRead conditionally flips the unread flag. False means the notification
// was already read or does not belong to the user.
func (r *Repository) MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $3
		WHERE id = $1 AND user_id = $2 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, userID, at)
	if err != nil {
		r.logger.Errorf("Failed to mark notification %s read: %v", id, err)
		return false, types.NewInternalError(types.ErrCodeInternalError, "failed to mark notification read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	return rowsAffected == 1, nil
}

// MarkAllRead marks all of a recipient's unread notifications read
func (r *Repository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $2
		WHERE user_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, userID, at)
	if err != nil {
		r.logger.Errorf("Failed to mark all notifications read for %s: %v", userID, err)
		return 0, types.NewInternalError(types.ErrCodeInternalError, "failed to mark notifications read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	return int(rowsAffected), nil
}

// MarkGroupRead marks every member of a group read for its recipient
func (r *Repository) MarkGroupRead(ctx context.Context, groupID, userID string, at time.Time) (int, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $3
		WHERE group_id = $1 AND user_id = $2 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, groupID, userID, at)
	if err != nil {
		r.logger.Errorf("Failed to mark group %s read: %v", groupID, err)
		return 0, types.NewInternalError(types.ErrCodeInternalError, "failed to mark group read", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	return int(rowsAffected), nil
}

// Delete removes a notification owned by the user
func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Errorf("Failed to delete notification %s: %v", id, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to delete notification", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("notification not found: %s", id))
	}

	return nil
}

// ListReminderCandidates returns unread, ungrouped notifications below the
// hard reminder ceiling, oldest first. Priority-specific delays and maximums
// are applied by the caller.
func (r *Repository) ListReminderCandidates(ctx context.Context, maxReminders int) ([]*types.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE is_read = FALSE
		  AND group_id IS NULL
		  AND reminder_count < $1
		ORDER BY created_at ASC`, notificationColumns)

	return r.queryNotifications(ctx, query, maxReminders)
}

// IncrementReminder bumps the reminder bookkeeping on the original notification
func (r *Repository) IncrementReminder(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE notifications
		SET reminder_sent = TRUE,
		    reminder_count = reminder_count + 1,
		    last_reminder_sent = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		r.logger.Errorf("Failed to increment reminder for %s: %v", id, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to increment reminder", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("notification not found: %s", id))
	}

	return nil
}

// ListUnreadUngroupedSince returns unread, ungrouped notifications created
// within the trailing window, across all users
func (r *Repository) ListUnreadUngroupedSince(ctx context.Context, since time.Time) ([]*types.Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM notifications
		WHERE is_read = FALSE
		  AND group_id IS NULL
		  AND created_at >= $1
		ORDER BY user_id, created_at DESC`, notificationColumns)

	return r.queryNotifications(ctx, query, since)
}

// SetGroup stamps a shared group on the given notifications
func (r *Repository) SetGroup(ctx context.Context, ids []string, groupID string, groupType types.GroupType) error {
	query := `
		UPDATE notifications
		SET group_id = $2, group_type = $3
		WHERE id = ANY($1)`

	_, err := r.db.ExecContext(ctx, query, pq.Array(ids), groupID, string(groupType))
	if err != nil {
		r.logger.Errorf("Failed to set group %s: %v", groupID, err)
		return types.NewInternalError(types.ErrCodeInternalError, "failed to set notification group", err)
	}

	return nil
}

// AggregateMetrics summarizes a recipient's notification activity
func (r *Repository) AggregateMetrics(ctx context.Context, userID string) (*types.NotificationMetrics, error) {
	metrics := &types.NotificationMetrics{
		ByType:     make(map[types.NotificationType]int),
		ByPriority: make(map[types.NotificationPriority]int),
	}

	totalsQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_read = FALSE),
		       COALESCE(AVG(EXTRACT(EPOCH FROM (read_at - created_at))) FILTER (WHERE read_at IS NOT NULL), 0)
		FROM notifications
		WHERE user_id = $1`

	err := r.db.QueryRowContext(ctx, totalsQuery, userID).
		Scan(&metrics.Total, &metrics.Unread, &metrics.AvgReadLatencySeconds)
	if err != nil {
		r.logger.Errorf("Failed to aggregate notification totals for %s: %v", userID, err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to aggregate notification metrics", err)
	}

	typeQuery := `SELECT type, COUNT(*) FROM notifications WHERE user_id = $1 GROUP BY type`
	rows, err := r.db.QueryContext(ctx, typeQuery, userID)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to aggregate notification metrics", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var count int
		if err := rows.Scan(&t, &count); err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan notification metrics", err)
		}
		metrics.ByType[types.NotificationType(t)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating notification metrics", err)
	}

	priorityQuery := `SELECT priority, COUNT(*) FROM notifications WHERE user_id = $1 GROUP BY priority`
	rows, err = r.db.QueryContext(ctx, priorityQuery, userID)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to aggregate notification metrics", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		var count int
		if err := rows.Scan(&p, &count); err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan notification metrics", err)
		}
		metrics.ByPriority[types.NotificationPriority(p)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating notification metrics", err)
	}

	return metrics, nil
}

func (r *Repository) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*types.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Errorf("Failed to query notifications: %v", err)
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to query notifications", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			r.logger.Errorf("Failed to scan notification: %v", err)
			return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to scan notification", err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "error iterating notifications", err)
	}

	return notifications, nil
}

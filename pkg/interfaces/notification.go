package interfaces

import (
	"context"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// SweepResult summarizes one reminder or grouping sweep run
type SweepResult struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// NotificationEngine defines the interface for notification creation,
// read tracking, grouping and the time-driven sweeps
type NotificationEngine interface {
	Create(ctx context.Context, n *types.Notification) (*types.Notification, error)
	ListByUser(ctx context.Context, userID string, filters *types.NotificationFilters) ([]*types.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*types.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notificationID, userID string) error
	GroupByTypeAndDay(ctx context.Context, userID string) ([]*types.NotificationGroup, error)
	MarkGroupRead(ctx context.Context, groupID, userID string) (int, error)
	Metrics(ctx context.Context, userID string) (*types.NotificationMetrics, error)

	// Sweeps are externally triggered, idempotent batch entry points
	RunReminderSweep(ctx context.Context) (*SweepResult, error)
	RunGroupingSweep(ctx context.Context, groupType types.GroupType) (*SweepResult, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, n *types.Notification) error
	GetByID(ctx context.Context, id string) (*types.Notification, error)
	ListByUser(ctx context.Context, userID string, filters *types.NotificationFilters) ([]*types.Notification, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)

	// MarkRead conditionally flips the unread flag; it returns false when the
	// notification was already read (or does not belong to the user).
	MarkRead(ctx context.Context, id, userID string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)
	MarkGroupRead(ctx context.Context, groupID, userID string, at time.Time) (int, error)
	Delete(ctx context.Context, id, userID string) error

	// ListReminderCandidates returns unread, ungrouped notifications whose
	// reminder count has not reached the hard ceiling; priority-specific
	// delays and maximums are applied by the caller.
	ListReminderCandidates(ctx context.Context, maxReminders int) ([]*types.Notification, error)
	IncrementReminder(ctx context.Context, id string, at time.Time) error

	// ListUnreadUngroupedSince returns unread, ungrouped notifications
	// created within the trailing window, across all users
	ListUnreadUngroupedSince(ctx context.Context, since time.Time) ([]*types.Notification, error)
	SetGroup(ctx context.Context, ids []string, groupID string, groupType types.GroupType) error

	AggregateMetrics(ctx context.Context, userID string) (*types.NotificationMetrics, error)
}

// NotificationSink defines the delivery boundary invoked after creation.
// Delivery failure is non-fatal; the notification is already persisted.
type NotificationSink interface {
	Deliver(ctx context.Context, n *types.Notification) error
}

package notification

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// Engine implements the NotificationEngine interface
type Engine struct {
	config     *config.Config
	logger     *logger.Logger
	repository interfaces.NotificationRepository
	sink       interfaces.NotificationSink
	server     *http.Server

	now func() time.Time
}

// New creates a new notification engine. sink may be nil when no live
// delivery channel is wired.
func New(cfg *config.Config, log *logger.Logger, repo interfaces.NotificationRepository, sink interfaces.NotificationSink) *Engine {
	return &Engine{
		config:     cfg,
		logger:     log,
		repository: repo,
		sink:       sink,
		now:        time.Now,
	}
}

// Create validates and persists a notification, enforcing the per-recipient
// quota over the trailing window. Delivery through the sink is best-effort;
// the notification is already persisted when delivery runs.
func (e *Engine) Create(ctx context.Context, n *types.Notification) (*types.Notification, error) {
	if err := validateNotification(n); err != nil {
		return nil, err
	}

	now := e.now()
	window := time.Duration(e.config.Notifications.RateLimitWindowMinutes) * time.Minute
	count, err := e.repository.CountSince(ctx, n.UserID, now.Add(-window))
	if err != nil {
		return nil, err
	}
	if count >= e.config.Notifications.RateLimitMax {
		monitoring.RecordNotificationRateLimited()
		return nil, types.NewRateLimitError("notification quota exceeded for recipient", map[string]interface{}{
			"user_id": n.UserID,
			"limit":   e.config.Notifications.RateLimitMax,
		})
	}

	n.ID = uuid.New().String()
	n.IsRead = false
	n.ReadAt = nil
	n.CreatedAt = now

	if err := e.repository.Create(ctx, n); err != nil {
		return nil, err
	}

	monitoring.RecordNotificationCreated(string(n.Type), string(n.Priority))

	if e.sink != nil {
		if err := e.sink.Deliver(ctx, n); err != nil {
			e.logger.Errorf("Failed to deliver notification %s: %v", n.ID, err)
		}
	}

	return n, nil
}

// ListByUser returns a recipient's notifications, most recent first
func (e *Engine) ListByUser(ctx context.Context, userID string, filters *types.NotificationFilters) ([]*types.Notification, error) {
	if userID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "user ID is required", nil)
	}
	return e.repository.ListByUser(ctx, userID, filters)
}

// ListUnread returns a recipient's unread notifications
func (e *Engine) ListUnread(ctx context.Context, userID string) ([]*types.Notification, error) {
	return e.ListByUser(ctx, userID, &types.NotificationFilters{Unread: true})
}

// MarkRead marks one notification read. Idempotent: marking an already-read
// notification succeeds without touching its read timestamp.
func (e *Engine) MarkRead(ctx context.Context, notificationID, userID string) (*types.Notification, error) {
	n, err := e.repository.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "notification belongs to another user")
	}

	changed, err := e.repository.MarkRead(ctx, notificationID, userID, e.now())
	if err != nil {
		return nil, err
	}

	if changed {
		return e.repository.GetByID(ctx, notificationID)
	}
	return n, nil
}

// MarkAllRead marks all of a recipient's unread notifications read and
// returns how many changed
func (e *Engine) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, types.NewValidationError(types.ErrCodeInvalidInput, "user ID is required", nil)
	}
	return e.repository.MarkAllRead(ctx, userID, e.now())
}

// Delete removes a notification owned by the user
func (e *Engine) Delete(ctx context.Context, notificationID, userID string) error {
	return e.repository.Delete(ctx, notificationID, userID)
}

// GroupByTypeAndDay buckets a recipient's unread notifications by type and
// calendar day, most recent bucket first
func (e *Engine) GroupByTypeAndDay(ctx context.Context, userID string) ([]*types.NotificationGroup, error) {
	unread, err := e.ListUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	type bucketKey struct {
		t   types.NotificationType
		day string
	}

	buckets := make(map[bucketKey]*types.NotificationGroup)
	for _, n := range unread {
		key := bucketKey{t: n.Type, day: n.CreatedAt.Format("2006-01-02")}
		group, ok := buckets[key]
		if !ok {
			group = &types.NotificationGroup{Type: n.Type, Day: key.day}
			buckets[key] = group
		}
		group.Count++
		group.Members = append(group.Members, n)
		if group.MostRecent == nil || n.CreatedAt.After(group.MostRecent.CreatedAt) {
			group.MostRecent = n
		}
	}

	groups := make([]*types.NotificationGroup, 0, len(buckets))
	for _, group := range buckets {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].MostRecent.CreatedAt.After(groups[j].MostRecent.CreatedAt)
	})

	return groups, nil
}

// MarkGroupRead marks every member of a group read for the recipient
func (e *Engine) MarkGroupRead(ctx context.Context, groupID, userID string) (int, error) {
	if groupID == "" {
		return 0, types.NewValidationError(types.ErrCodeInvalidInput, "group ID is required", nil)
	}
	return e.repository.MarkGroupRead(ctx, groupID, userID, e.now())
}

// Metrics summarizes a recipient's notification activity
func (e *Engine) Metrics(ctx context.Context, userID string) (*types.NotificationMetrics, error) {
	if userID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "user ID is required", nil)
	}
	return e.repository.AggregateMetrics(ctx, userID)
}

// Start starts the notification HTTP service
func (e *Engine) Start(addr string) error {
	router := mux.NewRouter()
	router.Use(monitoring.HTTPMiddleware("notification-service"))
	e.setupRoutes(router)

	e.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	e.logger.Infof("Starting Notification Service on %s", addr)
	return e.server.ListenAndServe()
}

// Stop stops the notification HTTP service
func (e *Engine) Stop() error {
	if e.server != nil {
		e.logger.Infof("Stopping Notification Service")
		return e.server.Close()
	}
	return nil
}

func validateNotification(n *types.Notification) error {
	details := map[string]interface{}{}

	if n.UserID == "" {
		details["user_id"] = "required"
	}
	if n.Title == "" {
		details["title"] = "required"
	}
	if n.Message == "" {
		details["message"] = "required"
	}
	if !types.ValidNotificationType(n.Type) {
		details["type"] = "must be appointment, sensor, emergency, system or medical"
	}
	if !types.ValidNotificationPriority(n.Priority) {
		details["priority"] = "must be low, medium or high"
	}

	if len(details) > 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "invalid notification", details)
	}
	return nil
}

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/interfaces"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// reminderDelay returns how old an unread notification must be before it
// becomes reminder-eligible
func (e *Engine) reminderDelay(priority types.NotificationPriority) time.Duration {
	cfg := e.config.Notifications
	switch priority {
	case types.PriorityHigh:
		return time.Duration(cfg.ReminderDelayHighMinutes) * time.Minute
	case types.PriorityMedium:
		return time.Duration(cfg.ReminderDelayMediumMinutes) * time.Minute
	default:
		return time.Duration(cfg.ReminderDelayLowMinutes) * time.Minute
	}
}

// reminderMax returns the per-priority reminder ceiling
func (e *Engine) reminderMax(priority types.NotificationPriority) int {
	cfg := e.config.Notifications
	switch priority {
	case types.PriorityHigh:
		return cfg.ReminderMaxHigh
	case types.PriorityMedium:
		return cfg.ReminderMaxMedium
	default:
		return cfg.ReminderMaxLow
	}
}

// RunReminderSweep scans unread, ungrouped notifications and produces a
// derived reminder for each one past its priority delay and under its
// priority maximum. A failure on one item is logged and does not stop the
// batch.
func (e *Engine) RunReminderSweep(ctx context.Context) (*interfaces.SweepResult, error) {
	cfg := e.config.Notifications
	ceiling := cfg.ReminderMaxHigh
	if cfg.ReminderMaxMedium > ceiling {
		ceiling = cfg.ReminderMaxMedium
	}
	if cfg.ReminderMaxLow > ceiling {
		ceiling = cfg.ReminderMaxLow
	}

	candidates, err := e.repository.ListReminderCandidates(ctx, ceiling)
	if err != nil {
		return nil, err
	}

	now := e.now()
	result := &interfaces.SweepResult{Scanned: len(candidates)}

	for _, n := range candidates {
		if n.ReminderCount >= e.reminderMax(n.Priority) {
			continue
		}
		if now.Sub(n.CreatedAt) < e.reminderDelay(n.Priority) {
			continue
		}

		reminder := &types.Notification{
			UserID:   n.UserID,
			Title:    "Reminder: " + n.Title,
			Message:  n.Message,
			Type:     n.Type,
			Priority: n.Priority,
			Data: map[string]interface{}{
				"reminder":                 true,
				"original_notification_id": n.ID,
			},
		}

		if _, err := e.Create(ctx, reminder); err != nil {
			e.logger.Errorf("Reminder for notification %s failed: %v", n.ID, err)
			result.Failed++
			continue
		}

		if err := e.repository.IncrementReminder(ctx, n.ID, now); err != nil {
			e.logger.Errorf("Failed to record reminder for notification %s: %v", n.ID, err)
			result.Failed++
			continue
		}

		monitoring.RecordReminderSent(string(n.Priority))
		result.Created++
	}

	e.logger.Infof("Reminder sweep scanned=%d created=%d failed=%d", result.Scanned, result.Created, result.Failed)
	return result, nil
}

// RunGroupingSweep collects each user's unread, ungrouped notifications from
// the trailing window (24h for daily, 7d for weekly), creates one summary
// notification per user and stamps the originals with a shared group. Grouped
// notifications leave the individual reminder pool.
func (e *Engine) RunGroupingSweep(ctx context.Context, groupType types.GroupType) (*interfaces.SweepResult, error) {
	var window time.Duration
	switch groupType {
	case types.GroupTypeDaily:
		window = 24 * time.Hour
	case types.GroupTypeWeekly:
		window = 7 * 24 * time.Hour
	default:
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "group type must be daily or weekly", nil)
	}

	now := e.now()
	pending, err := e.repository.ListUnreadUngroupedSince(ctx, now.Add(-window))
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]*types.Notification)
	for _, n := range pending {
		byUser[n.UserID] = append(byUser[n.UserID], n)
	}

	result := &interfaces.SweepResult{Scanned: len(pending)}

	for userID, notifications := range byUser {
		groupID := uuid.New().String()

		ids := make([]string, 0, len(notifications))
		titles := make([]string, 0, len(notifications))
		for _, n := range notifications {
			ids = append(ids, n.ID)
			if len(titles) < 5 {
				titles = append(titles, n.Title)
			}
		}

		summary := &types.Notification{
			UserID:   userID,
			Title:    fmt.Sprintf("You have %d unread notifications", len(notifications)),
			Message:  summaryMessage(titles, len(notifications)),
			Type:     types.NotificationTypeSystem,
			Priority: types.PriorityLow,
			Data: map[string]interface{}{
				"group_id":     groupID,
				"group_type":   string(groupType),
				"member_ids":   ids,
				"member_count": len(notifications),
			},
		}

		if _, err := e.Create(ctx, summary); err != nil {
			e.logger.Errorf("Grouping summary for user %s failed: %v", userID, err)
			result.Failed += len(notifications)
			continue
		}

		// Stamp the summary as well so it never re-enters grouping or the
		// reminder pool.
		ids = append(ids, summary.ID)

		if err := e.repository.SetGroup(ctx, ids, groupID, groupType); err != nil {
			e.logger.Errorf("Failed to stamp group %s for user %s: %v", groupID, userID, err)
			result.Failed += len(notifications)
			continue
		}

		result.Created++
	}

	e.logger.Infof("Grouping sweep (%s) scanned=%d groups=%d failed=%d", groupType, result.Scanned, result.Created, result.Failed)
	return result, nil
}

func summaryMessage(titles []string, total int) string {
	msg := "Unread: "
	for i, title := range titles {
		if i > 0 {
			msg += "; "
		}
		msg += title
	}
	if total > len(titles) {
		msg += fmt.Sprintf(" and %d more", total-len(titles))
	}
	return msg
}

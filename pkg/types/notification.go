package types

import "time"

// NotificationType represents the category of a notification
type NotificationType string

const (
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeSensor      NotificationType = "sensor"
	NotificationTypeEmergency   NotificationType = "emergency"
	NotificationTypeSystem      NotificationType = "system"
	NotificationTypeMedical     NotificationType = "medical"
)

// ValidNotificationType reports whether t is one of the closed type values
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeAppointment, NotificationTypeSensor, NotificationTypeEmergency,
		NotificationTypeSystem, NotificationTypeMedical:
		return true
	}
	return false
}

// NotificationPriority represents the urgency of a notification. Emergency
// call sites use priority high with the emergency flag carried in Data;
// there is no separate "urgent" priority.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// ValidNotificationPriority reports whether p is one of the closed priority values
func ValidNotificationPriority(p NotificationPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// GroupType represents the grouping window of a notification summary
type GroupType string

const (
	GroupTypeDaily  GroupType = "daily"
	GroupTypeWeekly GroupType = "weekly"
)

// Notification represents an in-app notification for a single recipient
type Notification struct {
	ID               string                 `json:"id" db:"id"`
	UserID           string                 `json:"user_id" db:"user_id"`
	Title            string                 `json:"title" db:"title"`
	Message          string                 `json:"message" db:"message"`
	Type             NotificationType       `json:"type" db:"type"`
	Priority         NotificationPriority   `json:"priority" db:"priority"`
	IsRead           bool                   `json:"is_read" db:"is_read"`
	ReadAt           *time.Time             `json:"read_at,omitempty" db:"read_at"`
	CreatedAt        time.Time              `json:"created_at" db:"created_at"`
	ReminderSent     bool                   `json:"reminder_sent" db:"reminder_sent"`
	ReminderCount    int                    `json:"reminder_count" db:"reminder_count"`
	LastReminderSent *time.Time             `json:"last_reminder_sent,omitempty" db:"last_reminder_sent"`
	GroupID          *string                `json:"group_id,omitempty" db:"group_id"`
	GroupType        *GroupType             `json:"group_type,omitempty" db:"group_type"`
	Data             map[string]interface{} `json:"data,omitempty" db:"data"`
}

// NotificationFilters represents filters for notification listing
type NotificationFilters struct {
	Type     NotificationType     `json:"type,omitempty"`
	Priority NotificationPriority `json:"priority,omitempty"`
	Unread   bool                 `json:"unread,omitempty"`
	Limit    int                  `json:"limit,omitempty"`
	Offset   int                  `json:"offset,omitempty"`
}

// NotificationGroup is a bucket of unread notifications sharing a type and
// calendar day, sorted into the group listing most-recent-first
type NotificationGroup struct {
	Type       NotificationType `json:"type"`
	Day        string           `json:"day"`
	Count      int              `json:"count"`
	MostRecent *Notification    `json:"most_recent"`
	Members    []*Notification  `json:"members"`
}

// NotificationMetrics summarizes a recipient's notification activity
type NotificationMetrics struct {
	Total                 int                          `json:"total"`
	Unread                int                          `json:"unread"`
	ByType                map[NotificationType]int     `json:"by_type"`
	ByPriority            map[NotificationPriority]int `json:"by_priority"`
	AvgReadLatencySeconds float64                      `json:"avg_read_latency_seconds"`
}

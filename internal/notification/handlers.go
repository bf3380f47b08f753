package notification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// setupRoutes configures HTTP routes for the notification service
func (e *Engine) setupRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/notifications", e.createNotificationHandler).Methods("POST")
	api.HandleFunc("/notifications", e.listNotificationsHandler).Methods("GET")
	api.HandleFunc("/notifications/unread", e.listUnreadHandler).Methods("GET")
	api.HandleFunc("/notifications/read-all", e.markAllReadHandler).Methods("PUT")
	api.HandleFunc("/notifications/groups", e.listGroupsHandler).Methods("GET")
	api.HandleFunc("/notifications/groups/{groupId}/read", e.markGroupReadHandler).Methods("PUT")
	api.HandleFunc("/notifications/metrics", e.metricsHandler).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", e.markReadHandler).Methods("PUT")
	api.HandleFunc("/notifications/{id}", e.deleteNotificationHandler).Methods("DELETE")

	// Sweep entry points for the external clock trigger
	api.HandleFunc("/sweeps/reminders", e.reminderSweepHandler).Methods("POST")
	api.HandleFunc("/sweeps/grouping", e.groupingSweepHandler).Methods("POST")

	api.HandleFunc("/health", e.healthCheckHandler).Methods("GET")
	router.Handle("/metrics", monitoring.MetricsHandler()).Methods("GET")

	e.logger.Infof("Notification service routes configured")
}

// createNotificationHandler handles notification creation
func (e *Engine) createNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var n types.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		e.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	created, err := e.Create(r.Context(), &n)
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusCreated, created)
}

// listNotificationsHandler lists the caller's notifications
func (e *Engine) listNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	notifications, err := e.ListByUser(r.Context(), e.callerID(r), e.parseNotificationFilters(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, notifications)
}

// listUnreadHandler lists the caller's unread notifications
func (e *Engine) listUnreadHandler(w http.ResponseWriter, r *http.Request) {
	notifications, err := e.ListUnread(r.Context(), e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, notifications)
}

// markReadHandler marks one notification read
func (e *Engine) markReadHandler(w http.ResponseWriter, r *http.Request) {
	n, err := e.MarkRead(r.Context(), mux.Vars(r)["id"], e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, n)
}

// markAllReadHandler marks all of the caller's notifications read
func (e *Engine) markAllReadHandler(w http.ResponseWriter, r *http.Request) {
	count, err := e.MarkAllRead(r.Context(), e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, map[string]int{"marked_read": count})
}

// deleteNotificationHandler deletes one of the caller's notifications
func (e *Engine) deleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.Delete(r.Context(), mux.Vars(r)["id"], e.callerID(r)); err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// listGroupsHandler buckets the caller's unread notifications by type and day
func (e *Engine) listGroupsHandler(w http.ResponseWriter, r *http.Request) {
	groups, err := e.GroupByTypeAndDay(r.Context(), e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, groups)
}

// markGroupReadHandler marks a whole group read
func (e *Engine) markGroupReadHandler(w http.ResponseWriter, r *http.Request) {
	count, err := e.MarkGroupRead(r.Context(), mux.Vars(r)["groupId"], e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, map[string]int{"marked_read": count})
}

// metricsHandler summarizes the caller's notification activity
func (e *Engine) metricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := e.Metrics(r.Context(), e.callerID(r))
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, metrics)
}

// reminderSweepHandler runs one reminder sweep
func (e *Engine) reminderSweepHandler(w http.ResponseWriter, r *http.Request) {
	result, err := e.RunReminderSweep(r.Context())
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, result)
}

// groupingSweepHandler runs one grouping sweep; ?type=daily|weekly
func (e *Engine) groupingSweepHandler(w http.ResponseWriter, r *http.Request) {
	groupType := types.GroupType(r.URL.Query().Get("type"))
	if groupType == "" {
		groupType = types.GroupTypeDaily
	}

	result, err := e.RunGroupingSweep(r.Context(), groupType)
	if err != nil {
		e.writeErrorResponse(w, err)
		return
	}

	e.writeJSONResponse(w, http.StatusOK, result)
}

// healthCheckHandler handles health checks
func (e *Engine) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	e.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "notification-service",
	})
}

func (e *Engine) callerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// parseNotificationFilters parses query parameters into notification filters
func (e *Engine) parseNotificationFilters(r *http.Request) *types.NotificationFilters {
	filters := &types.NotificationFilters{}

	if t := r.URL.Query().Get("type"); t != "" {
		filters.Type = types.NotificationType(t)
	}

	if priority := r.URL.Query().Get("priority"); priority != "" {
		filters.Priority = types.NotificationPriority(priority)
	}

	if unread := r.URL.Query().Get("unread"); unread == "true" {
		filters.Unread = true
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filters.Limit = parsed
		}
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
}

// writeJSONResponse writes a JSON response
func (e *Engine) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		e.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse maps a service error onto the wire
func (e *Engine) writeErrorResponse(w http.ResponseWriter, err error) {
	appErr, ok := types.AsAppError(err)
	if !ok {
		appErr = types.NewInternalError(types.ErrCodeInternalError, "internal error", err)
	}

	e.logger.Errorf("Request failed: %v", err)

	response := map[string]interface{}{
		"type":    appErr.Type,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		response["details"] = appErr.Details
	}
	if appErr.Cause != nil && e.config != nil && e.config.Development {
		response["cause"] = appErr.Cause.Error()
	}

	e.writeJSONResponse(w, appErr.HTTPStatus(), response)
}

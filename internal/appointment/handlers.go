package appointment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// setupRoutes configures HTTP routes for the appointment service
func (s *Service) setupRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/appointments", s.createAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments", s.getAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/user", s.getUserAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/pending", s.getPendingAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/accepted", s.getAcceptedAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", s.deleteAppointmentHandler).Methods("DELETE")
	api.HandleFunc("/appointments/{id}/participation", s.requestParticipationHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/resolution", s.resolveRequestHandler).Methods("PUT")

	api.HandleFunc("/doctors/{doctorId}/available-appointments", s.getAvailableAppointmentsHandler).Methods("GET")
	api.HandleFunc("/doctors/{doctorId}/appointment-stats", s.getMonthlyStatsHandler).Methods("GET")

	api.HandleFunc("/health", s.healthCheckHandler).Methods("GET")
	router.Handle("/metrics", monitoring.MetricsHandler()).Methods("GET")

	s.logger.Infof("Appointment service routes configured")
}

// createAppointmentHandler handles slot publication by a doctor
func (s *Service) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var apt types.Appointment
	if err := json.NewDecoder(r.Body).Decode(&apt); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	created, err := s.Create(r.Context(), &apt, s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, created)
}

// requestParticipationHandler handles a patient's claim on an open slot
func (s *Service) requestParticipationHandler(w http.ResponseWriter, r *http.Request) {
	apt, err := s.RequestParticipation(r.Context(), mux.Vars(r)["id"], s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, apt)
}

// resolveRequestHandler handles the owning doctor's accept/reject decision
func (s *Service) resolveRequestHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision  types.RequestDecision `json:"decision"`
		PatientID string                `json:"patient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	apt, err := s.ResolveRequest(r.Context(), mux.Vars(r)["id"], body.Decision, body.PatientID, s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, apt)
}

// deleteAppointmentHandler handles appointment deletion
func (s *Service) deleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Delete(r.Context(), mux.Vars(r)["id"], s.callerFromRequest(r)); err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// getAvailableAppointmentsHandler handles the patient-facing open-slot listing
func (s *Service) getAvailableAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	available, err := s.ListAvailable(r.Context(), mux.Vars(r)["doctorId"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, available)
}

// getUserAppointmentsHandler handles the caller's own appointment listing
func (s *Service) getUserAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.GetByUser(r.Context(), s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getPendingAppointmentsHandler lists the caller's pending participation requests
func (s *Service) getPendingAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.GetPending(r.Context(), s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getAcceptedAppointmentsHandler lists the caller's accepted appointments
func (s *Service) getAcceptedAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.GetAccepted(r.Context(), s.callerFromRequest(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getAppointmentsHandler handles the filtered appointment listing
func (s *Service) getAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.GetAll(r.Context(), s.parseAppointmentFilters(r))
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, appointments)
}

// getMonthlyStatsHandler returns per-month appointment counts for a doctor
func (s *Service) getMonthlyStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.GetStatsByMonth(r.Context(), mux.Vars(r)["doctorId"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, stats)
}

// healthCheckHandler handles health checks
func (s *Service) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "appointment-service",
	})
}

// callerFromRequest extracts the authenticated identity propagated by the
// gateway. Authentication itself happens upstream.
func (s *Service) callerFromRequest(r *http.Request) types.Identity {
	return types.Identity{
		UserID: r.Header.Get("X-User-ID"),
		Role:   types.Role(r.Header.Get("X-User-Role")),
	}
}

// parseAppointmentFilters parses query parameters into appointment filters
func (s *Service) parseAppointmentFilters(r *http.Request) *types.AppointmentFilters {
	filters := &types.AppointmentFilters{}

	if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
		filters.DoctorID = doctorID
	}

	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		filters.PatientID = patientID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filters.RequestStatus = types.RequestStatus(status)
	}

	if fromDate := r.URL.Query().Get("from_date"); fromDate != "" {
		filters.FromDate = fromDate
	}

	if toDate := r.URL.Query().Get("to_date"); toDate != "" {
		filters.ToDate = toDate
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
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse maps a service error onto the wire. Internal causes are
// only exposed when running in development mode.
func (s *Service) writeErrorResponse(w http.ResponseWriter, err error) {
	appErr, ok := types.AsAppError(err)
	if !ok {
		appErr = types.NewInternalError(types.ErrCodeInternalError, "internal error", err)
	}

	s.logger.Errorf("Request failed: %v", err)

	response := map[string]interface{}{
		"type":    appErr.Type,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		response["details"] = appErr.Details
	}
	if appErr.Cause != nil && s.config != nil && s.config.Development {
		response["cause"] = appErr.Cause.Error()
	}

	s.writeJSONResponse(w, appErr.HTTPStatus(), response)
}

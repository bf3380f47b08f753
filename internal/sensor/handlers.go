package sensor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/monitoring"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

// setupRoutes configures HTTP routes for the sensor service
func (s *Service) setupRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/sensors", s.assignSensorHandler).Methods("POST")
	api.HandleFunc("/sensors/readings", s.ingestReadingHandler).Methods("POST")
	api.HandleFunc("/sensors/latest-reading", s.latestReadingHandler).Methods("GET")
	api.HandleFunc("/sensors/{id}", s.getSensorHandler).Methods("GET")

	api.HandleFunc("/health", s.healthCheckHandler).Methods("GET")
	router.Handle("/metrics", monitoring.MetricsHandler()).Methods("GET")

	s.logger.Infof("Sensor service routes configured")
}

// readingRequest is the wire form of an incoming reading. The timestamp may
// be a full RFC 3339 date-time or a bare wall clock from devices without a
// calendar.
type readingRequest struct {
	MACAddress       string `json:"mac_address"`
	HeartRate        int    `json:"heart_rate"`
	OxygenSaturation int    `json:"oxygen_saturation"`
	Timestamp        string `json:"timestamp"`
}

// ingestReadingHandler handles one incoming sensor reading
func (s *Service) ingestReadingHandler(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	reading := &types.SensorReading{
		MACAddress:       req.MACAddress,
		HeartRate:        req.HeartRate,
		OxygenSaturation: req.OxygenSaturation,
	}

	if req.Timestamp != "" {
		ts, err := parseTimestamp(req.Timestamp)
		if err != nil {
			s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid timestamp", map[string]interface{}{
				"timestamp": req.Timestamp,
			}))
			return
		}
		reading.Timestamp = ts
	}

	sensor, err := s.Ingest(r.Context(), reading)
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, sensor)
}

// assignSensorHandler handles binding a MAC address to a medical record
func (s *Service) assignSensorHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MACAddress      string `json:"mac_address"`
		MedicalRecordID string `json:"medical_record_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorResponse(w, types.NewValidationError(types.ErrCodeInvalidInput, "invalid request body", nil))
		return
	}

	caller := types.Identity{
		UserID: r.Header.Get("X-User-ID"),
		Role:   types.Role(r.Header.Get("X-User-Role")),
	}

	sensor, err := s.AssignSensor(r.Context(), body.MACAddress, body.MedicalRecordID, caller)
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, sensor)
}

// getSensorHandler handles sensor retrieval
func (s *Service) getSensorHandler(w http.ResponseWriter, r *http.Request) {
	sensor, err := s.GetSensor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, sensor)
}

// latestReadingHandler returns the most recently ingested reading
func (s *Service) latestReadingHandler(w http.ResponseWriter, r *http.Request) {
	reading, err := s.GetLatestReading(r.Context())
	if err != nil {
		s.writeErrorResponse(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, reading)
}

// healthCheckHandler handles health checks
func (s *Service) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sensor-service",
	})
}

// parseTimestamp accepts RFC 3339 or a bare time of day
func parseTimestamp(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "15:04:05", "15:04"}

	var err error
	for _, layout := range layouts {
		var ts time.Time
		if ts, err = time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// writeJSONResponse writes a JSON response
func (s *Service) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse maps a service error onto the wire
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

package types

import "time"

// SensorStatus represents the operational state of a sensor
type SensorStatus string

const (
	SensorStatusActive   SensorStatus = "active"
	SensorStatusInactive SensorStatus = "inactive"
)

// Sensor represents a physiological sensor bound to a medical record.
// The latest vitals are always stored, even when a reading is out of the
// plausible range; only alert escalation is gated.
type Sensor struct {
	ID               string       `json:"id" db:"id"`
	MACAddress       string       `json:"mac_address" db:"mac_address"`
	MedicalRecordID  string       `json:"medical_record_id" db:"medical_record_id"`
	HeartRate        int          `json:"heart_rate" db:"heart_rate"`
	OxygenSaturation int          `json:"oxygen_saturation" db:"oxygen_saturation"`
	Timestamp        time.Time    `json:"timestamp" db:"timestamp"`
	Status           SensorStatus `json:"status" db:"status"`
	Anomalies        []string     `json:"anomalies" db:"anomalies"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}

// SensorReading is a single incoming measurement from a sensor
type SensorReading struct {
	MACAddress       string    `json:"mac_address"`
	HeartRate        int       `json:"heart_rate"`
	OxygenSaturation int       `json:"oxygen_saturation"`
	Timestamp        time.Time `json:"timestamp"`
}

// LatestReading is the most recent reading cached for the live endpoint
type LatestReading struct {
	SensorID         string    `json:"sensor_id"`
	MedicalRecordID  string    `json:"medical_record_id"`
	MACAddress       string    `json:"mac_address"`
	HeartRate        int       `json:"heart_rate"`
	OxygenSaturation int       `json:"oxygen_saturation"`
	Timestamp        time.Time `json:"timestamp"`
	Anomalies        []string  `json:"anomalies,omitempty"`
	Emergency        bool      `json:"emergency"`
}

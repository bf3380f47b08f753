package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createUsersTable,
		createMedicalRecordsTable,
		createAppointmentsTable,
		createSensorsTable,
		createNotificationsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createAppointmentsIndexes,
		createSensorsIndexes,
		createNotificationsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) UNIQUE NOT NULL,
	role VARCHAR(20) NOT NULL CHECK (role IN ('patient', 'medecin', 'superadmin')),
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createMedicalRecordsTable = `
CREATE TABLE IF NOT EXISTS medical_records (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	patient_id UUID NOT NULL REFERENCES users(id),
	doctor_id UUID NOT NULL REFERENCES users(id),
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createAppointmentsTable = `
CREATE TABLE IF NOT EXISTS appointments (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	date DATE NOT NULL,
	start_time VARCHAR(5) NOT NULL,
	end_time VARCHAR(5) NOT NULL,
	specialty VARCHAR(40) NOT NULL,
	doctor_id UUID NOT NULL REFERENCES users(id),
	patient_id UUID REFERENCES users(id),
	participation_requested BOOLEAN NOT NULL DEFAULT FALSE,
	request_status VARCHAR(10) NOT NULL DEFAULT 'pending'
		CHECK (request_status IN ('pending', 'accepted', 'rejected')),
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createSensorsTable = `
CREATE TABLE IF NOT EXISTS sensors (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	mac_address VARCHAR(17) UNIQUE NOT NULL,
	medical_record_id UUID NOT NULL REFERENCES medical_records(id),
	heart_rate INTEGER NOT NULL DEFAULT 0,
	oxygen_saturation INTEGER NOT NULL DEFAULT 0,
	timestamp TIMESTAMP WITH TIME ZONE,
	status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
	anomalies TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	user_id UUID NOT NULL REFERENCES users(id),
	title VARCHAR(255) NOT NULL,
	message TEXT NOT NULL,
	type VARCHAR(20) NOT NULL
		CHECK (type IN ('appointment', 'sensor', 'emergency', 'system', 'medical')),
	priority VARCHAR(10) NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	read_at TIMESTAMP WITH TIME ZONE,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	reminder_sent BOOLEAN NOT NULL DEFAULT FALSE,
	reminder_count INTEGER NOT NULL DEFAULT 0,
	last_reminder_sent TIMESTAMP WITH TIME ZONE,
	group_id UUID,
	group_type VARCHAR(10) CHECK (group_type IN ('daily', 'weekly')),
	data JSONB
);`

const createAppointmentsIndexes = `
CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON appointments(doctor_id, date);
CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id) WHERE patient_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_appointments_open ON appointments(doctor_id, date) WHERE patient_id IS NULL;`

const createSensorsIndexes = `
CREATE INDEX IF NOT EXISTS idx_sensors_mac ON sensors(mac_address);
CREATE INDEX IF NOT EXISTS idx_sensors_record ON sensors(medical_record_id);`

const createNotificationsIndexes = `
CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id, created_at) WHERE is_read = FALSE;
CREATE INDEX IF NOT EXISTS idx_notifications_group ON notifications(group_id) WHERE group_id IS NOT NULL;`

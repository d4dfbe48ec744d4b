package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string    `gorm:"type:varchar(50);not null;index" json:"actor"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actors
const (
	AuditActorAPI       = "api"
	AuditActorScheduler = "scheduler"
	AuditActorCLI       = "cli"
)

// Common audit actions
const (
	AuditActionAppointmentBook    = "appointment.book"
	AuditActionAppointmentStatus  = "appointment.status"
	AuditActionAppointmentDelete  = "appointment.delete"
	AuditActionAppointmentExpire  = "appointment.expire"
	AuditActionAvailabilityCreate = "availability.create"
	AuditActionAvailabilityUpdate = "availability.update"
	AuditActionAvailabilityDelete = "availability.delete"
	AuditActionAvailabilityRoll   = "availability.rollover"
	AuditActionTreatmentCreate    = "treatment.create"
	AuditActionDoctorCreate       = "doctor.create"
	AuditActionDoctorStatus       = "doctor.status"
	AuditActionDoctorDelete       = "doctor.delete"
	AuditActionPatientCreate      = "patient.create"
	AuditActionPatientStatus      = "patient.status"
	AuditActionPatientDelete      = "patient.delete"
)

package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	EndTime      time.Time         `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

// ClockTime is the appointment's start time-of-day as a 24-hour "HH:MM"
// string. The timestamp is authoritative; this value is always derived from
// it and is the form compared against generated slots.
func (a *Appointment) ClockTime() string {
	return a.StartTime.Format("15:04")
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time         `json:"start_time"`
	Status    *AppointmentStatus `json:"status"`
	Notes     *string            `json:"notes"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}

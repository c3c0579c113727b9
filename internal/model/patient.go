package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	Name        string        `db:"name" json:"name"`
	Email       string        `db:"email" json:"email,omitempty"`
	Phone       string        `db:"phone" json:"phone"`
	DateOfBirth *time.Time    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Guardian    string        `db:"guardian" json:"guardian,omitempty"`
	Diagnosis   string        `db:"diagnosis" json:"diagnosis,omitempty"`
	Status      PatientStatus `db:"status" json:"status"`
}

// SessionNote is a clinical note attached to a patient, written after a
// therapy session.
type SessionNote struct {
	Base
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	SessionDate time.Time `db:"session_date" json:"session_date"`
	Content     string    `db:"content" json:"content"`
	Author      string    `db:"author" json:"author,omitempty"`
}

type CreatePatientRequest struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Phone       string     `json:"phone" binding:"required"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Guardian    string     `json:"guardian"`
	Diagnosis   string     `json:"diagnosis"`
}

type UpdatePatientRequest struct {
	Name        *string        `json:"name"`
	Email       *string        `json:"email" binding:"omitempty,email"`
	Phone       *string        `json:"phone"`
	DateOfBirth *time.Time     `json:"date_of_birth"`
	Guardian    *string        `json:"guardian"`
	Diagnosis   *string        `json:"diagnosis"`
	Status      *PatientStatus `json:"status"`
}

type CreateSessionNoteRequest struct {
	SessionDate time.Time `json:"session_date" binding:"required"`
	Content     string    `json:"content" binding:"required"`
	Author      string    `json:"author"`
}

type PatientFilters struct {
	SearchTerm string
	Status     PatientStatus
}

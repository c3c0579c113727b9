package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// AvailabilityRepository stores the clinic's weekly availability
	// configuration. The configuration is a singleton; Get returns nil
	// without error when none has been saved yet.
	AvailabilityRepository interface {
		Get(ctx context.Context) (*model.WeeklyAvailability, error)
		Save(ctx context.Context, cfg *model.WeeklyAvailability) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		GetForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error)
		CountInRange(ctx context.Context, from, to time.Time) (int, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByPhone(ctx context.Context, phone string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		CountActive(ctx context.Context) (int, error)
		AddSessionNote(ctx context.Context, note *model.SessionNote) error
		ListSessionNotes(ctx context.Context, patientID uuid.UUID) ([]*model.SessionNote, error)
	}

	TransactionRepository interface {
		Create(ctx context.Context, txn *model.Transaction) error
		Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
		Update(ctx context.Context, txn *model.Transaction) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.TransactionFilters) ([]*model.Transaction, error)
		Summarize(ctx context.Context, period model.Period) (*model.FinancialSummary, error)
	}

	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)

package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
	"github.com/fonoflow/clinic-api/internal/service/availability"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
	"github.com/fonoflow/clinic-api/pkg/logger"
)

const defaultSessionMinutes = 40

// EmailSender is the slice of the mail service booking needs.
type EmailSender interface {
	SendAppointmentConfirmation(ctx context.Context, to string, patientName string, startTime time.Time) error
	SendAppointmentCancellation(ctx context.Context, to string, patientName string, startTime time.Time, reason string) error
}

// Service books, reschedules and cancels therapy sessions. State changes
// that the chat-automation pipeline cares about are recorded as outbox
// events in the same flow.
type Service struct {
	apptRepo    repository.AppointmentRepository
	patientRepo repository.PatientRepository
	outboxRepo  repository.OutboxRepository
	availabSvc  *availability.Service
	email       EmailSender
	logger      *logger.Logger
}

func NewService(
	apptRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	outboxRepo repository.OutboxRepository,
	availabSvc *availability.Service,
	email EmailSender,
	logger *logger.Logger,
) *Service {
	return &Service{
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		outboxRepo:  outboxRepo,
		availabSvc:  availabSvc,
		email:       email,
		logger:      logger,
	}
}

// Create books a session at the requested start time. The slot must still be
// free for that day; bookings against an already taken time are rejected.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}

	if err := s.ensureSlotFree(ctx, req.StartTime); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		PatientID: req.PatientID,
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(s.sessionDuration(ctx)),
		Status:    model.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}
	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentCreated, appt)
	s.notify(ctx, patient, func() error {
		return s.email.SendAppointmentConfirmation(ctx, patient.Email, patient.Name, appt.StartTime)
	})

	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.apptRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.apptRepo.List(ctx, filters)
}

// Update applies partial changes. Rescheduling re-checks the target slot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.apptRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if appt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewBadRequest("cannot update a cancelled appointment", nil)
	}

	if req.StartTime != nil && !req.StartTime.Equal(appt.StartTime) {
		if err := s.ensureSlotFree(ctx, *req.StartTime); err != nil {
			return nil, err
		}
		duration := appt.EndTime.Sub(appt.StartTime)
		appt.StartTime = *req.StartTime
		appt.EndTime = req.StartTime.Add(duration)
	}
	if req.Status != nil {
		if *req.Status == model.AppointmentStatusCancelled {
			return nil, apperrors.NewBadRequest("use the cancel operation to cancel an appointment", nil)
		}
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}

	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appt, nil
}

// Cancel marks the appointment cancelled and frees its slot. Cancelling an
// already cancelled appointment is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	appt, err := s.apptRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if appt.Status == model.AppointmentStatusCancelled {
		return appt, nil
	}

	appt.Status = model.AppointmentStatusCancelled
	if reason != "" {
		appt.CancelReason = &reason
	}
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.emitEvent(ctx, model.EventAppointmentCancelled, appt)
	if patient, perr := s.patientRepo.Get(ctx, appt.PatientID); perr == nil {
		s.notify(ctx, patient, func() error {
			return s.email.SendAppointmentCancellation(ctx, patient.Email, patient.Name, appt.StartTime, reason)
		})
	}

	return appt, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.apptRepo.Delete(ctx, id); err != nil {
		return apperrors.NewNotFound("appointment", err)
	}
	return nil
}

// ensureSlotFree rejects a start time that collides with an active
// appointment on the same day. Comparison is by clock time, matching how
// slots are offered.
func (s *Service) ensureSlotFree(ctx context.Context, startTime time.Time) error {
	existing, err := s.apptRepo.GetForDay(ctx, startTime)
	if err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	want := startTime.Format("15:04")
	for _, other := range existing {
		if other.ClockTime() == want {
			return apperrors.NewBadRequest(fmt.Sprintf("slot %s is already booked", want), nil)
		}
	}
	return nil
}

func (s *Service) sessionDuration(ctx context.Context) time.Duration {
	cfg, err := s.availabSvc.GetSettings(ctx)
	if err != nil || cfg == nil || cfg.SessionDuration <= 0 {
		return defaultSessionMinutes * time.Minute
	}
	return time.Duration(cfg.SessionDuration) * time.Minute
}

// emitEvent records an outbox event; publication happens asynchronously in
// the outbox worker. A failed write is logged, not surfaced, so booking
// never fails on the side channel.
func (s *Service) emitEvent(ctx context.Context, eventType string, appt *model.Appointment) {
	payload, err := json.Marshal(appt)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event", map[string]interface{}{
			"appointment_id": appt.ID,
			"event_type":     eventType,
		})
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record outbox event", map[string]interface{}{
			"appointment_id": appt.ID,
			"event_type":     eventType,
		})
	}
}

func (s *Service) notify(ctx context.Context, patient *model.Patient, send func() error) {
	if s.email == nil || patient.Email == "" {
		return
	}
	if err := send(); err != nil {
		s.logger.Error(err, "failed to send appointment email", map[string]interface{}{
			"patient_id": patient.ID,
		})
	}
}

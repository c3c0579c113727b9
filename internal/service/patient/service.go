package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
)

// Service manages the patient registry and per-patient session notes.
type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Guardian:    req.Guardian,
		Diagnosis:   req.Diagnosis,
		Status:      model.PatientStatusActive,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}
	return patient, nil
}

// GetByPhone looks a patient up by phone number. The chat-automation flow
// identifies patients this way.
func (s *Service) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	patient, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Guardian != nil {
		patient.Guardian = *req.Guardian
	}
	if req.Diagnosis != nil {
		patient.Diagnosis = *req.Diagnosis
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewNotFound("patient", err)
	}
	return nil
}

func (s *Service) AddSessionNote(ctx context.Context, patientID uuid.UUID, req *model.CreateSessionNoteRequest) (*model.SessionNote, error) {
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return nil, apperrors.NewNotFound("patient", err)
	}

	note := &model.SessionNote{
		PatientID:   patientID,
		SessionDate: req.SessionDate,
		Content:     req.Content,
		Author:      req.Author,
	}
	if err := s.repo.AddSessionNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to add session note: %w", err)
	}
	return note, nil
}

func (s *Service) ListSessionNotes(ctx context.Context, patientID uuid.UUID) ([]*model.SessionNote, error) {
	return s.repo.ListSessionNotes(ctx, patientID)
}

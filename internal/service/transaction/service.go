package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
)

// Service manages the clinic ledger.
type Service struct {
	repo repository.TransactionRepository
}

func NewService(repo repository.TransactionRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.Transaction, error) {
	txn := &model.Transaction{
		PatientID:   req.PatientID,
		Type:        req.Type,
		Status:      req.Status,
		AmountCents: req.AmountCents,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("transaction", err)
	}
	return txn, nil
}

func (s *Service) List(ctx context.Context, filters *model.TransactionFilters) ([]*model.Transaction, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTransactionRequest) (*model.Transaction, error) {
	txn, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("transaction", err)
	}

	if req.Status != nil {
		txn.Status = *req.Status
	}
	if req.AmountCents != nil {
		if *req.AmountCents <= 0 {
			return nil, apperrors.NewBadRequest("amount must be positive", nil)
		}
		txn.AmountCents = *req.AmountCents
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.OccurredAt != nil {
		txn.OccurredAt = *req.OccurredAt
	}

	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return txn, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewNotFound("transaction", err)
	}
	return nil
}

// Summarize aggregates paid income, paid expenses and pending income for a
// period.
func (s *Service) Summarize(ctx context.Context, period model.Period) (*model.FinancialSummary, error) {
	summary, err := s.repo.Summarize(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return summary, nil
}

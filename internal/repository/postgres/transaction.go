package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
)

type transactionRepository struct {
	BaseRepository
}

func NewTransactionRepository(base BaseRepository) repository.TransactionRepository {
	return &transactionRepository{base}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, patient_id, type, status, amount_cents, description,
			occurred_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	txn.ID = uuid.New()
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.PatientID,
		txn.Type,
		txn.Status,
		txn.AmountCents,
		txn.Description,
		txn.OccurredAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	query := `
		SELECT id, patient_id, type, status, amount_cents, description,
			   occurred_at, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`
	var txn model.Transaction
	err := r.db.GetContext(ctx, &txn, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *model.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1, amount_cents = $2, description = $3,
			occurred_at = $4, updated_at = $5
		WHERE id = $6
	`
	txn.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		txn.Status,
		txn.AmountCents,
		txn.Description,
		txn.OccurredAt,
		txn.UpdatedAt,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction not found")
	}

	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction not found")
	}

	return nil
}

func (r *transactionRepository) List(ctx context.Context, filters *model.TransactionFilters) ([]*model.Transaction, error) {
	query := `
		SELECT id, patient_id, type, status, amount_cents, description,
			   occurred_at, created_at, updated_at
		FROM transactions
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, filters.Type)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.Period.From.IsZero() {
		query += fmt.Sprintf(" AND occurred_at >= $%d", argCount)
		args = append(args, filters.Period.From)
		argCount++
	}

	if !filters.Period.To.IsZero() {
		query += fmt.Sprintf(" AND occurred_at <= $%d", argCount)
		args = append(args, filters.Period.To)
		argCount++
	}

	query += " ORDER BY occurred_at DESC"

	var txns []*model.Transaction
	err := r.db.SelectContext(ctx, &txns, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (r *transactionRepository) Summarize(ctx context.Context, period model.Period) (*model.FinancialSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE type = 'income' AND status = 'paid'), 0) AS income_cents,
			COALESCE(SUM(amount_cents) FILTER (WHERE type = 'expense'), 0) AS expense_cents,
			COALESCE(SUM(amount_cents) FILTER (WHERE type = 'income' AND status = 'pending'), 0) AS pending_cents
		FROM transactions
		WHERE occurred_at >= $1
		AND occurred_at <= $2
	`
	var summary model.FinancialSummary
	err := r.db.GetContext(ctx, &summary, query, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return &summary, nil
}

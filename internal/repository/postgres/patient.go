package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, email, phone, date_of_birth, guardian, diagnosis,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Guardian,
		patient.Diagnosis,
		patient.Status,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, name, email, phone, date_of_birth, guardian, diagnosis,
			   status, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	query := `
		SELECT id, name, email, phone, date_of_birth, guardian, diagnosis,
			   status, created_at, updated_at
		FROM patients
		WHERE phone = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by phone: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, email = $2, phone = $3, date_of_birth = $4,
			guardian = $5, diagnosis = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Guardian,
		patient.Diagnosis,
		patient.Status,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}

	return nil
}

// Delete removes the patient and their session notes in one transaction.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_notes WHERE patient_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete session notes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("patient not found")
		}

		return nil
	})
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `
		SELECT id, name, email, phone, date_of_birth, guardian, diagnosis,
			   status, created_at, updated_at
		FROM patients
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) CountActive(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM patients
		WHERE status = 'active'
	`
	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count active patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) AddSessionNote(ctx context.Context, note *model.SessionNote) error {
	query := `
		INSERT INTO session_notes (
			id, patient_id, session_date, content, author,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	note.ID = uuid.New()
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.PatientID,
		note.SessionDate,
		note.Content,
		note.Author,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add session note: %w", err)
	}
	return nil
}

func (r *patientRepository) ListSessionNotes(ctx context.Context, patientID uuid.UUID) ([]*model.SessionNote, error) {
	query := `
		SELECT id, patient_id, session_date, content, author,
			   created_at, updated_at
		FROM session_notes
		WHERE patient_id = $1
		ORDER BY session_date DESC
	`
	var notes []*model.SessionNote
	err := r.db.SelectContext(ctx, &notes, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session notes: %w", err)
	}
	return notes, nil
}

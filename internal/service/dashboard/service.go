package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
)

// Service assembles the KPI figures shown on the staff dashboard.
type Service struct {
	patientRepo repository.PatientRepository
	apptRepo    repository.AppointmentRepository
	txnRepo     repository.TransactionRepository
}

func NewService(
	patientRepo repository.PatientRepository,
	apptRepo repository.AppointmentRepository,
	txnRepo repository.TransactionRepository,
) *Service {
	return &Service{
		patientRepo: patientRepo,
		apptRepo:    apptRepo,
		txnRepo:     txnRepo,
	}
}

// GetStats gathers the three aggregates concurrently; they hit independent
// tables.
func (s *Service) GetStats(ctx context.Context, period model.Period) (*model.DashboardStats, error) {
	var (
		wg       sync.WaitGroup
		patients int
		appts    int
		summary  *model.FinancialSummary

		patientErr error
		apptErr    error
		txnErr     error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		patients, patientErr = s.patientRepo.CountActive(ctx)
	}()
	go func() {
		defer wg.Done()
		appts, apptErr = s.apptRepo.CountInRange(ctx, period.From, period.To)
	}()
	go func() {
		defer wg.Done()
		summary, txnErr = s.txnRepo.Summarize(ctx, period)
	}()
	wg.Wait()

	if patientErr != nil {
		return nil, fmt.Errorf("failed to count active patients: %w", patientErr)
	}
	if apptErr != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", apptErr)
	}
	if txnErr != nil {
		return nil, fmt.Errorf("failed to summarize finances: %w", txnErr)
	}

	stats := &model.DashboardStats{
		ActivePatients:      patients,
		AppointmentsInRange: appts,
	}
	if summary != nil {
		stats.Financial = *summary
	}
	return stats, nil
}

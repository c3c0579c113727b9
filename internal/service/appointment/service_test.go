package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonoflow/clinic-api/internal/model"
	availabilityService "github.com/fonoflow/clinic-api/internal/service/availability"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
	"github.com/fonoflow/clinic-api/pkg/logger"
)

type fakeApptRepo struct {
	byID    map[uuid.UUID]*model.Appointment
	forDay  []*model.Appointment
	created []*model.Appointment
	updated []*model.Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeApptRepo) Create(ctx context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	r.byID[a.ID] = a
	r.created = append(r.created, a)
	return nil
}

func (r *fakeApptRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return a, nil
}

func (r *fakeApptRepo) Update(ctx context.Context, a *model.Appointment) error {
	r.byID[a.ID] = a
	r.updated = append(r.updated, a)
	return nil
}

func (r *fakeApptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeApptRepo) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeApptRepo) GetForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return r.forDay, nil
}

func (r *fakeApptRepo) CountInRange(ctx context.Context, from, to time.Time) (int, error) {
	return 0, nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (r *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if r.patient == nil || r.patient.ID != id {
		return nil, errors.New("no rows")
	}
	return r.patient, nil
}
func (r *fakePatientRepo) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	return r.patient, nil
}
func (r *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakePatientRepo) List(ctx context.Context, f *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}
func (r *fakePatientRepo) CountActive(ctx context.Context) (int, error) { return 0, nil }
func (r *fakePatientRepo) AddSessionNote(ctx context.Context, n *model.SessionNote) error {
	return nil
}
func (r *fakePatientRepo) ListSessionNotes(ctx context.Context, id uuid.UUID) ([]*model.SessionNote, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (r *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, msg *string) error {
	return nil
}
func (r *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeConfigRepo struct {
	cfg *model.WeeklyAvailability
}

func (r *fakeConfigRepo) Get(ctx context.Context) (*model.WeeklyAvailability, error) {
	return r.cfg, nil
}
func (r *fakeConfigRepo) Save(ctx context.Context, cfg *model.WeeklyAvailability) error {
	return nil
}

type fakeEmail struct {
	confirmations int
	cancellations int
}

func (e *fakeEmail) SendAppointmentConfirmation(ctx context.Context, to, name string, start time.Time) error {
	e.confirmations++
	return nil
}
func (e *fakeEmail) SendAppointmentCancellation(ctx context.Context, to, name string, start time.Time, reason string) error {
	e.cancellations++
	return nil
}

type fixture struct {
	svc     *Service
	appts   *fakeApptRepo
	outbox  *fakeOutboxRepo
	email   *fakeEmail
	patient *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	patient := &model.Patient{
		Base:   model.Base{ID: uuid.New()},
		Name:   "Ana Souza",
		Email:  "ana@example.com",
		Phone:  "+5511999990000",
		Status: model.PatientStatusActive,
	}
	appts := newFakeApptRepo()
	outbox := &fakeOutboxRepo{}
	email := &fakeEmail{}
	availabilitySvc := availabilityService.NewService(
		&fakeConfigRepo{cfg: &model.WeeklyAvailability{SessionDuration: 40}},
		appts,
		time.Minute,
	)
	svc := NewService(appts, &fakePatientRepo{patient: patient}, outbox, availabilitySvc, email, logger.NewLogger(nil))
	return &fixture{svc: svc, appts: appts, outbox: outbox, email: email, patient: patient}
}

var bookingTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestCreateBooksSlot(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, bookingTime.Add(40*time.Minute), appt.EndTime)
	assert.Equal(t, 1, f.email.confirmations)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, f.outbox.events[0].EventType)
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	f.appts.forDay = []*model.Appointment{{StartTime: bookingTime}}

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Empty(t, f.outbox.events)
}

func TestCreateUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		StartTime: bookingTime,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCancelEmitsEvent(t *testing.T) {
	f := newFixture(t)
	appt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), appt.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "patient request", *cancelled.CancelReason)
	assert.Equal(t, 1, f.email.cancellations)

	require.Len(t, f.outbox.events, 2)
	assert.Equal(t, model.EventAppointmentCancelled, f.outbox.events[1].EventType)
}

func TestCancelTwiceIsNoOp(t *testing.T) {
	f := newFixture(t)
	appt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), appt.ID, "second")
	require.NoError(t, err)

	assert.Len(t, f.outbox.events, 2)
	assert.Equal(t, 1, f.email.cancellations)
}

func TestUpdateRejectsCancelled(t *testing.T) {
	f := newFixture(t)
	appt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID, "")
	require.NoError(t, err)

	notes := "follow up"
	_, err = f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{Notes: &notes})
	require.Error(t, err)
}

func TestUpdateReschedulesKeepingDuration(t *testing.T) {
	f := newFixture(t)
	appt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patient.ID,
		StartTime: bookingTime,
	})
	require.NoError(t, err)

	newStart := bookingTime.Add(2 * time.Hour)
	updated, err := f.svc.Update(context.Background(), appt.ID, &model.UpdateAppointmentRequest{StartTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.StartTime)
	assert.Equal(t, newStart.Add(40*time.Minute), updated.EndTime)
}

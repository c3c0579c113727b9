package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonoflow/clinic-api/internal/model"
	availabilityService "github.com/fonoflow/clinic-api/internal/service/availability"
)

type stubConfigRepo struct {
	cfg *model.WeeklyAvailability
}

func (s *stubConfigRepo) Get(ctx context.Context) (*model.WeeklyAvailability, error) {
	return s.cfg, nil
}

func (s *stubConfigRepo) Save(ctx context.Context, cfg *model.WeeklyAvailability) error {
	s.cfg = cfg
	return nil
}

type stubApptRepo struct {
	forDay []*model.Appointment
}

func (s *stubApptRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }
func (s *stubApptRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, errors.New("no rows")
}
func (s *stubApptRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }
func (s *stubApptRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (s *stubApptRepo) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubApptRepo) GetForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return s.forDay, nil
}
func (s *stubApptRepo) CountInRange(ctx context.Context, from, to time.Time) (int, error) {
	return 0, nil
}

func setupRouter(configRepo *stubConfigRepo, apptRepo *stubApptRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := availabilityService.NewService(configRepo, apptRepo, time.Minute)
	h := NewHandler(svc)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func mondayConfig() *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		SessionDuration: 30,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
		},
	}
}

func TestGetDayAvailabilityByISODate(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{cfg: mondayConfig()}, &stubApptRepo{})

	// 2026-03-02 is a Monday.
	rec, body := doRequest(engine, http.MethodGet, "/api/v1/availability?date=2026-03-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "2026-03-02", data["date"])
	assert.Equal(t, "monday", data["day"])
	assert.Equal(t,
		[]interface{}{"08:00", "08:30", "09:00", "09:30"},
		data["available_slots"])
}

func TestGetDayAvailabilityInvalidSpecifier(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{cfg: mondayConfig()}, &stubApptRepo{})

	rec, body := doRequest(engine, http.MethodGet, "/api/v1/availability?date=someday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "YYYY-MM-DD")
}

func TestGetDayAvailabilityNoConfiguration(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{}, &stubApptRepo{})

	rec, body := doRequest(engine, http.MethodGet, "/api/v1/availability?date=2026-03-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["message"])
	assert.Empty(t, data["available_slots"])
}

func TestGetSettingsEmpty(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{}, &stubApptRepo{})

	rec, body := doRequest(engine, http.MethodGet, "/api/v1/availability/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	repo := &stubConfigRepo{}
	engine := setupRouter(repo, &stubApptRepo{})

	payload := `{
		"session_duration": 60,
		"days": {
			"monday": {"active": true, "ranges": [{"start": "09:00", "end": "12:00"}]}
		}
	}`
	rec, body := doRequest(engine, http.MethodPut, "/api/v1/availability/settings", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	require.NotNil(t, repo.cfg)
	assert.Equal(t, 60, repo.cfg.SessionDuration)

	rec, body = doRequest(engine, http.MethodGet, "/api/v1/availability/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 60, data["session_duration"])
}

func TestUpdateSettingsRejectsInvalidPayload(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{}, &stubApptRepo{})

	rec, body := doRequest(engine, http.MethodPut, "/api/v1/availability/settings", `{"session_duration": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestUpdateSettingsRejectsInvertedRange(t *testing.T) {
	engine := setupRouter(&stubConfigRepo{}, &stubApptRepo{})

	payload := `{
		"session_duration": 30,
		"days": {
			"monday": {"active": true, "ranges": [{"start": "12:00", "end": "09:00"}]}
		}
	}`
	rec, body := doRequest(engine, http.MethodPut, "/api/v1/availability/settings", payload)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "error", body["status"])
}

package webhook

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fonoflow/clinic-api/internal/handler"
	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/service/appointment"
	"github.com/fonoflow/clinic-api/internal/service/availability"
	"github.com/fonoflow/clinic-api/internal/service/patient"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
)

// Handler serves the chat-automation surface. The conversational flow asks
// for a day in natural language ("terça", "amanhã"), shows the free slots
// and books one of them, identifying the patient by phone number.
type Handler struct {
	availabilitySvc *availability.Service
	appointmentSvc  *appointment.Service
	patientSvc      *patient.Service
}

func NewHandler(
	availabilitySvc *availability.Service,
	appointmentSvc *appointment.Service,
	patientSvc *patient.Service,
) *Handler {
	return &Handler{
		availabilitySvc: availabilitySvc,
		appointmentSvc:  appointmentSvc,
		patientSvc:      patientSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
	r.POST("/bookings", h.CreateBooking)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	specifier := c.Query("date")
	if specifier == "" {
		specifier = "hoje"
	}

	day, err := h.availabilitySvc.GetDayAvailability(c.Request.Context(), specifier)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": day})
}

type bookingRequest struct {
	Phone string `json:"phone" binding:"required"`
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Notes string `json:"notes" binding:"max=1000"`
}

// CreateBooking books a slot for the patient matching the phone number. The
// date field accepts the same specifiers as the availability query.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	date, err := availability.ResolveDateSpecifier(req.Date, time.Now())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	clock, err := time.Parse("15:04", req.Time)
	if err != nil {
		handler.RespondError(c, apperrors.NewBadRequest(fmt.Sprintf("invalid time %q, expected HH:MM", req.Time), nil))
		return
	}

	p, err := h.patientSvc.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	startTime := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location(),
	)
	appt, err := h.appointmentSvc.Create(c.Request.Context(), &model.CreateAppointmentRequest{
		PatientID: p.ID,
		StartTime: startTime,
		Notes:     req.Notes,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": appt})
}

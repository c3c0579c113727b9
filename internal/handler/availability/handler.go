package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fonoflow/clinic-api/internal/handler"
	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	avail := r.Group("/availability")
	{
		avail.GET("", h.GetDayAvailability)
		avail.GET("/settings", h.GetSettings)
		avail.PUT("/settings", h.UpdateSettings)
	}
}

// GetDayAvailability resolves the date query parameter, which accepts an ISO
// date, a weekday name or a relative token, and returns the free slots for
// that day.
func (h *Handler) GetDayAvailability(c *gin.Context) {
	specifier := c.Query("date")
	if specifier == "" {
		specifier = "hoje"
	}

	day, err := h.service.GetDayAvailability(c.Request.Context(), specifier)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": day})
}

func (h *Handler) GetSettings(c *gin.Context) {
	cfg, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, &handler.Response{
			Status:  "success",
			Message: "no availability configured yet",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": cfg})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	cfg, err := h.service.SaveSettings(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": cfg})
}

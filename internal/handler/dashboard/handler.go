package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fonoflow/clinic-api/internal/handler"
	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/service/dashboard"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/stats", h.GetStats)
}

// GetStats returns the KPI aggregates for a period, defaulting to the
// current month.
func (h *Handler) GetStats(c *gin.Context) {
	now := time.Now()
	period := model.Period{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
	}
	period.To = period.From.AddDate(0, 1, 0)

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		period.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		period.To = parsed.AddDate(0, 0, 1)
	}

	stats, err := h.service.GetStats(c.Request.Context(), period)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}

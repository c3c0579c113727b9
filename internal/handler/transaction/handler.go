package transaction

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fonoflow/clinic-api/internal/handler"
	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/service/transaction"
)

type Handler struct {
	service *transaction.Service
}

func NewHandler(service *transaction.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	txns := r.Group("/transactions")
	{
		txns.POST("", h.CreateTransaction)
		txns.GET("", h.ListTransactions)
		txns.GET("/summary", h.GetSummary)
		txns.GET("/:id", h.GetTransaction)
		txns.PUT("/:id", h.UpdateTransaction)
		txns.DELETE("/:id", h.DeleteTransaction)
	}
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	txn, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": txn})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid transaction ID"})
		return
	}

	txn, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": txn})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	filters := &model.TransactionFilters{}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid patient ID"})
			return
		}
		filters.PatientID = patientID
	}
	if t := c.Query("type"); t != "" {
		filters.Type = model.TransactionType(t)
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.TransactionStatus(status)
	}
	period, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	filters.Period = period

	txns, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": txns})
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid transaction ID"})
		return
	}

	var req model.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	txn, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": txn})
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid transaction ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetSummary aggregates the ledger for a period. Defaults to the current
// month when no range is given.
func (h *Handler) GetSummary(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if period.From.IsZero() || period.To.IsZero() {
		period = currentMonth()
	}

	summary, err := h.service.Summarize(c.Request.Context(), period)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": summary})
}

func parsePeriod(c *gin.Context) (model.Period, error) {
	var period model.Period
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return period, err
		}
		period.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return period, err
		}
		// Inclusive end date.
		period.To = parsed.AddDate(0, 0, 1)
	}
	return period, nil
}

func currentMonth() model.Period {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return model.Period{From: from, To: from.AddDate(0, 1, 0)}
}

package payment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
	loc  *time.Location
}

func NewHandler(db *sqlx.DB, loc *time.Location) *Handler {
	return &Handler{repo: NewRepository(db), loc: loc}
}

// PaymentView is a ledger row with its derived status applied.
type PaymentView struct {
	MonthlyPayment
	EffectiveStatus Status `json:"effective_status"`
}

func (h *Handler) today() time.Time {
	return DayStart(time.Now().In(h.loc))
}

func viewsOf(payments []MonthlyPayment, today time.Time) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{MonthlyPayment: p, EffectiveStatus: p.EffectiveStatus(today)})
	}
	return views
}

// @Summary      List a member's payments
// @Tags         payments
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {array} PaymentView
// @Router       /admin/members/{memberID}/payments [get]
func (h *Handler) ListByMember(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	payments, err := h.repo.ListByMember(c.Request.Context(), gymID, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, viewsOf(payments, h.today()))
}

// @Summary      List gym payments, optionally by status
// @Tags         payments
// @Produce      json
// @Param        status query string false "pending, overdue or paid"
// @Success      200 {array} PaymentView
// @Router       /admin/payments [get]
func (h *Handler) ListByGym(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := Status(c.Query("status"))
	switch status {
	case "", StatusPending, StatusOverdue, StatusPaid:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	payments, err := h.repo.ListByGym(c.Request.Context(), gymID, status, h.today())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, viewsOf(payments, h.today()))
}

// @Summary      Register a payment
// @Description  Marks a pending charge as paid. This is the manual action at the front desk; the engine never does this.
// @Tags         payments
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/payments/{id}/pay [post]
func (h *Handler) RegisterPayment(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	if err := h.repo.MarkPaid(c.Request.Context(), gymID, id, time.Now().In(h.loc)); err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		case errors.Is(err, ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "payment already registered"})
		default:
			logger.Errorf("Failed to register payment %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register payment"})
		}
		return
	}

	metrics.RecordPaymentRegistered()
	logger.Info("Payment registered", "payment_id", id, "gym_id", gymID)
	c.JSON(http.StatusOK, gin.H{"message": "payment registered"})
}

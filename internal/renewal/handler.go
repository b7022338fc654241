package renewal

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/activity"
	"gymdesk/internal/auth"
	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/membership"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
	email   *email.Service
}

func NewHandler(db *sqlx.DB, loc *time.Location, throttle time.Duration, emailService *email.Service) *Handler {
	memberships := membership.NewRepository(db)
	prices := activity.NewPriceResolver(activity.NewRepository(db))
	history := NewHistoryRepository(db)

	return &Handler{
		service: NewService(memberships, prices, history, loc, throttle),
		email:   emailService,
	}
}

// NewHandlerWithService wires an already-built service, used by the login
// trigger and by tests.
func NewHandlerWithService(service Service, emailService *email.Service) *Handler {
	return &Handler{service: service, email: emailService}
}

func (h *Handler) Service() Service {
	return h.service
}

// @Summary      Run the auto-renewal batch
// @Description  Renews every expired auto-renewal membership of the gym's active members. Partial failures are reported per membership; rerunning is safe.
// @Tags         renewals
// @Produce      json
// @Success      200 {object} Result
// @Router       /admin/renewals/run [post]
func (h *Handler) RunBatch(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result := h.service.ProcessAllAutoRenewals(c.Request.Context(), gymID)

	h.notifyAdmin(c, gymID, result)

	c.JSON(http.StatusOK, result)
}

// @Summary      Renew one membership now
// @Tags         renewals
// @Produce      json
// @Param        id path int true "Membership ID"
// @Success      200 {object} Detail
// @Failure      422 {object} Detail
// @Router       /admin/memberships/{id}/renew [post]
func (h *Handler) RenewOne(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership id"})
		return
	}

	detail := h.service.RenewMembership(c.Request.Context(), gymID, id)
	if !detail.Renewed {
		c.JSON(http.StatusUnprocessableEntity, detail)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary      Memberships expiring soon
// @Tags         renewals
// @Produce      json
// @Param        days query int false "Days ahead (default 7)"
// @Success      200 {array} membership.MembershipWithMember
// @Router       /admin/renewals/upcoming [get]
func (h *Handler) Upcoming(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	memberships, err := h.service.UpcomingRenewals(c.Request.Context(), gymID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load upcoming renewals"})
		return
	}

	c.JSON(http.StatusOK, memberships)
}

// @Summary      Renewal run history
// @Tags         renewals
// @Produce      json
// @Param        limit query int false "Max entries (default 20)"
// @Success      200 {array} HistoryEntry
// @Router       /admin/renewals/history [get]
func (h *Handler) History(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.service.History(c.Request.Context(), gymID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load renewal history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) notifyAdmin(c *gin.Context, gymID int, result *Result) {
	if h.email == nil || result.RenewedCount == 0 && len(result.Errors) == 0 {
		return
	}

	adminEmail, _ := c.Get("user_email")
	to, ok := adminEmail.(string)
	if !ok || to == "" {
		return
	}

	subject := fmt.Sprintf("Renewal run: %d renewed, %d errors", result.RenewedCount, len(result.Errors))
	body := fmt.Sprintf(
		"Auto-renewal finished for gym %d.\n\nRenewed memberships: %d\nTotal billed: %d cents\nPrice updates: %d\nErrors: %d\n",
		gymID, result.RenewedCount, result.TotalAmountCents, result.PriceUpdateCount, len(result.Errors),
	)

	if err := h.email.Send(c.Request.Context(), to, "Administrator", subject, body); err != nil {
		logger.Errorf("Failed to queue renewal summary email: %v", err)
	}
}

package membership

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/activity"
	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo         Repository
	memberRepo   member.Repository
	activityRepo activity.Repository
	resolver     activity.PriceResolver
	loc          *time.Location
}

func NewHandler(db *sqlx.DB, loc *time.Location) *Handler {
	activityRepo := activity.NewRepository(db)
	return &Handler{
		repo:         NewRepository(db),
		memberRepo:   member.NewRepository(db),
		activityRepo: activityRepo,
		resolver:     activity.NewPriceResolver(activityRepo),
		loc:          loc,
	}
}

type AssignActivityRequest struct {
	ActivityID     int  `json:"activity_id" binding:"required"`
	AutoRenewal    bool `json:"auto_renewal"`
	MaxAttendances int  `json:"max_attendances" binding:"omitempty,gte=0"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=active paused cancelled"`
}

type SetAutoRenewalRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// @Summary      Assign an activity to a member
// @Description  Creates the membership and, when the activity has a price, the prorated first charge.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Param        body body AssignActivityRequest true "Assignment"
// @Success      201 {object} Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/members/{memberID}/memberships [post]
func (h *Handler) AssignActivity(c *gin.Context) {
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

	var req AssignActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.memberRepo.GetByID(ctx, gymID, memberID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	act, err := h.activityRepo.GetByID(ctx, gymID, req.ActivityID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}

	var cost int64
	if price, err := h.resolver.CurrentPriceCents(ctx, gymID, req.ActivityID); err == nil && price != nil {
		cost = *price
	}

	ms, err := h.repo.AssignActivity(ctx, gymID, AssignParams{
		MemberID:       memberID,
		ActivityID:     act.ID,
		ActivityName:   act.Name,
		CostCents:      cost,
		AutoRenewal:    req.AutoRenewal,
		MaxAttendances: req.MaxAttendances,
		AssignedAt:     time.Now().In(h.loc),
	})
	if err != nil {
		logger.Errorf("Failed to assign activity %d to member %d: %v", req.ActivityID, memberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign activity"})
		return
	}

	if cost > 0 {
		metrics.RecordPaymentGenerated("assignment")
	}
	logger.Info("Activity assigned",
		"gym_id", gymID,
		"member_id", memberID,
		"membership_id", ms.ID,
		"cost_cents", cost,
	)

	c.JSON(http.StatusCreated, ms)
}

// @Summary      List a member's memberships
// @Tags         memberships
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {array} Membership
// @Router       /admin/members/{memberID}/memberships [get]
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

	memberships, err := h.repo.ListByMember(c.Request.Context(), gymID, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load memberships"})
		return
	}
	c.JSON(http.StatusOK, memberships)
}

// @Summary      Change membership status
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        id path int true "Membership ID"
// @Param        body body SetStatusRequest true "New status"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/memberships/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	gymID, id, ok := h.scope(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetStatus(c.Request.Context(), gymID, id, req.Status); err != nil {
		h.respondUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// @Summary      Toggle auto-renewal
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        id path int true "Membership ID"
// @Param        body body SetAutoRenewalRequest true "Flag"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/memberships/{id}/auto-renewal [patch]
func (h *Handler) SetAutoRenewal(c *gin.Context) {
	gymID, id, ok := h.scope(c)
	if !ok {
		return
	}

	var req SetAutoRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetAutoRenewal(c.Request.Context(), gymID, id, *req.Enabled); err != nil {
		h.respondUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "auto-renewal updated"})
}

// @Summary      Record an attendance
// @Tags         memberships
// @Produce      json
// @Param        id path int true "Membership ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/memberships/{id}/attendance [post]
func (h *Handler) RecordAttendance(c *gin.Context) {
	gymID, id, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.repo.IncrementAttendance(c.Request.Context(), gymID, id); err != nil {
		h.respondUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (h *Handler) scope(c *gin.Context) (gymID, id int, ok bool) {
	gymID, found := auth.GetGymID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, 0, false
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership id"})
		return 0, 0, false
	}

	return gymID, id, true
}

func (h *Handler) respondUpdateError(c *gin.Context, err error) {
	if errors.Is(err, ErrMembershipNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "membership not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update membership"})
}

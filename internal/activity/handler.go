package activity

import (
	"net/http"
	"strconv"

	"gymdesk/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

type CreateActivityRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents *int64 `json:"price_cents" binding:"omitempty,gt=0"`
}

type CreatePlanRequest struct {
	ActivityID int    `json:"activity_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	CostCents  int64  `json:"cost_cents" binding:"required,gt=0"`
}

// @Summary      Create an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        body body CreateActivityRequest true "Activity"
// @Success      201 {object} Activity
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/activities [post]
func (h *Handler) CreateActivity(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.repo.CreateActivity(c.Request.Context(), gymID, req.Name, req.PriceCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create activity"})
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Success      200 {array} Activity
// @Router       /admin/activities [get]
func (h *Handler) ListActivities(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	activities, err := h.repo.ListByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activities"})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// @Summary      Create a membership plan for an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        body body CreatePlanRequest true "Plan"
// @Success      201 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.repo.CreatePlan(c.Request.Context(), gymID, req.ActivityID, req.Name, req.CostCents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Resolve the current price of an activity
// @Tags         activities
// @Produce      json
// @Param        activityID path int true "Activity ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/activities/{activityID}/price [get]
func (h *Handler) GetCurrentPrice(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("activityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	price, err := NewPriceResolver(h.repo).CurrentPriceCents(c.Request.Context(), gymID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve price"})
		return
	}
	if price == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current price for activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity_id": id, "price_cents": *price})
}

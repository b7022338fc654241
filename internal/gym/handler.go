package gym

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

type CreateGymRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// @Summary      Create a gym
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Param        body body CreateGymRequest true "Gym"
// @Success      201 {object} Gym
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.repo.CreateGym(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

// @Summary      List gyms
// @Tags         gyms
// @Produce      json
// @Success      200 {array} Gym
// @Router       /admin/gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.repo.GetAllGyms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load gyms"})
		return
	}
	c.JSON(http.StatusOK, gyms)
}

// @Summary      Get a gym
// @Tags         gyms
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} Gym
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID} [get]
func (h *Handler) GetGym(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}

	g, err := h.repo.GetGymByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gym not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

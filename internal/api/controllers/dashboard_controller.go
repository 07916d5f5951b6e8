package controllers

import (
	"github.com/gin-gonic/gin"

	"voyago/internal/services"
	"voyago/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
}

func NewDashboardController(dashboardService services.DashboardServiceInterface) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetStats godoc
// @Summary Operational statistics
// @Description Admin-only totals plus live generation counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response_models.DashboardStats
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.dashboardService.BuildStats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Dashboard stats retrieved successfully")
}
